// Package draftcache persists the in-progress trip draft per user so a
// planning session survives restarts. Entries older than TTL are ignored.
//
// The cache only affects resumability: every read or write failure is logged
// and swallowed, and callers fall back to a default draft.
package draftcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pkordes/voyager/internal/domain"
	"github.com/pkordes/voyager/internal/repo"
)

// Namespace prefixes every cache key.
const Namespace = "voyager-trip-form-cache"

// TTL is the age at which a cached draft is treated as absent.
const TTL = 24 * time.Hour

// Key returns the storage key for userID. The anonymous user ("") uses the
// bare namespace.
func Key(userID string) string {
	if userID == "" {
		return Namespace
	}
	return Namespace + "_" + userID
}

// record is the stored JSON shape. SavedAt is epoch milliseconds.
type record struct {
	TripName             string                       `json:"tripName"`
	Destination          string                       `json:"destination"`
	SpecificDestinations []domain.SpecificDestination `json:"specificDestinations"`
	StartDate            *string                      `json:"startDate"`
	EndDate              *string                      `json:"endDate"`
	CalMonth             int                          `json:"calMonth"`
	CalYear              int                          `json:"calYear"`
	Currency             domain.Currency              `json:"currency"`
	BudgetAmount         int                          `json:"budgetAmount"`
	Companions           domain.Companions            `json:"companions"`
	NumberOfPeople       int                          `json:"numberOfPeople"`
	SavedAt              int64                        `json:"savedAt"`
}

func optDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := domain.FormatDate(t)
	return &s
}

func toRecord(d domain.TripDraft, savedAt time.Time) record {
	return record{
		TripName:             d.TripName,
		Destination:          d.Destination,
		SpecificDestinations: d.SpecificDestinations,
		StartDate:            optDate(d.StartDate),
		EndDate:              optDate(d.EndDate),
		CalMonth:             int(d.CalMonth),
		CalYear:              d.CalYear,
		Currency:             d.Currency,
		BudgetAmount:         d.BudgetAmount,
		Companions:           d.Companions,
		NumberOfPeople:       d.NumberOfPeople,
		SavedAt:              savedAt.UnixMilli(),
	}
}

// draft rebuilds a TripDraft, restoring the draft invariants for values
// that were edited out of band.
func (r record) draft() (domain.TripDraft, error) {
	d := domain.TripDraft{
		TripName:             r.TripName,
		Destination:          r.Destination,
		SpecificDestinations: r.SpecificDestinations,
		CalMonth:             time.Month(r.CalMonth),
		CalYear:              r.CalYear,
		Currency:             r.Currency,
		Companions:           r.Companions,
	}
	var err error
	if r.StartDate != nil {
		if d.StartDate, err = domain.ParseDate(*r.StartDate); err != nil {
			return domain.TripDraft{}, err
		}
	}
	if r.EndDate != nil {
		if d.EndDate, err = domain.ParseDate(*r.EndDate); err != nil {
			return domain.TripDraft{}, err
		}
	}
	if d.StartDate == nil || (d.EndDate != nil && d.EndDate.Before(*d.StartDate)) {
		d.EndDate = nil
	}
	if d.CalMonth < time.January || d.CalMonth > time.December {
		return domain.TripDraft{}, fmt.Errorf("calendar month %d out of range", r.CalMonth)
	}
	if !d.Currency.Valid() {
		d.Currency = domain.CurrencySGD
	}
	if d.Companions != domain.CompanionsNone && !d.Companions.Valid() {
		d.Companions = domain.CompanionsNone
	}
	d.SetBudget(r.BudgetAmount)
	d.SetPeople(r.NumberOfPeople)
	return d, nil
}

// Cache stores drafts in a KVStore.
type Cache struct {
	kv  repo.KVStore
	log *slog.Logger

	// Now is the clock used to stamp and age entries.
	Now func() time.Time
}

// New returns a Cache over kv. A nil logger means slog.Default().
func New(kv repo.KVStore, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{kv: kv, log: logger, Now: time.Now}
}

// Load returns the user's cached draft if one was saved less than TTL ago.
// Missing, stale and corrupt entries all report false.
func (c *Cache) Load(ctx context.Context, userID string) (domain.TripDraft, bool) {
	key := Key(userID)
	raw, err := c.kv.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			c.log.Error("draft cache read failed", "user_id", userID, "key", key, "error", err)
		}
		return domain.TripDraft{}, false
	}

	now := c.Now()
	defaults := domain.NewDraft(now)
	rec := toRecord(defaults, time.Time{})
	rec.SavedAt = 0
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		c.corrupt(userID, key, err)
		return domain.TripDraft{}, false
	}

	age := now.Sub(time.UnixMilli(rec.SavedAt))
	if rec.SavedAt <= 0 || age >= TTL {
		c.log.Debug("draft cache entry expired", "user_id", userID, "key", key, "age", age)
		return domain.TripDraft{}, false
	}

	d, err := rec.draft()
	if err != nil {
		c.corrupt(userID, key, err)
		return domain.TripDraft{}, false
	}
	return d, true
}

func (c *Cache) corrupt(userID, key string, err error) {
	c.log.Warn("discarding corrupt draft cache entry",
		"user_id", userID, "key", key, "error", fmt.Errorf("%w: %v", domain.ErrCacheCorruption, err))
}

// Save overwrites the user's entry with d stamped at the current time.
func (c *Cache) Save(ctx context.Context, userID string, d domain.TripDraft) {
	key := Key(userID)
	b, err := json.Marshal(toRecord(d, c.Now()))
	if err != nil {
		c.log.Error("draft cache encode failed", "user_id", userID, "key", key, "error", err)
		return
	}
	if err := c.kv.Set(ctx, key, string(b)); err != nil {
		c.log.Error("draft cache write failed", "user_id", userID, "key", key, "error", err)
	}
}

// Clear removes the user's entry.
func (c *Cache) Clear(ctx context.Context, userID string) {
	key := Key(userID)
	if err := c.kv.Delete(ctx, key); err != nil {
		c.log.Error("draft cache clear failed", "user_id", userID, "key", key, "error", err)
	}
}
