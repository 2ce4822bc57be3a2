// Package domain contains the core data types for the Voyager planner.
// This package depends only on the standard library and is imported by every
// other internal package.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// Budget slider bounds.
const (
	BudgetMax     = 10000
	BudgetStep    = 100
	BudgetDefault = 5000
)

// MinPeople is the smallest head count for a non-solo trip.
const MinPeople = 2

// Currency is a budget currency code.
type Currency string

const (
	CurrencySGD Currency = "SGD"
	CurrencyUSD Currency = "USD"
)

// Valid reports whether c is a supported currency.
func (c Currency) Valid() bool {
	return c == CurrencySGD || c == CurrencyUSD
}

// Symbol returns the display prefix for amounts in c.
func (c Currency) Symbol() string {
	if c == CurrencyUSD {
		return "$"
	}
	return "S$"
}

// Companions describes who the traveller is going with.
// The zero value means no choice has been made yet.
type Companions string

const (
	CompanionsNone    Companions = ""
	CompanionsSolo    Companions = "solo"
	CompanionsCouple  Companions = "couple"
	CompanionsFamily  Companions = "family"
	CompanionsFriends Companions = "friends"
)

// Valid reports whether c is one of the selectable companion types.
func (c Companions) Valid() bool {
	switch c {
	case CompanionsSolo, CompanionsCouple, CompanionsFamily, CompanionsFriends:
		return true
	}
	return false
}

// DefaultPeople is the head count preselected when c is chosen.
func (c Companions) DefaultPeople() int {
	switch c {
	case CompanionsFamily:
		return 4
	case CompanionsFriends:
		return 3
	default:
		return MinPeople
	}
}

// SpecificDestination is a concrete place the traveller wants to visit.
// It is immutable once added to a draft.
type SpecificDestination struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	PlaceID string `json:"placeId,omitempty"`
}

// SavedPrefix prefixes the id of a SpecificDestination promoted from a saved
// destination, so the same destination cannot be promoted twice.
const SavedPrefix = "saved-"

// SavedSpecificID returns the SpecificDestination id for a saved destination.
func SavedSpecificID(destinationID string) string {
	return SavedPrefix + destinationID
}

// TripDraft is the in-progress trip form. It has a single owner for the
// lifetime of a planning session.
//
// EndDate, when set, is never before StartDate. NumberOfPeople is
// meaningless when Companions is solo.
type TripDraft struct {
	TripName             string
	Destination          string
	SpecificDestinations []SpecificDestination
	StartDate            *time.Time
	EndDate              *time.Time
	Currency             Currency
	BudgetAmount         int
	Companions           Companions
	NumberOfPeople       int

	// CalMonth and CalYear position the calendar; they are UI state only.
	CalMonth time.Month
	CalYear  int
}

// NewDraft returns a draft holding the default form values with the calendar
// positioned on today's month.
func NewDraft(today time.Time) TripDraft {
	return TripDraft{
		Currency:       CurrencySGD,
		BudgetAmount:   BudgetDefault,
		NumberOfPeople: MinPeople,
		CalMonth:       today.Month(),
		CalYear:        today.Year(),
	}
}

// Clone returns a deep copy of d.
func (d TripDraft) Clone() TripDraft {
	out := d
	if d.SpecificDestinations != nil {
		out.SpecificDestinations = append([]SpecificDestination(nil), d.SpecificDestinations...)
	}
	if d.StartDate != nil {
		s := *d.StartDate
		out.StartDate = &s
	}
	if d.EndDate != nil {
		e := *d.EndDate
		out.EndDate = &e
	}
	return out
}

// SetBudget clamps amount into [0, BudgetMax] and snaps it to BudgetStep.
func (d *TripDraft) SetBudget(amount int) {
	if amount < 0 {
		amount = 0
	}
	if amount > BudgetMax {
		amount = BudgetMax
	}
	d.BudgetAmount = amount - amount%BudgetStep
}

// SelectCompanions sets the companion type and its default head count.
func (d *TripDraft) SelectCompanions(c Companions) {
	d.Companions = c
	d.NumberOfPeople = c.DefaultPeople()
}

// SetPeople sets the head count, never below MinPeople.
func (d *TripDraft) SetPeople(n int) {
	if n < MinPeople {
		n = MinPeople
	}
	d.NumberOfPeople = n
}

// AddSpecific appends sd unless a destination with the same id is present.
// It reports whether the draft changed.
func (d *TripDraft) AddSpecific(sd SpecificDestination) bool {
	for _, existing := range d.SpecificDestinations {
		if existing.ID == sd.ID {
			return false
		}
	}
	d.SpecificDestinations = append(d.SpecificDestinations, sd)
	return true
}

// RemoveSpecific drops the destination with the given id.
// It reports whether the draft changed.
func (d *TripDraft) RemoveSpecific(id string) bool {
	for i, existing := range d.SpecificDestinations {
		if existing.ID == id {
			d.SpecificDestinations = append(d.SpecificDestinations[:i:i], d.SpecificDestinations[i+1:]...)
			return true
		}
	}
	return false
}

// Validate checks the fields required for submission and reports all
// failures together. It returns nil when the draft can be submitted.
func (d TripDraft) Validate() error {
	var fields []Field
	if strings.TrimSpace(d.TripName) == "" {
		fields = append(fields, FieldTripName)
	}
	if strings.TrimSpace(d.Destination) == "" {
		fields = append(fields, FieldDestination)
	}
	if d.StartDate == nil || d.EndDate == nil || d.EndDate.Before(*d.StartDate) {
		fields = append(fields, FieldDates)
	}
	if !d.Companions.Valid() {
		fields = append(fields, FieldCompanions)
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// People returns the head count to send with the trip, or nil for solo.
func (d TripDraft) People() *int {
	if d.Companions == CompanionsSolo || d.Companions == CompanionsNone {
		return nil
	}
	n := d.NumberOfPeople
	return &n
}

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// FormatDate renders t as YYYY-MM-DD, or "" for nil.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD string. An empty string yields nil.
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w", s, err)
	}
	return &t, nil
}
