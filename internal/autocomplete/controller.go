// Package autocomplete debounces free-text place input and runs scoped
// lookups against a place-search service. Only the most recently issued
// lookup may update the visible suggestions.
package autocomplete

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/voyager/internal/domain"
	"github.com/pkordes/voyager/internal/places"
)

// Debounce is the quiet period between the last keystroke and the lookup.
const Debounce = 300 * time.Millisecond

// MinChars is the shortest input that triggers a lookup.
const MinChars = 2

// Searcher is the place-search service. *places.Client satisfies it.
type Searcher interface {
	Search(ctx context.Context, text, country string) ([]places.Suggestion, error)
}

// State is a snapshot of the controller for rendering.
type State struct {
	Text        string              `json:"text"`
	Country     string              `json:"country,omitempty"`
	Suggestions []places.Suggestion `json:"suggestions"`
	Open        bool                `json:"open"`
	Loading     bool                `json:"loading"`
}

// Controller owns the input text, the debounce timer and the suggestion list.
// It is safe for concurrent use.
type Controller struct {
	search Searcher
	clock  Clock
	delay  time.Duration
	log    *slog.Logger

	mu          sync.Mutex
	text        string
	country     string
	suggestions []places.Suggestion
	open        bool
	loading     bool
	gen         uint64
	timer       Timer
	cancel      context.CancelFunc
	closed      bool

	wg sync.WaitGroup
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option { return func(ctl *Controller) { ctl.clock = c } }

// WithDelay overrides the debounce period.
func WithDelay(d time.Duration) Option { return func(ctl *Controller) { ctl.delay = d } }

// WithLogger sets the logger used for lookup failures.
func WithLogger(l *slog.Logger) Option { return func(ctl *Controller) { ctl.log = l } }

// New returns a Controller. A nil search disables lookups; input is still
// tracked so the UI stays consistent.
func New(search Searcher, opts ...Option) *Controller {
	c := &Controller{
		search: search,
		clock:  RealClock,
		delay:  Debounce,
		log:    slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Input records new text. Text shorter than MinChars clears the suggestions
// and abandons pending work; otherwise the debounce timer is re-armed.
// country is the ISO code filter for the lookup, or "" for none.
func (c *Controller) Input(text, country string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.text = text
	c.country = country
	c.supersedeLocked()

	if len([]rune(text)) < MinChars || c.search == nil {
		c.suggestions = nil
		c.open = false
		return
	}

	gen := c.gen
	c.timer = c.clock.AfterFunc(c.delay, func() { c.fire(gen) })
}

// supersedeLocked invalidates the armed timer and any in-flight lookup.
func (c *Controller) supersedeLocked() {
	c.gen++
	c.loading = false
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Controller) fire(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.loading = true
	text, country := c.text, c.country
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		defer cancel()
		res, err := c.search.Search(ctx, text, country)
		c.apply(gen, text, res, err)
	}()
}

func (c *Controller) apply(gen uint64, text string, res []places.Suggestion, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		c.log.Debug("discarding stale suggestions", "query", text, "generation", gen)
		return
	}
	c.loading = false
	c.cancel = nil
	if err != nil {
		c.log.Warn("place lookup failed", "query", text, "generation", gen, "error", err)
		c.suggestions = nil
		c.open = false
		return
	}
	c.suggestions = res
	c.open = len(res) > 0
}

// Select turns the suggestion with externalID into a SpecificDestination and
// clears the input. It reports false when no such suggestion is showing.
func (c *Controller) Select(externalID string) (domain.SpecificDestination, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, s := range c.suggestions {
		if s.ExternalID != externalID {
			continue
		}
		c.resetLocked()
		return domain.SpecificDestination{
			ID:      "place-" + uuid.NewString(),
			Name:    s.MainText,
			Address: s.FullDescription,
			PlaceID: s.ExternalID,
		}, true
	}
	return domain.SpecificDestination{}, false
}

// Dismiss hides the suggestion panel without clearing the input.
func (c *Controller) Dismiss() {
	c.mu.Lock()
	c.open = false
	c.mu.Unlock()
}

// Reset clears input and suggestions and abandons pending work.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.resetLocked()
	c.mu.Unlock()
}

func (c *Controller) resetLocked() {
	c.supersedeLocked()
	c.text = ""
	c.country = ""
	c.suggestions = nil
	c.open = false
}

// State returns a snapshot for rendering.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Text:        c.text,
		Country:     c.country,
		Suggestions: append([]places.Suggestion{}, c.suggestions...),
		Open:        c.open,
		Loading:     c.loading,
	}
}

// Close stops the timer, cancels any lookup and waits for it to return.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.supersedeLocked()
	c.closed = true
	c.mu.Unlock()
	c.wg.Wait()
}
