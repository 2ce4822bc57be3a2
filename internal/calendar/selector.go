// Package calendar implements the trip date-range selector: a pure state
// machine from day clicks to a (start, end) interval, plus month navigation
// and the month grid the UI renders.
package calendar

import "time"

// Day truncates t to a date in UTC. All comparisons in this package are made
// on values returned by Day.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Range is a possibly incomplete date interval. End, when set, is never
// before Start.
type Range struct {
	Start *time.Time
	End   *time.Time
}

// Click applies a day click and returns the resulting range.
//
// With no start, or with both bounds set, the click begins a new range.
// With only a start, an earlier day replaces the start and any other day
// becomes the end.
func (r Range) Click(d time.Time) Range {
	d = Day(d)
	if r.Start == nil || r.End != nil {
		return Range{Start: &d}
	}
	if d.Before(Day(*r.Start)) {
		return Range{Start: &d}
	}
	start := Day(*r.Start)
	return Range{Start: &start, End: &d}
}

// Contains reports whether d lies within a complete range, bounds included.
func (r Range) Contains(d time.Time) bool {
	if r.Start == nil || r.End == nil {
		return false
	}
	d = Day(d)
	return !d.Before(Day(*r.Start)) && !d.After(Day(*r.End))
}

// Complete reports whether both bounds are set.
func (r Range) Complete() bool {
	return r.Start != nil && r.End != nil
}

// Cursor is the month the calendar is showing.
type Cursor struct {
	Month time.Month
	Year  int
}

// CursorFor returns the cursor positioned on t's month.
func CursorFor(t time.Time) Cursor {
	return Cursor{Month: t.Month(), Year: t.Year()}
}

// Prev moves back one month, wrapping January to December of the prior year.
func (c Cursor) Prev() Cursor {
	if c.Month == time.January {
		return Cursor{Month: time.December, Year: c.Year - 1}
	}
	return Cursor{Month: c.Month - 1, Year: c.Year}
}

// Next moves forward one month, wrapping December to January of the next year.
func (c Cursor) Next() Cursor {
	if c.Month == time.December {
		return Cursor{Month: time.January, Year: c.Year + 1}
	}
	return Cursor{Month: c.Month + 1, Year: c.Year}
}

// First returns the first day of the cursor's month.
func (c Cursor) First() time.Time {
	return time.Date(c.Year, c.Month, 1, 0, 0, 0, 0, time.UTC)
}
