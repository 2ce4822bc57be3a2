package calendar

import "time"

// Cell is one day in a month grid.
type Cell struct {
	Date    string `json:"date"`
	Day     int    `json:"day"`
	IsToday bool   `json:"isToday,omitempty"`
	IsStart bool   `json:"isStart,omitempty"`
	IsEnd   bool   `json:"isEnd,omitempty"`
	InRange bool   `json:"inRange,omitempty"`
	IsPast  bool   `json:"isPast,omitempty"`
}

// Grid is a month laid out Sunday-first. Offset is the number of blank cells
// before the first day.
type Grid struct {
	Month  time.Month `json:"month"`
	Year   int        `json:"year"`
	Title  string     `json:"title"`
	Offset int        `json:"offset"`
	Days   []Cell     `json:"days"`
}

// DaysIn returns the number of days in the cursor's month.
func DaysIn(c Cursor) int {
	return c.First().AddDate(0, 1, -1).Day()
}

// Month builds the grid for c, flagging today and the selected range.
func Month(c Cursor, today time.Time, r Range) Grid {
	first := c.First()
	today = Day(today)
	n := DaysIn(c)

	g := Grid{
		Month:  c.Month,
		Year:   c.Year,
		Title:  first.Format("January 2006"),
		Offset: int(first.Weekday()),
		Days:   make([]Cell, 0, n),
	}
	for i := 0; i < n; i++ {
		d := first.AddDate(0, 0, i)
		g.Days = append(g.Days, Cell{
			Date:    d.Format("2006-01-02"),
			Day:     i + 1,
			IsToday: d.Equal(today),
			IsStart: r.Start != nil && d.Equal(Day(*r.Start)),
			IsEnd:   r.End != nil && d.Equal(Day(*r.End)),
			InRange: r.Contains(d),
			IsPast:  d.Before(today),
		})
	}
	return g
}
