package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/voyager/internal/calendar"
)

func TestDaysIn(t *testing.T) {
	assert.Equal(t, 29, calendar.DaysIn(calendar.Cursor{Month: time.February, Year: 2024}))
	assert.Equal(t, 28, calendar.DaysIn(calendar.Cursor{Month: time.February, Year: 2025}))
	assert.Equal(t, 31, calendar.DaysIn(calendar.Cursor{Month: time.December, Year: 2025}))
}

func TestMonth_Layout(t *testing.T) {
	// 1 March 2025 is a Saturday.
	g := calendar.Month(calendar.Cursor{Month: time.March, Year: 2025}, mar(11), calendar.Range{})

	assert.Equal(t, "March 2025", g.Title)
	assert.Equal(t, 6, g.Offset)
	require.Len(t, g.Days, 31)
	assert.Equal(t, "2025-03-01", g.Days[0].Date)
	assert.True(t, g.Days[10].IsToday)
	assert.True(t, g.Days[9].IsPast)
	assert.False(t, g.Days[11].IsPast)
}

func TestMonth_RangeFlags(t *testing.T) {
	r := calendar.Range{}.Click(mar(10)).Click(mar(12))

	g := calendar.Month(calendar.Cursor{Month: time.March, Year: 2025}, mar(1), r)

	assert.True(t, g.Days[9].IsStart)
	assert.True(t, g.Days[10].InRange)
	assert.True(t, g.Days[11].IsEnd)
	assert.False(t, g.Days[12].InRange)
}
