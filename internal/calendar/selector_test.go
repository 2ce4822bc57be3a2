package calendar_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/voyager/internal/calendar"
)

func mar(d int) time.Time {
	return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC)
}

func TestClick_FirstClickSetsStart(t *testing.T) {
	r := calendar.Range{}.Click(mar(10))

	require.NotNil(t, r.Start)
	assert.Equal(t, mar(10), *r.Start)
	assert.Nil(t, r.End)
}

func TestClick_LaterDaySetsEnd(t *testing.T) {
	r := calendar.Range{}.Click(mar(10)).Click(mar(14))

	assert.Equal(t, mar(10), *r.Start)
	require.NotNil(t, r.End)
	assert.Equal(t, mar(14), *r.End)
}

// Regression: an earlier click must replace start, not clear the range.
func TestClick_EarlierDayReplacesStart(t *testing.T) {
	r := calendar.Range{}.Click(mar(10)).Click(mar(5))

	require.NotNil(t, r.Start)
	assert.Equal(t, mar(5), *r.Start)
	assert.Nil(t, r.End)
}

func TestClick_SameDayIsOneDayRange(t *testing.T) {
	r := calendar.Range{}.Click(mar(10)).Click(mar(10))

	assert.True(t, r.Complete())
	assert.Equal(t, *r.Start, *r.End)
}

func TestClick_CompleteRangeRestarts(t *testing.T) {
	r := calendar.Range{}.Click(mar(10)).Click(mar(14)).Click(mar(20))

	assert.Equal(t, mar(20), *r.Start)
	assert.Nil(t, r.End)
}

func TestClick_NormalisesTimeOfDay(t *testing.T) {
	sgt := time.FixedZone("SGT", 8*60*60)
	r := calendar.Range{}.Click(time.Date(2025, 3, 10, 23, 30, 0, 0, sgt))

	assert.Equal(t, mar(10), *r.Start)
}

func TestClick_StartNeverAfterEnd(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	var r calendar.Range
	for i := 0; i < 2000; i++ {
		r = r.Click(mar(1).AddDate(0, 0, rng.Intn(60)))
		if r.Complete() {
			require.False(t, r.End.Before(*r.Start), "click %d produced start %v after end %v", i, r.Start, r.End)
		}
	}
}

func TestContains(t *testing.T) {
	r := calendar.Range{}.Click(mar(10)).Click(mar(12))

	assert.False(t, r.Contains(mar(9)))
	assert.True(t, r.Contains(mar(10)))
	assert.True(t, r.Contains(mar(11)))
	assert.True(t, r.Contains(mar(12)))
	assert.False(t, r.Contains(mar(13)))
}

func TestContains_IncompleteRange(t *testing.T) {
	r := calendar.Range{}.Click(mar(10))

	assert.False(t, r.Contains(mar(10)))
}

func TestCursor_Wraps(t *testing.T) {
	dec := calendar.Cursor{Month: time.December, Year: 2024}
	jan := calendar.Cursor{Month: time.January, Year: 2025}

	assert.Equal(t, jan, dec.Next())
	assert.Equal(t, dec, jan.Prev())
	assert.Equal(t, calendar.Cursor{Month: time.July, Year: 2025},
		calendar.Cursor{Month: time.June, Year: 2025}.Next())
}
