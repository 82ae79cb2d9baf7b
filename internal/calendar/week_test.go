package calendar

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMondayOf(t *testing.T) {
	// 2025-11-12 is a Wednesday
	assert.Equal(t, day(2025, 11, 10), MondayOf(day(2025, 11, 12)))
	assert.Equal(t, day(2025, 11, 10), MondayOf(day(2025, 11, 10)))
	assert.Equal(t, day(2025, 11, 10), MondayOf(time.Date(2025, 11, 16, 23, 59, 0, 0, time.UTC)))
}

func TestWeeksCenteredOnToday(t *testing.T) {
	today := time.Date(2025, 11, 12, 15, 30, 0, 0, time.UTC)
	weeks, idx := Weeks(today, DefaultWindowDays)

	require.Len(t, weeks, 53)
	assert.Equal(t, 26, idx)
	assert.True(t, weeks[idx].Contains(today))
	for i, w := range weeks {
		assert.Equal(t, time.Monday, w.Monday().Weekday())
		if i > 0 {
			assert.Equal(t, weeks[i-1].Monday().AddDate(0, 0, 7), w.Monday())
		}
	}
}

func TestWeeksClampsWindow(t *testing.T) {
	today := time.Date(2025, 11, 12, 9, 0, 0, 0, time.UTC)

	weeks, idx := Weeks(today, math.MaxInt)
	require.Len(t, weeks, (MaxWindowDays+6)/7)
	assert.Equal(t, len(weeks)/2, idx)
	assert.True(t, weeks[idx].Contains(today))

	capped, _ := Weeks(today, MaxWindowDays+1)
	assert.Len(t, capped, len(weeks))
}

func TestSelectForVisibleWeek(t *testing.T) {
	today := day(2025, 11, 12)
	thisWeek := WeekStarting(MondayOf(today))
	nextWeek := WeekStarting(MondayOf(today).AddDate(0, 0, 7))

	t.Run("selection inside visible week is kept", func(t *testing.T) {
		assert.Equal(t, day(2025, 11, 18), SelectForVisibleWeek(day(2025, 11, 18), nextWeek, today))
	})
	t.Run("today visible wins", func(t *testing.T) {
		assert.Equal(t, today, SelectForVisibleWeek(day(2025, 11, 20), thisWeek, today))
	})
	t.Run("otherwise monday", func(t *testing.T) {
		assert.Equal(t, day(2025, 11, 17), SelectForVisibleWeek(day(2025, 11, 12), nextWeek, today))
	})
}
