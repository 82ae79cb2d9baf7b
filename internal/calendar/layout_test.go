package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLayout(t *testing.T) {
	assert.Equal(t, Box{Top: 80, Height: 40}, Layout(60, 30, 80))

	short := Layout(0, 5, 80)
	assert.Equal(t, 0.0, short.Top)
	assert.Equal(t, MinEventHeight, short.Height)
	assert.False(t, short.ShowDuration)

	long := Layout(600, 45, 80)
	assert.Equal(t, 800.0, long.Top)
	assert.Equal(t, 60.0, long.Height)
	assert.True(t, long.ShowDuration)
}

func TestLayoutIsDeterministic(t *testing.T) {
	for start := 0; start < 1440; start += 37 {
		for _, d := range DurationOptions {
			assert.Equal(t, Layout(start, d, 80), Layout(start, d, 80))
			assert.GreaterOrEqual(t, Layout(start, d, 80).Height, MinEventHeight)
		}
	}
}

func TestNowAndAutoScrollOffsets(t *testing.T) {
	early := time.Date(2025, 11, 12, 0, 45, 0, 0, time.UTC)
	assert.Equal(t, 60.0, NowIndicatorOffset(early, 80))
	assert.Equal(t, 0.0, AutoScrollOffset(early, 80))

	noon := time.Date(2025, 11, 12, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 960.0, NowIndicatorOffset(noon, 80))
	assert.Equal(t, 860.0, AutoScrollOffset(noon, 80))
}

func TestDurationString(t *testing.T) {
	assert.Equal(t, "45m", DurationString(45))
	assert.Equal(t, "1h", DurationString(60))
	assert.Equal(t, "1h 30m", DurationString(90))
	assert.Equal(t, "2h", DurationString(120))
}
