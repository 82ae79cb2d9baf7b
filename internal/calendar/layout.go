package calendar

import (
	"fmt"
	"time"

	"vibework/backend/internal/model"
)

const (
	DefaultHourHeight = 80.0
	MinEventHeight    = 30.0

	// events taller than this show their duration label
	durationLabelHeight = 40.0
	autoScrollMargin    = 100.0
)

// DurationOptions are the lengths offered by the add-event form, in minutes.
var DurationOptions = []int{15, 25, 30, 45, 60, 90, 120}

type Box struct {
	Top          float64 `json:"top"`
	Height       float64 `json:"height"`
	ShowDuration bool    `json:"showDuration"`
}

// Layout places an event on the 24-hour grid. Height is floored to MinEventHeight.
func Layout(startMinutes, durationMinutes int, hourHeight float64) Box {
	height := minutesToPixels(durationMinutes, hourHeight)
	box := Box{
		Top:          minutesToPixels(startMinutes, hourHeight),
		Height:       height,
		ShowDuration: height > durationLabelHeight,
	}
	if box.Height < MinEventHeight {
		box.Height = MinEventHeight
	}
	return box
}

// minutesToPixels multiplies before dividing so whole-pixel results stay exact.
func minutesToPixels(minutes int, hourHeight float64) float64 {
	return float64(minutes) * hourHeight / model.MinutesInHour
}

func minutesOfDay(t time.Time) int {
	return t.Hour()*model.MinutesInHour + t.Minute()
}

// NowIndicatorOffset is the y position of the current-time line.
func NowIndicatorOffset(now time.Time, hourHeight float64) float64 {
	return minutesToPixels(minutesOfDay(now), hourHeight)
}

// AutoScrollOffset keeps the current time a little below the top of the viewport.
func AutoScrollOffset(now time.Time, hourHeight float64) float64 {
	y := NowIndicatorOffset(now, hourHeight) - autoScrollMargin
	if y < 0 {
		return 0
	}
	return y
}

// DurationString renders minutes as 45m, 1h or 1h 30m.
func DurationString(minutes int) string {
	if minutes < model.MinutesInHour {
		return fmt.Sprintf("%dm", minutes)
	}
	hours, rest := minutes/model.MinutesInHour, minutes%model.MinutesInHour
	if rest == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, rest)
}
