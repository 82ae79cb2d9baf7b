package calendar

import (
	"time"

	"vibework/backend/internal/model"
)

const (
	DefaultWindowDays = 365
	// MaxWindowDays caps the strip at about ten years.
	MaxWindowDays = 3653
)

type Week [7]time.Time

func (w Week) Contains(day time.Time) bool {
	day = model.Date(day)
	for _, d := range w {
		if d.Equal(day) {
			return true
		}
	}
	return false
}

func (w Week) Monday() time.Time {
	return w[0]
}

// MondayOf returns the Monday that starts the week containing day.
func MondayOf(day time.Time) time.Time {
	day = model.Date(day)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func WeekStarting(monday time.Time) Week {
	monday = model.Date(monday)
	var week Week
	for i := range week {
		week[i] = monday.AddDate(0, 0, i)
	}
	return week
}

// Weeks lays out ceil(numDays/7) Monday-start weeks with today's week at index
// len/2. numDays is clamped to MaxWindowDays. The returned index points at today's week.
func Weeks(today time.Time, numDays int) ([]Week, int) {
	if numDays <= 0 {
		numDays = DefaultWindowDays
	}
	if numDays > MaxWindowDays {
		numDays = MaxWindowDays
	}
	numWeeks := (numDays + 6) / 7
	center := numWeeks / 2
	start := MondayOf(today).AddDate(0, 0, -7*center)

	weeks := make([]Week, numWeeks)
	for i := range weeks {
		weeks[i] = WeekStarting(start.AddDate(0, 0, 7*i))
	}
	return weeks, center
}

// SelectForVisibleWeek keeps selected if it is inside visible. Otherwise it picks
// today when today is visible, and the week's Monday when it is not.
func SelectForVisibleWeek(selected time.Time, visible Week, today time.Time) time.Time {
	if visible.Contains(selected) {
		return model.Date(selected)
	}
	if visible.Contains(today) {
		return model.Date(today)
	}
	return visible.Monday()
}
