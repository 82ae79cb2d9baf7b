package model

import (
	"fmt"
	"time"
)

const (
	MinutesInDay   = 24 * 60
	MinutesInHour  = 60
	DateKeyLayout  = "2006-01-02"
	FallbackTagHex = "#6b7280"
)

// CalendarEvent is a logged activity block on one calendar day.
type CalendarEvent struct {
	ID              int64  `json:"id"`
	TagName         string `json:"tagName"`
	StartMinutes    int    `json:"startMinutes"`
	DurationMinutes int    `json:"durationMinutes"`
	DateKey         string `json:"dateKey"`
	ColorClass      string `json:"colorClass"`
}

type Tag struct {
	Key        string `json:"key"`
	Title      string `json:"title"`
	ColorClass string `json:"colorClass"`
	Hex        string `json:"hex"`
}

var tags = []Tag{
	{Key: "STUDY", Title: "Study", ColorClass: "bg-blue-500", Hex: "#3b82f6"},
	{Key: "FOCUS", Title: "Focus", ColorClass: "bg-purple-500", Hex: "#a855f7"},
	{Key: "READ", Title: "Read", ColorClass: "bg-green-500", Hex: "#f97316"},
	{Key: "WORK", Title: "Work", ColorClass: "bg-orange-500", Hex: FallbackTagHex},
	{Key: "FITNESS", Title: "Fitness", ColorClass: "bg-red-500", Hex: "#22c55e"},
}

func Tags() []Tag {
	out := make([]Tag, len(tags))
	copy(out, tags)
	return out
}

// LookupTag matches either the tag key or its display title.
func LookupTag(name string) (Tag, bool) {
	for _, tag := range tags {
		if tag.Title == name || tag.Key == name {
			return tag, true
		}
	}
	return Tag{}, false
}

// ColorClassFor returns the stored color class for a tag. Unknown tags keep their own name.
func ColorClassFor(tagName string) string {
	if tag, ok := LookupTag(tagName); ok {
		return tag.ColorClass
	}
	return tagName
}

func HexFor(tagName string) string {
	if tag, ok := LookupTag(tagName); ok {
		return tag.Hex
	}
	return FallbackTagHex
}

// DateKey formats the local calendar day of t.
func DateKey(t time.Time) string {
	return Date(t).Format(DateKeyLayout)
}

// Date truncates t to its local calendar day, expressed as UTC midnight.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDateKey(raw string) (time.Time, error) {
	t, err := time.Parse(DateKeyLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date key %q: %w", raw, err)
	}
	return t, nil
}
