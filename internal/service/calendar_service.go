package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"vibework/backend/internal/calendar"
	apperrors "vibework/backend/internal/errors"
	"vibework/backend/internal/model"
)

type CalendarService struct {
	store      *calendar.Store
	hourHeight float64
	now        func() time.Time
}

type EventView struct {
	model.CalendarEvent
	Layout   calendar.Box `json:"layout"`
	Duration string       `json:"duration"`
	Hex      string       `json:"hex"`
}

type DayView struct {
	DateKey      string      `json:"dateKey"`
	Events       []EventView `json:"events"`
	HourHeight   float64     `json:"hourHeight"`
	IsToday      bool        `json:"isToday"`
	NowOffset    *float64    `json:"nowOffset,omitempty"`
	ScrollOffset float64     `json:"scrollOffset"`
}

type WeekView struct {
	Days []string `json:"days"`
}

type WeeksView struct {
	Weeks      []WeekView `json:"weeks"`
	TodayIndex int        `json:"todayIndex"`
	Today      string     `json:"today"`
}

type TagsView struct {
	Tags            []model.Tag `json:"tags"`
	DurationOptions []int       `json:"durationOptions"`
}

func NewCalendarService(store *calendar.Store, hourHeight float64, now func() time.Time) *CalendarService {
	if hourHeight <= 0 {
		hourHeight = calendar.DefaultHourHeight
	}
	if now == nil {
		now = time.Now
	}
	return &CalendarService{store: store, hourHeight: hourHeight, now: now}
}

// Load rebuilds the index. Failure is logged and the service keeps serving an empty calendar.
func (s *CalendarService) Load(ctx context.Context, seed bool) {
	if err := s.store.LoadAll(ctx); err != nil {
		log.Error().Err(err).Msg("event store unavailable, starting with an empty calendar")
		return
	}
	if !seed {
		return
	}
	seeded, err := s.store.SeedSamples(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to seed sample events")
		return
	}
	if seeded {
		log.Info().Str("date", calendar.SampleDateKey).Msg("sample events seeded")
	}
}

func (s *CalendarService) Day(dateKey string) (*DayView, *apperrors.APIError) {
	now := s.now()
	if dateKey == "" {
		dateKey = model.DateKey(now)
	}
	if _, err := model.ParseDateKey(dateKey); err != nil {
		return nil, apperrors.BadRequest("invalid_date", "date must be YYYY-MM-DD")
	}

	events := s.store.EventsFor(dateKey)
	view := &DayView{
		DateKey:    dateKey,
		Events:     make([]EventView, 0, len(events)),
		HourHeight: s.hourHeight,
		IsToday:    dateKey == model.DateKey(now),
	}
	for _, event := range events {
		view.Events = append(view.Events, s.eventView(event))
	}
	if view.IsToday {
		offset := calendar.NowIndicatorOffset(now, s.hourHeight)
		view.NowOffset = &offset
		view.ScrollOffset = calendar.AutoScrollOffset(now, s.hourHeight)
	}
	return view, nil
}

func (s *CalendarService) Add(ctx context.Context, tag string, start, duration int, dateKey string) (*EventView, *apperrors.APIError) {
	event, err := s.store.Insert(ctx, tag, start, duration, dateKey)
	if err != nil {
		return nil, mapStoreError(err, "could not save event")
	}
	view := s.eventView(event)
	return &view, nil
}

func (s *CalendarService) Remove(ctx context.Context, id int64) *apperrors.APIError {
	if err := s.store.Delete(ctx, id); err != nil {
		return mapStoreError(err, "could not delete event")
	}
	return nil
}

func (s *CalendarService) Weeks(numDays int) WeeksView {
	today := s.now()
	weeks, idx := calendar.Weeks(today, numDays)
	view := WeeksView{
		Weeks:      make([]WeekView, len(weeks)),
		TodayIndex: idx,
		Today:      model.DateKey(today),
	}
	for i, week := range weeks {
		days := make([]string, len(week))
		for j, d := range week {
			days[j] = model.DateKey(d)
		}
		view.Weeks[i] = WeekView{Days: days}
	}
	return view
}

// Select applies the paging policy: keep, today, or the visible week's Monday.
func (s *CalendarService) Select(selectedKey, visibleWeekKey string) (string, *apperrors.APIError) {
	selected, err := model.ParseDateKey(selectedKey)
	if err != nil {
		return "", apperrors.BadRequest("invalid_date", "selected must be YYYY-MM-DD")
	}
	anyDay, err := model.ParseDateKey(visibleWeekKey)
	if err != nil {
		return "", apperrors.BadRequest("invalid_date", "visibleWeek must be YYYY-MM-DD")
	}

	week := calendar.WeekStarting(calendar.MondayOf(anyDay))
	return model.DateKey(calendar.SelectForVisibleWeek(selected, week, s.now())), nil
}

func (s *CalendarService) Tags() TagsView {
	options := make([]int, len(calendar.DurationOptions))
	copy(options, calendar.DurationOptions)
	return TagsView{Tags: model.Tags(), DurationOptions: options}
}

func (s *CalendarService) eventView(event model.CalendarEvent) EventView {
	return EventView{
		CalendarEvent: event,
		Layout:        calendar.Layout(event.StartMinutes, event.DurationMinutes, s.hourHeight),
		Duration:      calendar.DurationString(event.DurationMinutes),
		Hex:           model.HexFor(event.TagName),
	}
}

func mapStoreError(err error, message string) *apperrors.APIError {
	switch {
	case errors.Is(err, calendar.ErrValidation):
		return apperrors.BadRequest("invalid_event", err.Error())
	case errors.Is(err, calendar.ErrNotFound):
		return apperrors.NotFound("event_not_found", err.Error())
	case errors.Is(err, calendar.ErrStoreUnavailable):
		return apperrors.Unavailable("store_unavailable", message)
	default:
		log.Error().Err(err).Msg(message)
		return apperrors.Internal(message)
	}
}
