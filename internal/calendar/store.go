// Package calendar keeps the day-indexed event cache and the time-grid math.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"vibework/backend/internal/model"
	"vibework/backend/internal/repository"
)

var (
	ErrValidation       = errors.New("validation failed")
	ErrPersistence      = errors.New("persistence failed")
	ErrStoreUnavailable = errors.New("event store unavailable")
	ErrNotFound         = errors.New("event not found")
)

// Repository is the durable side of the store.
type Repository interface {
	ListAll(ctx context.Context) ([]model.CalendarEvent, error)
	Insert(ctx context.Context, event model.CalendarEvent) (model.CalendarEvent, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// Store serves events from an in-memory index derived from the repository.
// The index is only touched after the repository call succeeds.
type Store struct {
	repo Repository

	mu     sync.RWMutex
	byDate map[string][]model.CalendarEvent
}

func NewStore(repo Repository) *Store {
	return &Store{
		repo:   repo,
		byDate: make(map[string][]model.CalendarEvent),
	}
}

// LoadAll rebuilds the index. On failure the index is left empty.
func (s *Store) LoadAll(ctx context.Context) error {
	events, err := s.repo.ListAll(ctx)
	if err != nil {
		s.mu.Lock()
		s.byDate = make(map[string][]model.CalendarEvent)
		s.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	byDate := make(map[string][]model.CalendarEvent)
	for _, event := range events {
		byDate[event.DateKey] = append(byDate[event.DateKey], event)
	}
	for _, day := range byDate {
		sort.SliceStable(day, func(i, j int) bool { return less(day[i], day[j]) })
	}

	s.mu.Lock()
	s.byDate = byDate
	s.mu.Unlock()

	log.Debug().Int("events", len(events)).Int("days", len(byDate)).Msg("event index rebuilt")
	return nil
}

func (s *Store) Insert(ctx context.Context, tagName string, startMinutes, durationMinutes int, dateKey string) (model.CalendarEvent, error) {
	tagName = strings.TrimSpace(tagName)
	if err := validate(tagName, startMinutes, durationMinutes, dateKey); err != nil {
		return model.CalendarEvent{}, err
	}

	event, err := s.repo.Insert(ctx, model.CalendarEvent{
		TagName:         tagName,
		StartMinutes:    startMinutes,
		DurationMinutes: durationMinutes,
		DateKey:         dateKey,
		ColorClass:      model.ColorClassFor(tagName),
	})
	if err != nil {
		return model.CalendarEvent{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.mu.Lock()
	day := s.byDate[dateKey]
	idx := sort.Search(len(day), func(i int) bool { return less(event, day[i]) })
	day = append(day, model.CalendarEvent{})
	copy(day[idx+1:], day[idx:])
	day[idx] = event
	s.byDate[dateKey] = day
	s.mu.Unlock()

	log.Info().Int64("id", event.ID).Str("tag", event.TagName).Str("date", dateKey).Int("start", startMinutes).Msg("event inserted")
	return event, nil
}

// EventsFor returns a copy of the day's events ordered by start.
func (s *Store) EventsFor(dateKey string) []model.CalendarEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	day := s.byDate[dateKey]
	out := make([]model.CalendarEvent, len(day))
	copy(out, day)
	return out
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("event %d: %w", id, ErrNotFound)
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for key, day := range s.byDate {
		for i, event := range day {
			if event.ID != id {
				continue
			}
			day = append(day[:i:i], day[i+1:]...)
			if len(day) == 0 {
				delete(s.byDate, key)
			} else {
				s.byDate[key] = day
			}
			log.Info().Int64("id", id).Str("date", key).Msg("event deleted")
			return nil
		}
	}
	return nil
}

var samples = []struct {
	tag      string
	start    int
	duration int
}{
	{"Study", 600, 45},
	{"Focus", 660, 25},
	{"Work", 720, 60},
	{"Read", 780, 25},
	{"Fitness", 810, 25},
}

const SampleDateKey = "2025-11-12"

// SeedSamples inserts the demo day when the table is empty. It reports whether it seeded.
func (s *Store) SeedSamples(ctx context.Context) (bool, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if count > 0 {
		return false, nil
	}
	for _, sample := range samples {
		if _, err := s.Insert(ctx, sample.tag, sample.start, sample.duration, SampleDateKey); err != nil {
			return false, err
		}
	}
	return true, nil
}

func validate(tagName string, startMinutes, durationMinutes int, dateKey string) error {
	if tagName == "" {
		return fmt.Errorf("%w: tag is required", ErrValidation)
	}
	if startMinutes < 0 || startMinutes >= model.MinutesInDay {
		return fmt.Errorf("%w: start must be within [0,%d], got %d", ErrValidation, model.MinutesInDay-1, startMinutes)
	}
	if durationMinutes <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %d", ErrValidation, durationMinutes)
	}
	if _, err := model.ParseDateKey(dateKey); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

func less(a, b model.CalendarEvent) bool {
	if a.StartMinutes != b.StartMinutes {
		return a.StartMinutes < b.StartMinutes
	}
	return a.ID < b.ID
}
