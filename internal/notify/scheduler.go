// Package notify schedules local phase-end alerts.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Alert struct {
	Title string
	Body  string
	At    time.Time
}

// Scheduler is fire-and-forget from the engine's point of view.
type Scheduler interface {
	Schedule(ctx context.Context, alert Alert) (string, error)
	Cancel(ctx context.Context, id string) error
}

// LogScheduler delivers alerts to the log when they come due.
type LogScheduler struct {
	enabled func() bool
	now     func() time.Time

	mu      sync.Mutex
	pending map[string]*time.Timer
	fired   []Alert
}

// NewLogScheduler builds a scheduler. enabled is consulted on every Schedule call;
// nil means always enabled.
func NewLogScheduler(enabled func() bool) *LogScheduler {
	return &LogScheduler{
		enabled: enabled,
		now:     time.Now,
		pending: make(map[string]*time.Timer),
	}
}

// Schedule returns an empty id when notifications are disabled.
func (s *LogScheduler) Schedule(_ context.Context, alert Alert) (string, error) {
	if s.enabled != nil && !s.enabled() {
		return "", nil
	}

	id := uuid.NewString()
	delay := alert.At.Sub(s.now())
	if delay < 0 {
		delay = 0
	}

	s.mu.Lock()
	s.pending[id] = time.AfterFunc(delay, func() { s.fire(id, alert) })
	s.mu.Unlock()

	log.Debug().Str("alertId", id).Str("title", alert.Title).Time("at", alert.At).Msg("alert scheduled")
	return id, nil
}

func (s *LogScheduler) Cancel(_ context.Context, id string) error {
	if id == "" {
		return nil
	}
	s.mu.Lock()
	timer, ok := s.pending[id]
	delete(s.pending, id)
	s.mu.Unlock()

	if ok {
		timer.Stop()
		log.Debug().Str("alertId", id).Msg("alert cancelled")
	}
	return nil
}

func (s *LogScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *LogScheduler) Fired() []Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Alert(nil), s.fired...)
}

func (s *LogScheduler) fire(id string, alert Alert) {
	s.mu.Lock()
	if _, ok := s.pending[id]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.pending, id)
	s.fired = append(s.fired, alert)
	s.mu.Unlock()

	log.Info().Str("alertId", id).Str("title", alert.Title).Str("body", alert.Body).Msg("alert")
}

// Close stops every pending timer.
func (s *LogScheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, timer := range s.pending {
		timer.Stop()
		delete(s.pending, id)
	}
}
