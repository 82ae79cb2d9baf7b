package service

import (
	"errors"
	"sync/atomic"

	apperrors "vibework/backend/internal/errors"
	"vibework/backend/internal/model"
	"vibework/backend/internal/session"
)

// SessionService adapts the timer engine to the API.
type SessionService struct {
	engine  *session.Engine
	presets atomic.Pointer[model.PresetCatalog]
}

func NewSessionService(engine *session.Engine, presets *model.PresetCatalog) *SessionService {
	s := &SessionService{engine: engine}
	s.presets.Store(presets)
	return s
}

func (s *SessionService) Presets() []model.Preset {
	return s.presets.Load().All()
}

// ReplacePresets swaps the catalog used by later starts. A running session keeps its preset.
func (s *SessionService) ReplacePresets(presets *model.PresetCatalog) {
	s.presets.Store(presets)
}

func (s *SessionService) State() model.SessionSnapshot {
	return s.engine.Snapshot()
}

func (s *SessionService) Start(tag string) (*model.SessionSnapshot, *apperrors.APIError) {
	preset, ok := s.presets.Load().Lookup(tag)
	if !ok {
		return nil, apperrors.NotFound("unknown_preset", session.ErrUnknownPreset.Error()+": "+tag)
	}

	snapshot, err := s.engine.SelectPreset(preset)
	switch {
	case err == nil:
		return &snapshot, nil
	case errors.Is(err, session.ErrSessionActive):
		return nil, apperrors.Conflict("session_active", "stop the current session first", map[string]interface{}{
			"state": snapshot,
		})
	case errors.Is(err, session.ErrInvalidPreset):
		return nil, apperrors.BadRequest("invalid_preset", err.Error())
	default:
		return nil, apperrors.Unavailable("engine_closed", err.Error())
	}
}

func (s *SessionService) PauseResume() model.SessionSnapshot {
	return s.engine.PauseResume()
}

func (s *SessionService) Stop() model.SessionSnapshot {
	return s.engine.Stop()
}

func (s *SessionService) Subscribe(buffer int) (<-chan model.SessionSnapshot, func()) {
	return s.engine.Subscribe(buffer)
}
