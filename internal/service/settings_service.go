package service

import (
	"errors"

	"github.com/rs/zerolog/log"

	apperrors "vibework/backend/internal/errors"
	"vibework/backend/internal/settings"
)

// VolumeSetter is the part of a media player the settings screen controls.
type VolumeSetter interface {
	SetVolume(volume float64)
}

type SettingsService struct {
	store    *settings.Store
	sessions *SessionService
	audio    VolumeSetter
}

func NewSettingsService(store *settings.Store, sessions *SessionService, audio VolumeSetter) *SettingsService {
	return &SettingsService{store: store, sessions: sessions, audio: audio}
}

func (s *SettingsService) Get() settings.Preferences {
	return s.store.Get()
}

// Update persists prefs and applies them to the audio sink and the preset catalog.
func (s *SettingsService) Update(prefs settings.Preferences) (*settings.Preferences, *apperrors.APIError) {
	if err := s.store.Update(prefs); err != nil {
		if errors.Is(err, settings.ErrInvalid) {
			return nil, apperrors.BadRequest("invalid_settings", err.Error())
		}
		log.Error().Err(err).Msg("failed to save settings")
		return nil, apperrors.Internal("failed to save settings")
	}

	saved := s.store.Get()
	catalog, err := settings.Catalog(saved)
	if err != nil {
		log.Error().Err(err).Msg("failed to rebuild preset catalog")
		return nil, apperrors.Internal("failed to apply settings")
	}
	if s.audio != nil {
		s.audio.SetVolume(EffectiveVolume(saved))
	}
	if s.sessions != nil {
		s.sessions.ReplacePresets(catalog)
	}
	return &saved, nil
}

// EffectiveVolume mutes audio when sound is disabled.
func EffectiveVolume(prefs settings.Preferences) float64 {
	if !prefs.SoundEnabled {
		return 0
	}
	return prefs.AudioVolume
}
