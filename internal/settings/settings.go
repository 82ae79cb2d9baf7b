// Package settings persists user preferences as YAML.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"vibework/backend/internal/model"
)

const DefaultAudioVolume = 0.25

// ErrInvalid marks preferences rejected before anything is written.
var ErrInvalid = errors.New("invalid preferences")

// Preferences are the user-facing toggles of the settings screen.
type Preferences struct {
	NotificationsEnabled bool          `json:"notificationsEnabled"`
	SoundEnabled         bool          `json:"soundEnabled"`
	AudioVolume          float64       `json:"audioVolume"`
	CustomPreset         *model.Preset `json:"customPreset,omitempty"`
}

func Defaults() Preferences {
	return Preferences{
		NotificationsEnabled: false,
		SoundEnabled:         true,
		AudioVolume:          DefaultAudioVolume,
	}
}

type yamlPreset struct {
	WorkSeconds       int `yaml:"work_seconds"`
	ShortBreakSeconds int `yaml:"short_break_seconds"`
	LongBreakSeconds  int `yaml:"long_break_seconds"`
	Cycles            int `yaml:"cycles"`
}

type yamlPreferences struct {
	NotificationsEnabled *bool       `yaml:"notifications_enabled"`
	SoundEnabled         *bool       `yaml:"sound_enabled"`
	AudioVolume          *float64    `yaml:"audio_volume"`
	CustomPreset         *yamlPreset `yaml:"custom_preset,omitempty"`
}

// Store guards the preferences file. Reads are served from memory after Load.
type Store struct {
	path  string
	mu    sync.RWMutex
	prefs Preferences
}

// Open reads path. A missing file yields defaults.
func Open(path string) (*Store, error) {
	store := &Store{path: path, prefs: Defaults()}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return store, nil
		}
		return store, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlPreferences
	if err := yaml.Unmarshal(raw, &fileData); err != nil {
		return store, fmt.Errorf("parse settings yaml: %w", err)
	}
	store.prefs = applyYaml(Defaults(), fileData)
	return store, nil
}

func (s *Store) Get() Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clonePrefs(s.prefs)
}

func (s *Store) NotificationsEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs.NotificationsEnabled
}

// Update validates and writes prefs, then swaps them in.
func (s *Store) Update(prefs Preferences) error {
	if prefs.AudioVolume < 0 || prefs.AudioVolume > 1 {
		return fmt.Errorf("%w: audio volume must be within [0,1]", ErrInvalid)
	}
	if prefs.CustomPreset != nil {
		custom := customPreset(*prefs.CustomPreset)
		if err := custom.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		prefs.CustomPreset = &custom
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := save(s.path, prefs); err != nil {
		return err
	}
	s.prefs = clonePrefs(prefs)
	return nil
}

func save(path string, prefs Preferences) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	notifications := prefs.NotificationsEnabled
	sound := prefs.SoundEnabled
	volume := prefs.AudioVolume
	fileData := yamlPreferences{
		NotificationsEnabled: &notifications,
		SoundEnabled:         &sound,
		AudioVolume:          &volume,
	}
	if p := prefs.CustomPreset; p != nil {
		fileData.CustomPreset = &yamlPreset{
			WorkSeconds:       p.WorkDuration,
			ShortBreakSeconds: p.ShortBreakDuration,
			LongBreakSeconds:  p.LongBreakDuration,
			Cycles:            p.CyclesBeforeLongBreak,
		}
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}
	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

func applyYaml(prefs Preferences, fileData yamlPreferences) Preferences {
	if fileData.NotificationsEnabled != nil {
		prefs.NotificationsEnabled = *fileData.NotificationsEnabled
	}
	if fileData.SoundEnabled != nil {
		prefs.SoundEnabled = *fileData.SoundEnabled
	}
	if v := fileData.AudioVolume; v != nil && *v >= 0 && *v <= 1 {
		prefs.AudioVolume = *v
	}
	if p := fileData.CustomPreset; p != nil {
		custom := customPreset(model.Preset{
			WorkDuration:          p.WorkSeconds,
			ShortBreakDuration:    p.ShortBreakSeconds,
			LongBreakDuration:     p.LongBreakSeconds,
			CyclesBeforeLongBreak: p.Cycles,
		})
		if custom.Validate() == nil {
			prefs.CustomPreset = &custom
		}
	}
	return prefs
}

// customPreset pins the identity fields of a user-defined preset.
func customPreset(p model.Preset) model.Preset {
	p.Tag = model.CustomPresetTag
	p.IsCustom = true
	p.VideoSource = ""
	p.AudioSource = ""
	return p
}

func clonePrefs(prefs Preferences) Preferences {
	if prefs.CustomPreset != nil {
		custom := *prefs.CustomPreset
		prefs.CustomPreset = &custom
	}
	return prefs
}

// Catalog builds the preset catalog: the defaults plus the custom preset, if any.
func Catalog(prefs Preferences) (*model.PresetCatalog, error) {
	presets := model.DefaultPresets()
	if prefs.CustomPreset != nil {
		presets = append(presets, *prefs.CustomPreset)
	}
	return model.NewPresetCatalog(presets...)
}
