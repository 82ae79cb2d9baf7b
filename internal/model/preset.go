package model

import (
	"fmt"
	"strings"
)

type Phase string

const (
	PhaseWork       Phase = "work"
	PhaseShortBreak Phase = "short_break"
	PhaseLongBreak  Phase = "long_break"
)

const (
	DefaultWorkDurationSeconds       = 25 * 60
	DefaultShortBreakDurationSeconds = 5 * 60
	DefaultLongBreakDurationSeconds  = 15 * 60
	DefaultCyclesBeforeLongBreak     = 4

	CustomPresetTag = "CUSTOM"
)

// Preset is a named activity template. Durations are in seconds.
type Preset struct {
	Tag                   string `json:"tag"`
	VideoSource           string `json:"videoSource,omitempty"`
	AudioSource           string `json:"audioSource,omitempty"`
	WorkDuration          int    `json:"workDuration"`
	ShortBreakDuration    int    `json:"shortBreakDuration"`
	LongBreakDuration     int    `json:"longBreakDuration"`
	CyclesBeforeLongBreak int    `json:"cyclesBeforeLongBreak"`
	IsCustom              bool   `json:"isCustom"`
}

func (p Preset) Validate() error {
	if strings.TrimSpace(p.Tag) == "" {
		return fmt.Errorf("preset tag is required")
	}
	if p.WorkDuration <= 0 || p.ShortBreakDuration <= 0 || p.LongBreakDuration <= 0 {
		return fmt.Errorf("preset %s: durations must be positive seconds", p.Tag)
	}
	if p.CyclesBeforeLongBreak < 1 {
		return fmt.Errorf("preset %s: cycles before long break must be at least 1", p.Tag)
	}
	return nil
}

// DurationFor returns the configured length of phase in seconds.
func (p Preset) DurationFor(phase Phase) int {
	switch phase {
	case PhaseShortBreak:
		return p.ShortBreakDuration
	case PhaseLongBreak:
		return p.LongBreakDuration
	default:
		return p.WorkDuration
	}
}

func (p Preset) HasMedia() bool {
	return p.VideoSource != "" || p.AudioSource != ""
}

func DefaultPresets() []Preset {
	return []Preset{
		defaultPreset("STUDY", "videos/study.mp4", "music/girl.mp3"),
		defaultPreset("FITNESS", "videos/fitness.mp4", "music/background.mp3"),
		defaultPreset("FOCUS", "videos/focus.mp4", "music/ambient.mp3"),
		defaultPreset("READ", "videos/reading.mp4", "music/study.mp3"),
	}
}

func defaultPreset(tag, video, audio string) Preset {
	return Preset{
		Tag:                   tag,
		VideoSource:           video,
		AudioSource:           audio,
		WorkDuration:          DefaultWorkDurationSeconds,
		ShortBreakDuration:    DefaultShortBreakDurationSeconds,
		LongBreakDuration:     DefaultLongBreakDurationSeconds,
		CyclesBeforeLongBreak: DefaultCyclesBeforeLongBreak,
	}
}

// PresetCatalog is the process-wide, load-once set of presets.
type PresetCatalog struct {
	presets []Preset
	byTag   map[string]int
}

func NewPresetCatalog(presets ...Preset) (*PresetCatalog, error) {
	catalog := &PresetCatalog{
		presets: make([]Preset, 0, len(presets)),
		byTag:   make(map[string]int, len(presets)),
	}
	for _, preset := range presets {
		if err := preset.Validate(); err != nil {
			return nil, err
		}
		key := strings.ToUpper(preset.Tag)
		if _, exists := catalog.byTag[key]; exists {
			return nil, fmt.Errorf("duplicate preset tag %s", preset.Tag)
		}
		catalog.byTag[key] = len(catalog.presets)
		catalog.presets = append(catalog.presets, preset)
	}
	return catalog, nil
}

func (c *PresetCatalog) All() []Preset {
	out := make([]Preset, len(c.presets))
	copy(out, c.presets)
	return out
}

// Lookup finds a preset by tag, ignoring case.
func (c *PresetCatalog) Lookup(tag string) (Preset, bool) {
	idx, ok := c.byTag[strings.ToUpper(strings.TrimSpace(tag))]
	if !ok {
		return Preset{}, false
	}
	return c.presets[idx], true
}
