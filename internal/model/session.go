package model

import "fmt"

const (
	StatusIdle    = "idle"
	StatusRunning = "running"
	StatusPaused  = "paused"
)

type SinkStatus string

const (
	SinkDetached    SinkStatus = "detached"
	SinkPlaying     SinkStatus = "playing"
	SinkPaused      SinkStatus = "paused"
	SinkUnavailable SinkStatus = "unavailable"
)

type MediaState struct {
	Source string     `json:"source,omitempty"`
	Status SinkStatus `json:"status"`
}

// SessionSnapshot is a read-only copy of the timer state handed to observers.
type SessionSnapshot struct {
	SessionID       string     `json:"sessionId,omitempty"`
	Status          string     `json:"status"`
	Preset          *Preset    `json:"preset,omitempty"`
	Phase           Phase      `json:"phase"`
	TimeLeftSeconds int        `json:"timeLeftSeconds"`
	Formatted       string     `json:"formatted"`
	IsPaused        bool       `json:"isPaused"`
	CurrentCycle    int        `json:"currentCycle"`
	Video           MediaState `json:"video"`
	Audio           MediaState `json:"audio"`
}

func (s SessionSnapshot) Active() bool {
	return s.Preset != nil
}

// FormatClock renders seconds as m:ss.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
