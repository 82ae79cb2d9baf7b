// Package session implements the pomodoro phase state machine.
//
// The Engine is the single owner of the timer state. Every operation runs as one
// critical section, so a tick can never interleave with pause or stop. Consumers
// observe state through Snapshot and Subscribe.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"vibework/backend/internal/media"
	"vibework/backend/internal/model"
	"vibework/backend/internal/notify"
)

var (
	ErrSessionActive = errors.New("a session is already active")
	ErrInvalidPreset = errors.New("invalid preset")
	ErrUnknownPreset = errors.New("unknown preset")
	ErrClosed        = errors.New("engine closed")
)

type Options struct {
	Clock        Clock
	TickInterval time.Duration
	Video        media.Sink
	Audio        media.Sink
	Notifier     notify.Scheduler
}

type Engine struct {
	clock    Clock
	interval time.Duration
	video    media.Sink
	audio    media.Sink
	notifier notify.Scheduler

	mu         sync.Mutex
	preset     *model.Preset
	sessionID  string
	phase      model.Phase
	timeLeft   int
	paused     bool
	cycle      int
	videoReady bool
	audioReady bool

	stopTicker func()
	tickGen    uint64
	alertID    string

	subscribers map[int]chan model.SessionSnapshot
	nextSubID   int
	closed      bool
}

func New(opts Options) *Engine {
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	if opts.Video == nil {
		opts.Video = media.NewPlayer("video")
	}
	if opts.Audio == nil {
		opts.Audio = media.NewPlayer("audio")
	}
	if opts.Notifier == nil {
		opts.Notifier = noopScheduler{}
	}

	return &Engine{
		clock:       opts.Clock,
		interval:    opts.TickInterval,
		video:       opts.Video,
		audio:       opts.Audio,
		notifier:    opts.Notifier,
		phase:       model.PhaseWork,
		cycle:       1,
		subscribers: make(map[int]chan model.SessionSnapshot),
	}
}

// SelectPreset starts a session in the Work phase. It returns ErrSessionActive,
// along with the untouched state, when a preset is already running.
func (e *Engine) SelectPreset(preset model.Preset) (model.SessionSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return e.snapshotLocked(), ErrClosed
	}
	if e.preset != nil {
		return e.snapshotLocked(), ErrSessionActive
	}
	if err := preset.Validate(); err != nil {
		return e.snapshotLocked(), fmt.Errorf("%w: %v", ErrInvalidPreset, err)
	}

	e.preset = &preset
	e.sessionID = uuid.NewString()
	e.phase = model.PhaseWork
	e.timeLeft = preset.WorkDuration
	e.cycle = 1

	if preset.HasMedia() {
		e.loadMediaLocked()
	}
	if !e.paused {
		e.startTickerLocked()
		e.scheduleAlertLocked()
	}

	log.Info().
		Str("sessionId", e.sessionID).
		Str("preset", preset.Tag).
		Int("workSeconds", preset.WorkDuration).
		Bool("paused", e.paused).
		Msg("session started")

	e.publishLocked()
	return e.snapshotLocked(), nil
}

// Tick advances the countdown by one second.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickLocked()
}

func (e *Engine) tickLocked() {
	if e.preset == nil || e.paused || e.timeLeft <= 0 {
		return
	}
	e.timeLeft--
	if e.timeLeft == 0 {
		e.phaseCompleteLocked()
	}
	e.publishLocked()
}

func (e *Engine) phaseCompleteLocked() {
	previous := e.phase
	switch e.phase {
	case model.PhaseWork:
		if e.cycle < e.preset.CyclesBeforeLongBreak {
			e.phase = model.PhaseShortBreak
			e.cycle++
		} else {
			e.phase = model.PhaseLongBreak
			e.cycle = 1
		}
	default:
		// cycle is carried over into the next work phase
		e.phase = model.PhaseWork
	}
	e.timeLeft = e.preset.DurationFor(e.phase)

	e.cancelAlertLocked()
	e.scheduleAlertLocked()

	log.Info().
		Str("sessionId", e.sessionID).
		Str("from", string(previous)).
		Str("to", string(e.phase)).
		Int("cycle", e.cycle).
		Msg("phase complete")
}

// PauseResume toggles the paused flag and the media that goes with it.
func (e *Engine) PauseResume() model.SessionSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.paused = !e.paused
	if e.preset != nil {
		if e.paused {
			e.pauseMediaLocked()
			e.stopTickerLocked()
			e.cancelAlertLocked()
		} else {
			e.playMediaLocked()
			e.startTickerLocked()
			e.scheduleAlertLocked()
		}
		log.Debug().Str("sessionId", e.sessionID).Bool("paused", e.paused).Msg("session toggled")
	}

	e.publishLocked()
	return e.snapshotLocked()
}

// Stop tears the session down and returns the engine to idle.
func (e *Engine) Stop() model.SessionSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
	return e.snapshotLocked()
}

func (e *Engine) stopLocked() {
	e.stopTickerLocked()
	e.cancelAlertLocked()
	e.releaseMediaLocked()

	if e.preset != nil {
		log.Info().Str("sessionId", e.sessionID).Str("preset", e.preset.Tag).Msg("session stopped")
	}

	e.preset = nil
	e.sessionID = ""
	e.timeLeft = 0
	e.paused = false
	e.phase = model.PhaseWork
	e.cycle = 1
	e.publishLocked()
}

// Close stops the session and closes every subscriber channel.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.stopLocked()
	e.closed = true
	for id, ch := range e.subscribers {
		close(ch)
		delete(e.subscribers, id)
	}
}

func (e *Engine) Snapshot() model.SessionSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Subscribe registers an observer. The current snapshot is delivered first.
// A slow observer loses intermediate snapshots but always sees the latest one.
func (e *Engine) Subscribe(buffer int) (<-chan model.SessionSnapshot, func()) {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan model.SessionSnapshot, buffer)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		close(ch)
		return ch, func() {}
	}

	id := e.nextSubID
	e.nextSubID++
	e.subscribers[id] = ch
	ch <- e.snapshotLocked()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			if sub, ok := e.subscribers[id]; ok {
				delete(e.subscribers, id)
				close(sub)
			}
		})
	}
}

func (e *Engine) publishLocked() {
	if len(e.subscribers) == 0 {
		return
	}
	snapshot := e.snapshotLocked()
	for _, ch := range e.subscribers {
		select {
		case ch <- snapshot:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snapshot:
			default:
			}
		}
	}
}

func (e *Engine) snapshotLocked() model.SessionSnapshot {
	snapshot := model.SessionSnapshot{
		SessionID:       e.sessionID,
		Status:          model.StatusIdle,
		Phase:           e.phase,
		TimeLeftSeconds: e.timeLeft,
		Formatted:       model.FormatClock(e.timeLeft),
		IsPaused:        e.paused,
		CurrentCycle:    e.cycle,
		Video:           e.video.State(),
		Audio:           e.audio.State(),
	}
	if e.preset != nil {
		preset := *e.preset
		snapshot.Preset = &preset
		snapshot.Status = model.StatusRunning
		if e.paused {
			snapshot.Status = model.StatusPaused
		}
	}
	return snapshot
}

func (e *Engine) startTickerLocked() {
	e.stopTickerLocked()
	gen := e.tickGen
	e.stopTicker = e.clock.Every(e.interval, func() { e.onTick(gen) })
}

// stopTickerLocked bumps the generation so a tick already in flight is dropped.
func (e *Engine) stopTickerLocked() {
	if e.stopTicker != nil {
		e.stopTicker()
		e.stopTicker = nil
	}
	e.tickGen++
}

func (e *Engine) onTick(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.tickGen || e.stopTicker == nil {
		return
	}
	e.tickLocked()
}

func (e *Engine) loadMediaLocked() {
	e.audioReady = attach(e.audio, "audio", e.preset.AudioSource)
	e.videoReady = attach(e.video, "video", e.preset.VideoSource)
	if !e.paused {
		e.playMediaLocked()
	}
}

func attach(sink media.Sink, name, source string) bool {
	if source == "" {
		return false
	}
	if err := sink.Attach(source); err != nil {
		log.Warn().Err(err).Str("sink", name).Str("source", source).Msg("failed to load media")
		return false
	}
	return true
}

func (e *Engine) playMediaLocked() {
	if e.videoReady {
		logSinkErr("video", "play", e.video.Play())
	}
	if e.audioReady {
		logSinkErr("audio", "play", e.audio.Play())
	}
}

func (e *Engine) pauseMediaLocked() {
	if e.videoReady {
		logSinkErr("video", "pause", e.video.Pause())
	}
	if e.audioReady {
		logSinkErr("audio", "pause", e.audio.Pause())
	}
}

// releaseMediaLocked pauses both sinks and detaches video. Audio keeps its source.
func (e *Engine) releaseMediaLocked() {
	logSinkErr("video", "pause", e.video.Pause())
	logSinkErr("audio", "pause", e.audio.Pause())
	logSinkErr("video", "detach", e.video.Detach())
	e.videoReady = false
	e.audioReady = false
}

func logSinkErr(sink, op string, err error) {
	if err != nil {
		log.Warn().Err(err).Str("sink", sink).Str("op", op).Msg("media call failed")
	}
}

func (e *Engine) scheduleAlertLocked() {
	alert := notify.Alert{
		Title: phaseAlertTitle(e.phase),
		Body:  e.preset.Tag,
		At:    e.clock.Now().Add(time.Duration(e.timeLeft) * time.Second),
	}
	id, err := e.notifier.Schedule(context.Background(), alert)
	if err != nil {
		log.Warn().Err(err).Str("sessionId", e.sessionID).Msg("failed to schedule alert")
		return
	}
	e.alertID = id
}

func (e *Engine) cancelAlertLocked() {
	if e.alertID == "" {
		return
	}
	if err := e.notifier.Cancel(context.Background(), e.alertID); err != nil {
		log.Warn().Err(err).Str("alertId", e.alertID).Msg("failed to cancel alert")
	}
	e.alertID = ""
}

func phaseAlertTitle(phase model.Phase) string {
	switch phase {
	case model.PhaseShortBreak:
		return "Short break is over"
	case model.PhaseLongBreak:
		return "Long break is over"
	default:
		return "Work session complete"
	}
}

type noopScheduler struct{}

func (noopScheduler) Schedule(context.Context, notify.Alert) (string, error) { return "", nil }
func (noopScheduler) Cancel(context.Context, string) error                   { return nil }
