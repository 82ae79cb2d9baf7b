// Package media defines the playback sinks driven by the session engine.
package media

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"vibework/backend/internal/model"
)

// ErrMediaLoad is returned when a source cannot be attached.
var ErrMediaLoad = errors.New("media load failed")

// Sink is one playback output (video or audio).
type Sink interface {
	Attach(source string) error
	Play() error
	Pause() error
	Detach() error
	State() model.MediaState
}

// Resolver decides whether a source can be loaded.
type Resolver func(source string) error

// Player is a Sink that tracks playback state for a remote renderer.
// The client mirrors its state from session snapshots.
type Player struct {
	name    string
	resolve Resolver
	loop    bool
	volume  float64

	mu     sync.Mutex
	source string
	status model.SinkStatus
}

type Option func(*Player)

func WithResolver(resolve Resolver) Option {
	return func(p *Player) { p.resolve = resolve }
}

func WithVolume(volume float64) Option {
	return func(p *Player) { p.volume = volume }
}

func NewPlayer(name string, opts ...Option) *Player {
	p := &Player{
		name:   name,
		loop:   true,
		volume: 1,
		status: model.SinkDetached,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Player) Attach(source string) error {
	if source == "" {
		return fmt.Errorf("%s: empty source: %w", p.name, ErrMediaLoad)
	}
	if p.resolve != nil {
		if err := p.resolve(source); err != nil {
			return fmt.Errorf("%s: load %s: %w: %v", p.name, source, ErrMediaLoad, err)
		}
	}

	p.mu.Lock()
	p.source = source
	p.status = model.SinkPaused
	volume := p.volume
	p.mu.Unlock()

	log.Debug().Str("sink", p.name).Str("source", source).Bool("loop", p.loop).Float64("volume", volume).Msg("media attached")
	return nil
}

// SetVolume clamps volume to [0,1].
func (p *Player) SetVolume(volume float64) {
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}
	p.mu.Lock()
	p.volume = volume
	p.mu.Unlock()
}

func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.source == "" {
		return fmt.Errorf("%s: play without source", p.name)
	}
	p.status = model.SinkPlaying
	return nil
}

// Pause is a no-op on a detached sink.
func (p *Player) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.source != "" {
		p.status = model.SinkPaused
	}
	return nil
}

func (p *Player) Detach() error {
	p.mu.Lock()
	p.source = ""
	p.status = model.SinkDetached
	p.mu.Unlock()

	log.Debug().Str("sink", p.name).Msg("media detached")
	return nil
}

func (p *Player) State() model.MediaState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return model.MediaState{Source: p.source, Status: p.status}
}
