package session

import (
	"sync"
	"time"
)

// Clock schedules the periodic tick. The returned cancel func is idempotent.
type Clock interface {
	Now() time.Time
	Every(interval time.Duration, fn func()) (cancel func())
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

func (RealClock) Every(interval time.Duration, fn func()) func() {
	ticker := time.NewTicker(interval)
	stopCh := make(chan struct{})

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(stopCh) })
	}
}
