// Package clock is the time source used by sprite animations.
//
// The plugin refuses to start without a Clock resource in the world; hosts
// normally install System, tests install a Manual clock and step it.
package clock

import (
	"sync"
	"time"
)

// Clock schedules repeating callbacks.
type Clock interface {
	// Now returns the current time of the clock.
	Now() time.Time

	// Every calls fn every d until the returned Timer is stopped.
	// fn may run on another goroutine.
	Every(d time.Duration, fn func()) Timer
}

// Timer is a cancellable repeating schedule.
type Timer interface {
	// Stop cancels the timer. Stop is idempotent. A tick already being
	// delivered may still complete.
	Stop()
}

// System returns a Clock backed by the runtime timers.
func System() Clock { return systemClock{} }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) Every(d time.Duration, fn func()) Timer {
	t := &systemTimer{
		ticker: time.NewTicker(d),
		done:   make(chan struct{}),
	}
	go t.run(fn)
	return t
}

type systemTimer struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *systemTimer) run(fn func()) {
	for {
		select {
		case <-t.done:
			return
		case <-t.ticker.C:
			select {
			case <-t.done:
				return
			default:
			}
			fn()
		}
	}
}

func (t *systemTimer) Stop() {
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
	})
}
