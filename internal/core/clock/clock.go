// Package clock schedules the repeating and one-shot callbacks that drive an
// exercise session.
package clock

import (
	"sync"
	"time"
)

// Handle identifies a scheduled callback. The zero Handle is never issued.
type Handle uint64

// Clock schedules callbacks. Cancelling an unknown, zero or already
// cancelled handle is a no-op.
type Clock interface {
	Every(interval time.Duration, fn func()) Handle
	After(delay time.Duration, fn func()) Handle
	Cancel(handle Handle)
	Now() time.Time
}

// Real schedules callbacks on wall-clock time. A callback that races with
// Cancel may still run once, so callers guard their own state.
type Real struct {
	mu       sync.Mutex
	next     Handle
	stoppers map[Handle]func()
}

// NewReal creates a wall-clock Clock.
func NewReal() *Real {
	return &Real{stoppers: make(map[Handle]func())}
}

// Now returns the current time.
func (clock *Real) Now() time.Time {
	return time.Now()
}

// Every runs fn every interval on its own goroutine until cancelled.
func (clock *Real) Every(interval time.Duration, fn func()) Handle {
	if interval <= 0 {
		interval = time.Millisecond
	}
	stopCh := make(chan struct{})
	var once sync.Once
	handle := clock.register(func() {
		once.Do(func() { close(stopCh) })
	})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
			}
			select {
			case <-stopCh:
				return
			default:
			}
			fn()
		}
	}()
	return handle
}

// After schedules fn with time.AfterFunc.
func (clock *Real) After(delay time.Duration, fn func()) Handle {
	if delay < 0 {
		delay = 0
	}
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.next++
	handle := clock.next
	timer := time.AfterFunc(delay, func() {
		clock.forget(handle)
		fn()
	})
	clock.stoppers[handle] = func() { timer.Stop() }
	return handle
}

// Cancel stops the callback behind handle.
func (clock *Real) Cancel(handle Handle) {
	clock.mu.Lock()
	stop, ok := clock.stoppers[handle]
	delete(clock.stoppers, handle)
	clock.mu.Unlock()
	if ok {
		stop()
	}
}

// Pending returns the number of callbacks not yet cancelled or fired.
func (clock *Real) Pending() int {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return len(clock.stoppers)
}

func (clock *Real) register(stop func()) Handle {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.next++
	clock.stoppers[clock.next] = stop
	return clock.next
}

func (clock *Real) forget(handle Handle) {
	clock.mu.Lock()
	delete(clock.stoppers, handle)
	clock.mu.Unlock()
}
