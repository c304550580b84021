package clock

import (
	"sort"
	"sync"
	"time"
)

// Manual is a deterministic Clock whose time only moves on Advance.
type Manual struct {
	mu      sync.Mutex
	now     time.Time
	next    Handle
	seq     uint64
	pending map[Handle]*manualTimer
}

type manualTimer struct {
	handle   Handle
	deadline time.Time
	interval time.Duration
	seq      uint64
	fn       func()
}

// NewManual creates a Manual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start, pending: make(map[Handle]*manualTimer)}
}

// Now returns the virtual time.
func (clock *Manual) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

// Every registers a repeating callback.
func (clock *Manual) Every(interval time.Duration, fn func()) Handle {
	if interval <= 0 {
		interval = time.Millisecond
	}
	return clock.schedule(interval, interval, fn)
}

// After registers a one-shot callback.
func (clock *Manual) After(delay time.Duration, fn func()) Handle {
	if delay < 0 {
		delay = 0
	}
	return clock.schedule(delay, 0, fn)
}

// Cancel removes a pending callback.
func (clock *Manual) Cancel(handle Handle) {
	clock.mu.Lock()
	delete(clock.pending, handle)
	clock.mu.Unlock()
}

// Pending returns the number of scheduled callbacks.
func (clock *Manual) Pending() int {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return len(clock.pending)
}

// Advance moves time forward by delta, firing due callbacks in deadline order.
// Callbacks run without the clock lock held and may schedule or cancel others.
func (clock *Manual) Advance(delta time.Duration) {
	clock.mu.Lock()
	target := clock.now.Add(delta)
	clock.mu.Unlock()

	for {
		clock.mu.Lock()
		due := clock.nextDueLocked(target)
		if due == nil {
			clock.now = target
			clock.mu.Unlock()
			return
		}
		clock.now = due.deadline
		fn := due.fn
		if due.interval > 0 {
			due.deadline = due.deadline.Add(due.interval)
			clock.seq++
			due.seq = clock.seq
		} else {
			delete(clock.pending, due.handle)
		}
		clock.mu.Unlock()

		fn()
	}
}

func (clock *Manual) schedule(delay, interval time.Duration, fn func()) Handle {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.next++
	clock.seq++
	clock.pending[clock.next] = &manualTimer{
		handle:   clock.next,
		deadline: clock.now.Add(delay),
		interval: interval,
		seq:      clock.seq,
		fn:       fn,
	}
	return clock.next
}

func (clock *Manual) nextDueLocked(target time.Time) *manualTimer {
	candidates := make([]*manualTimer, 0, len(clock.pending))
	for _, timer := range clock.pending {
		if !timer.deadline.After(target) {
			candidates = append(candidates, timer)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].deadline.Equal(candidates[j].deadline) {
			return candidates[i].seq < candidates[j].seq
		}
		return candidates[i].deadline.Before(candidates[j].deadline)
	})
	return candidates[0]
}
