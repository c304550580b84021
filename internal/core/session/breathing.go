package session

import (
	"time"

	"breathwork/internal/core/clock"
)

// breathCycleTimer alternates inhale and exhale every half cycle. It counts
// completed breaths but has no notion of the per-round quota.
type breathCycleTimer struct {
	clock  clock.Clock
	handle clock.Handle
	phase  BreathPhase
	index  int
}

func (timer *breathCycleTimer) start(half time.Duration, onTick func()) {
	timer.cancel()
	timer.phase = BreathInhale
	timer.index = 0
	timer.handle = timer.clock.Every(half, onTick)
}

// advance moves to the next half cycle. Finishing an exhale counts a breath.
func (timer *breathCycleTimer) advance() {
	if timer.phase == BreathInhale {
		timer.phase = BreathExhale
		return
	}
	timer.index++
	timer.phase = BreathInhale
}

func (timer *breathCycleTimer) cancel() {
	timer.clock.Cancel(timer.handle)
	timer.handle = 0
}

func (timer *breathCycleTimer) reset() {
	timer.cancel()
	timer.phase = ""
	timer.index = 0
}
