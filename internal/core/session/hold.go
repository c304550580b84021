package session

import (
	"breathwork/internal/core/clock"
	"breathwork/internal/core/model"
)

// holdTimer counts up in tenths of a second until cancelled.
type holdTimer struct {
	clock  clock.Clock
	handle clock.Handle
	tenths int
}

func (timer *holdTimer) start(onTick func()) {
	timer.cancel()
	timer.tenths = 0
	timer.handle = timer.clock.Every(model.TickInterval, onTick)
}

func (timer *holdTimer) tick() {
	timer.tenths += model.TickTenths
}

// stop cancels the timer and returns the value accumulated so far.
func (timer *holdTimer) stop() int {
	timer.cancel()
	return timer.tenths
}

func (timer *holdTimer) cancel() {
	timer.clock.Cancel(timer.handle)
	timer.handle = 0
}

func (timer *holdTimer) reset() {
	timer.cancel()
	timer.tenths = 0
}
