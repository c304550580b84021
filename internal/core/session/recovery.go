package session

import (
	"breathwork/internal/core/clock"
	"breathwork/internal/core/model"
)

// recoveryTimer runs the deep-inhale-hold countdown followed by the exhale
// countdown. A separate one-shot flips DeepInhale to HoldInhale.
type recoveryTimer struct {
	clock     clock.Clock
	countdown clock.Handle
	marker    clock.Handle
	phase     RecoveryPhase
	remaining int
}

func (timer *recoveryTimer) startHold(onTick, onMarker func()) {
	timer.cancel()
	timer.phase = RecoveryDeepInhale
	timer.remaining = model.RecoveryHoldTenths
	timer.countdown = timer.clock.Every(model.TickInterval, onTick)
	timer.marker = timer.clock.After(model.RecoveryMarkerDelay, onMarker)
}

func (timer *recoveryTimer) startExhale(onTick func()) {
	timer.cancel()
	timer.phase = RecoveryExhale
	timer.remaining = model.RecoveryExhaleTenths
	timer.countdown = timer.clock.Every(model.TickInterval, onTick)
}

// tick decrements the countdown and reports whether it reached zero.
func (timer *recoveryTimer) tick() bool {
	timer.remaining -= model.TickTenths
	if timer.remaining > 0 {
		return false
	}
	timer.remaining = 0
	timer.clock.Cancel(timer.countdown)
	timer.countdown = 0
	return true
}

// mark applies the cosmetic HoldInhale sub-phase. It reports whether anything changed.
func (timer *recoveryTimer) mark() bool {
	timer.marker = 0
	if timer.phase != RecoveryDeepInhale {
		return false
	}
	timer.phase = RecoveryHoldInhale
	return true
}

func (timer *recoveryTimer) cancel() {
	timer.clock.Cancel(timer.countdown)
	timer.clock.Cancel(timer.marker)
	timer.countdown = 0
	timer.marker = 0
}

func (timer *recoveryTimer) reset() {
	timer.cancel()
	timer.phase = ""
	timer.remaining = 0
}
