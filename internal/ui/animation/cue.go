package animation

import (
	"time"

	"breathwork/internal/core/session"
)

// Tone selects the bubble colour for a cue.
type Tone int

const (
	ToneIdle Tone = iota
	ToneBreath
	ToneHold
	ToneRecovery
)

const (
	restScale   float32 = 0.75
	fullScale   float32 = 1.0
	holdScale   float32 = 0.9
	defaultEase         = 300 * time.Millisecond
)

// Cue is the bubble target for one snapshot: the scale to reach and how long
// the transition to it takes.
type Cue struct {
	Scale    float32
	Duration time.Duration
	Tone     Tone
}

// CueFor maps a snapshot to the bubble cue shown for it.
func CueFor(snapshot session.Snapshot) Cue {
	switch snapshot.Phase {
	case session.PhaseBreathing:
		half := snapshot.Config.HalfCycle()
		if snapshot.BreathPhase == session.BreathExhale {
			return Cue{Scale: restScale, Duration: half, Tone: ToneBreath}
		}
		return Cue{Scale: fullScale, Duration: half, Tone: ToneBreath}
	case session.PhaseHoldBreath:
		return Cue{Scale: holdScale, Duration: 2 * time.Second, Tone: ToneHold}
	case session.PhaseRecoveryBreath:
		switch snapshot.RecoveryPhase {
		case session.RecoveryHoldInhale:
			return Cue{Scale: fullScale, Duration: defaultEase, Tone: ToneRecovery}
		case session.RecoveryExhale:
			return Cue{Scale: restScale, Duration: 5 * time.Second, Tone: ToneRecovery}
		default:
			return Cue{Scale: fullScale, Duration: 3 * time.Second, Tone: ToneRecovery}
		}
	default:
		return Cue{Scale: restScale, Duration: defaultEase, Tone: ToneIdle}
	}
}

// Interpolate eases from one scale to another; progress is clamped to [0, 1].
func Interpolate(from, to float32, progress float64) float32 {
	if progress <= 0 {
		return from
	}
	if progress >= 1 {
		return to
	}
	eased := easeInOut(progress)
	return from + (to-from)*float32(eased)
}

func easeInOut(progress float64) float64 {
	if progress < 0.5 {
		return 2 * progress * progress
	}
	return 1 - 2*(1-progress)*(1-progress)
}
