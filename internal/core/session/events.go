package session

import (
	"time"

	"breathwork/internal/core/model"
)

// Phase represents the top-level state of an exercise session.
type Phase string

const (
	PhaseSetup          Phase = "setup"
	PhaseBreathing      Phase = "breathing"
	PhaseHoldBreath     Phase = "hold_breath"
	PhaseRecoveryBreath Phase = "recovery_breath"
	PhaseResults        Phase = "results"
)

// BreathPhase is the sub-phase of PhaseBreathing.
type BreathPhase string

const (
	BreathInhale BreathPhase = "inhale"
	BreathExhale BreathPhase = "exhale"
)

// RecoveryPhase is the sub-phase of PhaseRecoveryBreath.
type RecoveryPhase string

const (
	RecoveryDeepInhale RecoveryPhase = "deep_inhale"
	RecoveryHoldInhale RecoveryPhase = "hold_inhale"
	RecoveryExhale     RecoveryPhase = "exhale"
)

// EventType defines the type of session event.
type EventType string

const (
	// EventTransition follows every phase or sub-phase change.
	EventTransition EventType = "transition"
	// EventTick follows a timer tick that changed the visible value.
	EventTick EventType = "tick"
	// EventFinished is emitted once when the session enters PhaseResults.
	EventFinished EventType = "finished"
)

// Snapshot is an immutable copy of the session state.
type Snapshot struct {
	Phase         Phase
	BreathPhase   BreathPhase
	RecoveryPhase RecoveryPhase

	Config      model.ExerciseConfig
	Round       int
	BreathIndex int

	// TimerValue counts up while holding and down during recovery, in seconds.
	TimerValue float64

	RoundResults    []float64
	MaxHoldDuration float64

	StartedAt  time.Time
	FinishedAt time.Time
}

// Running reports whether an exercise is in progress.
func (snapshot Snapshot) Running() bool {
	switch snapshot.Phase {
	case PhaseBreathing, PhaseHoldBreath, PhaseRecoveryBreath:
		return true
	default:
		return false
	}
}

// Event represents a session update for observers.
type Event struct {
	Type     EventType
	Snapshot Snapshot
	At       time.Time
}
