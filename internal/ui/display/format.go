// Package display turns session snapshots into the text shown by the desktop
// and terminal front ends.
package display

import (
	"fmt"

	"breathwork/internal/core/session"
)

// Caption returns the instruction for the current phase.
func Caption(snapshot session.Snapshot) string {
	switch snapshot.Phase {
	case session.PhaseSetup:
		return "Ready when you are"
	case session.PhaseBreathing:
		if snapshot.BreathPhase == session.BreathExhale {
			return "Exhale"
		}
		return "Inhale"
	case session.PhaseHoldBreath:
		return "Hold your breath"
	case session.PhaseRecoveryBreath:
		switch snapshot.RecoveryPhase {
		case session.RecoveryHoldInhale:
			return "Hold the inhale"
		case session.RecoveryExhale:
			return "Slow exhale"
		default:
			return "Deep inhale"
		}
	case session.PhaseResults:
		return "Exercise Complete!"
	default:
		return ""
	}
}

// RoundLabel returns "Round n of m".
func RoundLabel(snapshot session.Snapshot) string {
	return fmt.Sprintf("Round %d of %d", snapshot.Round, snapshot.Config.RoundsTarget)
}

// BreathLabel returns the 1-based breath counter, or "" outside PhaseBreathing.
func BreathLabel(snapshot session.Snapshot) string {
	if snapshot.Phase != session.PhaseBreathing {
		return ""
	}
	return fmt.Sprintf("Breath %d of %d", snapshot.BreathIndex+1, snapshot.Config.BreathsPerRound)
}

// TimerText returns the hold or recovery timer, or "" when no timer is visible.
func TimerText(snapshot session.Snapshot) string {
	switch snapshot.Phase {
	case session.PhaseHoldBreath, session.PhaseRecoveryBreath:
		return fmt.Sprintf("%.1fs", snapshot.TimerValue)
	default:
		return ""
	}
}

// FormatSeconds formats a hold duration with one decimal.
func FormatSeconds(seconds float64) string {
	return fmt.Sprintf("%.1f seconds", seconds)
}

// ResultLines lists each round's hold time.
func ResultLines(results []float64) []string {
	lines := make([]string, 0, len(results))
	for index, held := range results {
		lines = append(lines, fmt.Sprintf("Round %d: %s", index+1, FormatSeconds(held)))
	}
	return lines
}

// CanRelease reports whether the release control should be enabled.
func CanRelease(snapshot session.Snapshot) bool {
	return snapshot.Phase == session.PhaseHoldBreath
}
