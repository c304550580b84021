package model

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidConfig indicates a non-positive round count, breath count or cycle length.
var ErrInvalidConfig = errors.New("invalid exercise config")

// Timing constants shared by every exercise variant.
const (
	TickInterval = 100 * time.Millisecond
	// TickTenths is the timer increment per tick, in tenths of a second.
	TickTenths = 1

	RecoveryHoldTenths   = 150
	RecoveryMarkerDelay  = 3 * time.Second
	RecoveryExhaleTenths = 50
)

// Bounds used by the settings controls. The engine itself accepts any positive value.
const (
	MinRounds   = 1
	MaxRounds   = 15
	RoundsStep  = 1
	MinBreaths  = 10
	MaxBreaths  = 90
	BreathsStep = 10
)

// Speed names a breathing tempo preset.
type Speed string

const (
	SpeedSlow   Speed = "slow"
	SpeedNormal Speed = "normal"
	SpeedFast   Speed = "fast"
)

// Speeds lists presets from slowest to fastest.
var Speeds = []Speed{SpeedSlow, SpeedNormal, SpeedFast}

// CycleSeconds returns the inhale+exhale length for the preset.
func (speed Speed) CycleSeconds() (float64, bool) {
	switch speed {
	case SpeedSlow:
		return 5.5, true
	case SpeedNormal:
		return 3.0, true
	case SpeedFast:
		return 1.5, true
	default:
		return 0, false
	}
}

// Label returns the display name of the preset.
func (speed Speed) Label() string {
	switch speed {
	case SpeedSlow:
		return "Slow"
	case SpeedNormal:
		return "Normal"
	case SpeedFast:
		return "Fast"
	default:
		return string(speed)
	}
}

// ParseSpeed resolves a preset name, case-sensitive lower case.
func ParseSpeed(value string) (Speed, error) {
	speed := Speed(value)
	if _, ok := speed.CycleSeconds(); !ok {
		return "", fmt.Errorf("unknown speed %q", value)
	}
	return speed, nil
}

// ExerciseConfig contains the parameters of one exercise session.
type ExerciseConfig struct {
	RoundsTarget       int
	BreathsPerRound    int
	BreathCycleSeconds float64
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() ExerciseConfig {
	return ExerciseConfig{
		RoundsTarget:       3,
		BreathsPerRound:    30,
		BreathCycleSeconds: 1.5,
	}
}

// Validate reports ErrInvalidConfig for non-positive values and for cycles
// too long to schedule.
func (config ExerciseConfig) Validate() error {
	if config.RoundsTarget < 1 {
		return fmt.Errorf("%w: rounds must be at least 1, got %d", ErrInvalidConfig, config.RoundsTarget)
	}
	if config.BreathsPerRound < 1 {
		return fmt.Errorf("%w: breaths per round must be at least 1, got %d", ErrInvalidConfig, config.BreathsPerRound)
	}
	if math.IsNaN(config.BreathCycleSeconds) || math.IsInf(config.BreathCycleSeconds, 0) || config.BreathCycleSeconds <= 0 {
		return fmt.Errorf("%w: breath cycle must be positive, got %v", ErrInvalidConfig, config.BreathCycleSeconds)
	}
	if halfCycleNanos(config.BreathCycleSeconds) >= float64(math.MaxInt64) {
		return fmt.Errorf("%w: breath cycle of %v seconds is too long", ErrInvalidConfig, config.BreathCycleSeconds)
	}
	return nil
}

// HalfCycle returns the duration of a single inhale or exhale, never below one
// millisecond and saturating at the largest time.Duration.
func (config ExerciseConfig) HalfCycle() time.Duration {
	nanos := halfCycleNanos(config.BreathCycleSeconds)
	if nanos >= float64(math.MaxInt64) {
		return time.Duration(math.MaxInt64)
	}
	half := time.Duration(nanos)
	if half < time.Millisecond {
		return time.Millisecond
	}
	return half
}

func halfCycleNanos(cycleSeconds float64) float64 {
	return cycleSeconds * float64(time.Second) / 2
}

// ClampRounds keeps a rounds value inside the settings bounds.
func ClampRounds(value int) int {
	return clamp(value, MinRounds, MaxRounds)
}

// ClampBreaths keeps a breaths value inside the settings bounds.
func ClampBreaths(value int) int {
	return clamp(value, MinBreaths, MaxBreaths)
}

func clamp(value, lower, upper int) int {
	if value < lower {
		return lower
	}
	if value > upper {
		return upper
	}
	return value
}
