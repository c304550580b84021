package model

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
	require.NoError(t, ExerciseConfig{RoundsTarget: 1, BreathsPerRound: 1, BreathCycleSeconds: 0.01}.Validate())
	require.NoError(t, ExerciseConfig{RoundsTarget: 1, BreathsPerRound: 1, BreathCycleSeconds: 1.8e10}.Validate())

	invalid := []ExerciseConfig{
		{RoundsTarget: 0, BreathsPerRound: 30, BreathCycleSeconds: 1.5},
		{RoundsTarget: -2, BreathsPerRound: 30, BreathCycleSeconds: 1.5},
		{RoundsTarget: 3, BreathsPerRound: 0, BreathCycleSeconds: 1.5},
		{RoundsTarget: 3, BreathsPerRound: 30, BreathCycleSeconds: 0},
		{RoundsTarget: 3, BreathsPerRound: 30, BreathCycleSeconds: -1},
		{RoundsTarget: 3, BreathsPerRound: 30, BreathCycleSeconds: math.NaN()},
		{RoundsTarget: 3, BreathsPerRound: 30, BreathCycleSeconds: math.Inf(1)},
		{RoundsTarget: 1, BreathsPerRound: 3, BreathCycleSeconds: 1e12},
		{RoundsTarget: 1, BreathsPerRound: 3, BreathCycleSeconds: 2e10},
	}
	for _, config := range invalid {
		assert.ErrorIs(t, config.Validate(), ErrInvalidConfig, "%+v", config)
	}
}

func TestHalfCycle(t *testing.T) {
	config := ExerciseConfig{RoundsTarget: 1, BreathsPerRound: 1, BreathCycleSeconds: 2}
	assert.Equal(t, time.Second, config.HalfCycle())

	config.BreathCycleSeconds = 5.5
	assert.Equal(t, 2750*time.Millisecond, config.HalfCycle())

	config.BreathCycleSeconds = 1e-9
	assert.Equal(t, time.Millisecond, config.HalfCycle())

	config.BreathCycleSeconds = 1e12
	assert.Equal(t, time.Duration(math.MaxInt64), config.HalfCycle())

	config.BreathCycleSeconds = 86400
	assert.Equal(t, 12*time.Hour, config.HalfCycle())
}

func TestSpeedPresets(t *testing.T) {
	previous := math.Inf(1)
	for _, speed := range Speeds {
		seconds, ok := speed.CycleSeconds()
		require.True(t, ok)
		assert.Less(t, seconds, previous, "presets must be ordered slow to fast")
		previous = seconds
		assert.NotEmpty(t, speed.Label())
	}

	parsed, err := ParseSpeed("normal")
	require.NoError(t, err)
	assert.Equal(t, SpeedNormal, parsed)

	_, err = ParseSpeed("warp")
	assert.Error(t, err)
}

func TestClamps(t *testing.T) {
	assert.Equal(t, MinRounds, ClampRounds(0))
	assert.Equal(t, MaxRounds, ClampRounds(99))
	assert.Equal(t, 4, ClampRounds(4))
	assert.Equal(t, MinBreaths, ClampBreaths(5))
	assert.Equal(t, MaxBreaths, ClampBreaths(120))
	assert.Equal(t, 40, ClampBreaths(40))
}
