package preferences

import (
	"breathwork/internal/core/model"
)

// Settings defines editable user preferences.
type Settings struct {
	Rounds  int
	Breaths int
	Speed   model.Speed
	// CycleSeconds overrides the speed preset when positive.
	CycleSeconds float64

	HistoryEnabled bool
}

// DefaultSettings returns default settings for breathwork.
func DefaultSettings() Settings {
	config := model.DefaultConfig()
	return Settings{
		Rounds:         config.RoundsTarget,
		Breaths:        config.BreathsPerRound,
		Speed:          model.SpeedFast,
		HistoryEnabled: true,
	}
}

// BreathCycleSeconds resolves the cycle length from the override or the preset.
func (settings Settings) BreathCycleSeconds() float64 {
	if settings.CycleSeconds > 0 {
		return settings.CycleSeconds
	}
	if seconds, ok := settings.Speed.CycleSeconds(); ok {
		return seconds
	}
	return model.DefaultConfig().BreathCycleSeconds
}

// ExerciseConfig converts settings to an ExerciseConfig.
func (settings Settings) ExerciseConfig() model.ExerciseConfig {
	return model.ExerciseConfig{
		RoundsTarget:       settings.Rounds,
		BreathsPerRound:    settings.Breaths,
		BreathCycleSeconds: settings.BreathCycleSeconds(),
	}
}
