package preferences

import (
	"testing"

	"breathwork/internal/core/model"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowShowsSettings(t *testing.T) {
	prefs := New(test.NewTempApp(t), DefaultSettings(), nil)

	assert.Equal(t, "3", prefs.roundsLabel.Text)
	assert.Equal(t, "30", prefs.breathsLabel.Text)
	assert.Equal(t, "Fast", prefs.speed.Selected)
	assert.True(t, prefs.historyCheck.Checked)
}

func TestWindowStepsAndClamps(t *testing.T) {
	settings := DefaultSettings()
	settings.Rounds = 14
	settings.Breaths = 20
	prefs := New(test.NewTempApp(t), settings, nil)

	test.Tap(prefs.roundsUp)
	test.Tap(prefs.roundsUp)
	assert.Equal(t, "15", prefs.roundsLabel.Text)
	assert.True(t, prefs.roundsUp.Disabled())

	test.Tap(prefs.breathsDown)
	assert.Equal(t, "10", prefs.breathsLabel.Text)
	assert.True(t, prefs.breathsDown.Disabled())
	test.Tap(prefs.breathsDown)
	assert.Equal(t, "10", prefs.breathsLabel.Text)

	test.Tap(prefs.breathsUp)
	assert.Equal(t, "20", prefs.breathsLabel.Text)
	assert.False(t, prefs.breathsDown.Disabled())
}

func TestWindowClampsLoadedValues(t *testing.T) {
	settings := DefaultSettings()
	settings.Rounds = 40
	settings.Breaths = 3
	prefs := New(test.NewTempApp(t), settings, nil)

	assert.Equal(t, "15", prefs.roundsLabel.Text)
	assert.Equal(t, "10", prefs.breathsLabel.Text)
}

func TestWindowSave(t *testing.T) {
	settings := DefaultSettings()
	settings.CycleSeconds = 4
	var saved *Settings
	prefs := New(test.NewTempApp(t), settings, func(value Settings) {
		saved = &value
	})

	test.Tap(prefs.roundsDown)
	test.Tap(prefs.breathsUp)
	prefs.speed.SetSelected(model.SpeedSlow.Label())
	prefs.historyCheck.SetChecked(false)
	test.Tap(prefs.saveButton)

	require.NotNil(t, saved)
	assert.Equal(t, 2, saved.Rounds)
	assert.Equal(t, 40, saved.Breaths)
	assert.Equal(t, model.SpeedSlow, saved.Speed)
	assert.Zero(t, saved.CycleSeconds)
	assert.False(t, saved.HistoryEnabled)
	assert.Equal(t, 5.5, saved.ExerciseConfig().BreathCycleSeconds)
}

func TestWindowSaveKeepsCustomCycle(t *testing.T) {
	settings := DefaultSettings()
	settings.CycleSeconds = 4
	var saved Settings
	prefs := New(test.NewTempApp(t), settings, func(value Settings) {
		saved = value
	})

	test.Tap(prefs.saveButton)

	assert.Equal(t, 4.0, saved.CycleSeconds)
	assert.Equal(t, model.SpeedFast, saved.Speed)
}

func TestWindowCancel(t *testing.T) {
	cancelled := false
	saved := false
	prefs := New(test.NewTempApp(t), DefaultSettings(), func(Settings) { saved = true })
	prefs.SetOnCancel(func() { cancelled = true })

	test.Tap(prefs.cancelButton)

	assert.True(t, cancelled)
	assert.False(t, saved)
}
