package exercise

import (
	"testing"

	"breathwork/internal/core/model"
	"breathwork/internal/core/session"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
)

var testConfig = model.ExerciseConfig{RoundsTarget: 3, BreathsPerRound: 30, BreathCycleSeconds: 1.5}

func TestWindowInitialState(t *testing.T) {
	window := New(test.NewTempApp(t), nil)

	assert.Equal(t, "Round 1 of 3", window.roundLabel.Text)
	assert.Empty(t, window.breathLabel.Text)
	assert.Empty(t, window.timerLabel.Text)
	assert.False(t, window.startButton.Disabled())
	assert.True(t, window.releaseButton.Disabled())
	assert.True(t, window.resetButton.Disabled())
	assert.False(t, window.resultsView.Visible())
}

func TestWindowRendersBreathing(t *testing.T) {
	window := New(test.NewTempApp(t), nil)

	window.renderUnsafe(session.Snapshot{
		Phase:       session.PhaseBreathing,
		BreathPhase: session.BreathExhale,
		Config:      testConfig,
		Round:       2,
		BreathIndex: 4,
	})

	assert.Equal(t, "Round 2 of 3", window.roundLabel.Text)
	assert.Equal(t, "Breath 5 of 30", window.breathLabel.Text)
	assert.Equal(t, "Exhale", window.captionLabel.Text)
	assert.True(t, window.startButton.Disabled())
	assert.True(t, window.releaseButton.Disabled())
	assert.False(t, window.resetButton.Disabled())
	assert.Equal(t, float32(0.75), window.bubbleLayout.scale)
	assert.Equal(t, breathColor, window.bubble.FillColor)
}

func TestWindowRendersHold(t *testing.T) {
	window := New(test.NewTempApp(t), nil)

	window.renderUnsafe(session.Snapshot{
		Phase:      session.PhaseHoldBreath,
		Config:     testConfig,
		Round:      1,
		TimerValue: 7.3,
	})

	assert.Equal(t, "Hold your breath", window.captionLabel.Text)
	assert.Equal(t, "7.3s", window.timerLabel.Text)
	assert.False(t, window.releaseButton.Disabled())
	assert.Equal(t, float32(0.9), window.bubbleLayout.scale)
	assert.Equal(t, holdColor, window.bubble.FillColor)
}

func TestWindowRendersResults(t *testing.T) {
	window := New(test.NewTempApp(t), nil)

	window.renderUnsafe(session.Snapshot{
		Phase:           session.PhaseResults,
		Config:          testConfig,
		Round:           2,
		RoundResults:    []float64{12, 8.5},
		MaxHoldDuration: 12,
	})

	assert.True(t, window.resultsView.Visible())
	assert.False(t, window.exerciseView.Visible())
	assert.Equal(t, "Max hold: 12.0 seconds", window.maxLabel.Text)
	assert.Equal(t, "Round 1: 12.0 seconds\nRound 2: 8.5 seconds", window.resultsList.Text)

	window.renderUnsafe(session.Snapshot{Phase: session.PhaseSetup, Config: testConfig, Round: 1})
	assert.False(t, window.resultsView.Visible())
	assert.True(t, window.exerciseView.Visible())
}

func TestWindowButtonsFireHandlers(t *testing.T) {
	window := New(test.NewTempApp(t), nil)
	var started, released, reset int
	window.SetOnStart(func() { started++ })
	window.SetOnRelease(func() { released++ })
	window.SetOnReset(func() { reset++ })

	test.Tap(window.startButton)
	test.Tap(window.releaseButton)
	assert.Equal(t, 1, started)
	assert.Equal(t, 0, released, "release is disabled outside the hold")

	window.renderUnsafe(session.Snapshot{Phase: session.PhaseHoldBreath, Config: testConfig, Round: 1})
	test.Tap(window.releaseButton)
	test.Tap(window.resetButton)
	assert.Equal(t, 1, released)
	assert.Equal(t, 1, reset)
}

func TestBubbleLayoutScales(t *testing.T) {
	bubble := canvas.NewCircle(idleColor)
	layout := &bubbleLayout{scale: 0.5}

	layout.Layout([]fyne.CanvasObject{bubble}, fyne.NewSize(200, 400))

	assert.Equal(t, fyne.NewSize(90, 90), bubble.Size())
	assert.Equal(t, fyne.NewPos(55, 155), bubble.Position())
}
