package preferences

import (
	"strconv"

	"breathwork/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window       fyne.Window
	settings     Settings
	onSave       func(Settings)
	onCancel     func()
	rounds       int
	breaths      int
	roundsLabel  *widget.Label
	breathsLabel *widget.Label
	roundsDown   *widget.Button
	roundsUp     *widget.Button
	breathsDown  *widget.Button
	breathsUp    *widget.Button
	speed        *widget.RadioGroup
	historyCheck *widget.Check
	saveButton   *widget.Button
	cancelButton *widget.Button
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("Breathwork Settings")

	labels := make([]string, 0, len(model.Speeds))
	for _, speed := range model.Speeds {
		labels = append(labels, speed.Label())
	}

	prefs := &Window{
		window:       window,
		onSave:       onSave,
		roundsLabel:  widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		breathsLabel: widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		speed:        widget.NewRadioGroup(labels, nil),
		historyCheck: widget.NewCheck("Keep session history", nil),
	}
	prefs.speed.Horizontal = true
	prefs.speed.Required = true

	prefs.roundsDown = widget.NewButton("-", func() { prefs.setRounds(prefs.rounds - model.RoundsStep) })
	prefs.roundsUp = widget.NewButton("+", func() { prefs.setRounds(prefs.rounds + model.RoundsStep) })
	prefs.breathsDown = widget.NewButton("-", func() { prefs.setBreaths(prefs.breaths - model.BreathsStep) })
	prefs.breathsUp = widget.NewButton("+", func() { prefs.setBreaths(prefs.breaths + model.BreathsStep) })

	form := container.NewVBox(
		widget.NewLabelWithStyle("Exercise", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Rounds"), layout.NewSpacer(), prefs.roundsDown, prefs.roundsLabel, prefs.roundsUp),
		container.NewHBox(widget.NewLabel("Breaths per round"), layout.NewSpacer(), prefs.breathsDown, prefs.breathsLabel, prefs.breathsUp),
		widget.NewLabel("Breathing speed"),
		prefs.speed,
		prefs.historyCheck,
	)

	prefs.saveButton = widget.NewButton("Save", prefs.handleSave)
	prefs.cancelButton = widget.NewButton("Cancel", func() {
		window.Hide()
		if prefs.onCancel != nil {
			prefs.onCancel()
		}
	})
	buttons := container.NewHBox(prefs.saveButton, layout.NewSpacer(), prefs.cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(380, 280))
	window.SetCloseIntercept(window.Hide)

	prefs.UpdateSettings(settings)
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// SetOnCancel sets the cancel handler.
func (prefs *Window) SetOnCancel(handler func()) {
	prefs.onCancel = handler
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.setRounds(settings.Rounds)
	prefs.setBreaths(settings.Breaths)
	prefs.speed.SetSelected(speedFor(settings).Label())
	prefs.historyCheck.SetChecked(settings.HistoryEnabled)
}

func (prefs *Window) setRounds(value int) {
	prefs.rounds = model.ClampRounds(value)
	prefs.roundsLabel.SetText(strconv.Itoa(prefs.rounds))
	setEnabled(prefs.roundsDown, prefs.rounds > model.MinRounds)
	setEnabled(prefs.roundsUp, prefs.rounds < model.MaxRounds)
}

func (prefs *Window) setBreaths(value int) {
	prefs.breaths = model.ClampBreaths(value)
	prefs.breathsLabel.SetText(strconv.Itoa(prefs.breaths))
	setEnabled(prefs.breathsDown, prefs.breaths > model.MinBreaths)
	setEnabled(prefs.breathsUp, prefs.breaths < model.MaxBreaths)
}

func (prefs *Window) handleSave() {
	settings := prefs.settings
	settings.Rounds = prefs.rounds
	settings.Breaths = prefs.breaths
	for _, speed := range model.Speeds {
		if speed.Label() == prefs.speed.Selected && speed != settings.Speed {
			settings.Speed = speed
			// A preset picked here replaces a custom cycle length.
			settings.CycleSeconds = 0
		}
	}
	settings.HistoryEnabled = prefs.historyCheck.Checked

	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func speedFor(settings Settings) model.Speed {
	if _, ok := settings.Speed.CycleSeconds(); ok {
		return settings.Speed
	}
	return DefaultSettings().Speed
}

func setEnabled(button *widget.Button, enabled bool) {
	if enabled {
		button.Enable()
		return
	}
	button.Disable()
}
