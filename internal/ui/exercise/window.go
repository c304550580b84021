package exercise

import (
	"context"
	"image/color"
	"strings"

	"breathwork/internal/core/model"
	"breathwork/internal/core/session"
	"breathwork/internal/ui/animation"
	"breathwork/internal/ui/display"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const (
	defaultWidth  = float32(420)
	defaultHeight = float32(560)
	bubbleFill    = float32(0.9)
)

var (
	textColor     = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	timerColor    = color.NRGBA{R: 232, G: 190, B: 66, A: 255}
	idleColor     = color.NRGBA{R: 96, G: 125, B: 139, A: 255}
	breathColor   = color.NRGBA{R: 66, G: 165, B: 245, A: 255}
	holdColor     = color.NRGBA{R: 239, G: 83, B: 80, A: 255}
	recoveryColor = color.NRGBA{R: 129, G: 212, B: 250, A: 255}
)

// Window shows the running exercise and, once it finishes, its results.
type Window struct {
	window        fyne.Window
	roundLabel    *canvas.Text
	breathLabel   *canvas.Text
	captionLabel  *canvas.Text
	timerLabel    *canvas.Text
	bubble        *canvas.Circle
	bubbleLayout  *bubbleLayout
	bubbleArea    *fyne.Container
	startButton   *widget.Button
	releaseButton *widget.Button
	resetButton   *widget.Button
	maxLabel      *canvas.Text
	resultsList   *widget.Label
	exerciseView  *fyne.Container
	resultsView   *fyne.Container
	engine        *animation.Engine
	animationCtx  context.Context
	cancelCtx     context.CancelFunc
	onStart       func()
	onRelease     func()
	onReset       func()
}

// New creates the exercise window. The animation engine may be nil.
func New(app fyne.App, engine *animation.Engine) *Window {
	window := app.NewWindow("Breathwork")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	roundLabel := newText("", textColor, 18, true)
	breathLabel := newText("", textColor, 15, false)
	captionLabel := newText("", textColor, 22, true)
	timerLabel := newText("", timerColor, 28, true)

	bubble := canvas.NewCircle(idleColor)
	layout := &bubbleLayout{scale: animation.DefaultConfig().InitialScale}
	bubbleArea := container.New(layout, bubble, container.NewCenter(timerLabel))

	exercise := &Window{
		window:       window,
		roundLabel:   roundLabel,
		breathLabel:  breathLabel,
		captionLabel: captionLabel,
		timerLabel:   timerLabel,
		bubble:       bubble,
		bubbleLayout: layout,
		bubbleArea:   bubbleArea,
		engine:       engine,
	}

	exercise.startButton = widget.NewButton("Start", func() { exercise.fire(exercise.onStart) })
	exercise.startButton.Importance = widget.HighImportance
	exercise.releaseButton = widget.NewButton("Release", func() { exercise.fire(exercise.onRelease) })
	exercise.releaseButton.Importance = widget.DangerImportance
	exercise.resetButton = widget.NewButton("Reset", func() { exercise.fire(exercise.onReset) })

	header := container.NewVBox(
		container.NewCenter(roundLabel),
		container.NewCenter(breathLabel),
	)
	footer := container.NewVBox(
		container.NewCenter(captionLabel),
		container.NewGridWithColumns(3, exercise.startButton, exercise.releaseButton, exercise.resetButton),
	)
	exercise.exerciseView = container.NewBorder(header, footer, nil, nil, bubbleArea)

	resultsTitle := newText("Exercise Complete!", textColor, 22, true)
	exercise.maxLabel = newText("", timerColor, 18, true)
	exercise.resultsList = widget.NewLabel("")
	exercise.resultsList.Alignment = fyne.TextAlignCenter
	againButton := widget.NewButton("Start again", func() { exercise.fire(exercise.onStart) })
	againButton.Importance = widget.HighImportance
	doneButton := widget.NewButton("Done", func() { exercise.fire(exercise.onReset) })
	exercise.resultsView = container.NewVBox(
		container.NewCenter(resultsTitle),
		container.NewCenter(exercise.maxLabel),
		container.NewVScroll(exercise.resultsList),
		container.NewGridWithColumns(2, againButton, doneButton),
	)
	exercise.resultsView.Hide()

	window.SetContent(container.NewStack(exercise.exerciseView, exercise.resultsView))
	window.Resize(fyne.NewSize(defaultWidth, defaultHeight))

	exercise.renderUnsafe(session.Snapshot{Phase: session.PhaseSetup, Round: 1, Config: model.DefaultConfig()})
	return exercise
}

// SetEngine attaches the animation engine.
func (exercise *Window) SetEngine(engine *animation.Engine) {
	exercise.stopEngine()
	exercise.engine = engine
}

// HideOnClose keeps the app running when the window is closed, for use with a tray icon.
func (exercise *Window) HideOnClose() {
	exercise.window.SetCloseIntercept(exercise.Hide)
}

// Show brings the window to front.
func (exercise *Window) Show() {
	exercise.window.Show()
	exercise.window.RequestFocus()
}

// Hide closes the window and stops the bubble animation.
func (exercise *Window) Hide() {
	exercise.stopEngine()
	exercise.window.Hide()
}

// Render updates every widget from snapshot. It may be called from any goroutine.
func (exercise *Window) Render(snapshot session.Snapshot) {
	fyne.Do(func() {
		exercise.renderUnsafe(snapshot)
	})
}

// SetScale resizes the bubble; the animation engine calls it once per frame.
func (exercise *Window) SetScale(scale float32) {
	fyne.Do(func() {
		exercise.setScaleUnsafe(scale)
	})
}

// SetOnStart sets the start handler.
func (exercise *Window) SetOnStart(handler func()) {
	exercise.onStart = handler
}

// SetOnRelease sets the release handler.
func (exercise *Window) SetOnRelease(handler func()) {
	exercise.onRelease = handler
}

// SetOnReset sets the reset handler.
func (exercise *Window) SetOnReset(handler func()) {
	exercise.onReset = handler
}

func (exercise *Window) fire(handler func()) {
	if handler != nil {
		handler()
	}
}

func (exercise *Window) renderUnsafe(snapshot session.Snapshot) {
	if snapshot.Phase == session.PhaseResults {
		exercise.renderResultsUnsafe(snapshot)
		exercise.animate(animation.CueFor(snapshot))
		return
	}
	exercise.resultsView.Hide()
	exercise.exerciseView.Show()

	exercise.setText(exercise.roundLabel, display.RoundLabel(snapshot))
	exercise.setText(exercise.breathLabel, display.BreathLabel(snapshot))
	exercise.setText(exercise.captionLabel, display.Caption(snapshot))
	exercise.setText(exercise.timerLabel, display.TimerText(snapshot))

	if snapshot.Running() {
		exercise.startButton.Disable()
		exercise.resetButton.Enable()
	} else {
		exercise.startButton.Enable()
		exercise.resetButton.Disable()
	}
	if display.CanRelease(snapshot) {
		exercise.releaseButton.Enable()
	} else {
		exercise.releaseButton.Disable()
	}

	cue := animation.CueFor(snapshot)
	exercise.bubble.FillColor = toneColor(cue.Tone)
	exercise.bubble.Refresh()
	exercise.animate(cue)
}

func (exercise *Window) renderResultsUnsafe(snapshot session.Snapshot) {
	exercise.setText(exercise.maxLabel, "Max hold: "+display.FormatSeconds(snapshot.MaxHoldDuration))
	exercise.resultsList.SetText(strings.Join(display.ResultLines(snapshot.RoundResults), "\n"))
	exercise.exerciseView.Hide()
	exercise.resultsView.Show()
}

func (exercise *Window) animate(cue animation.Cue) {
	if exercise.engine == nil {
		exercise.setScaleUnsafe(cue.Scale)
		return
	}
	if exercise.cancelCtx == nil {
		exercise.animationCtx, exercise.cancelCtx = context.WithCancel(context.Background())
	}
	exercise.engine.Animate(exercise.animationCtx, cue)
}

func (exercise *Window) setScaleUnsafe(scale float32) {
	exercise.bubbleLayout.scale = scale
	exercise.bubbleArea.Refresh()
}

func (exercise *Window) stopEngine() {
	if exercise.cancelCtx != nil {
		exercise.cancelCtx()
		exercise.cancelCtx = nil
		exercise.animationCtx = nil
	}
	if exercise.engine != nil {
		exercise.engine.Stop()
	}
}

func (exercise *Window) setText(text *canvas.Text, value string) {
	if text.Text == value {
		return
	}
	text.Text = value
	text.Refresh()
}

func newText(value string, fill color.Color, size float32, bold bool) *canvas.Text {
	text := canvas.NewText(value, fill)
	text.Alignment = fyne.TextAlignCenter
	text.TextStyle = fyne.TextStyle{Bold: bold}
	text.TextSize = size
	return text
}

func toneColor(tone animation.Tone) color.Color {
	switch tone {
	case animation.ToneBreath:
		return breathColor
	case animation.ToneHold:
		return holdColor
	case animation.ToneRecovery:
		return recoveryColor
	default:
		return idleColor
	}
}

// bubbleLayout centres the bubble and sizes it to scale times the available
// square. Remaining objects are stretched over the whole area.
type bubbleLayout struct {
	scale float32
}

func (layout *bubbleLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) == 0 {
		return
	}
	side := size.Width
	if size.Height < side {
		side = size.Height
	}
	side = side * bubbleFill * layout.scale
	if side < 0 {
		side = 0
	}
	bubble := objects[0]
	bubble.Move(fyne.NewPos((size.Width-side)/2, (size.Height-side)/2))
	bubble.Resize(fyne.NewSize(side, side))

	for _, object := range objects[1:] {
		object.Move(fyne.NewPos(0, 0))
		object.Resize(size)
	}
}

func (layout *bubbleLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	width := float32(160)
	height := float32(160)
	for _, object := range objects[1:] {
		minSize := object.MinSize()
		if minSize.Width > width {
			width = minSize.Width
		}
		if minSize.Height > height {
			height = minSize.Height
		}
	}
	return fyne.NewSize(width, height)
}
