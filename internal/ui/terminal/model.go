// Package terminal drives an exercise session from a terminal with bubbletea.
package terminal

import (
	"breathwork/internal/core/session"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

const maxProgressWidth = 48

// Controller is the part of the session the terminal drives.
type Controller interface {
	Start() error
	Release() bool
	Reset()
	Snapshot() session.Snapshot
}

// FinishedFunc stores a finished session and returns its id.
type FinishedFunc func(session.Snapshot) (string, error)

type eventMsg session.Event

type closedMsg struct{}

type savedMsg struct{ id string }

type saveErrMsg struct{ err error }

// Model is the bubbletea model for the terminal front end.
type Model struct {
	controller Controller
	events     <-chan session.Event
	onFinished FinishedFunc
	snapshot   session.Snapshot
	keys       keyMap
	help       help.Model
	progress   progress.Model
	status     string
	err        error
	width      int
}

// New creates a terminal model. events should come from the same session
// as controller; onFinished may be nil.
func New(controller Controller, events <-chan session.Event, onFinished FinishedFunc) Model {
	m := Model{
		controller: controller,
		events:     events,
		onFinished: onFinished,
		snapshot:   controller.Snapshot(),
		keys:       defaultKeyMap(),
		help:       help.New(),
		progress:   progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
	m.progress.Width = maxProgressWidth
	return m
}

// Snapshot returns the state currently on screen.
func (m Model) Snapshot() session.Snapshot {
	return m.snapshot
}

func (m Model) Init() tea.Cmd {
	return waitForEvent(m.events)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.progress.Width = min(maxProgressWidth, max(msg.Width-4, 10))
		return m, nil
	case eventMsg:
		m.snapshot = msg.Snapshot
		cmds := []tea.Cmd{waitForEvent(m.events)}
		if msg.Type == session.EventFinished && m.onFinished != nil {
			cmds = append(cmds, m.saveCmd(msg.Snapshot))
		}
		return m, tea.Batch(cmds...)
	case closedMsg:
		return m, tea.Quit
	case savedMsg:
		m.status = "Session saved as " + msg.id
		return m, nil
	case saveErrMsg:
		m.err = msg.err
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Start):
		m.err = nil
		m.status = ""
		if err := m.controller.Start(); err != nil {
			m.err = err
		}
	case key.Matches(msg, m.keys.Release):
		m.controller.Release()
	case key.Matches(msg, m.keys.Reset):
		m.status = ""
		m.controller.Reset()
	default:
		return m, nil
	}
	m.snapshot = m.controller.Snapshot()
	return m, nil
}

func (m Model) saveCmd(snapshot session.Snapshot) tea.Cmd {
	onFinished := m.onFinished
	return func() tea.Msg {
		id, err := onFinished(snapshot)
		if err != nil {
			return saveErrMsg{err: err}
		}
		return savedMsg{id: id}
	}
}

func waitForEvent(events <-chan session.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(event)
	}
}
