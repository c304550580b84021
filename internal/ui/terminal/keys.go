package terminal

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Start   key.Binding
	Release key.Binding
	Reset   key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Start:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start")),
		Release: key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "release")),
		Reset:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Release, k.Reset, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
