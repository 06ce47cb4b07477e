package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit   key.Binding
	Finish key.Binding
	Again  key.Binding
	Leave  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Finish: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "end round"),
		),
		Again: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "play again"),
		),
		Leave: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

type playHelp struct{ keys keyMap }

func (h playHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.keys.Finish, h.keys.Quit}
}

func (h playHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}

type recapHelp struct{ keys keyMap }

func (h recapHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.keys.Again, h.keys.Leave}
}

func (h recapHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}
