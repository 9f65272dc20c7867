package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Deal      key.Binding
	Standard  key.Binding
	Selection key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Deal: key.NewBinding(
			key.WithKeys("n", " ", "enter"),
			key.WithHelp("space/n", "deal"),
		),
		Standard: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "toggle standard rules"),
		),
		Selection: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "toggle best/last"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Deal, k.Standard, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Deal, k.Standard, k.Selection},
		{k.Help, k.Quit},
	}
}
