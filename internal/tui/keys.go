package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Lock   key.Binding
	Unlock key.Binding
	Show   key.Binding
	Hide   key.Binding
	Reset  key.Binding
	Clear  key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Lock:   key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "lock")),
		Unlock: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "unlock")),
		Show:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "show button")),
		Hide:   key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "hide button")),
		Reset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset position")),
		Clear:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Lock, k.Unlock, k.Show, k.Hide, k.Reset, k.Clear, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
