package cmd

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the demo key bindings.
type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Tap    key.Binding
	Delete key.Binding
	Add    key.Binding
	Reload key.Binding
	Cancel key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Tap: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "tap"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "backspace"),
			key.WithHelp("d", "delete"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add site"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// help renders the short help line for the current mode.
func (k keyMap) help(picking bool) string {
	bindings := []key.Binding{k.Up, k.Down, k.Tap, k.Delete, k.Add, k.Reload, k.Quit}
	if picking {
		bindings = []key.Binding{k.Up, k.Down, k.Tap, k.Cancel}
	}
	out := ""
	for i, b := range bindings {
		if i > 0 {
			out += " • "
		}
		h := b.Help()
		out += h.Key + " " + h.Desc
	}
	return out
}
