package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	PrevLayer key.Binding
	NextLayer key.Binding
	NextPlot  key.Binding
	Menu      key.Binding
	Up        key.Binding
	Down      key.Binding
	Select    key.Binding
	Back      key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	PrevLayer: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev layer")),
	NextLayer: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next layer")),
	NextPlot:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next plot")),
	Menu:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "plots")),
	Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
	Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
	Select:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("⏎", "select")),
	Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevLayer, k.NextLayer, k.NextPlot, k.Menu, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevLayer, k.NextLayer, k.Up, k.Down},
		{k.NextPlot, k.Menu, k.Select, k.Back, k.Quit},
	}
}
