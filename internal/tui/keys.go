package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Switch key.Binding
	Edit   key.Binding
	Unset  key.Binding
	Quit   key.Binding
	Abort  key.Binding
	Save   key.Binding
	Cancel key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Top:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "top")),
		Bottom: key.NewBinding(key.WithKeys("G"), key.WithHelp("G", "bottom")),
		Switch: key.NewBinding(key.WithKeys("tab"), key.WithHelp("Tab", "switch")),
		Edit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "edit")),
		Unset:  key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "unset")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
		Abort:  key.NewBinding(key.WithKeys("ctrl+c")),
		Save:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "save")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "cancel")),
	}
}

func (k keyMap) navigation() []key.Binding {
	return []key.Binding{k.Switch, k.Up, k.Down, k.Edit, k.Unset, k.Quit}
}

func (k keyMap) editing() []key.Binding {
	return []key.Binding{k.Save, k.Cancel}
}
