package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines key bindings used across the TUI.
type KeyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Quit     key.Binding

	// Option navigation in the chat
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Quick  key.Binding

	// Markets board
	PrevExchange key.Binding
	NextExchange key.Binding
}

// DefaultKeyMap provides the default key bindings for the TUI.
var DefaultKeyMap = KeyMap{
	Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
	ShiftTab: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	Quick:  key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "pick")),

	PrevExchange: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev exchange")),
	NextExchange: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next exchange")),
}

// bindingHelp adapts a fixed binding list to help.KeyMap.
type bindingHelp []key.Binding

func (b bindingHelp) ShortHelp() []key.Binding { return b }

func (b bindingHelp) FullHelp() [][]key.Binding { return [][]key.Binding{b} }

func (k KeyMap) helpFor(tab Tab) bindingHelp {
	switch tab {
	case TabMarkets:
		return bindingHelp{k.PrevExchange, k.NextExchange, k.Tab, k.Quit}
	default:
		return bindingHelp{k.Up, k.Down, k.Select, k.Quick, k.Tab, k.Quit}
	}
}
