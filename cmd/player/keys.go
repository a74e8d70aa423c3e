package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	toggle   key.Binding
	next     key.Binding
	prev     key.Binding
	shuffle  key.Binding
	repeat   key.Binding
	volUp    key.Binding
	volDown  key.Binding
	forward  key.Binding
	backward key.Binding
	remove   key.Binding
	clear    key.Binding
	quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		toggle:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		next:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next")),
		prev:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "previous")),
		shuffle:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "shuffle")),
		repeat:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "repeat")),
		volUp:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "volume up")),
		volDown:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "volume down")),
		forward:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "seek +5s")),
		backward: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "seek -5s")),
		remove:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "remove current")),
		clear:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear queue")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.toggle, k.next, k.prev, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.toggle, k.next, k.prev},
		{k.shuffle, k.repeat, k.remove, k.clear},
		{k.volUp, k.volDown, k.forward, k.backward},
		{k.quit},
	}
}
