package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up       key.Binding
	down     key.Binding
	pageUp   key.Binding
	pageDown key.Binding
	enter    key.Binding
	esc      key.Binding
	quit     key.Binding
	offline  key.Binding
	reload   key.Binding
	export   key.Binding
	importB  key.Binding
	copy     key.Binding
	info     key.Binding
	yes      key.Binding
	no       key.Binding
}

var keys = keyMap{
	up:       key.NewBinding(key.WithKeys("up", "k")),
	down:     key.NewBinding(key.WithKeys("down", "j")),
	pageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u")),
	pageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d", " ")),
	enter:    key.NewBinding(key.WithKeys("enter")),
	esc:      key.NewBinding(key.WithKeys("esc")),
	quit:     key.NewBinding(key.WithKeys("q", "ctrl+c")),
	offline:  key.NewBinding(key.WithKeys("o")),
	reload:   key.NewBinding(key.WithKeys("r")),
	export:   key.NewBinding(key.WithKeys("e")),
	importB:  key.NewBinding(key.WithKeys("i")),
	copy:     key.NewBinding(key.WithKeys("c")),
	info:     key.NewBinding(key.WithKeys("v")),
	yes:      key.NewBinding(key.WithKeys("y", "s")),
	no:       key.NewBinding(key.WithKeys("n", "esc")),
}
