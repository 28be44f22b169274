package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up       key.Binding
	down     key.Binding
	enter    key.Binding
	esc      key.Binding
	tab      key.Binding
	backtab  key.Binding
	quit     key.Binding
	version  key.Binding
	accept   key.Binding
	signup   key.Binding
	forgot   key.Binding
	terms    key.Binding
	optimize key.Binding
	execute  key.Binding
	snippet  key.Binding
	language key.Binding
	copyUPI  key.Binding
	copyKey  key.Binding
	rotate   key.Binding
	reload   key.Binding
	yes      key.Binding
	no       key.Binding
}

var keys = keyMap{
	up:       key.NewBinding(key.WithKeys("up", "k")),
	down:     key.NewBinding(key.WithKeys("down", "j")),
	enter:    key.NewBinding(key.WithKeys("enter")),
	esc:      key.NewBinding(key.WithKeys("esc")),
	tab:      key.NewBinding(key.WithKeys("tab")),
	backtab:  key.NewBinding(key.WithKeys("shift+tab")),
	quit:     key.NewBinding(key.WithKeys("q")),
	version:  key.NewBinding(key.WithKeys("v")),
	accept:   key.NewBinding(key.WithKeys("a")),
	signup:   key.NewBinding(key.WithKeys("ctrl+n")),
	forgot:   key.NewBinding(key.WithKeys("ctrl+f")),
	terms:    key.NewBinding(key.WithKeys("ctrl+t")),
	optimize: key.NewBinding(key.WithKeys("ctrl+o")),
	execute:  key.NewBinding(key.WithKeys("ctrl+r")),
	snippet:  key.NewBinding(key.WithKeys("ctrl+y")),
	language: key.NewBinding(key.WithKeys("ctrl+l")),
	copyUPI:  key.NewBinding(key.WithKeys("ctrl+u")),
	copyKey:  key.NewBinding(key.WithKeys("c")),
	rotate:   key.NewBinding(key.WithKeys("r")),
	reload:   key.NewBinding(key.WithKeys("r")),
	yes:      key.NewBinding(key.WithKeys("y")),
	no:       key.NewBinding(key.WithKeys("n")),
}
