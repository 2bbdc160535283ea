package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Pause      key.Binding
	SeekBack   key.Binding
	SeekFwd    key.Binding
	VolumeUp   key.Binding
	VolumeDown key.Binding
	Loop       key.Binding
	Panel      key.Binding
	Prev       key.Binding
	Next       key.Binding
	Decrease   key.Binding
	Increase   key.Binding
	Mirror     key.Binding
	Easing     key.Binding
	Save       key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Pause:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause")),
		SeekBack:   key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "-5s")),
		SeekFwd:    key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "+5s")),
		VolumeUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "volume up")),
		VolumeDown: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "volume down")),
		Loop:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "loop")),
		Panel:      key.NewBinding(key.WithKeys("c", "tab"), key.WithHelp("c", "controls")),
		Prev:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "prev field")),
		Next:       key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "next field")),
		Decrease:   key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "decrease")),
		Increase:   key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "increase")),
		Mirror:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mirror")),
		Easing:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "easing")),
		Save:       key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "save config")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:       key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp is the one-line help shown under the track.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.SeekBack, k.SeekFwd, k.VolumeUp, k.VolumeDown, k.Panel, k.Help, k.Quit}
}

// FullHelp groups every binding by what it controls.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.SeekBack, k.SeekFwd, k.Loop},
		{k.VolumeUp, k.VolumeDown, k.Mirror, k.Easing},
		{k.Panel, k.Prev, k.Next, k.Decrease, k.Increase},
		{k.Save, k.Help, k.Quit},
	}
}
