package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/firedays/internal/engine"
)

// KeyMap holds the keys the terminal host handles itself. Everything else
// is forwarded to the scene.
type KeyMap struct {
	Quit       key.Binding
	Help       key.Binding
	Screenshot key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Help}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Quit, k.Help, k.Screenshot}}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Screenshot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "screenshot"),
		),
	}
}

// keyNames maps Bubble Tea key names to engine key names where they differ.
var keyNames = map[string]string{
	"esc":    "escape",
	" ":      "space",
	"pgup":   "pageup",
	"pgdown": "pagedown",
}

// KeyEvents translates a key message into engine events. Terminals report
// no key releases, so every press yields a KeyDown and KeyUp pair, plus a
// TextInput for printable runes.
func KeyEvents(msg tea.KeyMsg) []engine.Event {
	name := msg.String()
	var mod engine.Mod

	// Peel modifier prefixes off names like "ctrl+shift+up"
	for {
		prefix, rest, ok := strings.Cut(name, "+")
		if !ok || rest == "" {
			break
		}
		switch prefix {
		case "ctrl":
			mod |= engine.ModCtrl
		case "alt":
			mod |= engine.ModAlt
		case "shift":
			mod |= engine.ModShift
		default:
			ok = false
		}
		if !ok {
			break
		}
		name = rest
	}
	if msg.Alt {
		mod |= engine.ModAlt
	}
	if mapped, ok := keyNames[name]; ok {
		name = mapped
	}

	events := []engine.Event{
		{Kind: engine.KindKeyDown, Key: name, Mod: mod},
	}
	if msg.Type == tea.KeyRunes && !msg.Alt {
		events = append(events, engine.Event{Kind: engine.KindTextInput, Text: string(msg.Runes), Mod: mod})
	}
	if msg.Type == tea.KeySpace {
		events = append(events, engine.Event{Kind: engine.KindTextInput, Text: " ", Mod: mod})
	}
	return append(events, engine.Event{Kind: engine.KindKeyUp, Key: name, Mod: mod})
}

// MouseEvents translates a mouse message into engine events. Positions
// are cell centers so hit tests land inside the cell that was clicked.
func MouseEvents(msg tea.MouseMsg) []engine.Event {
	var mod engine.Mod
	if msg.Shift {
		mod |= engine.ModShift
	}
	if msg.Ctrl {
		mod |= engine.ModCtrl
	}
	if msg.Alt {
		mod |= engine.ModAlt
	}
	ev := engine.Event{
		X:   float64(msg.X) + 0.5,
		Y:   float64(msg.Y) + 0.5,
		Mod: mod,
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		ev.Kind, ev.WheelY = engine.KindMouseWheel, 1
		return []engine.Event{ev}
	case tea.MouseButtonWheelDown:
		ev.Kind, ev.WheelY = engine.KindMouseWheel, -1
		return []engine.Event{ev}
	case tea.MouseButtonWheelLeft:
		ev.Kind, ev.WheelX = engine.KindMouseWheel, -1
		return []engine.Event{ev}
	case tea.MouseButtonWheelRight:
		ev.Kind, ev.WheelX = engine.KindMouseWheel, 1
		return []engine.Event{ev}
	case tea.MouseButtonLeft:
		ev.Button = engine.ButtonLeft
	case tea.MouseButtonRight:
		ev.Button = engine.ButtonRight
	case tea.MouseButtonMiddle:
		ev.Button = engine.ButtonMiddle
	}

	switch msg.Action {
	case tea.MouseActionPress:
		ev.Kind = engine.KindMouseDown
	case tea.MouseActionRelease:
		ev.Kind = engine.KindMouseUp
	case tea.MouseActionMotion:
		ev.Kind = engine.KindMouseMove
	default:
		return nil
	}
	return []engine.Event{ev}
}
