package engine

import "github.com/vovakirdan/firedays/internal/geom"

// Kind identifies an input event.
type Kind int

const (
	KindNone       Kind = iota
	KindQuit            // Window closed or session ended
	KindResize          // Device surface changed size
	KindMaximize        // Window maximized
	KindRestore         // Window restored from minimized or maximized
	KindMouseDown       // Button pressed at X, Y
	KindMouseUp         // Button released at X, Y
	KindMouseMove       // Pointer moved to X, Y
	KindMouseWheel      // Wheel scrolled by WheelX, WheelY
	KindKeyDown         // Key pressed
	KindKeyUp           // Key released
	KindTextInput       // Text typed
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindQuit:
		return "Quit"
	case KindResize:
		return "Resize"
	case KindMaximize:
		return "Maximize"
	case KindRestore:
		return "Restore"
	case KindMouseDown:
		return "MouseDown"
	case KindMouseUp:
		return "MouseUp"
	case KindMouseMove:
		return "MouseMove"
	case KindMouseWheel:
		return "MouseWheel"
	case KindKeyDown:
		return "KeyDown"
	case KindKeyUp:
		return "KeyUp"
	case KindTextInput:
		return "TextInput"
	default:
		return "Unknown"
	}
}

// Button is a mouse button.
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonRight
	ButtonMiddle
)

// Mod is the modifier-key bitmask held during an event.
type Mod uint8

const (
	ModShift Mod = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has reports whether every modifier in m is held.
func (mod Mod) Has(m Mod) bool {
	return mod&m == m
}

// Event is one discrete input event. Coordinates are device pixels.
type Event struct {
	Kind   Kind
	X, Y   float64
	Button Button
	WheelX float64
	WheelY float64
	Key    string // Key name, e.g. "space", "enter", "a"
	Text   string
	Mod    Mod
	Width  int // Resize only
	Height int // Resize only
}

// Pos returns the event position in device pixels.
func (e Event) Pos() geom.Point {
	return geom.Pt(e.X, e.Y)
}

// EventSource is polled once per frame for everything that arrived since
// the last poll.
type EventSource interface {
	Poll() []Event
}

// Queue is an EventSource fed by Push. It is not safe for concurrent use.
type Queue struct {
	events []Event
}

// Push appends events.
func (q *Queue) Push(events ...Event) {
	q.events = append(q.events, events...)
}

// Poll returns and drains the pending events.
func (q *Queue) Poll() []Event {
	out := q.events
	q.events = nil
	return out
}
