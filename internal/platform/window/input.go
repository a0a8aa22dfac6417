package window

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/vovakirdan/firedays/internal/engine"
)

var mouseButtons = []struct {
	eb  ebiten.MouseButton
	btn engine.Button
}{
	{ebiten.MouseButtonLeft, engine.ButtonLeft},
	{ebiten.MouseButtonRight, engine.ButtonRight},
	{ebiten.MouseButtonMiddle, engine.ButtonMiddle},
}

// Input polls Ebitengine state once per update and reports the changes
// as engine events.
type Input struct {
	keys      []ebiten.Key
	mx, my    int
	w, h      int
	maximized bool
}

// Poll returns everything that changed since the last call.
func (in *Input) Poll() []engine.Event {
	var events []engine.Event
	if ebiten.IsWindowBeingClosed() {
		events = append(events, engine.Event{Kind: engine.KindQuit})
	}

	if w, h := ebiten.WindowSize(); w != in.w || h != in.h {
		in.w, in.h = w, h
		events = append(events, engine.Event{Kind: engine.KindResize, Width: w, Height: h})
	}
	if maxed := ebiten.IsWindowMaximized(); maxed != in.maximized {
		in.maximized = maxed
		kind := engine.KindRestore
		if maxed {
			kind = engine.KindMaximize
		}
		events = append(events, engine.Event{Kind: kind})
	}

	mod := modifiers()
	mx, my := ebiten.CursorPosition()
	pos := engine.Event{X: float64(mx), Y: float64(my), Mod: mod}
	if mx != in.mx || my != in.my {
		in.mx, in.my = mx, my
		ev := pos
		ev.Kind = engine.KindMouseMove
		events = append(events, ev)
	}
	for _, b := range mouseButtons {
		if inpututil.IsMouseButtonJustPressed(b.eb) {
			ev := pos
			ev.Kind, ev.Button = engine.KindMouseDown, b.btn
			events = append(events, ev)
		}
		if inpututil.IsMouseButtonJustReleased(b.eb) {
			ev := pos
			ev.Kind, ev.Button = engine.KindMouseUp, b.btn
			events = append(events, ev)
		}
	}
	if wx, wy := ebiten.Wheel(); wx != 0 || wy != 0 {
		ev := pos
		ev.Kind, ev.WheelX, ev.WheelY = engine.KindMouseWheel, wx, wy
		events = append(events, ev)
	}

	in.keys = inpututil.AppendJustPressedKeys(in.keys[:0])
	for _, k := range in.keys {
		events = append(events, engine.Event{Kind: engine.KindKeyDown, Key: KeyName(k), Mod: mod})
	}
	if chars := ebiten.AppendInputChars(nil); len(chars) > 0 {
		events = append(events, engine.Event{Kind: engine.KindTextInput, Text: string(chars), Mod: mod})
	}
	in.keys = inpututil.AppendJustReleasedKeys(in.keys[:0])
	for _, k := range in.keys {
		events = append(events, engine.Event{Kind: engine.KindKeyUp, Key: KeyName(k), Mod: mod})
	}
	return events
}

func modifiers() engine.Mod {
	var mod engine.Mod
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mod |= engine.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mod |= engine.ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mod |= engine.ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mod |= engine.ModMeta
	}
	return mod
}

var keyNames = map[ebiten.Key]string{
	ebiten.KeyEscape:         "escape",
	ebiten.KeySpace:          "space",
	ebiten.KeyEnter:          "enter",
	ebiten.KeyNumpadEnter:    "enter",
	ebiten.KeyArrowUp:        "up",
	ebiten.KeyArrowDown:      "down",
	ebiten.KeyArrowLeft:      "left",
	ebiten.KeyArrowRight:     "right",
	ebiten.KeyEqual:          "=",
	ebiten.KeyMinus:          "-",
	ebiten.KeyNumpadAdd:      "+",
	ebiten.KeyNumpadSubtract: "-",
}

// KeyName returns the engine name for k: lower-case letters, bare digits
// and the names the terminal backend uses for special keys.
func KeyName(k ebiten.Key) string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	s := k.String()
	if d, ok := strings.CutPrefix(s, "Digit"); ok {
		return d
	}
	if d, ok := strings.CutPrefix(s, "Numpad"); ok && len(d) == 1 {
		return d
	}
	return strings.ToLower(s)
}
