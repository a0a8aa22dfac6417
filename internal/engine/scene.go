package engine

import "time"

// Scene is what the engine runs. Scenes hold no platform state; they draw
// through canvases and play sound through channels obtained from Core.
type Scene interface {
	// ID returns a unique identifier used on the command line.
	ID() string

	// Title returns a human-readable name.
	Title() string

	// Setup builds canvases and loads clips. Called once before the first frame.
	Setup(core *Core) error

	// HandleEvent receives every input event in arrival order.
	// Returning false ends the loop.
	HandleEvent(e Event) bool

	// Update advances the scene by one fixed tick.
	Update(dt time.Duration)

	// Draw issues draw calls for the frame. The root canvas is already cleared.
	Draw()
}
