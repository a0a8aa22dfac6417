package engine

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrRender wraps presentation failures. They end the loop, since a broken
// render context cannot be drawn to again.
var ErrRender = errors.New("engine: render failed")

// Options control loop timing.
type Options struct {
	TickRate   int // Fixed updates per second
	FrameRate  int // Frames per second for Run
	MaxCatchUp int // Max updates per frame; older backlog is dropped
	LatencyMS  int // Audio queued ahead of the device
}

// Stats counts what happened while the engine ran.
type Stats struct {
	Frames     int64
	Updates    int64
	AudioSkips int64 // Frames whose audio was abandoned after a device error
	Elapsed    time.Duration
}

// Engine runs a scene against a Core.
type Engine struct {
	core  *Core
	scene Scene
	clock Clock
	opts  Options

	step    time.Duration
	acc     time.Duration
	last    time.Duration
	start   time.Duration
	started bool
	quit    bool
	stats   Stats
}

// New sets up the scene and returns an engine ready for its first frame.
func New(core *Core, scene Scene, clock Clock, opts Options) (*Engine, error) {
	if opts.TickRate <= 0 {
		opts.TickRate = 60
	}
	if opts.FrameRate <= 0 {
		opts.FrameRate = opts.TickRate
	}
	if opts.MaxCatchUp <= 0 {
		opts.MaxCatchUp = 5
	}
	if clock == nil {
		clock = NewSystemClock()
	}

	if err := scene.Setup(core); err != nil {
		return nil, fmt.Errorf("engine: setup %s: %w", scene.ID(), err)
	}
	core.Log.Info("scene ready", "scene", scene.ID(), "canvases", core.Tree.Len(), "channels", len(core.Channels()))

	return &Engine{
		core:  core,
		scene: scene,
		clock: clock,
		opts:  opts,
		step:  time.Second / time.Duration(opts.TickRate),
	}, nil
}

// Core returns the engine context.
func (e *Engine) Core() *Core {
	return e.core
}

// Scene returns the running scene.
func (e *Engine) Scene() Scene {
	return e.scene
}

// Stats returns the counters so far.
func (e *Engine) Stats() Stats {
	s := e.stats
	if e.started {
		s.Elapsed = e.last - e.start
	}
	return s
}

// Done reports whether a quit was requested.
func (e *Engine) Done() bool {
	return e.quit
}

// Frame runs one full iteration: events, updates, draw and present, then
// audio. It returns false once the scene or a quit event ends the loop.
// Render failures are returned; audio failures are logged and only skip
// this frame's audio.
func (e *Engine) Frame(events []Event) (bool, error) {
	if !e.Update(events) {
		return false, nil
	}
	if err := e.Render(); err != nil {
		return false, err
	}
	e.MixAudio()
	return true, nil
}

// Update dispatches events and runs as many fixed ticks as have elapsed.
// Backends that present on their own schedule call Update, Render and
// MixAudio separately.
func (e *Engine) Update(events []Event) bool {
	for _, ev := range events {
		if ev.Kind == KindQuit || !e.scene.HandleEvent(ev) {
			e.quit = true
			break
		}
	}
	if e.quit {
		return false
	}

	now := e.clock.Now()
	if !e.started {
		e.started = true
		e.start = now
		e.last = now
	}
	e.acc += now - e.last
	e.last = now

	n := 0
	for e.acc >= e.step && n < e.opts.MaxCatchUp {
		e.scene.Update(e.step)
		e.acc -= e.step
		n++
	}
	if e.acc >= e.step {
		e.core.Log.Debug("dropping update backlog", "behind", e.acc)
		e.acc = 0
	}
	e.stats.Updates += int64(n)
	return true
}

// Render clears the root canvas, draws the scene and presents.
func (e *Engine) Render() error {
	e.core.Root().Clear()
	e.scene.Draw()
	if err := e.core.Graphics.Present(); err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	e.stats.Frames++
	return nil
}

// MixAudio tops the device queue up to the latency target with every
// channel mixed in.
func (e *Engine) MixAudio() {
	m := e.core.Mixer
	if m == nil {
		return
	}
	if m.Clear(e.opts.LatencyMS) == 0 {
		return
	}
	for _, ch := range e.core.Channels() {
		m.MixChannel(ch)
	}
	if err := m.Play(); err != nil {
		e.stats.AudioSkips++
		e.core.Log.Warn("audio frame skipped", "err", err)
	}
}

// Run drives Frame at the configured frame rate until the scene quits, a
// render error occurs or ctx is cancelled.
func (e *Engine) Run(ctx context.Context, src EventSource) error {
	period := time.Second / time.Duration(e.opts.FrameRate)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		begin := e.clock.Now()
		ok, err := e.Frame(src.Poll())
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		e.clock.Sleep(period - (e.clock.Now() - begin))
	}
}
