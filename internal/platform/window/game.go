package window

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/vovakirdan/firedays/internal/config"
	"github.com/vovakirdan/firedays/internal/engine"
)

// Game adapts an engine to ebiten.Game. Ebitengine calls Update at the
// tick rate and Draw once per display frame.
type Game struct {
	eng   *engine.Engine
	gfx   *Graphics
	input *Input
	err   error
}

// NewGame wraps eng, which must have been built on gfx.
func NewGame(eng *engine.Engine, gfx *Graphics) *Game {
	return &Game{eng: eng, gfx: gfx, input: &Input{}}
}

func (g *Game) Update() error {
	if g.err != nil {
		return g.err
	}
	if !g.eng.Update(g.input.Poll()) {
		return ebiten.Termination
	}
	g.eng.MixAudio()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.gfx.SetTarget(screen)
	if err := g.eng.Render(); err != nil && g.err == nil {
		// Surfaces from the next Update
		g.err = err
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.gfx.SetSize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// Run opens the window and blocks until the scene quits or the window closes.
func Run(g *Game, cfg config.Config) error {
	w := cfg.Window
	ebiten.SetWindowSize(w.Width, w.Height)
	ebiten.SetWindowTitle(fmt.Sprintf("%s - %s", w.Title, g.eng.Scene().Title()))
	ebiten.SetWindowResizable(w.Resizable)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetTPS(cfg.Loop.TickRate)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("window: %w", err)
	}
	return nil
}
