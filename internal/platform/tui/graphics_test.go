package tui

import (
	"image"
	"image/color"
	"testing"

	"github.com/vovakirdan/firedays/internal/canvas"
	"github.com/vovakirdan/firedays/internal/geom"
)

func TestCellGraphicsFillRect(t *testing.T) {
	g := NewCellGraphics(10, 5)
	blue := color.RGBA{B: 255, A: 255}
	g.FillRect(geom.NewRect(2, 1, 3, 2), blue)

	for y := range 5 {
		for x := range 10 {
			inside := x >= 2 && x < 5 && y >= 1 && y < 3
			if got := g.Screen().Get(x, y).BG == blue; got != inside {
				t.Errorf("cell (%d,%d) filled = %v, expected %v", x, y, got, inside)
			}
		}
	}
}

func TestCellGraphicsFillTinyRect(t *testing.T) {
	g := NewCellGraphics(4, 4)
	g.FillRect(geom.NewRect(1.1, 1.1, 0.2, 0.2), red)
	if g.Screen().Get(1, 1).BG != red {
		t.Error("a non-empty rect should cover at least one cell")
	}
}

func TestCellGraphicsBlend(t *testing.T) {
	g := NewCellGraphics(1, 1)
	g.Clear(color.RGBA{A: 255})
	g.FillRect(geom.NewRect(0, 0, 1, 1), color.RGBA{R: 255, A: 128})

	got := g.Screen().Get(0, 0).BG
	if got.R < 120 || got.R > 135 || got.A != 255 {
		t.Errorf("blended = %+v, expected half red over black", got)
	}
}

func TestCellGraphicsLine(t *testing.T) {
	g := NewCellGraphics(5, 5)
	g.Line(geom.Pt(0.5, 0.5), geom.Pt(4.5, 4.5), red)

	for i := range 5 {
		if got := g.Screen().Get(i, i).Rune; got != lineRune {
			t.Errorf("diagonal cell %d = %q", i, got)
		}
	}
	if got := g.Screen().Get(1, 0).Rune; got != ' ' {
		t.Errorf("off-line cell = %q", got)
	}
}

func TestCellGraphicsTextAndPoint(t *testing.T) {
	g := NewCellGraphics(8, 2)
	g.Text("hi", geom.Pt(1.2, 0.7), 1, red)
	g.Point(geom.Pt(6.9, 1.1), red)

	if got := g.Screen().Row(0); got != " hi     " {
		t.Errorf("Row(0) = %q", got)
	}
	if got := g.Screen().Get(6, 1).Rune; got != pointRune {
		t.Errorf("point = %q", got)
	}
}

func TestCellGraphicsStrokeRect(t *testing.T) {
	g := NewCellGraphics(4, 3)
	g.StrokeRect(geom.NewRect(0, 0, 4, 3), red)
	if got := g.Screen().Row(0); got != "┌──┐" {
		t.Errorf("Row(0) = %q", got)
	}
}

// halves is red on the left half and green on the right.
func halves(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			c := color.NRGBA{R: 255, A: 255}
			if x >= w/2 {
				c = color.NRGBA{G: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestCellGraphicsImage(t *testing.T) {
	green := color.RGBA{G: 255, A: 255}
	tests := []struct {
		name  string
		angle float64
		flip  canvas.Flip
		left  color.RGBA
		right color.RGBA
	}{
		{"plain", 0, canvas.FlipNone, red, green},
		{"flipped", 0, canvas.FlipHorizontal, green, red},
		{"half turn", 180, canvas.FlipNone, green, red},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewCellGraphics(4, 4)
			g.Image(halves(8, 8), geom.Rect{}, geom.NewRect(0, 0, 4, 4), tt.angle, tt.flip)

			if got := g.Screen().Get(0, 1).BG; got != tt.left {
				t.Errorf("left cell = %+v, expected %+v", got, tt.left)
			}
			if got := g.Screen().Get(3, 2).BG; got != tt.right {
				t.Errorf("right cell = %+v, expected %+v", got, tt.right)
			}
		})
	}
}

func TestCellGraphicsImageTransparent(t *testing.T) {
	g := NewCellGraphics(2, 2)
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	g.Image(img, geom.Rect{}, geom.NewRect(0, 0, 2, 2), 0, canvas.FlipNone)

	if got := g.Screen().Get(0, 0); got != blankCell {
		t.Errorf("transparent pixels should not paint, got %+v", got)
	}
}

func TestCellGraphicsImageClipped(t *testing.T) {
	green := color.RGBA{G: 255, A: 255}
	g := NewCellGraphics(4, 4)
	g.Image(halves(8, 8), geom.Rect{}, geom.NewRect(-2, 0, 4, 4), 0, canvas.FlipNone)

	if got := g.Screen().Get(0, 1).BG; got != green {
		t.Errorf("visible right half = %+v, expected %+v", got, green)
	}
	if got := g.Screen().Get(2, 1); got != blankCell {
		t.Errorf("cell past the image = %+v, expected blank", got)
	}

	g = NewCellGraphics(4, 4)
	g.Image(halves(8, 8), geom.Rect{}, geom.NewRect(10, 10, 4, 4), 45, canvas.FlipNone)
	for y := range 4 {
		for x := range 4 {
			if got := g.Screen().Get(x, y); got != blankCell {
				t.Fatalf("off-screen image painted cell (%d,%d): %+v", x, y, got)
			}
		}
	}
}

func TestCellGraphicsPresent(t *testing.T) {
	g := NewCellGraphics(3, 1)
	g.Text("ok", geom.Pt(0, 0), 1, color.RGBA{})
	if err := g.Present(); err != nil {
		t.Fatal(err)
	}
	if g.Frame() != "ok " || g.Presents() != 1 {
		t.Errorf("Frame() = %q after %d presents", g.Frame(), g.Presents())
	}
}

func TestCellGraphicsCanvasTree(t *testing.T) {
	g := NewCellGraphics(80, 24)
	tree, err := canvas.NewTree(g, geom.NewRect(0, 0, 40, 12), false)
	if err != nil {
		t.Fatal(err)
	}
	tree.Root().DrawRect(geom.NewRect(10, 6, 1, 1), red, true)

	// One virtual unit is 2x2 cells
	for _, p := range [][2]int{{20, 12}, {21, 13}} {
		if g.Screen().Get(p[0], p[1]).BG != red {
			t.Errorf("cell %v not filled", p)
		}
	}
	if g.Screen().Get(22, 12).BG == red {
		t.Error("fill spilled past the scaled rect")
	}
}
