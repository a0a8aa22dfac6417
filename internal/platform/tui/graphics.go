package tui

import (
	"image"
	"image/color"
	"math"

	"github.com/vovakirdan/firedays/internal/canvas"
	"github.com/vovakirdan/firedays/internal/geom"
)

var _ canvas.Graphics = (*CellGraphics)(nil)

// Glyphs used for strokes on a cell device.
const (
	pointRune = '•'
	lineRune  = '·'
)

// CellGraphics is a canvas.Graphics whose device units are terminal cells.
// Drawing goes to a Screen; Present renders it to the frame string that
// the Bubble Tea view returns.
type CellGraphics struct {
	screen   *Screen
	frame    string
	presents int
}

// NewCellGraphics creates a device of width x height cells.
func NewCellGraphics(width, height int) *CellGraphics {
	return &CellGraphics{screen: NewScreen(width, height)}
}

// Screen returns the backing cell buffer.
func (g *CellGraphics) Screen() *Screen {
	return g.screen
}

// Resize changes the device size.
func (g *CellGraphics) Resize(width, height int) {
	g.screen.Resize(width, height)
}

// Frame returns the last presented frame.
func (g *CellGraphics) Frame() string {
	return g.frame
}

// Presents returns how many frames were presented.
func (g *CellGraphics) Presents() int {
	return g.presents
}

func (g *CellGraphics) Size() (int, int) {
	return g.screen.Width(), g.screen.Height()
}

func (g *CellGraphics) Clear(c color.RGBA) {
	g.screen.Fill(Cell{Rune: ' ', BG: c})
}

func (g *CellGraphics) FillRect(r geom.Rect, c color.RGBA) {
	if c.A == 0 {
		return
	}
	x0, y0, x1, y1 := cellSpan(r)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if !g.screen.In(x, y) {
				continue
			}
			bg := blend(g.screen.Get(x, y).BG, c)
			g.screen.Set(x, y, Cell{Rune: ' ', BG: bg})
		}
	}
}

func (g *CellGraphics) StrokeRect(r geom.Rect, c color.RGBA) {
	x0, y0, x1, y1 := cellSpan(r)
	g.screen.DrawBox(x0, y0, x1, y1, c)
}

// Line rasterizes with Bresenham's algorithm over cell centers.
func (g *CellGraphics) Line(a, b geom.Point, c color.RGBA) {
	x0, y0 := cellOf(a)
	x1, y1 := cellOf(b)
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		g.screen.SetRune(x0, y0, lineRune, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func (g *CellGraphics) Point(p geom.Point, c color.RGBA) {
	x, y := cellOf(p)
	g.screen.SetRune(x, y, pointRune, c)
}

// Image samples src at each covered cell center, after undoing rotation
// and flipping. Pixels under half opacity leave the cell untouched.
func (g *CellGraphics) Image(img canvas.Image, src, dst geom.Rect, angle float64, flip canvas.Flip) {
	pix, ok := img.(image.Image)
	if !ok || dst.Empty() {
		return
	}
	b := pix.Bounds()
	if src.Empty() {
		src = geom.IRect{X: b.Min.X, Y: b.Min.Y, W: b.Dx(), H: b.Dy()}.Float()
	}

	center := dst.Center()
	sin, cos := math.Sincos(-angle * math.Pi / 180)

	// A rotated image can reach past dst; scan its bounding square.
	reach := math.Hypot(dst.W, dst.H) / 2
	area := geom.NewRect(center.X-reach, center.Y-reach, 2*reach, 2*reach)
	if angle == 0 {
		area = dst
	}
	area = geom.Overlap(area, geom.NewRect(0, 0, float64(g.screen.Width()), float64(g.screen.Height())))
	if area.Empty() {
		return
	}

	x0, y0, x1, y1 := cellSpan(area)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if !g.screen.In(x, y) {
				continue
			}
			dx := float64(x) + 0.5 - center.X
			dy := float64(y) + 0.5 - center.Y
			u := (dx*cos-dy*sin)/dst.W + 0.5
			v := (dx*sin+dy*cos)/dst.H + 0.5
			if u < 0 || u >= 1 || v < 0 || v >= 1 {
				continue
			}
			if flip == canvas.FlipHorizontal || flip == canvas.FlipBoth {
				u = 1 - u
			}
			if flip == canvas.FlipVertical || flip == canvas.FlipBoth {
				v = 1 - v
			}
			px := int(src.X + u*src.W)
			py := int(src.Y + v*src.H)
			c := color.RGBAModel.Convert(pix.At(px, py)).(color.RGBA)
			if c.A < 128 {
				continue
			}
			c.A = 255
			g.screen.Set(x, y, Cell{Rune: ' ', BG: c})
		}
	}
}

// Text writes one rune per cell; size is ignored since cells have a fixed height.
func (g *CellGraphics) Text(s string, at geom.Point, _ float64, c color.RGBA) {
	x, y := cellOf(at)
	g.screen.DrawText(x, y, s, c)
}

func (g *CellGraphics) Present() error {
	g.frame = RenderScreen(g.screen)
	g.presents++
	return nil
}

// cellSpan returns the half-open cell range whose centers fall inside r.
// A non-empty r always covers at least one cell.
func cellSpan(r geom.Rect) (x0, y0, x1, y1 int) {
	ir := r.Round()
	x0, y0 = ir.X, ir.Y
	x1, y1 = ir.X+ir.W, ir.Y+ir.H
	if r.W > 0 && x1 <= x0 {
		x1 = x0 + 1
	}
	if r.H > 0 && y1 <= y0 {
		y1 = y0 + 1
	}
	return x0, y0, x1, y1
}

func cellOf(p geom.Point) (int, int) {
	return int(math.Floor(p.X)), int(math.Floor(p.Y))
}

// blend composites c over dst.
func blend(dst, c color.RGBA) color.RGBA {
	if c.A == 255 || dst.A == 0 {
		return c
	}
	a := uint32(c.A)
	mix := func(d, s uint8) uint8 {
		return uint8((uint32(s)*a + uint32(d)*(255-a)) / 255)
	}
	return color.RGBA{R: mix(dst.R, c.R), G: mix(dst.G, c.G), B: mix(dst.B, c.B), A: 255}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
