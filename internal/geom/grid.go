package geom

import (
	"fmt"
	"math"
)

// Grid partitions a Rect into Columns x Rows cells.
// The tile inverses are cached so hit-testing never divides; every method
// that changes the tile size re-derives the inverse in the same step.
type Grid struct {
	Bounds   Rect
	Columns  int
	Rows     int
	TileW    float64
	TileH    float64
	TileWInv float64
	TileHInv float64
}

// NewGrid creates a grid over bounds with the given number of cells.
func NewGrid(bounds Rect, columns, rows int) (Grid, error) {
	g := Grid{Columns: columns, Rows: rows}
	if columns <= 0 || rows <= 0 {
		return g, fmt.Errorf("%w: grid %dx%d must have positive cell counts", ErrInvalidArgument, columns, rows)
	}
	if err := g.Rescale(bounds); err != nil {
		return g, err
	}
	return g, nil
}

// Rescale moves the grid onto new bounds, keeping the cell counts.
func (g *Grid) Rescale(bounds Rect) error {
	if err := bounds.Validate(); err != nil {
		return err
	}
	g.Bounds = bounds
	g.TileW = bounds.W / float64(g.Columns)
	g.TileH = bounds.H / float64(g.Rows)
	g.TileWInv = 1 / g.TileW
	g.TileHInv = 1 / g.TileH
	return nil
}

// Size returns the grid extent in cells.
func (g Grid) Size() Point {
	return Point{X: float64(g.Columns), Y: float64(g.Rows)}
}

// ToCells converts a point in bounds units to fractional cell units.
func (g Grid) ToCells(p Point) Point {
	return Point{
		X: (p.X - g.Bounds.X) * g.TileWInv,
		Y: (p.Y - g.Bounds.Y) * g.TileHInv,
	}
}

// FromCells converts fractional cell units back to bounds units.
func (g Grid) FromCells(p Point) Point {
	return Point{
		X: p.X*g.TileW + g.Bounds.X,
		Y: p.Y*g.TileH + g.Bounds.Y,
	}
}

// Cell returns the rectangle of a single cell in bounds units.
func (g Grid) Cell(col, row int) Rect {
	return g.Span(Rect{X: float64(col), Y: float64(row), W: 1, H: 1})
}

// Span maps a rectangle expressed in cells to bounds units.
func (g Grid) Span(cells Rect) Rect {
	o := g.FromCells(cells.Origin())
	return Rect{X: o.X, Y: o.Y, W: cells.W * g.TileW, H: cells.H * g.TileH}
}

// CellAt returns the cell under p. ok is false when p lies outside the grid.
func (g Grid) CellAt(p Point) (col, row int, ok bool) {
	c := g.ToCells(p)
	col = int(math.Floor(c.X))
	row = int(math.Floor(c.Y))
	if col < 0 || col >= g.Columns || row < 0 || row >= g.Rows {
		return col, row, false
	}
	return col, row, true
}

// IRect is an integer rectangle used by cell and pixel devices.
type IRect struct {
	X, Y int
	W, H int
}

// Round snaps r to whole device units. Edges are rounded independently so
// adjacent rectangles stay adjacent.
func (r Rect) Round() IRect {
	x0 := int(math.Round(r.X))
	y0 := int(math.Round(r.Y))
	x1 := int(math.Round(r.Right()))
	y1 := int(math.Round(r.Bottom()))
	return IRect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Float converts the integer rectangle back to a Rect.
func (r IRect) Float() Rect {
	return Rect{X: float64(r.X), Y: float64(r.Y), W: float64(r.W), H: float64(r.H)}
}
