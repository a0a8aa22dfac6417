package canvas

import (
	"fmt"
	"image/color"

	"github.com/vovakirdan/firedays/internal/geom"
)

// Canvas is a handle to one node of a Tree. It is a small value and may be
// copied freely; it never owns its parent or the device.
type Canvas struct {
	tree *Tree
	id   ID
}

func (c Canvas) node() *node {
	return &c.tree.nodes[c.id]
}

// ID returns the canvas index inside its tree.
func (c Canvas) ID() ID {
	return c.id
}

// Tree returns the tree owning this canvas.
func (c Canvas) Tree() *Tree {
	return c.tree
}

// IsRoot reports whether the canvas draws directly onto the device.
func (c Canvas) IsRoot() bool {
	return c.node().parent == noParent
}

// Relative reports whether the canvas uses grid-relative mode.
func (c Canvas) Relative() bool {
	return c.node().relative
}

// Parent returns the parent canvas. ok is false for the root.
func (c Canvas) Parent() (parent Canvas, ok bool) {
	p := c.node().parent
	if p == noParent {
		return Canvas{}, false
	}
	return Canvas{tree: c.tree, id: p}, true
}

// Space returns the canvas bounding rectangle.
func (c Canvas) Space() geom.Rect {
	return c.node().space
}

// Grid returns the cell grid laid over the space in relative mode.
func (c Canvas) Grid() geom.Grid {
	return c.node().grid
}

// Add creates a child canvas.
func (c Canvas) Add(space geom.Rect, relative bool) (Canvas, error) {
	return c.tree.Add(c.id, space, relative)
}

// SetSpace moves or resizes the canvas, keeping its grid cell counts.
func (c Canvas) SetSpace(space geom.Rect) error {
	n := c.node()
	if err := n.grid.Rescale(space); err != nil {
		return fmt.Errorf("canvas: %w", err)
	}
	n.space = space
	return nil
}

// SetGrid splits the space into columns x rows cells. In relative mode
// local coordinates are expressed in these cells.
func (c Canvas) SetGrid(columns, rows int) error {
	n := c.node()
	grid, err := geom.NewGrid(n.space, columns, rows)
	if err != nil {
		return fmt.Errorf("canvas: %w", err)
	}
	n.grid = grid
	return nil
}

// SetBackground sets the color used by Clear.
func (c Canvas) SetBackground(bg color.RGBA) {
	c.node().background = bg
}

// Background returns the color used by Clear.
func (c Canvas) Background() color.RGBA {
	return c.node().background
}

// Extent returns the size of the local coordinate system: the grid size
// in relative mode, the space size otherwise.
func (c Canvas) Extent() geom.Point {
	n := c.node()
	if n.relative {
		return n.grid.Size()
	}
	return n.space.Size()
}

// Local returns the local coordinate window of the canvas.
func (c Canvas) Local() geom.Rect {
	n := c.node()
	if n.relative {
		return geom.Rect{W: float64(n.grid.Columns), H: float64(n.grid.Rows)}
	}
	return n.space
}

// parentExtent is the local extent of the parent, or the device size for
// the root.
func (c Canvas) parentExtent() geom.Point {
	if parent, ok := c.Parent(); ok {
		return parent.Extent()
	}
	w, h := c.tree.gfx.Size()
	return geom.Pt(float64(w), float64(h))
}

// parentOrigin is the top-left of the parent's local window. It is zero
// for relative parents and for the device.
func (c Canvas) parentOrigin() geom.Point {
	if parent, ok := c.Parent(); ok {
		return parent.Local().Origin()
	}
	return geom.Point{}
}

// Scale returns the absolute-mode factor from local to parent units.
// A zero parent extent (minimized window) yields identity.
func (c Canvas) Scale() geom.Point {
	pe := c.parentExtent()
	if pe.X <= 0 || pe.Y <= 0 {
		return geom.Pt(1, 1)
	}
	own := c.node().space.Size()
	return geom.Pt(pe.X/own.X, pe.Y/own.Y)
}

// ScaleIn converts a point from parent (or device) units to local units.
func (c Canvas) ScaleIn(p geom.Point) geom.Point {
	n := c.node()
	if n.relative {
		return n.grid.ToCells(p)
	}
	s := c.Scale()
	po := c.parentOrigin()
	return geom.Pt((p.X-po.X)/s.X+n.space.X, (p.Y-po.Y)/s.Y+n.space.Y)
}

// ScaleOut converts a point from local units to parent (or device) units.
func (c Canvas) ScaleOut(p geom.Point) geom.Point {
	n := c.node()
	if n.relative {
		return n.grid.FromCells(p)
	}
	s := c.Scale()
	po := c.parentOrigin()
	return geom.Pt(po.X+(p.X-n.space.X)*s.X, po.Y+(p.Y-n.space.Y)*s.Y)
}

// ScaleInSize converts an extent (no origin shift) to local units.
func (c Canvas) ScaleInSize(sz geom.Point) geom.Point {
	n := c.node()
	if n.relative {
		return sz.Scale(n.grid.TileWInv, n.grid.TileHInv)
	}
	s := c.Scale()
	return geom.Pt(sz.X/s.X, sz.Y/s.Y)
}

// ScaleOutSize converts a local extent to parent units.
func (c Canvas) ScaleOutSize(sz geom.Point) geom.Point {
	n := c.node()
	if n.relative {
		return sz.Scale(n.grid.TileW, n.grid.TileH)
	}
	return sz.Scale(c.Scale().X, c.Scale().Y)
}

// ScaleInRect converts a rectangle from parent units to local units.
func (c Canvas) ScaleInRect(r geom.Rect) geom.Rect {
	o := c.ScaleIn(r.Origin())
	sz := c.ScaleInSize(r.Size())
	return geom.Rect{X: o.X, Y: o.Y, W: sz.X, H: sz.Y}
}

// ScaleOutRect converts a rectangle from local units to parent units.
func (c Canvas) ScaleOutRect(r geom.Rect) geom.Rect {
	o := c.ScaleOut(r.Origin())
	sz := c.ScaleOutSize(r.Size())
	return geom.Rect{X: o.X, Y: o.Y, W: sz.X, H: sz.Y}
}

// GetMouse converts a device-space point into this canvas's local units
// by applying ScaleIn at every level from the root down.
func (c Canvas) GetMouse(p geom.Point) geom.Point {
	if parent, ok := c.Parent(); ok {
		p = parent.GetMouse(p)
	}
	return c.ScaleIn(p)
}

// Hit reports whether a device-space point falls inside the canvas.
func (c Canvas) Hit(p geom.Point) bool {
	return c.Local().Contains(c.GetMouse(p))
}
