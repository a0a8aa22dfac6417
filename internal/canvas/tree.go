package canvas

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/vovakirdan/firedays/internal/geom"
)

// ErrUnknownCanvas is returned when an ID does not belong to the tree.
var ErrUnknownCanvas = errors.New("canvas: unknown canvas")

// ID indexes a canvas inside its Tree.
type ID int

// RootID is the ID of the canvas created by NewTree.
const RootID ID = 0

// noParent marks the root node.
const noParent ID = -1

type node struct {
	parent     ID
	space      geom.Rect
	relative   bool
	grid       geom.Grid
	background color.RGBA
}

// Tree owns every canvas of one screen. Canvases are never removed
// individually; the whole tree is dropped with the screen that built it.
type Tree struct {
	gfx   Graphics
	nodes []node
}

// NewTree creates a tree whose root canvas draws onto gfx.
// For a relative root, space is expressed in device units; for an
// absolute root, space is the virtual coordinate window stretched over
// the whole device.
func NewTree(gfx Graphics, space geom.Rect, relative bool) (*Tree, error) {
	if gfx == nil {
		return nil, fmt.Errorf("canvas: %w: nil graphics", geom.ErrInvalidArgument)
	}
	t := &Tree{gfx: gfx}
	if _, err := t.add(noParent, space, relative); err != nil {
		return nil, err
	}
	return t, nil
}

// Graphics returns the device the tree draws onto.
func (t *Tree) Graphics() Graphics {
	return t.gfx
}

// Root returns the root canvas.
func (t *Tree) Root() Canvas {
	return Canvas{tree: t, id: RootID}
}

// Len returns the number of canvases in the tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Get returns the canvas with the given ID.
func (t *Tree) Get(id ID) (Canvas, error) {
	if id < 0 || int(id) >= len(t.nodes) {
		return Canvas{}, fmt.Errorf("%w: %d", ErrUnknownCanvas, id)
	}
	return Canvas{tree: t, id: id}, nil
}

// Add creates a child of parent.
func (t *Tree) Add(parent ID, space geom.Rect, relative bool) (Canvas, error) {
	if parent < 0 || int(parent) >= len(t.nodes) {
		return Canvas{}, fmt.Errorf("%w: parent %d", ErrUnknownCanvas, parent)
	}
	return t.add(parent, space, relative)
}

func (t *Tree) add(parent ID, space geom.Rect, relative bool) (Canvas, error) {
	if err := space.Validate(); err != nil {
		return Canvas{}, fmt.Errorf("canvas: %w", err)
	}
	n := node{
		parent:     parent,
		space:      space,
		relative:   relative,
		background: color.RGBA{A: 0xff},
	}
	grid, err := geom.NewGrid(space, 1, 1)
	if err != nil {
		return Canvas{}, fmt.Errorf("canvas: %w", err)
	}
	n.grid = grid

	t.nodes = append(t.nodes, n)
	return Canvas{tree: t, id: ID(len(t.nodes) - 1)}, nil
}
