package canvas

import (
	"image/color"

	"github.com/vovakirdan/firedays/internal/geom"
)

// DrawRect draws r (local units) filled or outlined.
func (c Canvas) DrawRect(r geom.Rect, clr color.RGBA, filled bool) {
	out := c.ScaleOutRect(r)
	if parent, ok := c.Parent(); ok {
		parent.DrawRect(out, clr, filled)
		return
	}
	if filled {
		c.tree.gfx.FillRect(out, clr)
	} else {
		c.tree.gfx.StrokeRect(out, clr)
	}
}

// DrawLine draws a segment between two local points.
func (c Canvas) DrawLine(a, b geom.Point, clr color.RGBA) {
	a, b = c.ScaleOut(a), c.ScaleOut(b)
	if parent, ok := c.Parent(); ok {
		parent.DrawLine(a, b, clr)
		return
	}
	c.tree.gfx.Line(a, b, clr)
}

// DrawPoint plots a single local point.
func (c Canvas) DrawPoint(p geom.Point, clr color.RGBA) {
	p = c.ScaleOut(p)
	if parent, ok := c.Parent(); ok {
		parent.DrawPoint(p, clr)
		return
	}
	c.tree.gfx.Point(p, clr)
}

// DrawImage draws the whole image into dst (local units).
func (c Canvas) DrawImage(img Image, dst geom.Rect, angle float64, flip Flip) {
	c.DrawTile(img, geom.Rect{}, dst, angle, flip)
}

// DrawTile draws the src region of img (image pixels) into dst (local units).
func (c Canvas) DrawTile(img Image, src, dst geom.Rect, angle float64, flip Flip) {
	dst = c.ScaleOutRect(dst)
	if parent, ok := c.Parent(); ok {
		parent.DrawTile(img, src, dst, angle, flip)
		return
	}
	c.tree.gfx.Image(img, src, dst, angle, flip)
}

// DrawText draws s at a local point. size is the line height in local
// units and follows the vertical scale.
func (c Canvas) DrawText(s string, at geom.Point, size float64, clr color.RGBA) {
	at = c.ScaleOut(at)
	size = c.ScaleOutSize(geom.Pt(0, size)).Y
	if parent, ok := c.Parent(); ok {
		parent.DrawText(s, at, size, clr)
		return
	}
	c.tree.gfx.Text(s, at, size, clr)
}

// Clear paints the canvas background. The behavior depends on the mode:
//
//	relative root:     fill own space on the device
//	relative child:    fill own space on the parent
//	absolute root:     clear the whole device
//	absolute child:    delegate to the parent
func (c Canvas) Clear() {
	n := c.node()
	parent, hasParent := c.Parent()

	switch {
	case n.relative && !hasParent:
		c.tree.gfx.FillRect(n.space, n.background)
	case n.relative && hasParent:
		parent.DrawRect(n.space, n.background, true)
	case !n.relative && !hasParent:
		c.tree.gfx.Clear(n.background)
	default:
		parent.Clear()
	}
}
