// Package canvas implements the nested coordinate-space tree used for
// resolution-independent drawing and input hit-testing.
//
// Every canvas lives in a flat arena owned by a Tree and refers to its
// parent by index. Draw calls fold up the ancestor chain (one ScaleOut per
// level) until they reach the Graphics device; GetMouse folds down the
// chain (one ScaleIn per level) from device coordinates.
package canvas

import (
	"image"
	"image/color"

	"github.com/vovakirdan/firedays/internal/geom"
)

// Flip selects image mirroring for Graphics.Image.
type Flip int

const (
	FlipNone Flip = iota
	FlipHorizontal
	FlipVertical
	FlipBoth
)

// Image is a backend texture. Only its pixel bounds are needed here.
type Image interface {
	Bounds() image.Rectangle
}

// Graphics is the device at the root of every canvas tree.
// All coordinates are device units (pixels for a window, cells for a terminal).
type Graphics interface {
	// Size returns the current device size. It may be zero while the
	// window is minimized.
	Size() (w, h int)

	// Clear fills the whole device surface.
	Clear(c color.RGBA)

	FillRect(r geom.Rect, c color.RGBA)
	StrokeRect(r geom.Rect, c color.RGBA)
	Line(a, b geom.Point, c color.RGBA)
	Point(p geom.Point, c color.RGBA)

	// Image draws src (in image pixels; zero means the whole image) into dst,
	// rotated by angle degrees around the dst center.
	Image(img Image, src, dst geom.Rect, angle float64, flip Flip)

	// Text draws s with its top-left corner at the given point. size is the
	// line height in device units.
	Text(s string, at geom.Point, size float64, c color.RGBA)

	// Present flushes the frame.
	Present() error
}
