// Package window hosts engine scenes in a desktop window through Ebitengine.
package window

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/vovakirdan/firedays/internal/canvas"
	"github.com/vovakirdan/firedays/internal/geom"
)

// fontHeight is the pixel height of the built-in face before scaling.
const fontHeight = 13

var _ canvas.Graphics = (*Graphics)(nil)

// Graphics draws into the screen image Ebitengine hands to Draw.
// Device units are window pixels.
type Graphics struct {
	target *ebiten.Image
	w, h   int
	face   *text.GoXFace
	images map[canvas.Image]*ebiten.Image
}

// NewGraphics creates a device that reports w x h until the first frame.
func NewGraphics(w, h int) *Graphics {
	return &Graphics{
		w:      w,
		h:      h,
		face:   text.NewGoXFace(basicfont.Face7x13),
		images: make(map[canvas.Image]*ebiten.Image),
	}
}

// SetTarget points drawing at screen for the coming frame.
func (g *Graphics) SetTarget(screen *ebiten.Image) {
	g.target = screen
	b := screen.Bounds()
	g.w, g.h = b.Dx(), b.Dy()
}

// SetSize records the layout size while no target is attached.
func (g *Graphics) SetSize(w, h int) {
	g.w, g.h = w, h
}

func (g *Graphics) Size() (int, int) {
	return g.w, g.h
}

func (g *Graphics) Clear(c color.RGBA) {
	if g.target == nil {
		return
	}
	g.target.Fill(c)
}

func (g *Graphics) FillRect(r geom.Rect, c color.RGBA) {
	if g.target == nil || r.Empty() {
		return
	}
	vector.DrawFilledRect(g.target, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), c, false)
}

func (g *Graphics) StrokeRect(r geom.Rect, c color.RGBA) {
	if g.target == nil || r.Empty() {
		return
	}
	vector.StrokeRect(g.target, float32(r.X)+0.5, float32(r.Y)+0.5, float32(r.W)-1, float32(r.H)-1, 1, c, false)
}

func (g *Graphics) Line(a, b geom.Point, c color.RGBA) {
	if g.target == nil {
		return
	}
	vector.StrokeLine(g.target, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 1, c, true)
}

func (g *Graphics) Point(p geom.Point, c color.RGBA) {
	if g.target == nil {
		return
	}
	vector.DrawFilledRect(g.target, float32(math.Floor(p.X)), float32(math.Floor(p.Y)), 1, 1, c, false)
}

// Image draws src of img into dst, rotated about the dst center.
// Textures are uploaded once per canvas.Image and reused.
func (g *Graphics) Image(img canvas.Image, src, dst geom.Rect, angle float64, flip canvas.Flip) {
	if g.target == nil || dst.Empty() {
		return
	}
	tex := g.texture(img)
	if tex == nil {
		return
	}
	if !src.Empty() {
		rect := image.Rect(int(src.X), int(src.Y), int(src.Right()), int(src.Bottom()))
		tex = tex.SubImage(rect).(*ebiten.Image)
	}
	b := tex.Bounds()
	sw, sh := float64(b.Dx()), float64(b.Dy())
	if sw == 0 || sh == 0 {
		return
	}

	fx, fy := 1.0, 1.0
	if flip == canvas.FlipHorizontal || flip == canvas.FlipBoth {
		fx = -1
	}
	if flip == canvas.FlipVertical || flip == canvas.FlipBoth {
		fy = -1
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-sw/2, -sh/2)
	op.GeoM.Scale(fx*dst.W/sw, fy*dst.H/sh)
	op.GeoM.Rotate(angle * math.Pi / 180)
	center := dst.Center()
	op.GeoM.Translate(center.X, center.Y)
	g.target.DrawImage(tex, op)
}

func (g *Graphics) texture(img canvas.Image) *ebiten.Image {
	if tex, ok := img.(*ebiten.Image); ok {
		return tex
	}
	if tex, ok := g.images[img]; ok {
		return tex
	}
	pix, ok := img.(image.Image)
	if !ok {
		return nil
	}
	tex := ebiten.NewImageFromImage(pix)
	g.images[img] = tex
	return tex
}

// Text draws s with the built-in bitmap face scaled to size pixels.
func (g *Graphics) Text(s string, at geom.Point, size float64, c color.RGBA) {
	if g.target == nil || size <= 0 {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Scale(size/fontHeight, size/fontHeight)
	op.GeoM.Translate(at.X, at.Y)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(g.target, s, g.face, op)
}

// Present detaches the target; Ebitengine shows the frame after Draw returns.
func (g *Graphics) Present() error {
	g.target = nil
	return nil
}
