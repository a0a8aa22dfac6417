package canvas

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/vovakirdan/firedays/internal/geom"
)

type drawCall struct {
	op   string
	rect geom.Rect
	a, b geom.Point
	size float64
	text string
	clr  color.RGBA
}

// recordingGraphics is a Graphics that remembers every call.
type recordingGraphics struct {
	w, h  int
	calls []drawCall
}

func (g *recordingGraphics) Size() (int, int) { return g.w, g.h }
func (g *recordingGraphics) Clear(c color.RGBA) {
	g.calls = append(g.calls, drawCall{op: "clear", clr: c})
}
func (g *recordingGraphics) FillRect(r geom.Rect, c color.RGBA) {
	g.calls = append(g.calls, drawCall{op: "fill", rect: r, clr: c})
}
func (g *recordingGraphics) StrokeRect(r geom.Rect, c color.RGBA) {
	g.calls = append(g.calls, drawCall{op: "stroke", rect: r, clr: c})
}
func (g *recordingGraphics) Line(a, b geom.Point, c color.RGBA) {
	g.calls = append(g.calls, drawCall{op: "line", a: a, b: b, clr: c})
}
func (g *recordingGraphics) Point(p geom.Point, c color.RGBA) {
	g.calls = append(g.calls, drawCall{op: "point", a: p, clr: c})
}
func (g *recordingGraphics) Image(_ Image, _, dst geom.Rect, _ float64, _ Flip) {
	g.calls = append(g.calls, drawCall{op: "image", rect: dst})
}
func (g *recordingGraphics) Text(s string, at geom.Point, size float64, c color.RGBA) {
	g.calls = append(g.calls, drawCall{op: "text", a: at, size: size, text: s, clr: c})
}
func (g *recordingGraphics) Present() error { return nil }

func (g *recordingGraphics) last(t *testing.T) drawCall {
	t.Helper()
	if len(g.calls) == 0 {
		t.Fatal("expected a draw call, got none")
	}
	return g.calls[len(g.calls)-1]
}

type fakeImage struct{ w, h int }

func (f fakeImage) Bounds() image.Rectangle { return image.Rect(0, 0, f.w, f.h) }

const eps = 1e-6

func near(a, b float64) bool {
	return math.Abs(a-b) <= eps*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func nearPoint(a, b geom.Point) bool {
	return near(a.X, b.X) && near(a.Y, b.Y)
}

func nearRect(a, b geom.Rect) bool {
	return near(a.X, b.X) && near(a.Y, b.Y) && near(a.W, b.W) && near(a.H, b.H)
}

func mustTree(t *testing.T, gfx Graphics, space geom.Rect, relative bool) *Tree {
	t.Helper()
	tree, err := NewTree(gfx, space, relative)
	if err != nil {
		t.Fatalf("NewTree() failed: %v", err)
	}
	return tree
}

func TestGetMouseVirtualCenter(t *testing.T) {
	gfx := &recordingGraphics{w: 640, h: 480}
	tree := mustTree(t, gfx, geom.NewRect(0, 0, 40, 30), false)

	got := tree.Root().GetMouse(geom.Pt(320, 240))
	if !nearPoint(got, geom.Pt(20, 15)) {
		t.Errorf("GetMouse(320, 240) = %v, expected (20,15)", got)
	}
}

func TestGetMouseNested(t *testing.T) {
	gfx := &recordingGraphics{w: 640, h: 480}
	tree := mustTree(t, gfx, geom.NewRect(0, 0, 40, 30), false)

	menu, err := tree.Root().Add(geom.NewRect(10, 10, 20, 10), true)
	if err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	if err := menu.SetGrid(4, 2); err != nil {
		t.Fatalf("SetGrid() failed: %v", err)
	}

	// Device (320, 240) is virtual (20, 15), which is the middle of the
	// menu's space: cell units (2, 1).
	got := menu.GetMouse(geom.Pt(320, 240))
	if !nearPoint(got, geom.Pt(2, 1)) {
		t.Errorf("GetMouse() = %v, expected (2,1)", got)
	}

	if !menu.Hit(geom.Pt(320, 240)) {
		t.Error("Hit() should report the menu center")
	}
	if menu.Hit(geom.Pt(10, 10)) {
		t.Error("Hit() should miss the device corner")
	}
}

func TestAbsoluteChainWithOffsetParent(t *testing.T) {
	gfx := &recordingGraphics{w: 640, h: 480}
	tree := mustTree(t, gfx, geom.NewRect(0, 0, 640, 480), false)

	mid, err := tree.Root().Add(geom.NewRect(100, 100, 200, 200), false)
	if err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	leaf, err := mid.Add(geom.NewRect(0, 0, 10, 10), false)
	if err != nil {
		t.Fatalf("Add() failed: %v", err)
	}

	red := color.RGBA{R: 0xff, A: 0xff}
	leaf.DrawRect(geom.NewRect(0, 0, 10, 10), red, true)
	if call := gfx.last(t); !nearRect(call.rect, geom.NewRect(0, 0, 640, 480)) {
		t.Errorf("leaf window reached device as %+v, expected the full device", call.rect)
	}

	// Leaf (2.5, 5) is mid (150, 200), which is device (160, 240).
	leaf.DrawPoint(geom.Pt(2.5, 5), red)
	if call := gfx.last(t); !nearPoint(call.a, geom.Pt(160, 240)) {
		t.Errorf("DrawPoint reached device as %v", call.a)
	}
	if got := leaf.GetMouse(geom.Pt(160, 240)); !nearPoint(got, geom.Pt(2.5, 5)) {
		t.Errorf("GetMouse(160, 240) = %v, expected (2.5,5)", got)
	}
	if got := mid.GetMouse(geom.Pt(320, 240)); !nearPoint(got, geom.Pt(200, 200)) {
		t.Errorf("mid GetMouse(320, 240) = %v, expected (200,200)", got)
	}
	if !leaf.Hit(geom.Pt(320, 240)) {
		t.Error("Hit() should report the device center inside the leaf")
	}

	for _, c := range []Canvas{mid, leaf} {
		p := geom.Pt(3.75, -12.5)
		if got := c.ScaleIn(c.ScaleOut(p)); !nearPoint(got, p) {
			t.Errorf("canvas %d: ScaleIn(ScaleOut(%v)) = %v", c.ID(), p, got)
		}
	}
}

func TestScaleRoundTrip(t *testing.T) {
	gfx := &recordingGraphics{w: 1366, h: 768}
	tree := mustTree(t, gfx, geom.NewRect(0, 0, 320, 180), false)
	root := tree.Root()

	panel, err := root.Add(geom.NewRect(17, 9, 213.5, 101.25), true)
	if err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	if err := panel.SetGrid(7, 3); err != nil {
		t.Fatalf("SetGrid() failed: %v", err)
	}
	world, err := panel.Add(geom.NewRect(-50, 12.5, 1000, 333), false)
	if err != nil {
		t.Fatalf("Add() failed: %v", err)
	}

	points := []geom.Point{
		geom.Pt(0, 0), geom.Pt(1, 1), geom.Pt(-3.25, 7.5), geom.Pt(1e4, -2e3), geom.Pt(0.001, 123.456),
	}
	rects := []geom.Rect{
		geom.NewRect(0, 0, 1, 1), geom.NewRect(-2, 3, 10.5, 0.25), geom.NewRect(100, 200, 300, 400),
	}

	for _, c := range []Canvas{root, panel, world} {
		for _, p := range points {
			if got := c.ScaleIn(c.ScaleOut(p)); !nearPoint(got, p) {
				t.Errorf("canvas %d: ScaleIn(ScaleOut(%v)) = %v", c.ID(), p, got)
			}
			if got := c.ScaleOut(c.ScaleIn(p)); !nearPoint(got, p) {
				t.Errorf("canvas %d: ScaleOut(ScaleIn(%v)) = %v", c.ID(), p, got)
			}
		}
		for _, r := range rects {
			if got := c.ScaleInRect(c.ScaleOutRect(r)); !nearRect(got, r) {
				t.Errorf("canvas %d: ScaleInRect(ScaleOutRect(%+v)) = %+v", c.ID(), r, got)
			}
		}
	}
}

func TestDrawFoldsToDevice(t *testing.T) {
	gfx := &recordingGraphics{w: 640, h: 480}
	tree := mustTree(t, gfx, geom.NewRect(0, 0, 40, 30), false)

	menu, err := tree.Root().Add(geom.NewRect(10, 5, 20, 10), true)
	if err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	if err := menu.SetGrid(4, 2); err != nil {
		t.Fatalf("SetGrid() failed: %v", err)
	}

	red := color.RGBA{R: 0xff, A: 0xff}

	// Cell (1, 1) of the menu: virtual (15, 10, 5, 5), device x16.
	menu.DrawRect(geom.NewRect(1, 1, 1, 1), red, true)
	call := gfx.last(t)
	if call.op != "fill" || !nearRect(call.rect, geom.NewRect(240, 160, 80, 80)) {
		t.Errorf("DrawRect reached device as %s %+v", call.op, call.rect)
	}

	menu.DrawRect(geom.NewRect(0, 0, 4, 2), red, false)
	if call := gfx.last(t); call.op != "stroke" || !nearRect(call.rect, geom.NewRect(160, 80, 320, 160)) {
		t.Errorf("outline reached device as %s %+v", call.op, call.rect)
	}

	menu.DrawLine(geom.Pt(0, 0), geom.Pt(4, 2), red)
	call = gfx.last(t)
	if !nearPoint(call.a, geom.Pt(160, 80)) || !nearPoint(call.b, geom.Pt(480, 240)) {
		t.Errorf("DrawLine reached device as %v -> %v", call.a, call.b)
	}

	menu.DrawPoint(geom.Pt(2, 1), red)
	if call := gfx.last(t); !nearPoint(call.a, geom.Pt(320, 160)) {
		t.Errorf("DrawPoint reached device as %v", call.a)
	}

	menu.DrawText("Start", geom.Pt(0, 0), 0.5, red)
	call = gfx.last(t)
	if call.text != "Start" || !nearPoint(call.a, geom.Pt(160, 80)) || !near(call.size, 40) {
		t.Errorf("DrawText reached device as %q at %v size %g", call.text, call.a, call.size)
	}

	menu.DrawImage(fakeImage{w: 16, h: 16}, geom.NewRect(3, 0, 1, 1), 0, FlipNone)
	if call := gfx.last(t); call.op != "image" || !nearRect(call.rect, geom.NewRect(400, 80, 80, 80)) {
		t.Errorf("DrawImage reached device as %+v", call.rect)
	}
}

func TestClearModes(t *testing.T) {
	bg := color.RGBA{R: 1, G: 2, B: 3, A: 0xff}

	t.Run("relative root fills own space", func(t *testing.T) {
		gfx := &recordingGraphics{w: 100, h: 100}
		tree := mustTree(t, gfx, geom.NewRect(10, 10, 50, 50), true)
		tree.Root().SetBackground(bg)
		tree.Root().Clear()

		call := gfx.last(t)
		if call.op != "fill" || call.rect != geom.NewRect(10, 10, 50, 50) || call.clr != bg {
			t.Errorf("got %+v", call)
		}
	})

	t.Run("relative child fills own space on parent", func(t *testing.T) {
		gfx := &recordingGraphics{w: 200, h: 100}
		tree := mustTree(t, gfx, geom.NewRect(0, 0, 100, 50), false)
		child, err := tree.Root().Add(geom.NewRect(10, 10, 20, 10), true)
		if err != nil {
			t.Fatalf("Add() failed: %v", err)
		}
		child.SetBackground(bg)
		child.Clear()

		call := gfx.last(t)
		if call.op != "fill" || !nearRect(call.rect, geom.NewRect(20, 20, 40, 20)) || call.clr != bg {
			t.Errorf("got %+v", call)
		}
	})

	t.Run("absolute root clears device", func(t *testing.T) {
		gfx := &recordingGraphics{w: 100, h: 100}
		tree := mustTree(t, gfx, geom.NewRect(0, 0, 10, 10), false)
		tree.Root().SetBackground(bg)
		tree.Root().Clear()

		if call := gfx.last(t); call.op != "clear" || call.clr != bg {
			t.Errorf("got %+v", call)
		}
	})

	t.Run("absolute child delegates to parent", func(t *testing.T) {
		gfx := &recordingGraphics{w: 100, h: 100}
		tree := mustTree(t, gfx, geom.NewRect(0, 0, 10, 10), false)
		tree.Root().SetBackground(bg)
		child, err := tree.Root().Add(geom.NewRect(0, 0, 5, 5), false)
		if err != nil {
			t.Fatalf("Add() failed: %v", err)
		}
		child.SetBackground(color.RGBA{G: 0xff, A: 0xff})
		child.Clear()

		if len(gfx.calls) != 1 {
			t.Fatalf("expected 1 call, got %d", len(gfx.calls))
		}
		if call := gfx.last(t); call.op != "clear" || call.clr != bg {
			t.Errorf("parent should decide: got %+v", call)
		}
	})
}

func TestDegenerateSpaceRejected(t *testing.T) {
	gfx := &recordingGraphics{w: 100, h: 100}

	if _, err := NewTree(gfx, geom.NewRect(0, 0, 0, 10), false); !errors.Is(err, geom.ErrInvalidArgument) {
		t.Errorf("NewTree() with zero width: expected ErrInvalidArgument, got %v", err)
	}

	tree := mustTree(t, gfx, geom.NewRect(0, 0, 10, 10), false)
	if _, err := tree.Root().Add(geom.NewRect(0, 0, 5, -1), true); !errors.Is(err, geom.ErrInvalidArgument) {
		t.Errorf("Add() with negative height: expected ErrInvalidArgument, got %v", err)
	}
	if err := tree.Root().SetSpace(geom.NewRect(0, 0, 0, 0)); !errors.Is(err, geom.ErrInvalidArgument) {
		t.Errorf("SetSpace() with zero size: expected ErrInvalidArgument, got %v", err)
	}
	if tree.Root().Space() != geom.NewRect(0, 0, 10, 10) {
		t.Error("rejected SetSpace() must not change the space")
	}
	if _, err := tree.Add(ID(42), geom.NewRect(0, 0, 1, 1), true); !errors.Is(err, ErrUnknownCanvas) {
		t.Errorf("Add() to unknown parent: expected ErrUnknownCanvas, got %v", err)
	}
	if _, err := NewTree(nil, geom.NewRect(0, 0, 1, 1), true); err == nil {
		t.Error("NewTree() with nil graphics should fail")
	}
}

func TestZeroDeviceIsIdentity(t *testing.T) {
	gfx := &recordingGraphics{w: 0, h: 0}
	tree := mustTree(t, gfx, geom.NewRect(0, 0, 40, 30), false)

	p := geom.Pt(12, 7)
	if got := tree.Root().ScaleIn(p); !nearPoint(got, p) {
		t.Errorf("ScaleIn() on minimized device = %v, expected %v", got, p)
	}
	s := tree.Root().Scale()
	if math.IsInf(s.X, 0) || math.IsNaN(s.X) || math.IsInf(s.Y, 0) || math.IsNaN(s.Y) {
		t.Fatalf("scale must stay finite, got %v", s)
	}
}

func TestParentLinks(t *testing.T) {
	gfx := &recordingGraphics{w: 10, h: 10}
	tree := mustTree(t, gfx, geom.NewRect(0, 0, 10, 10), false)
	child, err := tree.Root().Add(geom.NewRect(0, 0, 5, 5), true)
	if err != nil {
		t.Fatalf("Add() failed: %v", err)
	}

	if _, ok := tree.Root().Parent(); ok {
		t.Error("root must not have a parent")
	}
	if !tree.Root().IsRoot() || child.IsRoot() {
		t.Error("only the first canvas is the root")
	}
	parent, ok := child.Parent()
	if !ok || parent.ID() != RootID {
		t.Errorf("child parent = %v, %v", parent.ID(), ok)
	}
	if tree.Len() != 2 {
		t.Errorf("Len() = %d, expected 2", tree.Len())
	}
	if c, err := tree.Get(child.ID()); err != nil || c.Space() != child.Space() {
		t.Errorf("Get() = %+v, %v", c, err)
	}
}
