package geom

import (
	"errors"
	"math"
	"testing"
)

func TestNewGridRejectsDegenerate(t *testing.T) {
	if _, err := NewGrid(NewRect(0, 0, 0, 10), 2, 2); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("zero-width bounds: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := NewGrid(NewRect(0, 0, 10, 10), 0, 2); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("zero columns: expected ErrInvalidArgument, got %v", err)
	}
}

func TestGridInverseStaysInSync(t *testing.T) {
	g, err := NewGrid(NewRect(0, 0, 100, 60), 4, 3)
	if err != nil {
		t.Fatalf("NewGrid() failed: %v", err)
	}

	check := func(stage string) {
		t.Helper()
		if math.Abs(g.TileWInv-1/g.TileW) > 1e-12 {
			t.Errorf("%s: TileWInv = %g, expected %g", stage, g.TileWInv, 1/g.TileW)
		}
		if math.Abs(g.TileHInv-1/g.TileH) > 1e-12 {
			t.Errorf("%s: TileHInv = %g, expected %g", stage, g.TileHInv, 1/g.TileH)
		}
	}

	check("initial")
	if g.TileW != 25 || g.TileH != 20 {
		t.Errorf("tile = %gx%g, expected 25x20", g.TileW, g.TileH)
	}

	if err := g.Rescale(NewRect(10, 10, 30, 9)); err != nil {
		t.Fatalf("Rescale() failed: %v", err)
	}
	check("after rescale")

	if err := g.Rescale(NewRect(0, 0, -1, 5)); err == nil {
		t.Error("Rescale() should reject negative extents")
	}
	check("after rejected rescale")
}

func TestGridCellAt(t *testing.T) {
	g, err := NewGrid(NewRect(10, 20, 40, 20), 4, 2)
	if err != nil {
		t.Fatalf("NewGrid() failed: %v", err)
	}

	tests := []struct {
		name     string
		p        Point
		col, row int
		ok       bool
	}{
		{"first cell", Pt(10, 20), 0, 0, true},
		{"last cell", Pt(49.9, 39.9), 3, 1, true},
		{"second row", Pt(25, 31), 1, 1, true},
		{"left of grid", Pt(9, 25), -1, 0, false},
		{"past bottom", Pt(20, 40), 1, 2, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			col, row, ok := g.CellAt(tc.p)
			if col != tc.col || row != tc.row || ok != tc.ok {
				t.Errorf("CellAt(%v) = (%d, %d, %v), expected (%d, %d, %v)", tc.p, col, row, ok, tc.col, tc.row, tc.ok)
			}
		})
	}
}

func TestGridSpan(t *testing.T) {
	g, err := NewGrid(NewRect(0, 0, 90, 30), 3, 3)
	if err != nil {
		t.Fatalf("NewGrid() failed: %v", err)
	}

	got := g.Span(NewRect(1, 1, 2, 1))
	want := NewRect(30, 10, 60, 10)
	if got != want {
		t.Errorf("Span() = %+v, expected %+v", got, want)
	}

	if cell := g.Cell(2, 0); cell != NewRect(60, 0, 30, 10) {
		t.Errorf("Cell(2, 0) = %+v", cell)
	}

	p := Pt(47, 13)
	if back := g.FromCells(g.ToCells(p)); math.Abs(back.X-p.X) > 1e-9 || math.Abs(back.Y-p.Y) > 1e-9 {
		t.Errorf("FromCells(ToCells(%v)) = %v", p, back)
	}
}
