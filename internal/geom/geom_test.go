package geom

import (
	"errors"
	"testing"
)

func TestRectIntersects(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Rect
		expected bool
	}{
		{
			name:     "overlapping rects",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(5, 5, 10, 10),
			expected: true,
		},
		{
			name:     "non-overlapping horizontal",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(15, 0, 10, 10),
			expected: false,
		},
		{
			name:     "adjacent horizontal (no overlap)",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(10, 0, 10, 10),
			expected: false,
		},
		{
			name:     "adjacent vertical (no overlap)",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(0, 10, 10, 10),
			expected: false,
		},
		{
			name:     "contained rect",
			a:        NewRect(0, 0, 20, 20),
			b:        NewRect(5, 5, 5, 5),
			expected: true,
		},
		{
			name:     "fractional overlap",
			a:        NewRect(0, 0, 1.5, 1.5),
			b:        NewRect(1.25, 1.25, 1, 1),
			expected: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Intersects(tc.b); got != tc.expected {
				t.Errorf("Intersects() = %v, expected %v", got, tc.expected)
			}
			if got := tc.b.Intersects(tc.a); got != tc.expected {
				t.Errorf("Intersects() (reversed) = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15)

	tests := []struct {
		name     string
		p        Point
		expected bool
	}{
		{"inside", Pt(15, 15), true},
		{"top-left corner", Pt(10, 10), true},
		{"bottom-right edge (exclusive)", Pt(30, 25), false},
		{"outside left", Pt(5, 15), false},
		{"outside bottom", Pt(15, 30), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Contains(tc.p); got != tc.expected {
				t.Errorf("Contains(%v) = %v, expected %v", tc.p, got, tc.expected)
			}
		})
	}
}

func TestRectValidate(t *testing.T) {
	tests := []struct {
		name    string
		r       Rect
		wantErr bool
	}{
		{"positive", NewRect(0, 0, 1, 1), false},
		{"zero width", NewRect(0, 0, 0, 1), true},
		{"zero height", NewRect(0, 0, 1, 0), true},
		{"negative span", NewRect(5, 5, -2, 3), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.r.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("Validate() error should wrap ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestRectEdges(t *testing.T) {
	r := NewRect(5, 10, 20, 15)

	if r.Right() != 25 {
		t.Errorf("Right() = %g, expected 25", r.Right())
	}
	if r.Bottom() != 25 {
		t.Errorf("Bottom() = %g, expected 25", r.Bottom())
	}
	if c := r.Center(); c != Pt(15, 17.5) {
		t.Errorf("Center() = %v, expected (15,17.5)", c)
	}
}

func TestOverlap(t *testing.T) {
	got := Overlap(NewRect(0, 0, 10, 10), NewRect(5, 2, 10, 4))
	want := NewRect(5, 2, 5, 4)
	if got != want {
		t.Errorf("Overlap() = %+v, expected %+v", got, want)
	}

	if got := Overlap(NewRect(0, 0, 1, 1), NewRect(2, 2, 1, 1)); got != (Rect{}) {
		t.Errorf("Overlap() of disjoint rects = %+v, expected zero", got)
	}
}

func TestRound(t *testing.T) {
	left := NewRect(0, 0, 2.5, 1).Round()
	right := NewRect(2.5, 0, 2.5, 1).Round()

	if left.X+left.W != right.X {
		t.Errorf("rounded neighbours should stay adjacent: %+v %+v", left, right)
	}
	if back := (IRect{X: 1, Y: 2, W: 3, H: 4}).Float(); back != NewRect(1, 2, 3, 4) {
		t.Errorf("Float() = %+v", back)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, lo, hi, expected int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
	}

	for _, tc := range tests {
		if got := Clamp(tc.val, tc.lo, tc.hi); got != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.lo, tc.hi, got, tc.expected)
		}
	}

	if got := ClampF(1.5, 0, 1); got != 1 {
		t.Errorf("ClampF(1.5, 0, 1) = %g, expected 1", got)
	}
}
