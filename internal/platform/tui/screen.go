package tui

import (
	"image/color"
	"strings"
)

// Cell is one terminal character with its colors.
// A zero BG alpha leaves the terminal background showing.
type Cell struct {
	Rune rune
	FG   color.RGBA
	BG   color.RGBA
}

var blankCell = Cell{Rune: ' '}

// Screen is a 2D cell buffer the terminal graphics device draws into.
// Rendering to ANSI happens once per frame in RenderScreen.
type Screen struct {
	width  int
	height int
	cells  [][]Cell
}

// NewScreen creates a new screen buffer with the given dimensions.
func NewScreen(width, height int) *Screen {
	s := &Screen{
		width:  max(width, 0),
		height: max(height, 0),
	}
	s.allocate()
	s.Clear()
	return s
}

// allocate creates the underlying cell storage.
func (s *Screen) allocate() {
	s.cells = make([][]Cell, s.height)
	for y := range s.cells {
		s.cells[y] = make([]Cell, s.width)
	}
}

// Width returns the screen width in cells.
func (s *Screen) Width() int {
	return s.width
}

// Height returns the screen height in cells.
func (s *Screen) Height() int {
	return s.height
}

// Resize changes the screen dimensions, preserving content where possible.
func (s *Screen) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	if width == s.width && height == s.height {
		return
	}

	oldCells := s.cells
	oldW, oldH := s.width, s.height

	s.width = width
	s.height = height
	s.allocate()
	s.Clear()

	copyW := min(oldW, width)
	copyH := min(oldH, height)
	for y := range copyH {
		copy(s.cells[y][:copyW], oldCells[y][:copyW])
	}
}

// Clear resets every cell to a blank with no colors.
func (s *Screen) Clear() {
	s.Fill(blankCell)
}

// Fill sets every cell to c.
func (s *Screen) Fill(c Cell) {
	for y := range s.cells {
		for x := range s.cells[y] {
			s.cells[y][x] = c
		}
	}
}

// In reports whether (x, y) is on the screen.
func (s *Screen) In(x, y int) bool {
	return x >= 0 && x < s.width && y >= 0 && y < s.height
}

// Set places a cell at the given position.
// Out-of-bounds coordinates are silently ignored.
func (s *Screen) Set(x, y int, c Cell) {
	if !s.In(x, y) {
		return
	}
	s.cells[y][x] = c
}

// SetRune changes the rune and foreground at (x, y), keeping the background.
func (s *Screen) SetRune(x, y int, r rune, fg color.RGBA) {
	if !s.In(x, y) {
		return
	}
	c := &s.cells[y][x]
	c.Rune = r
	c.FG = fg
}

// Get returns the cell at the given position.
// Returns a blank cell for out-of-bounds coordinates.
func (s *Screen) Get(x, y int) Cell {
	if !s.In(x, y) {
		return blankCell
	}
	return s.cells[y][x]
}

// DrawText writes a string horizontally starting at (x, y).
// Characters that extend beyond screen bounds are clipped.
func (s *Screen) DrawText(x, y int, text string, fg color.RGBA) {
	i := 0
	for _, r := range text {
		s.SetRune(x+i, y, r, fg)
		i++
	}
}

// DrawBox draws a box outline using box-drawing characters.
// Boxes one cell wide or tall collapse to a line.
func (s *Screen) DrawBox(x0, y0, x1, y1 int, fg color.RGBA) {
	if x1 <= x0 || y1 <= y0 {
		return
	}
	right, bottom := x1-1, y1-1

	for x := x0; x <= right; x++ {
		s.SetRune(x, y0, '─', fg)
		s.SetRune(x, bottom, '─', fg)
	}
	for y := y0; y <= bottom; y++ {
		s.SetRune(x0, y, '│', fg)
		s.SetRune(right, y, '│', fg)
	}
	if right == x0 || bottom == y0 {
		return
	}

	// Corners
	s.SetRune(x0, y0, '┌', fg)
	s.SetRune(right, y0, '┐', fg)
	s.SetRune(x0, bottom, '└', fg)
	s.SetRune(right, bottom, '┘', fg)
}

// String converts the screen buffer to plain text without colors.
// Each row is joined with newlines.
func (s *Screen) String() string {
	var sb strings.Builder
	sb.Grow(s.width*s.height + s.height)

	for y := range s.height {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for x := range s.width {
			sb.WriteRune(s.cells[y][x].Rune)
		}
	}
	return sb.String()
}

// Row returns the runes of the specified row as a string.
func (s *Screen) Row(y int) string {
	if y < 0 || y >= s.height {
		return strings.Repeat(" ", s.width)
	}
	runes := make([]rune, s.width)
	for x, c := range s.cells[y] {
		runes[x] = c.Rune
	}
	return string(runes)
}
