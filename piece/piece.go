// Package piece models the falling piece: its shape, origin and color, the
// unconditional transformations applied to it, and the validity check that
// callers compose with them to implement try-move-or-revert.
package piece

import (
	"image/color"
	"iter"

	"github.com/plus3/blockfall/shape"
	"github.com/plus3/blockfall/well"
)

// Piece is the active falling piece. X and Y locate the shape's top-left
// matrix cell in well coordinates.
type Piece struct {
	Kind  shape.Kind
	Shape shape.Shape
	X, Y  int
	Color color.RGBA
}

// New places shape horizontally centered in a well of the given width, on row 0.
func New(kind shape.Kind, s shape.Shape, cols int, c color.RGBA) *Piece {
	return &Piece{
		Kind:  kind,
		Shape: s,
		X:     cols/2 - s.Cols()/2,
		Y:     0,
		Color: c,
	}
}

// Translate shifts the origin. It never checks validity.
func (p *Piece) Translate(dx, dy int) {
	p.X += dx
	p.Y += dy
}

// Rotate turns the shape 90 degrees clockwise in place. It never checks validity.
func (p *Piece) Rotate() {
	p.Shape = p.Shape.Rotate()
}

// Unrotate undoes one Rotate by rotating three more times. The rotation group
// has order four, so the original matrix is restored exactly.
func (p *Piece) Unrotate() {
	for range 3 {
		p.Rotate()
	}
}

// OccupiedCells yields the well coordinate of every filled shape cell,
// row by row, left to right within a row.
func (p *Piece) OccupiedCells() iter.Seq[well.Coord] {
	return func(yield func(well.Coord) bool) {
		for i, row := range p.Shape {
			for j, filled := range row {
				if !filled {
					continue
				}
				if !yield(well.Coord{X: p.X + j, Y: p.Y + i}) {
					return
				}
			}
		}
	}
}

// Cells collects OccupiedCells.
func (p *Piece) Cells() []well.Coord {
	cells := make([]well.Coord, 0, p.Shape.Count())
	for c := range p.OccupiedCells() {
		cells = append(cells, c)
	}
	return cells
}

// IsValid reports whether every occupied cell lies within the well's columns,
// above its floor, and off any locked cell. Cells above row 0 are allowed and
// skip the occupancy check.
func (p *Piece) IsValid(w *well.Well) bool {
	for c := range p.OccupiedCells() {
		if c.X < 0 || c.X >= w.Cols() || c.Y >= w.Rows() {
			return false
		}
		if c.Y >= 0 && w.IsOccupied(c.X, c.Y) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy that shares nothing with p.
func (p *Piece) Clone() *Piece {
	clone := *p
	clone.Shape = p.Shape.Clone()
	return &clone
}
