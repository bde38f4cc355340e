package well

import (
	"fmt"
	"image/color"
)

// Coord is a column/row position in well space. Row 0 is the top.
type Coord struct {
	X, Y int
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Cell is either empty or occupied with a color.
type Cell struct {
	Filled bool
	Color  color.RGBA
}

// Empty is the zero Cell.
var Empty Cell

// Occupied returns a filled cell of the given color.
func Occupied(c color.RGBA) Cell {
	return Cell{Filled: true, Color: c}
}

// IsEmpty reports whether nothing is locked in the cell.
func (c Cell) IsEmpty() bool {
	return !c.Filled
}

// BoundsError is returned when a coordinate outside the grid is read.
// It indicates a caller bug rather than a game event.
type BoundsError struct {
	X, Y       int
	Cols, Rows int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("well: cell (%d,%d) outside %dx%d grid", e.X, e.Y, e.Cols, e.Rows)
}
