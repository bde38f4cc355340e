// Package well implements the playfield: the store of locked cells, the grid
// view built from it, and line clearing.
package well

import (
	"image/color"
	"slices"
	"strings"
)

const (
	DefaultRows = 20
	DefaultCols = 10
)

// Policy selects how ClearFullRows treats the cells above a cleared row.
type Policy int

const (
	// Compact removes the row and drops everything above it by one row.
	Compact Policy = iota
	// Vanish deletes the row's cells and leaves everything else in place,
	// leaving a gap in the stack.
	Vanish
)

func (p Policy) String() string {
	switch p {
	case Compact:
		return "compact"
	case Vanish:
		return "vanish"
	default:
		return "unknown"
	}
}

// Well is a rows x cols grid of cells. It is a view derived from a Locked
// store and is rebuilt whenever the store changes.
type Well struct {
	rows, cols int
	cells      [][]Cell
}

// New builds an empty rows x cols grid and overlays every locked cell that
// falls inside it. locked may be nil.
func New(rows, cols int, locked *Locked) *Well {
	w := &Well{
		rows:  rows,
		cols:  cols,
		cells: make([][]Cell, rows),
	}
	for y := range w.cells {
		w.cells[y] = make([]Cell, cols)
	}

	if locked != nil {
		locked.ForEach(func(c Coord, clr color.RGBA) bool {
			if w.inBounds(c.X, c.Y) {
				w.cells[c.Y][c.X] = Occupied(clr)
			}
			return true
		})
	}

	return w
}

func (w *Well) Rows() int { return w.rows }
func (w *Well) Cols() int { return w.cols }

func (w *Well) inBounds(x, y int) bool {
	return x >= 0 && x < w.cols && y >= 0 && y < w.rows
}

// CellAt returns the cell at (x, y), or a *BoundsError if it lies outside the grid.
func (w *Well) CellAt(x, y int) (Cell, error) {
	if !w.inBounds(x, y) {
		return Empty, &BoundsError{X: x, Y: y, Cols: w.cols, Rows: w.rows}
	}
	return w.cells[y][x], nil
}

// IsOccupied reports whether (x, y) is inside the grid and filled.
func (w *Well) IsOccupied(x, y int) bool {
	return w.inBounds(x, y) && w.cells[y][x].Filled
}

// IsRowFull reports whether no cell on row is empty. Rows outside the grid are never full.
func (w *Well) IsRowFull(row int) bool {
	if row < 0 || row >= w.rows {
		return false
	}
	for _, cell := range w.cells[row] {
		if cell.IsEmpty() {
			return false
		}
	}
	return true
}

// FullRows lists the indices of every full row, bottom first.
func (w *Well) FullRows() []int {
	var rows []int
	for y := w.rows - 1; y >= 0; y-- {
		if w.IsRowFull(y) {
			rows = append(rows, y)
		}
	}
	return rows
}

// ClearFullRows removes every full row from both the grid and locked, which
// must be the store the grid was built from. Rows are scanned bottom to top.
// Under Compact the row index is rescanned after each removal, because the
// row above has dropped into it. The grid always keeps its dimensions.
func (w *Well) ClearFullRows(locked *Locked, policy Policy) int {
	cleared := 0

	for row := w.rows - 1; row >= 0; {
		if !w.IsRowFull(row) {
			row--
			continue
		}

		cleared++
		locked.DeleteRow(row)

		switch policy {
		case Vanish:
			w.cells[row] = make([]Cell, w.cols)
			row--
		default:
			locked.ShiftDown(row)
			w.cells = slices.Delete(w.cells, row, row+1)
			w.cells = slices.Insert(w.cells, 0, make([]Cell, w.cols))
		}
	}

	return cleared
}

// Cells returns a copy of the grid, indexed [row][col].
func (w *Well) Cells() [][]Cell {
	out := make([][]Cell, w.rows)
	for y := range w.cells {
		out[y] = slices.Clone(w.cells[y])
	}
	return out
}

// String draws the grid with '#' for filled cells and '.' for empty ones.
func (w *Well) String() string {
	var b strings.Builder
	b.Grow(w.rows * (w.cols + 1))
	for y, row := range w.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		for _, cell := range row {
			if cell.Filled {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
	}
	return b.String()
}
