// Package shape holds the catalog of piece templates as boolean cell matrices.
package shape

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Kind identifies one template in the catalog.
type Kind int

const (
	I Kind = iota
	O
	S
	Z
	T
)

var kindNames = [...]string{"I", "O", "S", "Z", "T"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Shape is a rows x cols matrix of cells. A true cell is part of the piece.
type Shape [][]bool

var templates = [...]Shape{
	I: mustParse(`
		####
	`),
	O: mustParse(`
		##
		##
	`),
	S: mustParse(`
		.##
		##.
	`),
	Z: mustParse(`
		##.
		.##
	`),
	T: mustParse(`
		###
		.#.
	`),
}

func mustParse(text string) Shape {
	s, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return s
}

// Kinds returns every catalog kind in catalog order.
func Kinds() []Kind {
	kinds := make([]Kind, len(templates))
	for i := range templates {
		kinds[i] = Kind(i)
	}
	return kinds
}

// Template returns a copy of the stored template for kind.
// Panics if kind is not in the catalog.
func Template(kind Kind) Shape {
	if kind < 0 || int(kind) >= len(templates) {
		panic("shape: unknown kind " + kind.String())
	}
	return templates[kind].Clone()
}

// Random picks a kind uniformly from the catalog and returns it with its template.
func Random(r *rand.Rand) (Kind, Shape) {
	kind := Kind(r.IntN(len(templates)))
	return kind, Template(kind)
}

// Rows is the matrix height.
func (s Shape) Rows() int {
	return len(s)
}

// Cols is the matrix width, taken from the first row.
func (s Shape) Cols() int {
	if len(s) == 0 {
		return 0
	}
	return len(s[0])
}

// Rotate returns the shape turned 90 degrees clockwise: the transpose of the
// row-reversed matrix. A rows x cols shape becomes cols x rows.
func (s Shape) Rotate() Shape {
	rows, cols := s.Rows(), s.Cols()
	rotated := make(Shape, cols)
	for i := range rotated {
		rotated[i] = make([]bool, rows)
	}

	for i := range rows {
		for j := range cols {
			rotated[j][rows-1-i] = s[i][j]
		}
	}

	return rotated
}

// Clone returns a deep copy.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	for i := range s {
		clone[i] = make([]bool, len(s[i]))
		copy(clone[i], s[i])
	}
	return clone
}

// Equal reports whether both shapes have the same dimensions and cells.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if len(s[i]) != len(other[i]) {
			return false
		}
		for j := range s[i] {
			if s[i][j] != other[i][j] {
				return false
			}
		}
	}
	return true
}

// Count returns the number of filled cells.
func (s Shape) Count() int {
	n := 0
	for _, row := range s {
		for _, cell := range row {
			if cell {
				n++
			}
		}
	}
	return n
}

// String renders the shape with '#' for filled cells and '.' for empty ones,
// one line per row.
func (s Shape) String() string {
	var b strings.Builder
	for i, row := range s {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, cell := range row {
			if cell {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
	}
	return b.String()
}

// Parse reads the format produced by String. Leading and trailing blank lines
// are ignored; every row must have the same width.
func Parse(text string) (Shape, error) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	s := make(Shape, 0, len(lines))
	for n, line := range lines {
		line = strings.TrimSpace(line)
		row := make([]bool, len(line))
		for j, ch := range line {
			switch ch {
			case '#':
				row[j] = true
			case '.':
			default:
				return nil, fmt.Errorf("shape: line %d: unexpected %q", n+1, ch)
			}
		}
		if len(s) > 0 && len(row) != len(s[0]) {
			return nil, fmt.Errorf("shape: line %d: width %d, want %d", n+1, len(row), len(s[0]))
		}
		s = append(s, row)
	}
	if s.Cols() == 0 {
		return nil, fmt.Errorf("shape: empty matrix")
	}
	return s, nil
}
