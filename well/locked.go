package well

import (
	"cmp"
	"image/color"
	"slices"

	"github.com/kamstrup/intmap"
)

// Locked is the authoritative store of landed cells, keyed by coordinate.
// The Well grid is a view derived from it. A Locked is owned by its caller and
// must not be shared between engines.
type Locked struct {
	cells *intmap.Map[uint64, color.RGBA]
}

// NewLocked creates an empty store.
func NewLocked() *Locked {
	return &Locked{
		cells: intmap.New[uint64, color.RGBA](256),
	}
}

// packCoord folds a coordinate into a single map key. Both halves are kept as
// 32-bit two's complement so negative rows survive the round trip.
func packCoord(x, y int) uint64 {
	return uint64(uint32(int32(y)))<<32 | uint64(uint32(int32(x)))
}

func unpackCoord(key uint64) Coord {
	return Coord{
		X: int(int32(uint32(key & 0xFFFFFFFF))),
		Y: int(int32(uint32(key >> 32))),
	}
}

// Put records a locked cell, replacing any color already there.
func (l *Locked) Put(x, y int, c color.RGBA) {
	l.cells.Put(packCoord(x, y), c)
}

// Get returns the color locked at (x, y).
func (l *Locked) Get(x, y int) (color.RGBA, bool) {
	return l.cells.Get(packCoord(x, y))
}

// Has reports whether (x, y) holds a locked cell.
func (l *Locked) Has(x, y int) bool {
	_, ok := l.cells.Get(packCoord(x, y))
	return ok
}

// Delete removes the cell at (x, y) if present.
func (l *Locked) Delete(x, y int) {
	l.cells.Del(packCoord(x, y))
}

// Len is the number of locked cells.
func (l *Locked) Len() int {
	return l.cells.Len()
}

// Clear removes every cell.
func (l *Locked) Clear() {
	l.cells.Clear()
}

// ForEach calls fn for every locked cell in unspecified order until fn returns false.
// fn must not modify the store.
func (l *Locked) ForEach(fn func(Coord, color.RGBA) bool) {
	l.cells.ForEach(func(key uint64, c color.RGBA) bool {
		return fn(unpackCoord(key), c)
	})
}

// Coords returns every locked coordinate sorted top to bottom, then left to right.
func (l *Locked) Coords() []Coord {
	coords := make([]Coord, 0, l.Len())
	l.ForEach(func(c Coord, _ color.RGBA) bool {
		coords = append(coords, c)
		return true
	})
	slices.SortFunc(coords, func(a, b Coord) int {
		if a.Y != b.Y {
			return cmp.Compare(a.Y, b.Y)
		}
		return cmp.Compare(a.X, b.X)
	})
	return coords
}

// DeleteRow removes every cell on row y and returns how many were removed.
func (l *Locked) DeleteRow(y int) int {
	var doomed []uint64
	l.cells.ForEach(func(key uint64, _ color.RGBA) bool {
		if unpackCoord(key).Y == y {
			doomed = append(doomed, key)
		}
		return true
	})
	for _, key := range doomed {
		l.cells.Del(key)
	}
	return len(doomed)
}

// ShiftDown moves every cell above row y down by one row. Cells on or below y
// are untouched.
func (l *Locked) ShiftDown(y int) {
	type entry struct {
		at    Coord
		color color.RGBA
	}

	var moved []entry
	l.ForEach(func(c Coord, clr color.RGBA) bool {
		if c.Y < y {
			moved = append(moved, entry{at: c, color: clr})
		}
		return true
	})

	for _, e := range moved {
		l.Delete(e.at.X, e.at.Y)
	}
	for _, e := range moved {
		l.Put(e.at.X, e.at.Y+1, e.color)
	}
}
