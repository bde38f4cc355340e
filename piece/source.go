package piece

import (
	"image/color"
	"math/rand/v2"

	"github.com/plus3/blockfall/shape"
)

// Source decides which kind of piece spawns next.
type Source interface {
	Next() shape.Kind
}

// RandomSource draws uniformly from the shape catalog.
type RandomSource struct {
	rng *rand.Rand
}

func NewRandomSource(rng *rand.Rand) *RandomSource {
	return &RandomSource{rng: rng}
}

func (s *RandomSource) Next() shape.Kind {
	kind, _ := shape.Random(s.rng)
	return kind
}

// QueueSource hands out kinds in the order they were pushed. When the queue is
// empty it falls back to Fallback, or panics if Fallback is nil.
type QueueSource struct {
	queue    []shape.Kind
	Fallback Source
}

func NewQueueSource(kinds ...shape.Kind) *QueueSource {
	return &QueueSource{queue: kinds}
}

func (q *QueueSource) Push(kinds ...shape.Kind) {
	q.queue = append(q.queue, kinds...)
}

func (q *QueueSource) Len() int {
	return len(q.queue)
}

func (q *QueueSource) Next() shape.Kind {
	if len(q.queue) == 0 {
		if q.Fallback == nil {
			panic("piece: queue source exhausted")
		}
		return q.Fallback.Next()
	}
	kind := q.queue[0]
	q.queue = q.queue[1:]
	return kind
}

// ColorPolicy selects how a spawned piece is colored.
type ColorPolicy int

const (
	// FixedColor gives every piece the same color.
	FixedColor ColorPolicy = iota
	// RandomFromPalette picks uniformly from a palette on each spawn.
	RandomFromPalette
)

func (p ColorPolicy) String() string {
	switch p {
	case FixedColor:
		return "fixed"
	case RandomFromPalette:
		return "palette"
	default:
		return "unknown"
	}
}

// Spawner produces replacement pieces for a well of a fixed width.
type Spawner struct {
	Cols    int
	Source  Source
	Policy  ColorPolicy
	Fixed   color.RGBA
	Palette []color.RGBA

	rng *rand.Rand
}

// NewSpawner returns a spawner that uses rng both for kinds (through a
// RandomSource) and for palette picks.
func NewSpawner(cols int, rng *rand.Rand) *Spawner {
	return &Spawner{
		Cols:   cols,
		Source: NewRandomSource(rng),
		Policy: FixedColor,
		rng:    rng,
	}
}

// Spawn creates the next piece at the centered spawn position.
func (s *Spawner) Spawn() *Piece {
	kind := s.Source.Next()
	return New(kind, shape.Template(kind), s.Cols, s.color())
}

func (s *Spawner) color() color.RGBA {
	if s.Policy == RandomFromPalette && len(s.Palette) > 0 {
		return s.Palette[s.rng.IntN(len(s.Palette))]
	}
	return s.Fixed
}
