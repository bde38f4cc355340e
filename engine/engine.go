// Package engine drives a game: gravity on elapsed time, player commands,
// locking, line clearing and scoring. An Engine is owned by a single
// goroutine; none of its methods are safe for concurrent use.
package engine

import (
	"image/color"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/plus3/blockfall/piece"
	"github.com/plus3/blockfall/shape"
	"github.com/plus3/blockfall/well"
	"go.uber.org/zap"
)

type Engine struct {
	opts     options
	id       uuid.UUID
	log      *zap.Logger
	observer Observer

	locked  *well.Locked
	well    *well.Well
	spawner *piece.Spawner
	current *piece.Piece

	state   State
	elapsed time.Duration
	score   int
	level   int
	lines   int
}

// New creates an engine and spawns its first piece. If that piece is already
// blocked by a pre-filled store the engine starts in GameOver.
func New(opts ...Option) *Engine {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		now := uint64(time.Now().UnixNano())
		o.rng = rand.New(rand.NewPCG(now, now>>17))
	}
	if o.locked == nil {
		o.locked = well.NewLocked()
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	spawner := piece.NewSpawner(o.cols, o.rng)
	spawner.Policy = o.colorPolicy
	spawner.Fixed = o.fixedColor
	spawner.Palette = o.palette
	if o.source != nil {
		spawner.Source = o.source
	}

	var observer Observer = NopObserver{}
	if len(o.observers) > 0 {
		observer = o.observers
	}

	e := &Engine{
		opts:     o,
		observer: observer,
		locked:   o.locked,
		spawner:  spawner,
	}
	e.start()
	return e
}

func (e *Engine) start() {
	e.id = uuid.New()
	e.log = e.opts.logger.With(zap.Stringer("game", e.id))
	e.state = Running
	e.elapsed = 0
	e.score = 0
	e.lines = 0
	e.level = e.opts.startLevel

	e.rebuild()
	e.observer.GameStarted()
	e.spawn()

	e.log.Info("game started",
		zap.Int("rows", e.opts.rows),
		zap.Int("cols", e.opts.cols),
		zap.Duration("fall_interval", e.opts.fallInterval),
		zap.Stringer("clear_policy", e.opts.clearPolicy),
		zap.Stringer("color_policy", e.opts.colorPolicy),
	)
}

// Reset empties the locked store and starts a new game with a new ID.
func (e *Engine) Reset() {
	e.locked.Clear()
	e.start()
}

// rebuild derives the grid from the locked store, which is the source of truth.
func (e *Engine) rebuild() {
	e.well = well.New(e.opts.rows, e.opts.cols, e.locked)
}

// Tick rebuilds the grid from the locked store, accumulates elapsed time and,
// once a full fall interval has passed, moves the piece down one row or locks
// it where it stands. The accumulator restarts from zero after every gravity step.
func (e *Engine) Tick(elapsed time.Duration) {
	if e.state == GameOver {
		return
	}
	e.rebuild()

	e.elapsed += elapsed
	if e.elapsed < e.opts.fallInterval {
		return
	}
	e.elapsed = 0

	e.current.Translate(0, 1)
	if e.current.IsValid(e.well) {
		return
	}
	e.current.Translate(0, -1)

	e.lock()
	e.spawn()
}

func (e *Engine) lock() {
	c := e.current.Color
	if e.opts.lockColor != nil {
		c = *e.opts.lockColor
	}

	for cell := range e.current.OccupiedCells() {
		if cell.Y < 0 || cell.Y >= e.opts.rows || cell.X < 0 || cell.X >= e.opts.cols {
			continue
		}
		e.locked.Put(cell.X, cell.Y, c)
	}

	e.log.Debug("piece locked",
		zap.Stringer("kind", e.current.Kind),
		zap.Int("x", e.current.X),
		zap.Int("y", e.current.Y),
	)
	e.observer.PieceLocked(e.current.Clone())

	e.rebuild()
}

func (e *Engine) spawn() {
	e.current = e.spawner.Spawn()
	if e.current.IsValid(e.well) {
		return
	}

	e.state = GameOver
	e.log.Info("game over",
		zap.Int("score", e.score),
		zap.Int("lines", e.lines),
		zap.Int("locked_cells", e.locked.Len()),
	)
	e.observer.GameOver(e.score)
}

// ApplyCommand performs cmd on the current piece and reverts it if the result
// is invalid. It reports whether the piece changed. Rejected commands and any
// command received after GameOver are silently ignored.
func (e *Engine) ApplyCommand(cmd Command) bool {
	if e.state == GameOver {
		return false
	}
	// The caller may have written to the store since the last tick.
	e.rebuild()

	p := e.current
	switch cmd {
	case MoveLeft:
		return e.try(func() { p.Translate(-1, 0) }, func() { p.Translate(1, 0) })
	case MoveRight:
		return e.try(func() { p.Translate(1, 0) }, func() { p.Translate(-1, 0) })
	case SoftDrop:
		return e.try(func() { p.Translate(0, 1) }, func() { p.Translate(0, -1) })
	case Rotate:
		return e.try(p.Rotate, p.Unrotate)
	default:
		e.log.Warn("unknown command", zap.Stringer("command", cmd))
		return false
	}
}

func (e *Engine) try(apply, undo func()) bool {
	apply()
	if e.current.IsValid(e.well) {
		return true
	}
	undo()
	return false
}

// ResolveLines clears every full row from the locked store and scores
// PointsPerRow for each one. It returns the number of rows cleared.
func (e *Engine) ResolveLines() int {
	if e.state == GameOver {
		return 0
	}

	e.rebuild()
	cleared := e.well.ClearFullRows(e.locked, e.opts.clearPolicy)
	if cleared == 0 {
		return 0
	}

	e.lines += cleared
	e.score += cleared * PointsPerRow

	e.log.Info("lines cleared",
		zap.Int("rows", cleared),
		zap.Int("score", e.score),
		zap.Int("lines", e.lines),
	)
	e.observer.LinesCleared(cleared, e.score)

	return cleared
}

// ID identifies the current game; it changes on Reset.
func (e *Engine) ID() uuid.UUID { return e.id }

func (e *Engine) State() State { return e.state }
func (e *Engine) Score() int   { return e.score }

// Level is informational only; it never changes the fall interval.
func (e *Engine) Level() int { return e.level }

// Lines is the total number of rows cleared this game.
func (e *Engine) Lines() int { return e.lines }

func (e *Engine) Rows() int                   { return e.opts.rows }
func (e *Engine) Cols() int                   { return e.opts.cols }
func (e *Engine) FallInterval() time.Duration { return e.opts.fallInterval }

// Piece returns a copy of the current piece.
func (e *Engine) Piece() *piece.Piece {
	return e.current.Clone()
}

// Well returns the current grid view. Callers must treat it as read-only.
func (e *Engine) Well() *well.Well {
	return e.well
}

// Snapshot is everything a presentation layer needs to draw one frame.
// It shares no memory with the engine.
type Snapshot struct {
	ID         uuid.UUID
	State      State
	Cells      [][]well.Cell
	PieceKind  shape.Kind
	PieceCells []well.Coord
	PieceColor color.RGBA
	Score      int
	Level      int
	Lines      int
}

func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		ID:         e.id,
		State:      e.state,
		Cells:      e.well.Cells(),
		PieceKind:  e.current.Kind,
		PieceCells: e.current.Cells(),
		PieceColor: e.current.Color,
		Score:      e.score,
		Level:      e.level,
		Lines:      e.lines,
	}
}
