package engine_test

import (
	"image/color"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/plus3/blockfall/engine"
	"github.com/plus3/blockfall/piece"
	"github.com/plus3/blockfall/shape"
	"github.com/plus3/blockfall/well"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	zapobserver "go.uber.org/zap/zaptest/observer"
)

var (
	red  = color.RGBA{R: 255, A: 255}
	blue = color.RGBA{B: 255, A: 255}
)

const interval = engine.DefaultFallInterval

func queue(kinds ...shape.Kind) *piece.QueueSource {
	q := piece.NewQueueSource(kinds...)
	q.Fallback = piece.NewRandomSource(rand.New(rand.NewPCG(3, 4)))
	return q
}

func newEngine(t *testing.T, locked *well.Locked, kinds ...shape.Kind) *engine.Engine {
	t.Helper()
	if locked == nil {
		locked = well.NewLocked()
	}
	return engine.New(
		engine.WithLocked(locked),
		engine.WithSource(queue(kinds...)),
		engine.WithFixedColor(red),
		engine.WithSeed(1),
	)
}

// tickUntilLocked runs gravity steps until the store grows and returns the
// number of steps taken along with the piece as it was just before locking.
func tickUntilLocked(t *testing.T, e *engine.Engine, locked *well.Locked) (int, *piece.Piece) {
	t.Helper()
	start := locked.Len()
	for ticks := 1; ticks <= 100; ticks++ {
		before := e.Piece()
		e.Tick(interval)
		if locked.Len() != start {
			return ticks, before
		}
	}
	t.Fatal("piece never locked")
	return 0, nil
}

func fillRow(locked *well.Locked, y int, skip ...int) {
	for x := range well.DefaultCols {
		if !containsInt(skip, x) {
			locked.Put(x, y, red)
		}
	}
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

func TestNewEngine(t *testing.T) {
	e := newEngine(t, nil, shape.T)

	assert.Equal(t, engine.Running, e.State())
	assert.Equal(t, 0, e.Score())
	assert.Equal(t, 1, e.Level())
	assert.Equal(t, 0, e.Lines())
	assert.Equal(t, well.DefaultRows, e.Rows())
	assert.Equal(t, well.DefaultCols, e.Cols())
	assert.Equal(t, interval, e.FallInterval())

	p := e.Piece()
	assert.Equal(t, shape.T, p.Kind)
	assert.Equal(t, 4, p.X)
	assert.Equal(t, 0, p.Y)
	assert.Equal(t, red, p.Color)
}

func TestPieceFallsAndLocksOnFloor(t *testing.T) {
	for _, kind := range shape.Kinds() {
		t.Run(kind.String(), func(t *testing.T) {
			locked := well.NewLocked()
			e := newEngine(t, locked, kind, shape.O)
			height := shape.Template(kind).Rows()

			ticks, landed := tickUntilLocked(t, e, locked)

			assert.Equal(t, well.DefaultRows-height, landed.Y)
			assert.Equal(t, well.DefaultRows-height+1, ticks)
			assert.Equal(t, landed.Cells(), locked.Coords())
			for _, c := range landed.Cells() {
				clr, ok := locked.Get(c.X, c.Y)
				require.True(t, ok)
				assert.Equal(t, red, clr)
			}

			// A replacement spawned at the top.
			next := e.Piece()
			assert.Equal(t, shape.O, next.Kind)
			assert.Equal(t, 0, next.Y)
			assert.Equal(t, engine.Running, e.State())
		})
	}
}

func TestTickAccumulatesAndResets(t *testing.T) {
	e := newEngine(t, nil, shape.O)

	e.Tick(200 * time.Millisecond)
	e.Tick(200 * time.Millisecond)
	assert.Equal(t, 0, e.Piece().Y)

	e.Tick(200 * time.Millisecond)
	assert.Equal(t, 1, e.Piece().Y)

	// The 100ms overshoot is discarded, not carried.
	e.Tick(400 * time.Millisecond)
	assert.Equal(t, 1, e.Piece().Y)

	e.Tick(100 * time.Millisecond)
	assert.Equal(t, 2, e.Piece().Y)
}

func TestApplyCommand(t *testing.T) {
	t.Run("moves", func(t *testing.T) {
		e := newEngine(t, nil, shape.O)

		assert.True(t, e.ApplyCommand(engine.MoveLeft))
		assert.Equal(t, 3, e.Piece().X)
		assert.True(t, e.ApplyCommand(engine.MoveRight))
		assert.True(t, e.ApplyCommand(engine.MoveRight))
		assert.Equal(t, 5, e.Piece().X)
		assert.True(t, e.ApplyCommand(engine.SoftDrop))
		assert.Equal(t, 1, e.Piece().Y)
	})

	t.Run("move left at the wall is rejected", func(t *testing.T) {
		e := newEngine(t, nil, shape.O)
		for e.ApplyCommand(engine.MoveLeft) {
		}
		before := e.Piece()
		require.Equal(t, 0, before.X)

		assert.False(t, e.ApplyCommand(engine.MoveLeft))
		assert.Equal(t, before, e.Piece())
	})

	t.Run("move right at the wall is rejected", func(t *testing.T) {
		e := newEngine(t, nil, shape.O)
		for e.ApplyCommand(engine.MoveRight) {
		}
		assert.Equal(t, well.DefaultCols-2, e.Piece().X)
	})

	t.Run("soft drop stops at the floor", func(t *testing.T) {
		e := newEngine(t, nil, shape.O)
		for e.ApplyCommand(engine.SoftDrop) {
		}
		assert.Equal(t, well.DefaultRows-2, e.Piece().Y)
	})

	t.Run("rotate", func(t *testing.T) {
		e := newEngine(t, nil, shape.T)
		assert.True(t, e.ApplyCommand(engine.Rotate))
		assert.True(t, shape.Template(shape.T).Rotate().Equal(e.Piece().Shape))
	})

	t.Run("rotate past the wall is rejected and restores the matrix", func(t *testing.T) {
		e := newEngine(t, nil, shape.I)
		require.True(t, e.ApplyCommand(engine.Rotate))
		for e.ApplyCommand(engine.MoveRight) {
		}
		before := e.Piece()
		require.Equal(t, well.DefaultCols-1, before.X)

		assert.False(t, e.ApplyCommand(engine.Rotate))
		after := e.Piece()
		assert.True(t, before.Shape.Equal(after.Shape))
		assert.Equal(t, before, after)
	})

	t.Run("rotate into a locked cell is rejected", func(t *testing.T) {
		locked := well.NewLocked()
		locked.Put(3, 2, blue)
		e := newEngine(t, locked, shape.I)

		before := e.Piece()
		assert.False(t, e.ApplyCommand(engine.Rotate))
		assert.Equal(t, before, e.Piece())
	})

	t.Run("unknown command", func(t *testing.T) {
		e := newEngine(t, nil, shape.O)
		before := e.Piece()
		assert.False(t, e.ApplyCommand(engine.Command(99)))
		assert.Equal(t, before, e.Piece())
	})
}

func TestCommandsSeeCellsLockedBetweenTicks(t *testing.T) {
	t.Run("after a short tick", func(t *testing.T) {
		locked := well.NewLocked()
		e := newEngine(t, locked, shape.O)
		require.Equal(t, 4, e.Piece().X)

		locked.Put(4, 2, blue)
		e.Tick(time.Millisecond)

		assert.False(t, e.ApplyCommand(engine.SoftDrop))
		assert.Equal(t, 0, e.Piece().Y)
		assert.True(t, e.Well().IsOccupied(4, 2))
	})

	t.Run("without a tick", func(t *testing.T) {
		locked := well.NewLocked()
		e := newEngine(t, locked, shape.O)

		locked.Put(3, 0, blue)
		assert.False(t, e.ApplyCommand(engine.MoveLeft))
		assert.Equal(t, 4, e.Piece().X)
	})

	t.Run("gravity locks on the new cell", func(t *testing.T) {
		locked := well.NewLocked()
		e := newEngine(t, locked, shape.O, shape.O)

		e.Tick(interval / 2)
		locked.Put(5, 2, blue)
		e.Tick(interval / 2)

		assert.True(t, locked.Has(4, 0))
		assert.True(t, locked.Has(5, 1))
		assert.Equal(t, 5, locked.Len())
	})
}

func TestLockingThePieceThatFillsTheGapClearsOneRow(t *testing.T) {
	locked := well.NewLocked()
	fillRow(locked, well.DefaultRows-1, 3)
	e := newEngine(t, locked, shape.I, shape.O)

	// Stand the I up over column 3.
	require.True(t, e.ApplyCommand(engine.Rotate))
	require.Equal(t, 3, e.Piece().X)

	_, landed := tickUntilLocked(t, e, locked)
	assert.Equal(t, well.DefaultRows-4, landed.Y)
	assert.Equal(t, 0, e.Score())
	assert.True(t, e.Well().IsRowFull(well.DefaultRows-1))

	cleared := e.ResolveLines()
	assert.Equal(t, 1, cleared)
	assert.Equal(t, engine.PointsPerRow, e.Score())
	assert.Equal(t, 1, e.Lines())

	// The three remaining I cells dropped by one row.
	rows := strings.Split(e.Well().String(), "\n")
	require.Len(t, rows, well.DefaultRows)
	assert.Equal(t, "..........", rows[16])
	for _, row := range rows[17:] {
		assert.Equal(t, "...#......", row)
	}
	assert.Equal(t, 3, locked.Len())

	assert.Equal(t, 0, e.ResolveLines())
	assert.Equal(t, engine.PointsPerRow, e.Score())
}

func TestResolveLinesScoresPerRow(t *testing.T) {
	locked := well.NewLocked()
	fillRow(locked, 19)
	fillRow(locked, 18)
	fillRow(locked, 17, 0)
	fillRow(locked, 16)
	e := newEngine(t, locked, shape.O)

	assert.Equal(t, 3, e.ResolveLines())
	assert.Equal(t, 300, e.Score())
	assert.Equal(t, 9, locked.Len())
	assert.False(t, locked.Has(0, 19))
	assert.True(t, locked.Has(1, 19))
}

func TestVanishPolicyLeavesGap(t *testing.T) {
	locked := well.NewLocked()
	fillRow(locked, 19)
	locked.Put(2, 18, blue)
	e := engine.New(
		engine.WithLocked(locked),
		engine.WithSource(queue(shape.O)),
		engine.WithClearPolicy(well.Vanish),
	)

	assert.Equal(t, 1, e.ResolveLines())
	assert.Equal(t, []well.Coord{{X: 2, Y: 18}}, locked.Coords())
}

func TestGameOverWhenReplacementCannotSpawn(t *testing.T) {
	locked := well.NewLocked()
	for y := 2; y < well.DefaultRows; y++ {
		fillRow(locked, y, 0)
	}
	obs := &recordingObserver{}
	e := engine.New(
		engine.WithLocked(locked),
		engine.WithSource(queue(shape.O, shape.O, shape.T)),
		engine.WithObserver(obs),
	)
	require.Equal(t, engine.Running, e.State())

	e.Tick(interval)
	assert.Equal(t, engine.GameOver, e.State())
	assert.Equal(t, 1, obs.locked)
	assert.Equal(t, []int{0}, obs.gameOvers)

	before := e.Piece()
	lockedBefore := locked.Coords()

	assert.False(t, e.ApplyCommand(engine.MoveLeft))
	assert.False(t, e.ApplyCommand(engine.Rotate))
	e.Tick(10 * interval)
	assert.Equal(t, 0, e.ResolveLines())

	assert.Equal(t, before, e.Piece())
	assert.Equal(t, lockedBefore, locked.Coords())
	assert.Equal(t, engine.GameOver, e.State())
	assert.Equal(t, 1, obs.locked)
}

func TestGameOverWhenFirstSpawnIsBlocked(t *testing.T) {
	locked := well.NewLocked()
	for y := range well.DefaultRows {
		fillRow(locked, y, 0)
	}
	e := newEngine(t, locked, shape.O)

	assert.Equal(t, engine.GameOver, e.State())
	assert.False(t, e.ApplyCommand(engine.SoftDrop))
}

func TestReset(t *testing.T) {
	locked := well.NewLocked()
	for y := range well.DefaultRows {
		fillRow(locked, y, 0)
	}
	obs := &recordingObserver{}
	e := engine.New(
		engine.WithLocked(locked),
		engine.WithSource(queue(shape.O, shape.T)),
		engine.WithObserver(obs),
	)
	require.Equal(t, engine.GameOver, e.State())
	oldID := e.ID()

	e.Reset()
	assert.Equal(t, 2, obs.started)

	assert.Equal(t, engine.Running, e.State())
	assert.Equal(t, 0, locked.Len())
	assert.Equal(t, 0, e.Score())
	assert.Equal(t, shape.T, e.Piece().Kind)
	assert.NotEqual(t, oldID, e.ID())
}

func TestLockColorOverride(t *testing.T) {
	locked := well.NewLocked()
	e := engine.New(
		engine.WithLocked(locked),
		engine.WithSource(queue(shape.O)),
		engine.WithFixedColor(red),
		engine.WithLockColor(blue),
	)
	require.Equal(t, red, e.Piece().Color)

	tickUntilLocked(t, e, locked)

	locked.ForEach(func(_ well.Coord, c color.RGBA) bool {
		assert.Equal(t, blue, c)
		return true
	})
}

func TestPaletteColors(t *testing.T) {
	green := color.RGBA{G: 255, A: 255}
	e := engine.New(engine.WithPalette(green), engine.WithSeed(5))

	assert.Equal(t, green, e.Piece().Color)
}

func TestCustomSize(t *testing.T) {
	e := engine.New(engine.WithSize(8, 6), engine.WithSource(queue(shape.O)), engine.WithFallInterval(time.Second))

	assert.Equal(t, 8, e.Rows())
	assert.Equal(t, 6, e.Cols())
	assert.Equal(t, 2, e.Piece().X)
	assert.Equal(t, time.Second, e.FallInterval())
	assert.Len(t, e.Snapshot().Cells, 8)
}

func TestSnapshotIsDetached(t *testing.T) {
	locked := well.NewLocked()
	locked.Put(0, 19, blue)
	e := newEngine(t, locked, shape.T)

	snap := e.Snapshot()
	assert.Equal(t, engine.Running, snap.State)
	assert.Equal(t, e.ID(), snap.ID)
	assert.Equal(t, shape.T, snap.PieceKind)
	assert.Equal(t, red, snap.PieceColor)
	assert.Equal(t, []well.Coord{{X: 4, Y: 0}, {X: 5, Y: 0}, {X: 6, Y: 0}, {X: 5, Y: 1}}, snap.PieceCells)
	assert.Equal(t, well.Occupied(blue), snap.Cells[19][0])

	snap.Cells[19][0] = well.Empty
	snap.PieceCells[0] = well.Coord{}
	p := e.Piece()
	p.Translate(3, 3)

	assert.True(t, e.Well().IsOccupied(0, 19))
	assert.Equal(t, 4, e.Piece().X)
	assert.Equal(t, []well.Coord{{X: 4, Y: 0}, {X: 5, Y: 0}, {X: 6, Y: 0}, {X: 5, Y: 1}}, e.Snapshot().PieceCells)
}

func TestObserversAndLogging(t *testing.T) {
	core, logs := zapobserver.New(zap.DebugLevel)
	obs := &recordingObserver{}
	locked := well.NewLocked()
	fillRow(locked, 19, 4, 5)
	fillRow(locked, 18, 4, 5)

	e := engine.New(
		engine.WithLocked(locked),
		engine.WithSource(queue(shape.O, shape.O)),
		engine.WithLogger(zap.New(core)),
		engine.WithObserver(obs),
		engine.WithObserver(engine.NopObserver{}),
	)

	tickUntilLocked(t, e, locked)
	assert.Equal(t, 2, e.ResolveLines())

	assert.Equal(t, 1, obs.started)
	assert.Equal(t, 1, obs.locked)
	assert.Equal(t, [][2]int{{2, 200}}, obs.cleared)

	assert.Equal(t, 1, logs.FilterMessage("game started").Len())
	assert.Equal(t, 1, logs.FilterMessage("piece locked").Len())
	cleared := logs.FilterMessage("lines cleared").All()
	require.Len(t, cleared, 1)
	fields := cleared[0].ContextMap()
	assert.Equal(t, int64(2), fields["rows"])
	assert.Equal(t, int64(200), fields["score"])
	assert.Equal(t, e.ID().String(), fields["game"])
}

type recordingObserver struct {
	started   int
	locked    int
	cleared   [][2]int
	gameOvers []int
}

func (r *recordingObserver) GameStarted() { r.started++ }

func (r *recordingObserver) PieceLocked(*piece.Piece) { r.locked++ }

func (r *recordingObserver) LinesCleared(rows, score int) {
	r.cleared = append(r.cleared, [2]int{rows, score})
}

func (r *recordingObserver) GameOver(score int) {
	r.gameOvers = append(r.gameOvers, score)
}

func TestCommandAndStateStrings(t *testing.T) {
	assert.Equal(t, "MoveLeft", engine.MoveLeft.String())
	assert.Equal(t, "MoveRight", engine.MoveRight.String())
	assert.Equal(t, "SoftDrop", engine.SoftDrop.String())
	assert.Equal(t, "Rotate", engine.Rotate.String())
	assert.Equal(t, "Command(9)", engine.Command(9).String())
	assert.Equal(t, "Running", engine.Running.String())
	assert.Equal(t, "GameOver", engine.GameOver.String())
}

func BenchmarkTick(b *testing.B) {
	e := engine.New(engine.WithSeed(42))
	for i := 0; i < b.N; i++ {
		e.Tick(interval)
		e.ResolveLines()
		if e.State() == engine.GameOver {
			e.Reset()
		}
	}
}
