package engine

import (
	"image/color"
	"math/rand/v2"
	"time"

	"github.com/plus3/blockfall/piece"
	"github.com/plus3/blockfall/well"
	"go.uber.org/zap"
	"golang.org/x/image/colornames"
)

const (
	DefaultFallInterval = 500 * time.Millisecond
	PointsPerRow        = 100
)

type options struct {
	rows, cols   int
	fallInterval time.Duration
	clearPolicy  well.Policy
	colorPolicy  piece.ColorPolicy
	fixedColor   color.RGBA
	palette      []color.RGBA
	lockColor    *color.RGBA
	source       piece.Source
	rng          *rand.Rand
	locked       *well.Locked
	startLevel   int
	logger       *zap.Logger
	observers    Observers
}

func defaultOptions() options {
	return options{
		rows:         well.DefaultRows,
		cols:         well.DefaultCols,
		fallInterval: DefaultFallInterval,
		clearPolicy:  well.Compact,
		colorPolicy:  piece.FixedColor,
		fixedColor:   colornames.Red,
		palette:      []color.RGBA{colornames.Blue, colornames.Red},
		startLevel:   1,
	}
}

// Option configures an Engine.
type Option func(*options)

// WithSize sets the well dimensions. Non-positive values keep the default.
func WithSize(rows, cols int) Option {
	return func(o *options) {
		if rows > 0 {
			o.rows = rows
		}
		if cols > 0 {
			o.cols = cols
		}
	}
}

// WithFallInterval sets how much elapsed time triggers one gravity step.
func WithFallInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.fallInterval = d
		}
	}
}

func WithClearPolicy(p well.Policy) Option {
	return func(o *options) {
		o.clearPolicy = p
	}
}

// WithFixedColor colors every spawned piece c.
func WithFixedColor(c color.RGBA) Option {
	return func(o *options) {
		o.colorPolicy = piece.FixedColor
		o.fixedColor = c
	}
}

// WithPalette colors each spawned piece with a uniform pick from palette.
func WithPalette(palette ...color.RGBA) Option {
	return func(o *options) {
		o.colorPolicy = piece.RandomFromPalette
		o.palette = palette
	}
}

// WithLockColor writes locked cells in c instead of the piece's own color.
func WithLockColor(c color.RGBA) Option {
	return func(o *options) {
		o.lockColor = &c
	}
}

// WithSource overrides the random shape source.
func WithSource(s piece.Source) Option {
	return func(o *options) {
		o.source = s
	}
}

// WithSeed makes shape and palette choices reproducible.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.rng = rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
	}
}

// WithLocked hands the engine a caller-owned store of locked cells. The
// engine mutates it when pieces lock and rows clear.
func WithLocked(l *well.Locked) Option {
	return func(o *options) {
		o.locked = l
	}
}

func WithStartLevel(level int) Option {
	return func(o *options) {
		o.startLevel = level
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithObserver adds an observer. It may be given more than once.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		o.observers = append(o.observers, obs)
	}
}
