// Package metrics exports engine events as Prometheus metrics.
package metrics

import (
	"github.com/plus3/blockfall/engine"
	"github.com/plus3/blockfall/piece"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "blockfall"

// Collector is an engine.Observer that records game events.
type Collector struct {
	Games      prometheus.Counter
	Pieces     *prometheus.CounterVec
	Lines      prometheus.Counter
	Clears     prometheus.Histogram
	GamesOver  prometheus.Counter
	Score      prometheus.Gauge
	FinalScore prometheus.Histogram
}

var _ engine.Observer = (*Collector)(nil)

// NewCollector creates the metrics and registers them on reg.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		Games: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_started_total",
			Help:      "Games started, including restarts.",
		}),
		Pieces: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pieces_locked_total",
			Help:      "Pieces locked into the well, by shape.",
		}, []string{"shape"}),
		Lines: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_cleared_total",
			Help:      "Rows removed by line clears.",
		}),
		Clears: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rows_per_clear",
			Help:      "Rows removed in a single resolve.",
			Buckets:   []float64{1, 2, 3, 4},
		}),
		GamesOver: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_over_total",
			Help:      "Games that ended because a piece could not spawn.",
		}),
		Score: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "score",
			Help:      "Score of the game in progress.",
		}),
		FinalScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "final_score",
			Help:      "Score at game over.",
			Buckets:   prometheus.ExponentialBuckets(100, 2, 10),
		}),
	}

	for _, m := range []prometheus.Collector{
		c.Games, c.Pieces, c.Lines, c.Clears, c.GamesOver, c.Score, c.FinalScore,
	} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Collector) GameStarted() {
	c.Games.Inc()
	c.Score.Set(0)
}

func (c *Collector) PieceLocked(p *piece.Piece) {
	c.Pieces.WithLabelValues(p.Kind.String()).Inc()
}

func (c *Collector) LinesCleared(rows, score int) {
	c.Lines.Add(float64(rows))
	c.Clears.Observe(float64(rows))
	c.Score.Set(float64(score))
}

func (c *Collector) GameOver(score int) {
	c.GamesOver.Inc()
	c.FinalScore.Observe(float64(score))
	c.Score.Set(0)
}
