package main

import (
	"context"
	"io"
	"math/rand/v2"
	"time"

	"github.com/plus3/blockfall/config"
	"github.com/plus3/blockfall/engine"
	"github.com/plus3/blockfall/input"
	"github.com/plus3/blockfall/metrics"
	"github.com/plus3/blockfall/scheduler"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	dto "github.com/prometheus/client_model/go"
	"go.uber.org/zap"
)

var allCommands = []engine.Command{
	engine.MoveLeft,
	engine.MoveRight,
	engine.SoftDrop,
	engine.Rotate,
}

type soak struct {
	engine    *engine.Engine
	scheduler *scheduler.Scheduler
	queue     *input.Queue
	input     *engine.InputSystem
	registry  *prometheus.Registry
	rng       *rand.Rand
	log       *zap.Logger

	maxCommands int
}

func newSoak(cfg *config.Config, log *zap.Logger, maxCommands int) (*soak, error) {
	opts, err := cfg.EngineOptions()
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(registry)
	if err != nil {
		return nil, err
	}

	e := engine.New(append(opts,
		engine.WithLogger(log),
		engine.WithObserver(collector),
	)...)

	s := &soak{
		engine:      e,
		scheduler:   scheduler.New(),
		queue:       input.NewQueue(),
		registry:    registry,
		rng:         rand.New(rand.NewPCG(cfg.Seed, cfg.Seed+1)),
		log:         log,
		maxCommands: max(maxCommands, 0),
	}
	s.input = engine.Register(s.scheduler, e, s.queue)
	return s, nil
}

// step queues random commands, restarting the game first if it ended.
func (s *soak) step(r *Report) {
	if s.engine.State() == engine.GameOver {
		r.finishGame(s.engine)
		s.engine.Reset()
	}
	for range s.rng.IntN(s.maxCommands + 1) {
		s.queue.Push(allCommands[s.rng.IntN(len(allCommands))])
	}
}

// run drives frames until ctx is done or maxFrames frames have run.
func (s *soak) run(ctx context.Context, dt time.Duration, maxFrames int64) *Report {
	report := &Report{DeltaTime: dt}
	start := time.Now()

Loop:
	for maxFrames <= 0 || report.Frames < maxFrames {
		select {
		case <-ctx.Done():
			break Loop
		default:
			s.step(report)

			frameStart := time.Now()
			s.scheduler.Once(dt)
			report.FrameTime.Samples = append(report.FrameTime.Samples, time.Since(frameStart))
			report.Frames++
		}
	}

	if s.engine.State() == engine.GameOver {
		report.finishGame(s.engine)
	} else {
		report.Lines += s.engine.Lines()
	}
	report.TotalTime = time.Since(start)
	report.FrameTime.Finalize()
	report.Applied = s.input.Applied
	report.Rejected = s.input.Rejected
	report.Systems = s.scheduler.GetStats().Systems
	report.CurrentScore = s.engine.Score()
	return report
}

func (s *soak) dumpMetrics(w io.Writer) error {
	families, err := s.registry.Gather()
	if err != nil {
		return err
	}
	return writeFamilies(w, families)
}

func writeFamilies(w io.Writer, families []*dto.MetricFamily) error {
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
