// Command blockfall runs the game in a desktop window.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/blockfall/config"
	"github.com/plus3/blockfall/debugui"
	"github.com/plus3/blockfall/engine"
	"github.com/plus3/blockfall/input"
	"github.com/plus3/blockfall/logger"
	"github.com/plus3/blockfall/metrics"
	"github.com/plus3/blockfall/scheduler"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "blockfall:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "Path to a YAML, TOML or JSON config file.")
	debug := flag.Bool("debug", false, "Show the ImGui inspector (overrides the config file).")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *debug {
		cfg.Debug = true
	}

	log, err := logger.New(cfg.LogLevel, cfg.Debug)
	if err != nil {
		return err
	}
	defer log.Sync()

	opts, err := cfg.EngineOptions()
	if err != nil {
		return err
	}

	collector, err := metrics.NewCollector(prometheus.NewRegistry())
	if err != nil {
		return err
	}

	e := engine.New(append(opts,
		engine.WithLogger(log),
		engine.WithObserver(collector),
	)...)

	queue := input.NewQueue()
	sched := scheduler.New()
	inputSystem := engine.Register(sched, e, queue)

	game := newGame(e, sched, queue, cfg.BlockSize)

	if cfg.Debug {
		w, h := game.windowSize()
		game.imgui = debugui.NewBackend("blockfall (debug)", w+debugPanelWidth, h)
		game.imguiInput = &debugui.InputState{}
		game.width += debugPanelWidth

		inspector := debugui.NewInspector(e, sched, inputSystem)
		sched.Register(&debugui.FrameSystem{History: inspector.History})
		sched.Register(&debugui.System{
			Items: []debugui.Item{inspector.Item()},
			Input: game.imguiInput,
		})
	}

	ebiten.SetWindowSize(game.width, game.height)
	ebiten.SetWindowTitle("blockfall")

	log.Info("starting", zap.Stringer("game", e.ID()), zap.Bool("debug", cfg.Debug))

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}

	stats := sched.GetStats()
	log.Info("stopped",
		zap.Int64("frames", stats.Frames),
		zap.Int("score", e.Score()),
		zap.Int("lines", e.Lines()),
	)
	return nil
}
