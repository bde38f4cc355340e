// Command blockfall-soak plays the engine headlessly with a random command
// stream, restarting after every game over, and prints a timing report and the
// collected metrics.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/plus3/blockfall/config"
	"github.com/plus3/blockfall/logger"
	"go.uber.org/zap"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the soak should run for.")
	frames := flag.Int64("frames", 0, "Stop after this many frames (0 means run for -duration).")
	dt := flag.Duration("dt", 16*time.Millisecond, "Simulated time per frame.")
	seed := flag.Uint64("seed", 1, "Seed for shapes, colors and the command stream.")
	commands := flag.Int("commands", 2, "Maximum random commands pushed per frame.")
	configPath := flag.String("config", "", "Optional config file for the engine.")
	metricsDump := flag.Bool("metrics", true, "Print the Prometheus exposition after the report.")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "blockfall-soak:", err)
		os.Exit(1)
	}
	cfg.Seed = *seed

	log, err := logger.New(cfg.LogLevel, false)
	if err != nil {
		fmt.Fprintln(os.Stderr, "blockfall-soak:", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	log.Info("starting soak",
		zap.Duration("duration", *duration),
		zap.Int64("frames", *frames),
		zap.Duration("dt", *dt),
		zap.Uint64("seed", *seed),
	)

	s, err := newSoak(cfg, log, *commands)
	if err != nil {
		log.Fatal("setup failed", zap.Error(err))
	}

	report := s.run(ctx, *dt, *frames)
	report.Duration = *duration

	log.Info("soak finished",
		zap.Int64("frames", report.Frames),
		zap.Int("games", report.Games),
		zap.Int("lines", report.Lines),
	)

	fmt.Println("\n--- Soak Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatal("failed to generate report", zap.Error(err))
	}
	if *metricsDump {
		fmt.Println("--- Metrics ---")
		if err := s.dumpMetrics(os.Stdout); err != nil {
			log.Fatal("failed to dump metrics", zap.Error(err))
		}
	}
	fmt.Println("--- End of Report ---")
}
