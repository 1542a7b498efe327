// Command grainsim runs the month-by-month grain, deer and hunting simulation.
// Reports go to stdout, one line per month; logs go to stderr.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/talgya/grainsim/internal/config"
	"github.com/talgya/grainsim/internal/engine"
	"github.com/talgya/grainsim/internal/persistence"
	"github.com/talgya/grainsim/internal/simulation"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg := config.Default()
	envErr := cfg.ApplyEnv(os.Getenv)

	fs := flag.NewFlagSet("grainsim", flag.ContinueOnError)
	cfg.Bind(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	if err := errors.Join(envErr, cfg.Validate()); err != nil {
		slog.Error("configuration rejected", "error", err)
		return 2
	}

	sim, err := simulation.New(cfg, os.Stdout)
	if err != nil {
		slog.Error("failed to build simulation", "error", err)
		return 1
	}

	// ── Run history ───────────────────────────────────────────────────
	var history *persistence.RunLog
	if cfg.DBPath != "" {
		db, err := persistence.Open(cfg.DBPath)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			return 1
		}
		defer db.Close()

		history, err = db.BeginRun(persistence.Run{
			Seed:      cfg.Seed,
			StartYear: cfg.StartYear,
			EndYear:   cfg.EndYear,
			Weather:   cfg.Weather,
		})
		if err != nil {
			slog.Error("failed to start run history", "error", err)
			return 1
		}
		sim.Watcher.Recorder = history
	}

	// ── Start ─────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = sim.Run(ctx)
	code, status := exitStatus(err)
	switch {
	case err == nil:
	case code == 130:
		slog.Info("received signal, stopped at barrier", "ticks", sim.Coordinator.Ticks())
	case errors.Is(err, engine.ErrProtocolViolation):
		slog.Error("barrier protocol violated", "error", err)
	default:
		slog.Error("simulation aborted", "error", err)
	}

	if history != nil {
		if err := history.Finish(status); err != nil {
			slog.Error("failed to finish run history", "error", err)
		}
	}
	return code
}

// exitStatus maps a run error to a process exit code and history status.
func exitStatus(err error) (int, string) {
	switch {
	case err == nil:
		return 0, persistence.StatusFinished
	case errors.Is(err, context.Canceled):
		return 130, persistence.StatusCancelled
	default:
		return 1, persistence.StatusFailed
	}
}
