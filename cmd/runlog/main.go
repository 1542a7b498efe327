// Command runlog inspects the grainsim run history database.
// Without -run it lists runs; with -run it replays that run's report lines
// exactly as they were printed.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/talgya/grainsim/internal/persistence"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	fs := flag.NewFlagSet("runlog", flag.ExitOnError)
	dbPath := fs.String("db", envOrDefault("GRAINSIM_DB", "data/grainsim.db"), "SQLite run history path")
	runID := fs.String("run", "", "run id to replay")
	fs.Parse(os.Args[1:])

	if _, err := os.Stat(*dbPath); err != nil {
		slog.Error("no run history", "path", *dbPath, "error", err)
		os.Exit(1)
	}

	db, err := persistence.Open(*dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if *runID == "" {
		err = listRuns(os.Stdout, db)
	} else {
		err = replay(os.Stdout, db, *runID)
	}
	if err != nil {
		slog.Error("runlog failed", "error", err)
		db.Close()
		os.Exit(1)
	}
}

// listRuns prints one line per run, newest first.
func listRuns(w io.Writer, db *persistence.DB) error {
	runs, err := db.Runs()
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "no runs recorded")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(w, "%s  %-9s  seed=%d  %d-%d  weather=%s  ticks=%s  started %s\n",
			r.ID, r.Status, r.Seed, r.StartYear, r.EndYear, r.Weather,
			humanize.Comma(int64(r.Ticks)), humanize.Time(r.Started()),
		)
	}
	return nil
}

// replay prints a run's report lines in tick order.
func replay(w io.Writer, db *persistence.DB, id string) error {
	if _, err := db.Run(id); err != nil {
		return err
	}
	reports, err := db.Reports(id)
	if err != nil {
		return fmt.Errorf("load reports: %w", err)
	}
	for _, r := range reports {
		if _, err := fmt.Fprintln(w, r.Line()); err != nil {
			return err
		}
	}
	return nil
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
