// Package persistence provides SQLite-based run history.
// Each run gets a row in runs and one row per tick report; history is
// append-only and never fed back into a simulation.
package persistence

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/grainsim/internal/report"
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusFinished  = "finished"
	StatusCancelled = "cancelled"
	StatusFailed    = "failed"
)

// DB wraps a SQLite connection for run history.
type DB struct {
	conn *sqlx.DB
}

// Run describes one simulation run.
type Run struct {
	ID         string `db:"id"`
	Seed       int64  `db:"seed"`
	StartYear  int    `db:"start_year"`
	EndYear    int    `db:"end_year"`
	Weather    string `db:"weather"`
	StartedAt  int64  `db:"started_at"`  // unix millis
	FinishedAt int64  `db:"finished_at"` // unix millis, 0 while running
	Ticks      int    `db:"ticks"`
	Status     string `db:"status"`
}

// Started returns the start time.
func (r Run) Started() time.Time {
	return time.UnixMilli(r.StartedAt)
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		start_year INTEGER NOT NULL,
		end_year INTEGER NOT NULL,
		weather TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL DEFAULT 0,
		ticks INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS ticks (
		run_id TEXT NOT NULL REFERENCES runs(id),
		seq INTEGER NOT NULL,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		temp_f REAL NOT NULL,
		precip_in REAL NOT NULL,
		deer INTEGER NOT NULL,
		height_in REAL NOT NULL,
		hunters INTEGER NOT NULL,
		PRIMARY KEY (run_id, seq)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// BeginRun inserts a run row and returns a log that records its ticks.
// ID and StartedAt are filled in when empty.
func (db *DB) BeginRun(run Run) (*RunLog, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt == 0 {
		run.StartedAt = time.Now().UnixMilli()
	}
	run.Status = StatusRunning

	_, err := db.conn.NamedExec(`INSERT INTO runs
		(id, seed, start_year, end_year, weather, started_at, status)
		VALUES (:id, :seed, :start_year, :end_year, :weather, :started_at, :status)`, run)
	if err != nil {
		return nil, fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	slog.Info("run history started", "run", run.ID)
	return &RunLog{db: db, id: run.ID}, nil
}

// Runs returns all runs, newest first.
func (db *DB) Runs() ([]Run, error) {
	var runs []Run
	err := db.conn.Select(&runs, "SELECT * FROM runs ORDER BY started_at DESC, id")
	return runs, err
}

// Run returns one run by id.
func (db *DB) Run(id string) (Run, error) {
	var run Run
	err := db.conn.Get(&run, "SELECT * FROM runs WHERE id = ?", id)
	if err != nil {
		return run, fmt.Errorf("get run %s: %w", id, err)
	}
	return run, nil
}

// Reports returns a run's reports in tick order.
func (db *DB) Reports(runID string) ([]report.Report, error) {
	var reports []report.Report
	err := db.conn.Select(&reports,
		`SELECT year, month, temp_f, precip_in, deer, height_in, hunters
		 FROM ticks WHERE run_id = ? ORDER BY seq`,
		runID,
	)
	return reports, err
}

// RunLog appends one run's reports. Not safe for concurrent use; the watcher
// is its only caller.
type RunLog struct {
	db  *DB
	id  string
	seq int
}

// ID returns the run id.
func (l *RunLog) ID() string {
	return l.id
}

// Record appends a tick report.
func (l *RunLog) Record(r report.Report) error {
	_, err := l.db.conn.Exec(`INSERT INTO ticks
		(run_id, seq, year, month, temp_f, precip_in, deer, height_in, hunters)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.id, l.seq, r.Year, r.Month, r.Temp, r.Precip, r.DeerCount, r.GrainHeight, r.HunterCount,
	)
	if err != nil {
		return fmt.Errorf("insert tick %d of run %s: %w", l.seq, l.id, err)
	}
	l.seq++
	return nil
}

// Finish stamps the run with its final status and tick count.
func (l *RunLog) Finish(status string) error {
	_, err := l.db.conn.Exec(
		"UPDATE runs SET finished_at = ?, ticks = ?, status = ? WHERE id = ?",
		time.Now().UnixMilli(), l.seq, status, l.id,
	)
	if err != nil {
		return fmt.Errorf("finish run %s: %w", l.id, err)
	}
	slog.Info("run history saved", "run", l.id, "ticks", l.seq, "status", status)
	return nil
}
