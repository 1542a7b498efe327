package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/grainsim/internal/report"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunRoundTrip(t *testing.T) {
	db := openTestDB(t)

	log, err := db.BeginRun(Run{Seed: 42, StartYear: 2021, EndYear: 2027, Weather: "seasonal"})
	require.NoError(t, err)
	require.NotEmpty(t, log.ID())

	want := []report.Report{
		{Year: 2021, Month: 0, Temp: 41.234567891, Precip: 8.5, DeerCount: 2, GrainHeight: 10.7731, HunterCount: 0},
		{Year: 2021, Month: 1, Temp: 38.1, Precip: 0, DeerCount: 3, GrainHeight: 0, HunterCount: 0},
		{Year: 2021, Month: 9, Temp: 70, Precip: 3.25, DeerCount: 1, GrainHeight: 2, HunterCount: 4},
	}
	for _, r := range want {
		require.NoError(t, log.Record(r))
	}

	running, err := db.Run(log.ID())
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, running.Status)
	assert.Zero(t, running.FinishedAt)

	require.NoError(t, log.Finish(StatusFinished))

	run, err := db.Run(log.ID())
	require.NoError(t, err)
	assert.Equal(t, int64(42), run.Seed)
	assert.Equal(t, 2021, run.StartYear)
	assert.Equal(t, 2027, run.EndYear)
	assert.Equal(t, "seasonal", run.Weather)
	assert.Equal(t, 3, run.Ticks)
	assert.Equal(t, StatusFinished, run.Status)
	assert.GreaterOrEqual(t, run.FinishedAt, run.StartedAt)

	got, err := db.Reports(log.ID())
	require.NoError(t, err)
	require.Equal(t, want, got)
	for i := range want {
		assert.Equal(t, want[i].Line(), got[i].Line())
	}
}

func TestRunsNewestFirst(t *testing.T) {
	db := openTestDB(t)

	_, err := db.BeginRun(Run{ID: "old", StartedAt: 1000, Weather: "seasonal"})
	require.NoError(t, err)
	_, err = db.BeginRun(Run{ID: "new", StartedAt: 2000, Weather: "noisy"})
	require.NoError(t, err)

	runs, err := db.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "new", runs[0].ID)
	assert.Equal(t, "old", runs[1].ID)
	assert.Equal(t, int64(2000), runs[0].Started().UnixMilli())
}

func TestRunsAreIsolated(t *testing.T) {
	db := openTestDB(t)

	a, err := db.BeginRun(Run{Weather: "seasonal"})
	require.NoError(t, err)
	b, err := db.BeginRun(Run{Weather: "seasonal"})
	require.NoError(t, err)
	assert.NotEqual(t, a.ID(), b.ID())

	require.NoError(t, a.Record(report.Report{Year: 1, DeerCount: 1}))
	require.NoError(t, b.Record(report.Report{Year: 2, DeerCount: 1}))
	require.NoError(t, b.Record(report.Report{Year: 3, DeerCount: 1}))

	ra, err := db.Reports(a.ID())
	require.NoError(t, err)
	rb, err := db.Reports(b.ID())
	require.NoError(t, err)
	assert.Len(t, ra, 1)
	assert.Len(t, rb, 2)
}

func TestDuplicateRunID(t *testing.T) {
	db := openTestDB(t)
	_, err := db.BeginRun(Run{ID: "x", Weather: "seasonal"})
	require.NoError(t, err)
	_, err = db.BeginRun(Run{ID: "x", Weather: "seasonal"})
	assert.Error(t, err)
}

func TestMissingRun(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Run("nope")
	assert.Error(t, err)

	reports, err := db.Reports("nope")
	require.NoError(t, err)
	assert.Empty(t, reports)
}
