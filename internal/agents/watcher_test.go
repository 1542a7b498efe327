package agents

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/grainsim/internal/engine"
	"github.com/talgya/grainsim/internal/entropy"
	"github.com/talgya/grainsim/internal/report"
	"github.com/talgya/grainsim/internal/weather"
)

type memRecorder struct {
	reports []report.Report
	err     error
}

func (m *memRecorder) Record(r report.Report) error {
	if m.err != nil {
		return m.err
	}
	m.reports = append(m.reports, r)
	return nil
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("pipe closed") }

func TestWatcherObserve(t *testing.T) {
	var out bytes.Buffer
	model := weather.DefaultSeasonal()
	rec := &memRecorder{}
	w := NewWatcher(&out, model, entropy.Midpoint{})
	w.Recorder = rec

	world := engine.NewWorld(engine.InitialState{
		Year:        2021,
		Weather:     weather.Conditions{Temp: 32, Precip: 1},
		GrainHeight: 1,
		DeerCount:   1,
	})
	world.Clock.Month = 11

	require.NoError(t, w.Observe(world))

	assert.Equal(t,
		"12 2021: 0.000000 degrees; 2.540000 cm precip; 1 deer; 2.540000 cm height; 0 hunters\n",
		out.String())
	require.Len(t, rec.reports, 1)
	assert.Equal(t, 11, rec.reports[0].Month)

	// Clock rolled into the next year and weather follows the new month.
	assert.Equal(t, engine.Clock{Year: 2022, Month: 0}, world.Clock)
	temp, precip := model.Expected(2022, 0)
	assert.Equal(t, weather.Conditions{Temp: temp, Precip: precip}, world.Weather)
}

func TestWatcherFailsOnWriteError(t *testing.T) {
	w := NewWatcher(brokenWriter{}, weather.DefaultSeasonal(), entropy.Midpoint{})
	world := engine.NewWorld(engine.InitialState{Year: 2021, DeerCount: 1})

	err := w.Observe(world)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write report")
	assert.Equal(t, engine.Clock{Year: 2021}, world.Clock, "clock must not advance past an unreported tick")
}

func TestWatcherFailsOnRecorderError(t *testing.T) {
	var out bytes.Buffer
	w := NewWatcher(&out, weather.DefaultSeasonal(), entropy.Midpoint{})
	w.Recorder = &memRecorder{err: errors.New("disk full")}
	world := engine.NewWorld(engine.InitialState{Year: 2021, DeerCount: 1})

	assert.ErrorContains(t, w.Observe(world), "disk full")
}

func TestWatcherNoOpPhases(t *testing.T) {
	w := NewWatcher(&bytes.Buffer{}, weather.DefaultSeasonal(), entropy.Midpoint{})
	world := engine.NewWorld(engine.InitialState{Year: 2021, DeerCount: 3, GrainHeight: 2})
	before := *world

	assert.NoError(t, w.Compute(world.Snapshot()))
	w.Commit(world)
	assert.Equal(t, before, *world)
}

func TestInitialWeatherUsesFirstMonth(t *testing.T) {
	model := weather.DefaultSeasonal()
	temp, precip := model.Expected(2021, 0)
	assert.Equal(t, weather.Conditions{Temp: temp, Precip: precip},
		InitialWeather(model, 2021, entropy.Midpoint{}))
}
