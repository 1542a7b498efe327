package agents

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/talgya/grainsim/internal/engine"
	"github.com/talgya/grainsim/internal/entropy"
	"github.com/talgya/grainsim/internal/report"
	"github.com/talgya/grainsim/internal/weather"
)

// Recorder receives every report after it is printed.
type Recorder interface {
	Record(r report.Report) error
}

// Watcher reports each tick, advances the calendar and draws the next month's
// weather. It is the only agent that touches randomness, and it does so while
// every other agent is parked at DonePrinting.
type Watcher struct {
	Out      io.Writer
	Model    weather.Model
	Rand     entropy.Source
	Recorder Recorder // optional
}

// NewWatcher creates a watcher printing to out.
func NewWatcher(out io.Writer, model weather.Model, rng entropy.Source) *Watcher {
	return &Watcher{Out: out, Model: model, Rand: rng}
}

func (w *Watcher) Role() engine.Role { return RoleWatcher }

func (w *Watcher) Compute(engine.Snapshot) error { return nil }

func (w *Watcher) Commit(*engine.World) {}

// Observe prints the committed state, then moves the world to the next month.
func (w *Watcher) Observe(world *engine.World) error {
	r := report.FromWorld(world)
	if _, err := fmt.Fprintln(w.Out, r.Line()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if w.Recorder != nil {
		if err := w.Recorder.Record(r); err != nil {
			return fmt.Errorf("record report: %w", err)
		}
	}

	prevSeason := world.Clock.Season()
	world.Clock.Advance()
	world.Weather = weather.Sample(w.Model, world.Clock.Year, world.Clock.Month, w.Rand)

	if s := world.Clock.Season(); s != prevSeason {
		slog.Info("season change",
			"clock", world.Clock.String(),
			"season", engine.SeasonName(s),
			"deer", world.DeerCount,
			"height", fmt.Sprintf("%.2f", world.GrainHeight),
		)
	}
	return nil
}

// InitialWeather draws the weather for the first month, before tick 0.
func InitialWeather(model weather.Model, year int, rng entropy.Source) weather.Conditions {
	return weather.Sample(model, year, 0, rng)
}
