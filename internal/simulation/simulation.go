// Package simulation assembles a runnable ecosystem from startup parameters:
// the shared world, the four agents and the coordinator that drives them.
package simulation

import (
	"context"
	"io"
	"log/slog"

	"github.com/talgya/grainsim/internal/agents"
	"github.com/talgya/grainsim/internal/config"
	"github.com/talgya/grainsim/internal/engine"
	"github.com/talgya/grainsim/internal/entropy"
	"github.com/talgya/grainsim/internal/weather"
)

// Simulation holds a wired world ready to run.
type Simulation struct {
	World       *engine.World
	Coordinator *engine.Coordinator
	Watcher     *agents.Watcher
}

// New validates cfg and wires a simulation that prints reports to out.
func New(cfg *config.Config, out io.Writer) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	model, rng := Weather(cfg)
	world := engine.NewWorld(engine.InitialState{
		Year:        cfg.StartYear,
		Weather:     agents.InitialWeather(model, cfg.StartYear, rng),
		GrainHeight: cfg.InitialHeight,
		DeerCount:   cfg.InitialDeer,
		HunterCount: cfg.InitialHunters,
	})

	watcher := agents.NewWatcher(out, model, rng)
	coord := engine.NewCoordinator(world, cfg.EndYear)
	coord.StallTimeout = cfg.StallTimeout
	if err := coord.Register(
		&agents.Deer{},
		agents.NewGrain(agents.DefaultGrainParams()),
		&agents.Hunter{},
		watcher,
	); err != nil {
		return nil, err
	}

	slog.Debug("simulation wired",
		"seed", cfg.Seed,
		"weather", cfg.Weather,
		"temp", world.Weather.Temp,
		"precip", world.Weather.Precip,
	)
	return &Simulation{World: world, Coordinator: coord, Watcher: watcher}, nil
}

// Run drives the simulation to the end year or until ctx is cancelled.
func (s *Simulation) Run(ctx context.Context) error {
	return s.Coordinator.Run(ctx)
}

// Weather returns the environment model and the watcher's random stream for
// cfg. All weather randomness flows from the root seed.
func Weather(cfg *config.Config) (weather.Model, entropy.Source) {
	base := weather.DefaultSeasonal()
	switch cfg.Weather {
	case config.WeatherNoisy:
		return weather.NewNoisy(base, entropy.DeriveSeed(cfg.Seed, "climate")), entropy.Stream(cfg.Seed, "weather")
	case config.WeatherCalm:
		return base, entropy.Midpoint{}
	default:
		return base, entropy.Stream(cfg.Seed, "weather")
	}
}
