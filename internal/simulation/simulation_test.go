package simulation

import (
	"bytes"
	"context"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/grainsim/internal/agents"
	"github.com/talgya/grainsim/internal/config"
	"github.com/talgya/grainsim/internal/engine"
	"github.com/talgya/grainsim/internal/report"
	"github.com/talgya/grainsim/internal/weather"
)

type captured struct{ reports []report.Report }

func (c *captured) Record(r report.Report) error {
	c.reports = append(c.reports, r)
	return nil
}

func run(t *testing.T, cfg *config.Config) (string, []report.Report, *Simulation) {
	t.Helper()
	var out bytes.Buffer
	sim, err := New(cfg, &out)
	require.NoError(t, err)
	rec := &captured{}
	sim.Watcher.Recorder = rec
	require.NoError(t, sim.Run(context.Background()))
	return out.String(), rec.reports, sim
}

func TestSixYearRun(t *testing.T) {
	cfg := config.Default()
	cfg.Seed = 2021
	out, reports, sim := run(t, cfg)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 72)
	require.Len(t, reports, 72)
	assert.Equal(t, int64(72), sim.Coordinator.Ticks())
	assert.Equal(t, engine.Clock{Year: 2027, Month: 0}, sim.World.Clock)

	for i, r := range reports {
		assert.Equal(t, lines[i], r.Line())
		assert.Equal(t, i%12, r.Month)
		assert.Equal(t, 2021+i/12, r.Year)
		assert.GreaterOrEqual(t, r.DeerCount, 1)
		assert.GreaterOrEqual(t, r.GrainHeight, 0.0)
		assert.GreaterOrEqual(t, r.Precip, 0.0)
		assert.Equal(t, agents.HuntersForMonth(r.Month), r.HunterCount)
	}
	assert.True(t, strings.HasPrefix(lines[0], "1 2021: "))
	assert.True(t, strings.HasPrefix(lines[71], "12 2026: "))
}

func TestDeerMoveAtMostOneBeforeHunting(t *testing.T) {
	cfg := config.Default()
	cfg.Seed = 99
	cfg.InitialDeer = 12
	_, reports, _ := run(t, cfg)

	prevDeer, prevHunters := cfg.InitialDeer, cfg.InitialHunters
	for i, r := range reports {
		ok := false
		for step := -1; step <= 1; step++ {
			next := max(1, prevDeer+step-prevHunters/agents.HuntersPerDeer)
			ok = ok || next == r.DeerCount
		}
		assert.True(t, ok, "tick %d: %d deer after %d", i, r.DeerCount, prevDeer)
		prevDeer, prevHunters = r.DeerCount, r.HunterCount
	}
}

func TestSameSeedSameOutput(t *testing.T) {
	for _, model := range []string{config.WeatherSeasonal, config.WeatherNoisy} {
		t.Run(model, func(t *testing.T) {
			cfg := config.Default()
			cfg.Seed = 7
			cfg.Weather = model

			a, _, _ := run(t, cfg)
			b, _, _ := run(t, cfg)
			assert.Equal(t, a, b)

			cfg.Seed = 8
			c, _, _ := run(t, cfg)
			assert.NotEqual(t, a, c)
		})
	}
}

func TestFirstTickWithoutJitter(t *testing.T) {
	cfg := config.Default()
	cfg.Weather = config.WeatherCalm
	_, reports, _ := run(t, cfg)

	temp, precip := weather.DefaultSeasonal().Expected(2021, 0)
	tempFactor := math.Exp(-math.Pow((temp-40)/10, 2))
	precipFactor := math.Exp(-math.Pow((precip-10)/10, 2))

	first := reports[0]
	assert.Equal(t, 0, first.Month)
	assert.Equal(t, 2021, first.Year)
	assert.Equal(t, temp, first.Temp)
	assert.Equal(t, precip, first.Precip)
	assert.InDelta(t, 3.0+tempFactor*precipFactor*9.0-1.0, first.GrainHeight, 1e-9)
	assert.Equal(t, min(1+1, int(math.Floor(3.0))), first.DeerCount)
	assert.Equal(t, 0, first.HunterCount)
}

func TestOctoberHunters(t *testing.T) {
	cfg := config.Default()
	cfg.Seed = 3
	cfg.InitialHunters = 40
	cfg.InitialDeer = 30
	_, reports, _ := run(t, cfg)

	for _, r := range reports {
		if r.Month == 9 {
			assert.Equal(t, 4, r.HunterCount)
		}
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.EndYear = cfg.StartYear - 1
	_, err := New(cfg, &bytes.Buffer{})
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestCancelledBeforeStart(t *testing.T) {
	var out bytes.Buffer
	sim, err := New(config.Default(), &out)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = sim.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, sim.Coordinator.Ticks())
	assert.Empty(t, out.String())
	assert.Equal(t, 1, sim.World.DeerCount, "no commit may land")
	assert.Equal(t, 3.0, sim.World.GrainHeight)
}
