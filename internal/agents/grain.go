package agents

import (
	"math"

	"github.com/talgya/grainsim/internal/engine"
)

// GrainParams tunes the growth model. Temperatures in °F, lengths in inches.
type GrainParams struct {
	MidTemp         float64 // ideal temperature
	MidPrecip       float64 // ideal monthly precipitation
	GrowthRate      float64 // growth per month under ideal conditions
	ConsumptionRate float64 // eaten per deer per month
}

// DefaultGrainParams returns the stock growth model.
func DefaultGrainParams() GrainParams {
	return GrainParams{
		MidTemp:         40.0,
		MidPrecip:       10.0,
		GrowthRate:      9.0,
		ConsumptionRate: 1.0,
	}
}

// Grain owns GrainHeight.
type Grain struct {
	Params GrainParams
	next   float64
}

// NewGrain creates the grain agent.
func NewGrain(p GrainParams) *Grain {
	return &Grain{Params: p}
}

func (g *Grain) Role() engine.Role { return RoleGrain }

func (g *Grain) Compute(snap engine.Snapshot) error {
	g.next = NextHeight(g.Params, snap)
	return nil
}

func (g *Grain) Commit(w *engine.World) {
	w.GrainHeight = g.next
}

// NextHeight grows the field by how close this month's weather is to ideal and
// subtracts what the herd eats. Never negative.
func NextHeight(p GrainParams, snap engine.Snapshot) float64 {
	tempFactor := Suitability(snap.Weather.Temp, p.MidTemp)
	precipFactor := Suitability(snap.Weather.Precip, p.MidPrecip)

	next := snap.GrainHeight
	next += tempFactor * precipFactor * p.GrowthRate
	next -= float64(snap.DeerCount) * p.ConsumptionRate
	if next < 0 || math.IsNaN(next) {
		next = 0
	}
	return next
}

// Suitability is a Gaussian bump peaking at 1 when v == mid.
func Suitability(v, mid float64) float64 {
	d := (v - mid) / 10.
	return math.Exp(-d * d)
}
