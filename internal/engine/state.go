package engine

import "github.com/talgya/grainsim/internal/weather"

// World is the state shared by all agents. Each field has exactly one writer:
//
//	Clock, Weather  watcher, during Observe
//	GrainHeight     grain agent, during Commit
//	DeerCount       deer agent, during Commit
//	HunterCount     hunter agent, during Commit
//
// No locks guard the fields; the coordinator's barriers order every write
// before any read of the next phase.
type World struct {
	Clock       Clock
	Weather     weather.Conditions
	GrainHeight float64 // inches
	DeerCount   int
	HunterCount int
}

// Snapshot is a copy of the World taken at the start of a tick. Agents compute
// from it so that no agent can see a peer's commit early.
type Snapshot World

// InitialState holds the startup values of the World.
type InitialState struct {
	Year        int
	Weather     weather.Conditions
	GrainHeight float64
	DeerCount   int
	HunterCount int
}

// NewWorld creates a World at month 0 of the start year.
func NewWorld(init InitialState) *World {
	return &World{
		Clock:       Clock{Year: init.Year, Month: 0},
		Weather:     init.Weather,
		GrainHeight: init.GrainHeight,
		DeerCount:   init.DeerCount,
		HunterCount: init.HunterCount,
	}
}

// Snapshot copies the current state.
func (w *World) Snapshot() Snapshot {
	return Snapshot(*w)
}
