package agents

import (
	"math"

	"github.com/talgya/grainsim/internal/engine"
)

const (
	MinDeer        = 1 // the herd never dies out
	HuntersPerDeer = 5 // hunters needed to take one deer per month
)

// Deer owns DeerCount. The herd drifts one animal per month toward the
// carrying capacity of the field, minus what hunters take.
type Deer struct {
	next int
}

func (d *Deer) Role() engine.Role { return RoleDeer }

func (d *Deer) Compute(snap engine.Snapshot) error {
	d.next = NextDeer(snap)
	return nil
}

func (d *Deer) Commit(w *engine.World) {
	w.DeerCount = d.next
}

// NextDeer returns next month's herd size.
func NextDeer(snap engine.Snapshot) int {
	next := TrackCapacity(snap.DeerCount, CarryingCapacity(snap.GrainHeight))
	if snap.HunterCount > 0 {
		next -= snap.HunterCount / HuntersPerDeer
	}
	if next < MinDeer {
		next = MinDeer
	}
	return next
}

// TrackCapacity moves count one step toward capacity.
func TrackCapacity(count, capacity int) int {
	switch {
	case count < capacity:
		return count + 1
	case count > capacity:
		return count - 1
	default:
		return count
	}
}

// CarryingCapacity is the number of deer a field of the given height supports.
func CarryingCapacity(height float64) int {
	if math.IsNaN(height) || height <= 0 {
		return 0
	}
	if height >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Floor(height))
}
