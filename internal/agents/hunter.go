package agents

import "github.com/talgya/grainsim/internal/engine"

// Hunter owns HunterCount. Licences depend on the month alone.
type Hunter struct {
	next int
}

func (h *Hunter) Role() engine.Role { return RoleHunter }

func (h *Hunter) Compute(snap engine.Snapshot) error {
	h.next = HuntersForMonth(snap.Clock.Month)
	return nil
}

func (h *Hunter) Commit(w *engine.World) {
	w.HunterCount = h.next
}

// HuntersForMonth is the seasonal hunting policy: the season opens in
// September, peaks in October and tapers off in November.
func HuntersForMonth(month int) int {
	switch month {
	case 8:
		return 3
	case 9:
		return 4
	case 10:
		return 2
	default:
		return 0
	}
}
