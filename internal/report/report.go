// Package report formats the per-tick status line.
package report

import (
	"fmt"

	"github.com/talgya/grainsim/internal/engine"
	"github.com/talgya/grainsim/internal/weather"
)

// Report is the fully committed state of one tick, in simulation units.
type Report struct {
	Year        int     `db:"year" json:"year"`
	Month       int     `db:"month" json:"month"` // 0-based
	Temp        float64 `db:"temp_f" json:"temp_f"`
	Precip      float64 `db:"precip_in" json:"precip_in"`
	DeerCount   int     `db:"deer" json:"deer"`
	GrainHeight float64 `db:"height_in" json:"height_in"`
	HunterCount int     `db:"hunters" json:"hunters"`
}

// FromWorld captures the world state for reporting.
func FromWorld(w *engine.World) Report {
	return Report{
		Year:        w.Clock.Year,
		Month:       w.Clock.Month,
		Temp:        w.Weather.Temp,
		Precip:      w.Weather.Precip,
		DeerCount:   w.DeerCount,
		GrainHeight: w.GrainHeight,
		HunterCount: w.HunterCount,
	}
}

// Line renders the report in the stable stdout format. Temperature and lengths
// are converted to Celsius and centimeters here and nowhere else.
func (r Report) Line() string {
	return fmt.Sprintf("%d %d: %f degrees; %f cm precip; %d deer; %f cm height; %d hunters",
		r.Month+1, r.Year,
		weather.Celsius(r.Temp),
		weather.Centimeters(r.Precip),
		r.DeerCount,
		weather.Centimeters(r.GrainHeight),
		r.HunterCount,
	)
}
