// Package weather provides the seasonal environment model.
// Maps a calendar month to expected temperature and precipitation, and
// perturbs those expectations with bounded jitter.
package weather

import (
	"math"

	"github.com/talgya/grainsim/internal/entropy"
)

// Jitter ranges applied symmetrically around the expected values.
const (
	TempJitter   = 10.0 // °F, plus or minus
	PrecipJitter = 2.0  // inches, plus or minus
)

// Model maps a point on the calendar to expected conditions.
// Implementations must be deterministic; randomness is applied by the caller.
type Model interface {
	Expected(year, month int) (temp, precip float64)
}

// Conditions holds the weather for one month.
type Conditions struct {
	Temp   float64 `json:"temp"`   // Fahrenheit
	Precip float64 `json:"precip"` // inches
}

// Seasonal is a sinusoidal yearly curve: temperature bottoms out in winter,
// precipitation peaks in spring.
type Seasonal struct {
	AvgTemp   float64
	AmpTemp   float64
	AvgPrecip float64
	AmpPrecip float64
}

// DefaultSeasonal returns the stock climate.
func DefaultSeasonal() Seasonal {
	return Seasonal{
		AvgTemp:   60.0,
		AmpTemp:   20.0,
		AvgPrecip: 7.0,
		AmpPrecip: 6.0,
	}
}

// Expected evaluates the curve at the middle of the month. Year is ignored.
func (s Seasonal) Expected(_, month int) (float64, float64) {
	ang := MonthAngle(month)
	temp := s.AvgTemp - s.AmpTemp*math.Cos(ang)
	precip := s.AvgPrecip + s.AmpPrecip*math.Sin(ang)
	return temp, precip
}

// MonthAngle returns the phase angle (radians) of the middle of a month.
func MonthAngle(month int) float64 {
	return (30.0*float64(month) + 15.0) * (math.Pi / 180.0)
}

// Sample draws this month's conditions: expectations from m, each perturbed by
// an independent draw from rng. Precipitation never goes negative.
func Sample(m Model, year, month int, rng entropy.Source) Conditions {
	temp, precip := m.Expected(year, month)
	c := Conditions{
		Temp:   temp + rng.Float(-TempJitter, TempJitter),
		Precip: precip + rng.Float(-PrecipJitter, PrecipJitter),
	}
	if c.Precip < 0 || math.IsNaN(c.Precip) {
		c.Precip = 0
	}
	return c
}

// Celsius converts Fahrenheit for display.
func Celsius(f float64) float64 {
	return (5. / 9.) * (f - 32.)
}

// Centimeters converts inches for display.
func Centimeters(in float64) float64 {
	return in * 2.54
}
