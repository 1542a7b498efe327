package weather

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Noisy layers slow multi-year climate drift over a base model. The drift is
// sampled from simplex noise along the month timeline, so warm or wet spells
// span several months instead of flipping every tick.
type Noisy struct {
	Base      Model
	TempAmp   float64 // max drift, °F
	PrecipAmp float64 // max drift, inches

	temp   opensimplex.Noise
	precip opensimplex.Noise
}

// NewNoisy creates a drifting model. The same seed always yields the same climate.
func NewNoisy(base Model, seed int64) *Noisy {
	return &Noisy{
		Base:      base,
		TempAmp:   6.0,
		PrecipAmp: 1.5,
		temp:      opensimplex.NewNormalized(seed),
		precip:    opensimplex.NewNormalized(seed + 1),
	}
}

// Expected returns the base expectation shifted by the drift at (year, month).
func (n *Noisy) Expected(year, month int) (float64, float64) {
	temp, precip := n.Base.Expected(year, month)
	t := float64(year*12 + month)
	temp += n.TempAmp * signed(octaveNoise(n.temp, t, 3, 0.08, 0.5))
	precip += n.PrecipAmp * signed(octaveNoise(n.precip, t, 3, 0.08, 0.5))
	return temp, precip
}

// octaveNoise sums octaves of normalized noise along one axis, in [0, 1].
func octaveNoise(noise opensimplex.Noise, t float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxAmp := 0.0
	for i := 0; i < octaves; i++ {
		total += noise.Eval2(t*frequency, 0) * amplitude
		maxAmp += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	return total / maxAmp
}

// signed maps [0, 1] onto [-1, 1].
func signed(v float64) float64 {
	return v*2 - 1
}
