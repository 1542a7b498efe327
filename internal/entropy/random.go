// Package entropy provides seeded uniform deviates for the simulation.
// Every consumer owns its own stream; streams are derived from one root seed
// so a run is reproducible from a single number.
package entropy

import (
	"hash/fnv"
	"math/rand/v2"
)

// Source draws uniform deviates from closed ranges.
type Source interface {
	// Float returns a value uniformly distributed in [low, high].
	Float(low, high float64) float64
	// Int returns an integer uniformly distributed in [low, high] inclusive.
	Int(low, high int) int
}

// Rand is a PCG-backed Source. Not safe for concurrent use: give each
// goroutine its own stream.
type Rand struct {
	r *rand.Rand
}

// New creates a deterministic stream from seed.
func New(seed int64) *Rand {
	return &Rand{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// Stream derives an independent stream for the named consumer from a root seed.
// The same (root, name) pair always yields the same sequence.
func Stream(root int64, name string) *Rand {
	return &Rand{r: rand.New(rand.NewPCG(uint64(root), streamKey(name)))}
}

// DeriveSeed returns a child seed for the named consumer, for components that
// take a plain int64 seed rather than a Source.
func DeriveSeed(root int64, name string) int64 {
	return int64(splitmix(uint64(root) ^ streamKey(name)))
}

// Float returns a value in [low, high]. Reversed bounds are swapped.
func (s *Rand) Float(low, high float64) float64 {
	if high < low {
		low, high = high, low
	}
	return low + s.r.Float64()*(high-low)
}

// Int returns an integer in [low, high] inclusive. Reversed bounds are swapped.
func (s *Rand) Int(low, high int) int {
	if high < low {
		low, high = high, low
	}
	return low + s.r.IntN(high-low+1)
}

// Midpoint is a Source that always returns the middle of the range.
// It removes jitter entirely, which makes expected values observable.
type Midpoint struct{}

// Float returns (low+high)/2.
func (Midpoint) Float(low, high float64) float64 {
	return low + (high-low)/2
}

// Int returns the truncated midpoint of [low, high].
func (Midpoint) Int(low, high int) int {
	return low + (high-low)/2
}

func streamKey(name string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return h.Sum64()
}

func splitmix(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
