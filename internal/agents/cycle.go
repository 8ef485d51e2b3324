// Package agents provides the simulated economic actors that trade through
// the exchange each turn.
package agents

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Cycle produces smooth per-turn swings in production and consumption using
// layered simplex noise, so demand drifts instead of jumping.
type Cycle struct {
	noise opensimplex.Noise
}

// NewCycle creates a cycle generator. Deterministic for a given seed.
func NewCycle(seed int64) *Cycle {
	return &Cycle{noise: opensimplex.NewNormalized(seed)}
}

// Amplitude returns a smooth factor in [0, 1] for one channel at one turn.
// Distinct channels (one per agent) drift independently.
func (c *Cycle) Amplitude(turn uint64, channel uint64) float64 {
	return c.noise.Eval2(float64(turn)/16.0, float64(channel)*7.31)
}
