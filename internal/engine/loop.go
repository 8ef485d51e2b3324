package engine

import (
	"log/slog"
	"time"
)

// Engine drives the simulation forward one turn per interval.
type Engine struct {
	Turn     uint64        // Current turn counter (monotonic, never resets)
	Speed    float64       // Multiplier: 1.0 = real-time, 0 = paused
	Interval time.Duration // Base turn interval
	Running  bool

	// OnTurn runs every turn. Populated during setup.
	OnTurn func(turn uint64)
}

// NewEngine creates a simulation engine with default settings.
func NewEngine() *Engine {
	return &Engine{
		Speed:    1.0,
		Interval: time.Second,
	}
}

// Run starts the turn loop. Blocks until Stop is called.
func (e *Engine) Run() {
	e.Running = true
	slog.Info("simulation engine started", "turn", e.Turn, "speed", e.Speed)

	for e.Running {
		if e.Speed <= 0 {
			// Paused: sleep briefly and check again.
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()
		e.step()

		// Sleep for the remainder of the interval, adjusted for speed.
		elapsed := time.Since(start)
		target := time.Duration(float64(e.Interval) / e.Speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("simulation engine stopped", "turn", e.Turn)
}

// RunTurns advances exactly n turns back to back, with no pacing. Used for
// batch simulation and fast-forwarding a restored state.
func (e *Engine) RunTurns(n int) {
	for i := 0; i < n; i++ {
		e.step()
	}
}

// Stop halts the turn loop.
func (e *Engine) Stop() {
	e.Running = false
}

func (e *Engine) step() {
	e.Turn++
	if e.OnTurn != nil {
		e.OnTurn(e.Turn)
	}
}
