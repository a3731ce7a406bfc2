package orchestrator

import (
	"github.com/JonathanSchmidt1/ml-peg/internal/engine"
)

// #region options

// Options configure a relaxation run. Strain relaxations use a tighter
// force threshold than pressure relaxations (positions-only vs full cell).
type Options struct {
	Workers     int
	StrainTol   engine.Tolerances
	PressureTol engine.Tolerances
}

// DefaultOptions mirror the thresholds of the reference pipeline:
// 0.02 eV/Å for strained-cell relaxations, 0.05 eV/Å under pressure,
// 500 optimizer steps either way.
func DefaultOptions() Options {
	return Options{
		Workers:     4,
		StrainTol:   engine.Tolerances{Fmax: 0.02, MaxSteps: 500},
		PressureTol: engine.Tolerances{Fmax: 0.05, MaxSteps: 500},
	}
}

// #endregion

// #region stats

// Stats summarize one orchestrator run for provenance.
type Stats struct {
	Total     int
	Cached    int
	Converged int
	Failed    int
}

// #endregion
