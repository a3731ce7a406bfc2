package engine

import (
	"context"

	"github.com/JonathanSchmidt1/ml-peg/internal/crystal"
	"github.com/JonathanSchmidt1/ml-peg/internal/deform"
)

// #region tolerances

// Tolerances define the convergence contract handed to the engine per call.
type Tolerances struct {
	Fmax     float64 // max Cartesian force component, eV/Å
	MaxSteps int
}

// #endregion

// #region outcome

// Outcome is the raw engine answer for one (structure, deformation) pair.
// Converged=false within budget is a valid answer, not an error; Err carries
// an engine-side failure description when the engine gave up entirely.
// Stress and derived quantities are in GPa on this side of the boundary.
type Outcome struct {
	Cell      [3][3]float64
	Positions [][3]float64
	Energy    float64 // eV
	Forces    [][3]float64
	StressGPa [3][3]float64
	Converged bool
	StepsUsed int
	Err       string
}

// Volume returns the relaxed cell volume in Å³.
func (o Outcome) Volume() float64 {
	return crystal.CellVolume(o.Cell)
}

// #endregion

// #region evaluator

// Evaluator is the orchestrator-facing capability of the relaxation engine.
// The gRPC client implements it; replay fixtures and tests substitute fakes.
type Evaluator interface {
	Evaluate(ctx context.Context, s crystal.Structure, d deform.Deformation, tol Tolerances) (Outcome, error)
}

// #endregion
