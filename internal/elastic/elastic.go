// Package elastic estimates bulk and shear moduli from the stress response
// of the 12 strained relaxations: per-direction stress/strain slopes build
// the 6×6 stiffness matrix, and the Voigt-Reuss-Hill average of its bounds
// is the reported modulus pair.
package elastic

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/JonathanSchmidt1/ml-peg/internal/deform"
	"github.com/JonathanSchmidt1/ml-peg/internal/results"
)

// #region estimate-type

// Unavailability reasons.
const (
	ReasonInsufficientData  = "insufficient_data"
	ReasonSingularStiffness = "singular_stiffness"
)

// Quality flags. Flagged estimates are reported, not clamped; the exclusion
// filter decides what to do with them.
const (
	FlagNegativeDiagonal = "negative_diagonal"
)

// Estimate is the strain-based modulus estimate for one structure.
type Estimate struct {
	Available bool
	Reason    string // set when unavailable

	BulkGPa  float64 // VRH
	ShearGPa float64 // VRH

	BulkVoigt  float64
	BulkReuss  float64
	ShearVoigt float64
	ShearReuss float64

	Stiffness [6][6]float64 // GPa, symmetrized

	Flags []string
	// AsymmetryGPa is the fit-quality indicator: the largest |Cij - Cji|/2
	// before symmetrization. Exact linear data gives zero.
	AsymmetryGPa float64
}

// #endregion

// #region estimator

// FromResults fits the stiffness matrix from a structure's strain results
// and derives the VRH moduli. Every one of the six directions needs both of
// its signed magnitudes converged; anything less marks the estimate
// unavailable rather than extrapolating a degenerate fit.
func FromResults(res []results.Result, defs []deform.Deformation) Estimate {
	byID := make(map[string]results.Result, len(res))
	for _, r := range res {
		byID[r.Key.DeformationID] = r
	}

	// Gather the two converged samples per direction.
	type sample struct {
		strain float64
		stress [6]float64
	}
	perDir := make(map[deform.Direction][]sample, 6)
	for _, d := range defs {
		if d.Kind != deform.KindStrain {
			continue
		}
		r, ok := byID[d.ID()]
		if !ok || r.Status != results.StatusConverged {
			continue
		}
		perDir[d.Direction] = append(perDir[d.Direction], sample{
			strain: d.Magnitude,
			stress: voigtStress(r.StressGPa),
		})
	}

	var c [6][6]float64
	for dir := deform.E11; dir <= deform.E12; dir++ {
		ss := perDir[dir]
		if len(ss) < 2 || ss[0].strain == ss[1].strain {
			return Estimate{Available: false, Reason: ReasonInsufficientData}
		}
		dEps := ss[0].strain - ss[1].strain
		for i := 0; i < 6; i++ {
			c[i][dir] = (ss[0].stress[i] - ss[1].stress[i]) / dEps
		}
	}

	return fromStiffness(c)
}

// fromStiffness derives the bounds and VRH averages from a raw (possibly
// asymmetric) stiffness fit.
func fromStiffness(raw [6][6]float64) Estimate {
	est := Estimate{Available: true}

	for i := 0; i < 6; i++ {
		for j := i + 1; j < 6; j++ {
			if a := math.Abs(raw[i][j]-raw[j][i]) / 2; a > est.AsymmetryGPa {
				est.AsymmetryGPa = a
			}
		}
	}
	var c [6][6]float64
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			c[i][j] = (raw[i][j] + raw[j][i]) / 2
		}
	}
	est.Stiffness = c

	for i := 0; i < 6; i++ {
		if c[i][i] < 0 {
			est.Flags = append(est.Flags, fmt.Sprintf("%s:c%d%d", FlagNegativeDiagonal, i+1, i+1))
		}
	}

	// Voigt bounds straight from the stiffness matrix.
	est.BulkVoigt = (c[0][0] + c[1][1] + c[2][2] + 2*(c[0][1]+c[0][2]+c[1][2])) / 9
	est.ShearVoigt = (c[0][0] + c[1][1] + c[2][2] - (c[0][1] + c[0][2] + c[1][2]) +
		3*(c[3][3]+c[4][4]+c[5][5])) / 15

	// Reuss bounds need the compliance matrix S = C⁻¹.
	cm := mat.NewDense(6, 6, nil)
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			cm.Set(i, j, c[i][j])
		}
	}
	var sm mat.Dense
	if err := sm.Inverse(cm); err != nil {
		return Estimate{Available: false, Reason: ReasonSingularStiffness, Flags: est.Flags}
	}
	s := func(i, j int) float64 { return sm.At(i, j) }

	invB := s(0, 0) + s(1, 1) + s(2, 2) + 2*(s(0, 1)+s(0, 2)+s(1, 2))
	invG := (4*(s(0, 0)+s(1, 1)+s(2, 2)) - 4*(s(0, 1)+s(0, 2)+s(1, 2)) +
		3*(s(3, 3)+s(4, 4)+s(5, 5))) / 15
	est.BulkReuss = 1 / invB
	est.ShearReuss = 1 / invG

	est.BulkGPa = (est.BulkVoigt + est.BulkReuss) / 2
	est.ShearGPa = (est.ShearVoigt + est.ShearReuss) / 2
	return est
}

// voigtStress maps a 3×3 stress tensor onto the Voigt vector
// (σ11, σ22, σ33, σ23, σ13, σ12).
func voigtStress(s [3][3]float64) [6]float64 {
	return [6]float64{s[0][0], s[1][1], s[2][2], s[1][2], s[0][2], s[0][1]}
}

// #endregion
