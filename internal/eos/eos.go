// Package eos estimates compression behavior from pressure-volume data: a
// quadratic equation-of-state fit through the converged (P, V) points gives
// the zero-pressure bulk modulus B₀ = -V·dP/dV, and the 0→150 GPa endpoints
// give the relative volume compression.
package eos

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/JonathanSchmidt1/ml-peg/internal/deform"
	"github.com/JonathanSchmidt1/ml-peg/internal/results"
)

// #region estimate-type

// Unavailability reasons.
const (
	ReasonInsufficientData = "insufficient_data"
	ReasonNonpositiveSlope = "nonpositive_slope"
)

// Quality flags: recorded, never fatal. The exclusion filter and the metric
// report decide what a flagged estimate is worth.
const (
	FlagNonMonotonic  = "non_monotonic"
	FlagReducedPoints = "reduced_points"
)

// minFitPoints is the smallest number of distinct converged pressure points
// a quadratic fit is trusted with.
const minFitPoints = 3

// Estimate is the pressure-based estimate for one structure. The two
// outputs fail independently: compression needs only the endpoints, the
// bulk modulus needs a fittable curve.
type Estimate struct {
	BulkAvailable bool
	BulkReason    string
	// BulkGPa is the fit-wide scalar: the derivative of the quadratic V(P)
	// fit evaluated at P = 0, B₀ = -V(0)/V'(0). One definition, applied
	// identically to every model.
	BulkGPa float64

	CompressionAvailable bool
	// Compression is (V₀ - V₁₅₀) / V₀.
	Compression float64

	Points      int // distinct converged points used by the fit
	Flags       []string
	RMSResidual float64 // of the V(P) fit, Å³
}

// #endregion

// #region estimator

// FromResults derives the pressure estimate from a structure's relaxation
// results. Only converged points enter; duplicates are dropped; a
// non-monotonic volume sequence is flagged, never an error.
func FromResults(res []results.Result, defs []deform.Deformation) Estimate {
	byID := make(map[string]results.Result, len(res))
	for _, r := range res {
		byID[r.Key.DeformationID] = r
	}

	type pv struct{ p, v float64 }
	var pts []pv
	seen := map[float64]bool{}
	for _, d := range defs {
		if d.Kind != deform.KindPressure {
			continue
		}
		r, ok := byID[d.ID()]
		if !ok || r.Status != results.StatusConverged {
			continue
		}
		if seen[d.PressureGPa] {
			continue
		}
		seen[d.PressureGPa] = true
		pts = append(pts, pv{p: d.PressureGPa, v: volumeOf(r)})
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].p < pts[j].p })

	est := Estimate{Points: len(pts)}

	for i := 1; i < len(pts); i++ {
		if pts[i].v > pts[i-1].v {
			est.Flags = append(est.Flags, FlagNonMonotonic)
			break
		}
	}
	if len(pts) > 0 && len(pts) < deform.PressureCount {
		est.Flags = append(est.Flags, FlagReducedPoints)
	}

	// Volume compression: both endpoints of the schedule must be present.
	p0, pMax := deform.PressuresGPa[0], deform.PressuresGPa[deform.PressureCount-1]
	var v0, vMax float64
	var have0, haveMax bool
	for _, pt := range pts {
		switch pt.p {
		case p0:
			v0, have0 = pt.v, true
		case pMax:
			vMax, haveMax = pt.v, true
		}
	}
	if have0 && haveMax && v0 > 0 {
		est.CompressionAvailable = true
		est.Compression = (v0 - vMax) / v0
	}

	// Bulk modulus from the quadratic V(P) fit.
	if len(pts) < minFitPoints {
		est.BulkReason = ReasonInsufficientData
		return est
	}
	ps := make([]float64, len(pts))
	vs := make([]float64, len(pts))
	for i, pt := range pts {
		ps[i] = pt.p
		vs[i] = pt.v
	}
	coef, rms, ok := quadFit(ps, vs)
	if !ok {
		est.BulkReason = ReasonInsufficientData
		return est
	}
	est.RMSResidual = rms

	vAt0 := coef[0]
	slopeAt0 := coef[1] // dV/dP at P = 0
	if slopeAt0 >= 0 || vAt0 <= 0 {
		// Volumes should shrink under pressure; a flat or growing fit has
		// no meaningful modulus.
		est.BulkReason = ReasonNonpositiveSlope
		return est
	}
	est.BulkAvailable = true
	est.BulkGPa = -vAt0 / slopeAt0
	return est
}

func volumeOf(r results.Result) float64 {
	c := r.Cell
	det := c[0][0]*(c[1][1]*c[2][2]-c[1][2]*c[2][1]) -
		c[0][1]*(c[1][0]*c[2][2]-c[1][2]*c[2][0]) +
		c[0][2]*(c[1][0]*c[2][1]-c[1][1]*c[2][0])
	return math.Abs(det)
}

// #endregion

// #region quad-fit

// quadFit solves the least-squares quadratic v ≈ c0 + c1·p + c2·p² and
// returns the coefficients with the RMS residual.
func quadFit(ps, vs []float64) (coef [3]float64, rms float64, ok bool) {
	n := len(ps)
	a := mat.NewDense(n, 3, nil)
	b := mat.NewVecDense(n, vs)
	for i, p := range ps {
		a.Set(i, 0, 1)
		a.Set(i, 1, p)
		a.Set(i, 2, p*p)
	}

	var sol mat.VecDense
	if err := sol.SolveVec(a, b); err != nil {
		return coef, 0, false
	}
	coef = [3]float64{sol.AtVec(0), sol.AtVec(1), sol.AtVec(2)}

	var ss float64
	for i, p := range ps {
		r := vs[i] - (coef[0] + coef[1]*p + coef[2]*p*p)
		ss += r * r
	}
	return coef, math.Sqrt(ss / float64(n)), true
}

// #endregion
