// Package deform produces the fixed deformation sets applied to every
// structure: 12 strain tensors for the elasticity benchmark and 6 pressure
// points for the compression benchmark. The sets are deterministic and
// ordered; downstream fitting assumes the exact counts.
package deform

import (
	"fmt"
)

// #region kinds

// Kind tags a deformation variant.
type Kind string

const (
	KindStrain   Kind = "strain"
	KindPressure Kind = "pressure"
)

// Mode selects which deformation set a benchmark run generates.
type Mode string

const (
	ModeElasticity Mode = "elasticity"
	ModePressure   Mode = "pressure"
)

// #endregion

// #region deformation

// Direction indexes the six independent strain components in Voigt order.
type Direction int

const (
	E11 Direction = iota
	E22
	E33
	E23
	E13
	E12
)

var directionNames = [6]string{"e11", "e22", "e33", "e23", "e13", "e12"}

// Name returns the component label, e.g. "e23".
func (d Direction) Name() string { return directionNames[d] }

// Deformation is a tagged variant: either a symmetric strain tensor with
// its signed engineering magnitude, or a scalar external pressure in GPa.
// The two estimation algorithms consume the variants separately and cannot
// cross-apply.
type Deformation struct {
	Kind        Kind
	Direction   Direction     // strain only
	Magnitude   float64       // strain only, signed engineering strain
	Tensor      [3][3]float64 // strain only, symmetric
	PressureGPa float64       // pressure only
}

// ID returns the stable cache key component for this deformation, e.g.
// "strain-e23-+0.0600" or "pressure-30".
func (d Deformation) ID() string {
	if d.Kind == KindPressure {
		return fmt.Sprintf("pressure-%g", d.PressureGPa)
	}
	return fmt.Sprintf("strain-%s-%+.4f", d.Direction.Name(), d.Magnitude)
}

// #endregion

// #region sets

// Strain magnitudes per direction: one positive large and one negative
// small value, so both signs and both documented magnitudes are exercised
// while keeping the fixed count at 6 directions × 2 strains = 12.
var (
	normalMagnitudes = [2]float64{+0.01, -0.005}
	shearMagnitudes  = [2]float64{+0.06, -0.03}

	// PressuresGPa is the fixed compression schedule.
	PressuresGPa = [6]float64{0, 10, 30, 50, 100, 150}
)

// ElasticityCount and PressureCount are the exact set sizes the estimators
// rely on.
const (
	ElasticityCount = 12
	PressureCount   = 6
)

// ElasticitySet returns the 12 strain deformations in fixed order:
// direction-major (e11, e22, e33, e23, e13, e12), positive magnitude first.
func ElasticitySet() []Deformation {
	out := make([]Deformation, 0, ElasticityCount)
	for dir := E11; dir <= E12; dir++ {
		mags := normalMagnitudes
		if dir >= E23 {
			mags = shearMagnitudes
		}
		for _, m := range mags {
			out = append(out, Deformation{
				Kind:      KindStrain,
				Direction: dir,
				Magnitude: m,
				Tensor:    strainTensor(dir, m),
			})
		}
	}
	return out
}

// PressureSet returns the 6 pressure deformations in increasing order.
func PressureSet() []Deformation {
	out := make([]Deformation, 0, PressureCount)
	for _, p := range PressuresGPa {
		out = append(out, Deformation{Kind: KindPressure, PressureGPa: p})
	}
	return out
}

// ForMode returns the deformation set for a benchmark mode.
func ForMode(mode Mode) ([]Deformation, error) {
	switch mode {
	case ModeElasticity:
		return ElasticitySet(), nil
	case ModePressure:
		return PressureSet(), nil
	default:
		return nil, fmt.Errorf("unknown deformation mode %q", mode)
	}
}

// strainTensor builds the symmetric strain tensor for one component.
// Shear magnitudes are engineering shear: the tensor carries m/2 in the
// two off-diagonal slots.
func strainTensor(dir Direction, m float64) [3][3]float64 {
	var t [3][3]float64
	switch dir {
	case E11:
		t[0][0] = m
	case E22:
		t[1][1] = m
	case E33:
		t[2][2] = m
	case E23:
		t[1][2], t[2][1] = m/2, m/2
	case E13:
		t[0][2], t[2][0] = m/2, m/2
	case E12:
		t[0][1], t[1][0] = m/2, m/2
	}
	return t
}

// #endregion

// #region validation

// Validate checks the package's deformation tables. Called once at startup;
// a failure here is a configuration error and the only fatal error class in
// the pipeline.
func Validate() error {
	for _, m := range normalMagnitudes {
		if m == 0 {
			return fmt.Errorf("zero normal strain magnitude")
		}
	}
	for _, m := range shearMagnitudes {
		if m == 0 {
			return fmt.Errorf("zero shear strain magnitude")
		}
	}
	if normalMagnitudes[0] == normalMagnitudes[1] || shearMagnitudes[0] == shearMagnitudes[1] {
		return fmt.Errorf("duplicate strain magnitude: per-direction fit needs two distinct points")
	}
	if PressuresGPa[0] != 0 {
		return fmt.Errorf("pressure schedule must start at 0 GPa, got %g", PressuresGPa[0])
	}
	for i := 1; i < len(PressuresGPa); i++ {
		if PressuresGPa[i] <= PressuresGPa[i-1] {
			return fmt.Errorf("pressure schedule must be strictly increasing at index %d", i)
		}
	}
	return nil
}

// #endregion
