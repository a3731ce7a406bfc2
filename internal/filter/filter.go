// Package filter applies the domain exclusion rules that decide which
// structures enter the error metrics. The rules are a property of the
// structure/reference pair, never of the predictor, so every model is
// scored on the identical included set.
package filter

import (
	"github.com/JonathanSchmidt1/ml-peg/internal/crystal"
)

// #region rules

// Rule names, in evaluation order. First match wins and is recorded on the
// decision for auditability.
const (
	RuleNoReference         = "no_reference"
	RuleReferenceRange      = "reference_range"
	RuleChemistry           = "chemistry"
	RuleLowDensity          = "low_density"
	RuleEstimateUnavailable = "estimate_unavailable"
)

// Reference moduli beyond these bounds are treated as non-physical or
// out-of-range for the benchmark.
const maxReferenceModulusGPa = 500

// minDensity is just below the least dense elemental solid; anything under
// it is a gas-like reference artifact, not a bulk crystal.
const minDensity = 0.5 // g/cm³

// gasExclusions are the noble and diatomic gas chemistries whose "bulk"
// reference data describes molecular, not crystalline, behavior.
var gasExclusions = map[string]bool{
	"H": true, "N": true, "O": true, "F": true, "Cl": true,
	"He": true, "Ne": true, "Ar": true, "Kr": true, "Xe": true,
}

// gasFormulas matches dataset formula strings for the same set.
var gasFormulas = map[string]bool{
	"H2": true, "N2": true, "O2": true, "F2": true, "Cl2": true,
	"He": true, "Ne": true, "Ar": true, "Kr": true, "Xe": true,
}

// #endregion

// #region decision

// Decision is the per-structure include/exclude verdict with the rule that
// fired. Pure function of its inputs; repeated calls agree exactly.
type Decision struct {
	StructureID string
	Include     bool
	Rule        string // empty when included
}

// #endregion

// #region decide

// Decide runs the ordered rules for one structure. hasEstimate reports
// whether the required modulus estimate is available for the metric family
// being scored; ref is nil when no reference record exists.
func Decide(s crystal.Structure, hasEstimate bool, ref *crystal.ReferenceRecord) Decision {
	d := Decision{StructureID: s.ID}

	// 1. Missing reference data: excluded, never fatal.
	if ref == nil {
		d.Rule = RuleNoReference
		return d
	}

	// 2. Non-physical or out-of-range reference moduli: B ≤ 0, or
	// (B > 500 and G ≥ 0), or G > 500. NaN comparisons are false, so an
	// absent modulus never fires a clause; a record carrying only pressure
	// references passes through and is judged per metric downstream.
	if ref.BulkModulusGPa <= 0 ||
		(ref.BulkModulusGPa > maxReferenceModulusGPa && ref.ShearModulusGPa >= 0) ||
		ref.ShearModulusGPa > maxReferenceModulusGPa {
		d.Rule = RuleReferenceRange
		return d
	}

	// 3. Noble/diatomic gas chemistry.
	if el, ok := crystal.SoleElement(s.Species); ok && gasExclusions[el] {
		d.Rule = RuleChemistry
		return d
	}
	if gasFormulas[s.Formula] {
		d.Rule = RuleChemistry
		return d
	}

	// 4. Density below the least dense elemental solid. A structure whose
	// density cannot be computed is not excluded by this rule.
	if rho, err := s.Density(); err == nil && rho < minDensity {
		d.Rule = RuleLowDensity
		return d
	}

	// 5. No usable estimate (insufficient converged deformations).
	if !hasEstimate {
		d.Rule = RuleEstimateUnavailable
		return d
	}

	d.Include = true
	return d
}

// #endregion
