package crystal

import (
	"fmt"
	"sort"
	"strings"
)

// #region constants

// amuPerA3ToGramPerCm3 converts a mass density from amu/Å³ to g/cm³.
const amuPerA3ToGramPerCm3 = 1.66053906660

// #endregion

// #region volume

// Volume returns the cell volume in Å³ (absolute value of the lattice
// determinant, so handedness of the row vectors does not matter).
func (s Structure) Volume() float64 {
	return CellVolume(s.Cell)
}

// CellVolume computes the volume of an arbitrary 3×3 lattice in Å³.
func CellVolume(c [3][3]float64) float64 {
	det := c[0][0]*(c[1][1]*c[2][2]-c[1][2]*c[2][1]) -
		c[0][1]*(c[1][0]*c[2][2]-c[1][2]*c[2][0]) +
		c[0][2]*(c[1][0]*c[2][1]-c[1][1]*c[2][0])
	if det < 0 {
		return -det
	}
	return det
}

// #endregion

// #region density

// Density returns the mass density in g/cm³, or an error when the cell is
// degenerate or a species has no tabulated mass.
func (s Structure) Density() (float64, error) {
	vol := s.Volume()
	if vol <= 0 {
		return 0, fmt.Errorf("structure %s: degenerate cell (volume %g)", s.ID, vol)
	}
	var mass float64
	for _, sp := range s.Species {
		m, ok := atomicMass[sp]
		if !ok {
			return 0, fmt.Errorf("structure %s: no atomic mass for species %q", s.ID, sp)
		}
		mass += m
	}
	return mass * amuPerA3ToGramPerCm3 / vol, nil
}

// #endregion

// #region reduced-formula

// ReducedFormula builds the canonical reduced formula for a species list:
// counts divided by their GCD, elements in Hill order (C, then H, then
// alphabetical), count suppressed when 1. ["Na","Cl","Na","Cl"] → "ClNa";
// single-element structures reduce to the bare symbol ("H", "He").
func ReducedFormula(species []string) string {
	if len(species) == 0 {
		return ""
	}
	counts := map[string]int{}
	for _, sp := range species {
		counts[sp]++
	}

	g := 0
	for _, n := range counts {
		g = gcd(g, n)
	}

	elems := make([]string, 0, len(counts))
	for el := range counts {
		elems = append(elems, el)
	}
	sort.Slice(elems, func(i, j int) bool {
		return hillRank(elems[i], counts["C"] > 0) < hillRank(elems[j], counts["C"] > 0)
	})

	var b strings.Builder
	for _, el := range elems {
		b.WriteString(el)
		if n := counts[el] / g; n > 1 {
			fmt.Fprintf(&b, "%d", n)
		}
	}
	return b.String()
}

// SoleElement returns the element symbol when the species list contains
// exactly one distinct element, and reports whether that was the case.
func SoleElement(species []string) (string, bool) {
	if len(species) == 0 {
		return "", false
	}
	el := species[0]
	for _, sp := range species[1:] {
		if sp != el {
			return "", false
		}
	}
	return el, true
}

// hillRank orders elements per Hill convention: carbon first, hydrogen
// second when carbon is present, everything else alphabetical.
func hillRank(el string, hasCarbon bool) string {
	if hasCarbon {
		switch el {
		case "C":
			return "0"
		case "H":
			return "1"
		}
	}
	return "2" + el
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// #endregion
