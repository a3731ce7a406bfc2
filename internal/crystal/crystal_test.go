package crystal

import (
	"math"
	"testing"
)

func cubic(a float64) [3][3]float64 {
	return [3][3]float64{{a, 0, 0}, {0, a, 0}, {0, 0, a}}
}

func TestCellVolumeCubic(t *testing.T) {
	v := CellVolume(cubic(4.0))
	if math.Abs(v-64.0) > 1e-12 {
		t.Fatalf("expected 64, got %g", v)
	}
}

func TestCellVolumeLeftHanded(t *testing.T) {
	// Swap two rows: determinant flips sign, volume must not.
	c := cubic(2.0)
	c[0], c[1] = c[1], c[0]
	if v := CellVolume(c); math.Abs(v-8.0) > 1e-12 {
		t.Fatalf("expected 8, got %g", v)
	}
}

func TestDensityRockSalt(t *testing.T) {
	// Conventional NaCl cell: a = 5.64 Å, 4 formula units.
	s := Structure{
		ID:      "NaCl-test",
		Cell:    cubic(5.64),
		Species: []string{"Na", "Na", "Na", "Na", "Cl", "Cl", "Cl", "Cl"},
	}
	d, err := s.Density()
	if err != nil {
		t.Fatalf("density: %v", err)
	}
	// Experimental value is ~2.17 g/cm³.
	if d < 2.0 || d > 2.3 {
		t.Fatalf("NaCl density out of range: %g", d)
	}
}

func TestDensityUnknownSpecies(t *testing.T) {
	s := Structure{ID: "bad", Cell: cubic(3), Species: []string{"Xq"}}
	if _, err := s.Density(); err == nil {
		t.Fatal("expected error for unknown species")
	}
}

func TestDensityDegenerateCell(t *testing.T) {
	s := Structure{ID: "flat", Species: []string{"Si"}}
	if _, err := s.Density(); err == nil {
		t.Fatal("expected error for zero-volume cell")
	}
}

func TestReducedFormula(t *testing.T) {
	cases := []struct {
		species []string
		want    string
	}{
		{[]string{"H", "H"}, "H"},
		{[]string{"He"}, "He"},
		{[]string{"Na", "Cl", "Na", "Cl"}, "ClNa"},
		{[]string{"O", "O", "Si"}, "O2Si"},
		{[]string{"C", "H", "H", "H", "H"}, "CH4"},
		{[]string{"N", "N", "N", "N"}, "N"},
		{nil, ""},
	}
	for _, c := range cases {
		if got := ReducedFormula(c.species); got != c.want {
			t.Fatalf("ReducedFormula(%v) = %q, want %q", c.species, got, c.want)
		}
	}
}
