package deform

import "testing"

func TestElasticitySetCountAndOrder(t *testing.T) {
	set := ElasticitySet()
	if len(set) != ElasticityCount {
		t.Fatalf("expected %d strain deformations, got %d", ElasticityCount, len(set))
	}
	// Direction-major, positive magnitude first.
	wantIDs := []string{
		"strain-e11-+0.0100", "strain-e11--0.0050",
		"strain-e22-+0.0100", "strain-e22--0.0050",
		"strain-e33-+0.0100", "strain-e33--0.0050",
		"strain-e23-+0.0600", "strain-e23--0.0300",
		"strain-e13-+0.0600", "strain-e13--0.0300",
		"strain-e12-+0.0600", "strain-e12--0.0300",
	}
	for i, d := range set {
		if d.ID() != wantIDs[i] {
			t.Fatalf("deformation %d: got id %q, want %q", i, d.ID(), wantIDs[i])
		}
		if d.Kind != KindStrain {
			t.Fatalf("deformation %d: wrong kind %q", i, d.Kind)
		}
	}
}

func TestElasticitySetTensors(t *testing.T) {
	set := ElasticitySet()

	// First entry: e11 at +0.01, pure diagonal.
	e11 := set[0].Tensor
	if e11[0][0] != 0.01 || e11[1][1] != 0 || e11[0][1] != 0 {
		t.Fatalf("unexpected e11 tensor: %v", e11)
	}

	// Shear entries carry half the engineering magnitude, symmetrically.
	e23 := set[6].Tensor
	if e23[1][2] != 0.03 || e23[2][1] != 0.03 || e23[0][0] != 0 {
		t.Fatalf("unexpected e23 tensor: %v", e23)
	}
}

func TestPressureSetCountAndOrder(t *testing.T) {
	set := PressureSet()
	if len(set) != PressureCount {
		t.Fatalf("expected %d pressure points, got %d", PressureCount, len(set))
	}
	want := []float64{0, 10, 30, 50, 100, 150}
	for i, d := range set {
		if d.Kind != KindPressure || d.PressureGPa != want[i] {
			t.Fatalf("pressure %d: got %+v, want %g GPa", i, d, want[i])
		}
	}
}

func TestSetsAreReproducible(t *testing.T) {
	a, b := ElasticitySet(), ElasticitySet()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("elasticity set not reproducible at %d", i)
		}
	}
}

func TestForModeUnknown(t *testing.T) {
	if _, err := ForMode(Mode("bogus")); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(); err != nil {
		t.Fatalf("builtin deformation tables must validate: %v", err)
	}
}
