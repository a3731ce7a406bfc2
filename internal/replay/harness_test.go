package replay

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonathanSchmidt1/ml-peg/internal/deform"
	"github.com/JonathanSchmidt1/ml-peg/internal/filter"
	"github.com/JonathanSchmidt1/ml-peg/internal/metrics"
)

// #region fixture-builders

func ptr(v float64) *float64 { return &v }

// isotropicStress returns σ = λ·tr(ε)·I + 2G·ε in GPa for a tensor strain.
func isotropicStress(eps [3][3]float64, bulk, shear float64) [][]float64 {
	lambda := bulk - 2*shear/3
	trace := eps[0][0] + eps[1][1] + eps[2][2]
	out := make([][]float64, 3)
	for i := 0; i < 3; i++ {
		out[i] = make([]float64, 3)
		for j := 0; j < 3; j++ {
			out[i][j] = 2 * shear * eps[i][j]
			if i == j {
				out[i][j] += lambda * trace
			}
		}
	}
	return out
}

func cubicCell(volume float64) [][]float64 {
	a := math.Cbrt(volume)
	return [][]float64{{a, 0, 0}, {0, a, 0}, {0, 0, a}}
}

// quadraticVolume models V(P) = v0 − (v0/b)·P + a2·P², so the fitted
// zero-pressure bulk modulus is exactly b.
func quadraticVolume(p, v0, b, a2 float64) float64 {
	return v0 - (v0/b)*p + a2*p*p
}

// isotropicFixture builds the two-structure scenario: a well-behaved
// isotropic crystal with exact linear response (B=100, G=40) and a solid
// helium entry with no canned outcomes at all.
func isotropicFixture() *Fixture {
	const (
		bulk, shear = 100.0, 40.0
		v0, b0, a2  = 100.0, 300.0, 0.0008
	)

	outcomes := map[string]FixtureOutcome{}
	for _, d := range deform.ElasticitySet() {
		outcomes["si-1/"+d.ID()] = FixtureOutcome{
			Cell:      cubicCell(v0),
			Positions: [][3]float64{{0, 0, 0}, {1.3, 1.3, 1.3}},
			Energy:    -10.8,
			Forces:    [][3]float64{{0, 0, 0}, {0, 0, 0}},
			StressGPa: isotropicStress(d.Tensor, bulk, shear),
			Converged: true,
			StepsUsed: 12,
		}
	}
	for _, d := range deform.PressureSet() {
		outcomes["si-1/"+d.ID()] = FixtureOutcome{
			Cell:      cubicCell(quadraticVolume(d.PressureGPa, v0, b0, a2)),
			Positions: [][3]float64{{0, 0, 0}, {1.3, 1.3, 1.3}},
			Energy:    -10.8,
			Forces:    [][3]float64{{0, 0, 0}, {0, 0, 0}},
			StressGPa: [][]float64{{-d.PressureGPa, 0, 0}, {0, -d.PressureGPa, 0}, {0, 0, -d.PressureGPa}},
			Converged: true,
			StepsUsed: 30,
		}
	}

	return &Fixture{
		Description: "isotropic crystal plus a solid-helium entry",
		ModelID:     "test-model",
		Mode:        "both",
		Structures: map[string]FixtureStructure{
			"si-1": {
				Formula:   "Si",
				Cell:      cubicCell(v0),
				Species:   []string{"Si", "Si"},
				Positions: [][3]float64{{0, 0, 0}, {1.3, 1.3, 1.3}},
			},
			"he-1": {
				Formula:   "He",
				Cell:      [][]float64{{3, 0, 0}, {0, 3, 0}, {0, 0, 3}},
				Species:   []string{"He", "He", "He", "He"},
				Positions: [][3]float64{{0, 0, 0}, {1.5, 0, 0}, {0, 1.5, 0}, {0, 0, 1.5}},
			},
		},
		References: map[string]FixtureReference{
			"si-1": {
				BulkModulusGPa:         ptr(95),
				ShearModulusGPa:        ptr(42),
				VolumeCompression:      ptr(0.30),
				PressureBulkModulusGPa: ptr(310),
			},
			"he-1": {
				BulkModulusGPa:         ptr(1),
				ShearModulusGPa:        ptr(1),
				VolumeCompression:      ptr(0.9),
				PressureBulkModulusGPa: ptr(1),
			},
		},
		Outcomes: outcomes,
	}
}

// #endregion fixture-builders

// #region end-to-end

func TestReplayIsotropicRecovery(t *testing.T) {
	h := NewHarness(isotropicFixture(), filepath.Join(t.TempDir(), "replay.db"))
	rep, err := h.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, rep.Structures, 2)
	// Sorted by ID: he-1 first.
	he, si := rep.Structures[0], rep.Structures[1]
	require.Equal(t, "si-1", si.StructureID)

	require.True(t, si.Elastic.Available)
	assert.InDelta(t, 100.0, si.Elastic.BulkGPa, 1e-6)
	assert.InDelta(t, 40.0, si.Elastic.ShearGPa, 1e-6)
	require.True(t, si.EOS.BulkAvailable)
	assert.InDelta(t, 300.0, si.EOS.BulkGPa, 1e-6)
	require.True(t, si.EOS.CompressionAvailable)
	assert.InDelta(t, 0.32, si.EOS.Compression, 1e-9)

	// Helium has no canned outcomes: every relaxation fails, nothing fits.
	assert.False(t, he.Elastic.Available)
	assert.False(t, he.EOS.BulkAvailable)
	assert.False(t, he.EOS.CompressionAvailable)
}

func TestReplayMetricTable(t *testing.T) {
	h := NewHarness(isotropicFixture(), filepath.Join(t.TempDir(), "replay.db"))
	rep, err := h.Run(context.Background())
	require.NoError(t, err)

	// The isotropic structure contributes its exact errors; helium is
	// excluded by the gas-chemistry rule before its dead engine matters.
	want := map[string]float64{
		metrics.BulkModulusMAE:         5,    // |100 − 95|
		metrics.ShearModulusMAE:        2,    // |40 − 42|
		metrics.VolumeCompressionMAE:   0.02, // |0.32 − 0.30|
		metrics.PressureBulkModulusMAE: 10,   // |300 − 310|
	}
	for name, value := range want {
		m, ok := rep.Metrics[name]
		require.True(t, ok, name)
		assert.InDelta(t, value, m.Value, 1e-6, name)
		assert.Equal(t, 1, m.Included, name)
		assert.Equal(t, 1, m.Excluded, name)
		require.Len(t, m.ExcludedStructures, 1, name)
		assert.Equal(t, "he-1", m.ExcludedStructures[0].StructureID, name)
		assert.Equal(t, filter.RuleChemistry, m.ExcludedStructures[0].Rule, name)
	}
}

func TestReplayRunIsResumable(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "replay.db")
	f := isotropicFixture()

	first, err := NewHarness(f, dbPath).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, first.Stats.Cached)

	// Second run against the same store: the computed results are cache
	// hits, helium's engine-unreachable keys are retried rather than served
	// from cache, and the metric table is identical.
	second, err := NewHarness(f, dbPath).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.Stats.Converged, second.Stats.Cached)
	assert.Equal(t, first.Stats.Failed, second.Stats.Failed)
	for name, m := range first.Metrics {
		assert.Equal(t, m.Value, second.Metrics[name].Value, name)
	}
}

func TestReplayUnknownModeErrors(t *testing.T) {
	f := isotropicFixture()
	f.Mode = "everything"
	_, err := NewHarness(f, filepath.Join(t.TempDir(), "replay.db")).Run(context.Background())
	require.Error(t, err)
}

// #endregion end-to-end

// #region diff

func TestDiff(t *testing.T) {
	h := NewHarness(isotropicFixture(), filepath.Join(t.TempDir(), "replay.db"))
	rep, err := h.Run(context.Background())
	require.NoError(t, err)

	expected := []FixtureExpectedMetric{
		{Name: metrics.BulkModulusMAE, Value: 5, Included: 1, Excluded: 1},
		{Name: metrics.ShearModulusMAE, Value: 2, Included: 1, Excluded: 1},
	}
	assert.Empty(t, Diff(rep, expected, 1e-6))

	expected[0].Value = 7
	expected[1].Included = 2
	mismatches := Diff(rep, expected, 1e-6)
	assert.Len(t, mismatches, 2)

	missing := []FixtureExpectedMetric{{Name: "no_such_metric", Value: 1}}
	assert.Len(t, Diff(rep, missing, 1e-6), 1)
}

// #endregion diff
