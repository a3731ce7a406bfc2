package replay

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/JonathanSchmidt1/ml-peg/internal/crystal"
	"github.com/JonathanSchmidt1/ml-peg/internal/deform"
	"github.com/JonathanSchmidt1/ml-peg/internal/elastic"
	"github.com/JonathanSchmidt1/ml-peg/internal/eos"
	"github.com/JonathanSchmidt1/ml-peg/internal/filter"
	"github.com/JonathanSchmidt1/ml-peg/internal/metrics"
	"github.com/JonathanSchmidt1/ml-peg/internal/orchestrator"
	"github.com/JonathanSchmidt1/ml-peg/internal/results"
)

// #region types

// StructureReport is the per-structure debug surface of a replay run.
type StructureReport struct {
	StructureID string
	Elastic     elastic.Estimate
	EOS         eos.Estimate
}

// Report captures everything a replay run produced.
type Report struct {
	ModelID    string
	RunID      string
	Structures []StructureReport
	Metrics    map[string]metrics.AggregateMetric
	Stats      orchestrator.Stats
}

// Harness replays a fixture through the full pipeline:
// orchestrate → estimate → filter → aggregate.
type Harness struct {
	fixture   *Fixture
	storePath string
}

// NewHarness prepares a replay against a sqlite store at storePath. The
// store usually lives in a temp dir; reusing a path resumes from its cache.
func NewHarness(f *Fixture, storePath string) *Harness {
	return &Harness{fixture: f, storePath: storePath}
}

// #endregion types

// #region run

// Run executes the fixture end to end and returns the full report.
// Individual relaxation failures are classified and recorded, never
// returned; the error covers fixture validity and store access only.
func (h *Harness) Run(ctx context.Context) (*Report, error) {
	if err := deform.Validate(); err != nil {
		return nil, err
	}
	runElastic, runPressure, err := modeFlags(h.fixture.Mode)
	if err != nil {
		return nil, err
	}

	store, err := results.NewStore(h.storePath)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	runID, err := store.BeginRun(h.fixture.ModelID, h.fixture.Mode)
	if err != nil {
		return nil, err
	}

	orch := orchestrator.New(NewFixtureEngine(h.fixture), store, runID, orchestrator.DefaultOptions())

	ids := make([]string, 0, len(h.fixture.Structures))
	for id := range h.fixture.Structures {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	strainDefs := deform.ElasticitySet()
	pressureDefs := deform.PressureSet()

	rep := &Report{ModelID: h.fixture.ModelID, RunID: runID, Metrics: map[string]metrics.AggregateMetric{}}
	perMetric := map[string][]metrics.Entry{}

	for _, id := range ids {
		fs := h.fixture.Structures[id]
		s, err := fs.ToStructure(id)
		if err != nil {
			return nil, err
		}
		ref := h.referenceFor(id)

		sr := StructureReport{StructureID: id}
		if runElastic {
			if err := orch.RunStructure(ctx, s, strainDefs); err != nil {
				return nil, err
			}
			res, err := orch.Collect(id, strainDefs)
			if err != nil {
				return nil, err
			}
			sr.Elastic = elastic.FromResults(res, strainDefs)

			d := filter.Decide(s, sr.Elastic.Available, ref)
			perMetric[metrics.BulkModulusMAE] = append(perMetric[metrics.BulkModulusMAE],
				entry(id, d, availableOr(sr.Elastic.Available, sr.Elastic.BulkGPa), refValue(ref, func(r crystal.ReferenceRecord) float64 { return r.BulkModulusGPa })))
			perMetric[metrics.ShearModulusMAE] = append(perMetric[metrics.ShearModulusMAE],
				entry(id, d, availableOr(sr.Elastic.Available, sr.Elastic.ShearGPa), refValue(ref, func(r crystal.ReferenceRecord) float64 { return r.ShearModulusGPa })))
		}
		if runPressure {
			if err := orch.RunStructure(ctx, s, pressureDefs); err != nil {
				return nil, err
			}
			res, err := orch.Collect(id, pressureDefs)
			if err != nil {
				return nil, err
			}
			sr.EOS = eos.FromResults(res, pressureDefs)

			dc := filter.Decide(s, sr.EOS.CompressionAvailable, ref)
			perMetric[metrics.VolumeCompressionMAE] = append(perMetric[metrics.VolumeCompressionMAE],
				entry(id, dc, availableOr(sr.EOS.CompressionAvailable, sr.EOS.Compression), refValue(ref, func(r crystal.ReferenceRecord) float64 { return r.VolumeCompression })))
			db := filter.Decide(s, sr.EOS.BulkAvailable, ref)
			perMetric[metrics.PressureBulkModulusMAE] = append(perMetric[metrics.PressureBulkModulusMAE],
				entry(id, db, availableOr(sr.EOS.BulkAvailable, sr.EOS.BulkGPa), refValue(ref, func(r crystal.ReferenceRecord) float64 { return r.PressureBulkModulusGPa })))
		}
		rep.Structures = append(rep.Structures, sr)
	}

	rep.Metrics = metrics.AggregateModel(perMetric)
	rep.Stats = orch.Stats()
	if err := store.FinishRun(runID, rep.Stats.Total, rep.Stats.Converged, rep.Stats.Failed); err != nil {
		return nil, err
	}
	return rep, nil
}

func (h *Harness) referenceFor(id string) *crystal.ReferenceRecord {
	fr, ok := h.fixture.References[id]
	if !ok {
		return nil
	}
	rec := fr.ToReferenceRecord(id)
	return &rec
}

func modeFlags(mode string) (runElastic, runPressure bool, err error) {
	switch mode {
	case "elasticity":
		return true, false, nil
	case "pressure":
		return false, true, nil
	case "both":
		return true, true, nil
	default:
		return false, false, fmt.Errorf("unknown fixture mode %q", mode)
	}
}

func entry(id string, d filter.Decision, predicted, reference float64) metrics.Entry {
	return metrics.Entry{StructureID: id, Decision: d, Predicted: predicted, Reference: reference}
}

func availableOr(ok bool, v float64) float64 {
	if !ok {
		return math.NaN()
	}
	return v
}

func refValue(ref *crystal.ReferenceRecord, pick func(crystal.ReferenceRecord) float64) float64 {
	if ref == nil {
		return math.NaN()
	}
	return pick(*ref)
}

// #endregion run

// #region diff

// Diff compares a report's metric table against the fixture's expected
// rows. Values compare within tol; NaN expects NaN. Returns one line per
// mismatch, empty when everything agrees.
func Diff(rep *Report, expected []FixtureExpectedMetric, tol float64) []string {
	var out []string
	for _, e := range expected {
		got, ok := rep.Metrics[e.Name]
		if !ok {
			out = append(out, fmt.Sprintf("%s: missing from report", e.Name))
			continue
		}
		switch {
		case math.IsNaN(e.Value) != math.IsNaN(got.Value):
			out = append(out, fmt.Sprintf("%s: value %g, expected %g", e.Name, got.Value, e.Value))
		case !math.IsNaN(e.Value) && math.Abs(got.Value-e.Value) > tol:
			out = append(out, fmt.Sprintf("%s: value %g, expected %g (tol %g)", e.Name, got.Value, e.Value, tol))
		}
		if got.Included != e.Included || got.Excluded != e.Excluded {
			out = append(out, fmt.Sprintf("%s: counts %d/%d, expected %d/%d",
				e.Name, got.Included, got.Excluded, e.Included, e.Excluded))
		}
	}
	return out
}

// #endregion diff
