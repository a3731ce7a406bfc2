// Package metrics turns per-structure predictions, references, and
// exclusion decisions into the reported per-model error table. Aggregation
// is order-independent and reproducible: the same inputs give bit-identical
// output regardless of how the caller assembled them.
package metrics

import (
	"encoding/json"
	"math"
	"sort"

	"github.com/JonathanSchmidt1/ml-peg/internal/filter"
)

// #region metric-names

// Metric names reported per model.
const (
	BulkModulusMAE         = "bulk_modulus_MAE"
	ShearModulusMAE        = "shear_modulus_MAE"
	VolumeCompressionMAE   = "volume_compression_MAE"
	PressureBulkModulusMAE = "pressure_bulk_modulus_MAE"
)

// #endregion

// #region types

// Entry is one structure's contribution to one metric. Predicted or
// Reference set to NaN marks that side unavailable.
type Entry struct {
	StructureID string
	Decision    filter.Decision
	Predicted   float64
	Reference   float64
}

// ExcludedStructure records why a structure did not score.
type ExcludedStructure struct {
	StructureID string `json:"structure_id"`
	Rule        string `json:"rule"`
}

// AggregateMetric is the reported artifact for one (model, metric) pair.
// Value is NaN when nothing scored; Coverage makes that case explicit
// instead of silently dropping the metric.
type AggregateMetric struct {
	Name               string              `json:"name"`
	Value              float64             `json:"value"`
	Included           int                 `json:"included"`
	Excluded           int                 `json:"excluded"`
	Coverage           float64             `json:"coverage"`
	ExcludedStructures []ExcludedStructure `json:"excluded_structures,omitempty"`
}

// MarshalJSON renders a NaN value as null; encoding/json refuses NaN, and
// a zero-coverage metric still has to appear in the report.
func (a AggregateMetric) MarshalJSON() ([]byte, error) {
	type alias AggregateMetric
	out := struct {
		alias
		Value any `json:"value"`
	}{alias: alias(a), Value: a.Value}
	if math.IsNaN(a.Value) {
		out.Value = nil
	}
	return json.Marshal(out)
}

// #endregion

// #region aggregate

// Aggregate computes the MAE for one metric over the entries. A structure
// scores iff its filter decision includes it and both the prediction and
// the reference value are present; everything else is counted as excluded
// with the most specific reason available. Included + Excluded always
// equals len(entries).
func Aggregate(name string, entries []Entry) AggregateMetric {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].StructureID < sorted[j].StructureID })

	agg := AggregateMetric{Name: name}
	var sum float64
	for _, e := range sorted {
		switch {
		case !e.Decision.Include:
			agg.exclude(e.StructureID, e.Decision.Rule)
		case math.IsNaN(e.Reference):
			agg.exclude(e.StructureID, filter.RuleNoReference)
		case math.IsNaN(e.Predicted):
			agg.exclude(e.StructureID, filter.RuleEstimateUnavailable)
		default:
			sum += math.Abs(e.Predicted - e.Reference)
			agg.Included++
		}
	}

	if agg.Included > 0 {
		agg.Value = sum / float64(agg.Included)
	} else {
		agg.Value = math.NaN()
	}
	if total := agg.Included + agg.Excluded; total > 0 {
		agg.Coverage = float64(agg.Included) / float64(total)
	}
	return agg
}

func (a *AggregateMetric) exclude(id, rule string) {
	a.Excluded++
	a.ExcludedStructures = append(a.ExcludedStructures, ExcludedStructure{StructureID: id, Rule: rule})
}

// #endregion

// #region model-table

// ModelTable is the output surface: model id → metric name → aggregate.
type ModelTable map[string]map[string]AggregateMetric

// AggregateModel computes all metrics for one model from per-metric entry
// lists and returns them keyed by metric name.
func AggregateModel(perMetric map[string][]Entry) map[string]AggregateMetric {
	out := make(map[string]AggregateMetric, len(perMetric))
	for name, entries := range perMetric {
		out[name] = Aggregate(name, entries)
	}
	return out
}

// #endregion
