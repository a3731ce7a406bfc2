// Package replay runs the whole benchmark pipeline from a recorded JSON
// fixture: structures, references, and canned engine outcomes stand in for
// the live relaxation service, so a full run is reproducible offline.
package replay

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/JonathanSchmidt1/ml-peg/internal/crystal"
	"github.com/JonathanSchmidt1/ml-peg/internal/deform"
	"github.com/JonathanSchmidt1/ml-peg/internal/engine"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description string                      `json:"description"`
	ModelID     string                      `json:"model_id"`
	Mode        string                      `json:"mode"` // "elasticity" | "pressure" | "both"
	Structures  map[string]FixtureStructure `json:"structures"`
	References  map[string]FixtureReference `json:"references"`
	// Outcomes are keyed "<structure_id>/<deformation_id>". Keys the
	// fixture does not provide behave like a dead engine connection.
	Outcomes map[string]FixtureOutcome `json:"outcomes"`
	Expected []FixtureExpectedMetric   `json:"expected_metrics"`
}

// FixtureStructure mirrors one input structure with JSON tags.
type FixtureStructure struct {
	Formula   string       `json:"formula"`
	Cell      [][]float64  `json:"cell"`
	Species   []string     `json:"species"`
	Positions [][3]float64 `json:"positions"`
}

// FixtureReference mirrors crystal.ReferenceRecord; pointer fields keep
// "absent" distinguishable from zero.
type FixtureReference struct {
	BulkModulusGPa         *float64 `json:"bulk_modulus_gpa"`
	ShearModulusGPa        *float64 `json:"shear_modulus_gpa"`
	VolumeCompression      *float64 `json:"volume_compression"`
	PressureBulkModulusGPa *float64 `json:"pressure_bulk_modulus_gpa"`
}

// FixtureOutcome is one canned engine answer.
type FixtureOutcome struct {
	Cell      [][]float64  `json:"cell"`
	Positions [][3]float64 `json:"positions"`
	Energy    float64      `json:"energy"`
	Forces    [][3]float64 `json:"forces"`
	StressGPa [][]float64  `json:"stress_gpa"`
	Converged bool         `json:"converged"`
	StepsUsed int          `json:"steps_used"`
	Err       string       `json:"error,omitempty"`
}

// FixtureExpectedMetric captures one expected row of the metric table.
type FixtureExpectedMetric struct {
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
	Included int     `json:"included"`
	Excluded int     `json:"excluded"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if f.Mode == "" {
		f.Mode = "both"
	}
	return &f, nil
}

// ToStructure converts a FixtureStructure to a domain Structure.
func (fs *FixtureStructure) ToStructure(id string) (crystal.Structure, error) {
	if len(fs.Cell) != 3 {
		return crystal.Structure{}, fmt.Errorf("fixture structure %s: cell must have 3 rows, got %d", id, len(fs.Cell))
	}
	var cell [3][3]float64
	for i, row := range fs.Cell {
		if len(row) != 3 {
			return crystal.Structure{}, fmt.Errorf("fixture structure %s: cell row %d must have 3 entries", id, i)
		}
		copy(cell[i][:], row)
	}
	if len(fs.Species) != len(fs.Positions) {
		return crystal.Structure{}, fmt.Errorf("fixture structure %s: %d species vs %d positions", id, len(fs.Species), len(fs.Positions))
	}
	return crystal.Structure{
		ID:        id,
		Formula:   fs.Formula,
		Cell:      cell,
		Species:   fs.Species,
		Positions: fs.Positions,
	}, nil
}

// ToReferenceRecord converts a FixtureReference to a domain ReferenceRecord.
func (fr *FixtureReference) ToReferenceRecord(id string) crystal.ReferenceRecord {
	return crystal.ReferenceRecord{
		StructureID:            id,
		BulkModulusGPa:         orNaN(fr.BulkModulusGPa),
		ShearModulusGPa:        orNaN(fr.ShearModulusGPa),
		VolumeCompression:      orNaN(fr.VolumeCompression),
		PressureBulkModulusGPa: orNaN(fr.PressureBulkModulusGPa),
	}
}

// ToOutcome converts a FixtureOutcome to a domain engine Outcome.
func (fo *FixtureOutcome) ToOutcome() engine.Outcome {
	return engine.Outcome{
		Cell:      toMat3(fo.Cell),
		Positions: fo.Positions,
		Energy:    fo.Energy,
		Forces:    fo.Forces,
		StressGPa: toMat3(fo.StressGPa),
		Converged: fo.Converged,
		StepsUsed: fo.StepsUsed,
		Err:       fo.Err,
	}
}

func toMat3(rows [][]float64) [3][3]float64 {
	var m [3][3]float64
	for i := 0; i < 3 && i < len(rows); i++ {
		for j := 0; j < 3 && j < len(rows[i]); j++ {
			m[i][j] = rows[i][j]
		}
	}
	return m
}

func orNaN(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}

// #endregion fixture-loader

// #region fixture-engine

// FixtureEngine serves canned outcomes instead of calling the relaxation
// service. A key absent from the fixture errors the same way a dropped
// connection would, so the orchestrator's retry and classification paths
// are exercised for real.
type FixtureEngine struct {
	outcomes map[string]engine.Outcome
}

// NewFixtureEngine builds an engine from the fixture's canned outcomes.
func NewFixtureEngine(f *Fixture) *FixtureEngine {
	out := make(map[string]engine.Outcome, len(f.Outcomes))
	for key, fo := range f.Outcomes {
		out[key] = fo.ToOutcome()
	}
	return &FixtureEngine{outcomes: out}
}

// Evaluate implements engine.Evaluator.
func (e *FixtureEngine) Evaluate(ctx context.Context, s crystal.Structure, d deform.Deformation, tol engine.Tolerances) (engine.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return engine.Outcome{}, err
	}
	key := s.ID + "/" + d.ID()
	out, ok := e.outcomes[key]
	if !ok {
		return engine.Outcome{}, fmt.Errorf("fixture engine: no outcome for %s", key)
	}
	return out, nil
}

// #endregion fixture-engine
