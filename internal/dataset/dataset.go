// Package dataset loads the structure set and reference records the
// benchmark runs against. Both files are read-only inputs; a structure
// without a reference entry is not an error here, it is excluded later
// with reason "no_reference".
package dataset

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/JonathanSchmidt1/ml-peg/internal/crystal"
)

// #region json-mirrors

// structureEntry mirrors one structures.json record with JSON tags.
type structureEntry struct {
	Formula   string       `json:"formula"`
	Cell      [][]float64  `json:"cell"`
	Species   []string     `json:"species"`
	Positions [][3]float64 `json:"positions"`
}

// referenceEntry mirrors one references.json record. Pointer fields keep
// "absent" distinguishable from zero.
type referenceEntry struct {
	BulkModulusGPa         *float64 `json:"bulk_modulus_gpa"`
	ShearModulusGPa        *float64 `json:"shear_modulus_gpa"`
	VolumeCompression      *float64 `json:"volume_compression"`
	PressureBulkModulusGPa *float64 `json:"pressure_bulk_modulus_gpa"`
}

// #endregion

// #region load-structures

// LoadStructures reads a structures.json file and returns the structures
// sorted by ID for deterministic iteration.
func LoadStructures(path string) ([]crystal.Structure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read structures %s: %w", path, err)
	}
	var raw map[string]structureEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse structures %s: %w", path, err)
	}

	out := make([]crystal.Structure, 0, len(raw))
	for id, e := range raw {
		s, err := toStructure(id, e)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func toStructure(id string, e structureEntry) (crystal.Structure, error) {
	if len(e.Cell) != 3 {
		return crystal.Structure{}, fmt.Errorf("structure %s: cell must have 3 rows, got %d", id, len(e.Cell))
	}
	var cell [3][3]float64
	for i, row := range e.Cell {
		if len(row) != 3 {
			return crystal.Structure{}, fmt.Errorf("structure %s: cell row %d must have 3 entries", id, i)
		}
		copy(cell[i][:], row)
	}
	if len(e.Species) != len(e.Positions) {
		return crystal.Structure{}, fmt.Errorf("structure %s: %d species vs %d positions", id, len(e.Species), len(e.Positions))
	}
	formula := e.Formula
	if formula == "" {
		formula = crystal.ReducedFormula(e.Species)
	}
	return crystal.Structure{
		ID:        id,
		Formula:   formula,
		Cell:      cell,
		Species:   e.Species,
		Positions: e.Positions,
	}, nil
}

// #endregion

// #region load-references

// LoadReferences reads a references.json file. Absent numeric fields come
// back as NaN; structures absent from the file are simply not in the map.
func LoadReferences(path string) (map[string]crystal.ReferenceRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read references %s: %w", path, err)
	}
	var raw map[string]referenceEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse references %s: %w", path, err)
	}

	out := make(map[string]crystal.ReferenceRecord, len(raw))
	for id, e := range raw {
		out[id] = crystal.ReferenceRecord{
			StructureID:            id,
			BulkModulusGPa:         orNaN(e.BulkModulusGPa),
			ShearModulusGPa:        orNaN(e.ShearModulusGPa),
			VolumeCompression:      orNaN(e.VolumeCompression),
			PressureBulkModulusGPa: orNaN(e.PressureBulkModulusGPa),
		}
	}
	return out, nil
}

func orNaN(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}

// #endregion
