package crystal

// #region structure

// Structure is an immutable bulk crystal: identity, lattice, and atoms.
// Loaded once by the dataset package and never mutated by the pipeline;
// deformations are applied to copies of the cell.
type Structure struct {
	ID        string
	Formula   string
	Cell      [3][3]float64 // row vectors, Å
	Species   []string
	Positions [][3]float64 // Cartesian, Å
}

// #endregion

// #region reference

// ReferenceRecord holds the known reference values for a structure.
// Absent fields are NaN; a structure may have no record at all, in which
// case the exclusion filter drops it with reason "no_reference".
type ReferenceRecord struct {
	StructureID            string
	BulkModulusGPa         float64
	ShearModulusGPa        float64
	VolumeCompression      float64
	PressureBulkModulusGPa float64
}

// #endregion
