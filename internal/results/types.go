package results

import "time"

// #region status

// Status classifies how a relaxation ended.
type Status string

const (
	StatusConverged    Status = "converged"
	StatusNonConverged Status = "non_converged"
	StatusUnstable     Status = "unstable"
)

// #endregion

// #region key

// Key identifies one relaxation: a structure and the deformation applied
// to it. At most one result exists per key per store.
type Key struct {
	StructureID   string
	DeformationID string
}

// #endregion

// #region result

// Result is the immutable record of one relaxation. Cell and stress are in
// Å and GPa; failure detail lives in Reason when Status is not converged.
type Result struct {
	Key       Key
	RunID     string
	Cell      [3][3]float64
	Positions [][3]float64
	Energy    float64
	Forces    [][3]float64
	StressGPa [3][3]float64
	Status    Status
	Reason    string
	StepsUsed int
	CreatedAt time.Time
}

// #endregion

// #region run

// Run is the provenance record for one benchmark invocation.
type Run struct {
	RunID      string
	ModelID    string
	Mode       string
	StartedAt  time.Time
	FinishedAt time.Time
	Total      int
	Converged  int
	Failed     int
}

// #endregion
