package orchestrator

import (
	"fmt"
	"math"

	"github.com/JonathanSchmidt1/ml-peg/internal/engine"
	"github.com/JonathanSchmidt1/ml-peg/internal/results"
)

// #region classify

// Classify maps an engine answer (or transport failure) onto a result
// status. Failures are data: nothing here is ever raised as an error, so a
// bad structure can never abort the batch.
func Classify(out engine.Outcome, evalErr error) (results.Status, string) {
	if evalErr != nil {
		return results.StatusUnstable, fmt.Sprintf("engine unavailable: %v", evalErr)
	}
	if out.Err != "" {
		return results.StatusUnstable, fmt.Sprintf("engine failure: %s", out.Err)
	}
	if reason := nonPhysical(out); reason != "" {
		return results.StatusUnstable, reason
	}
	if !out.Converged {
		return results.StatusNonConverged, fmt.Sprintf("force convergence not reached in %d steps", out.StepsUsed)
	}
	return results.StatusConverged, ""
}

// nonPhysical checks a converged-or-not answer for outputs no physical
// relaxation can produce.
func nonPhysical(out engine.Outcome) string {
	if v := out.Volume(); v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Sprintf("non-physical volume %g", v)
	}
	if math.IsNaN(out.Energy) || math.IsInf(out.Energy, 0) {
		return fmt.Sprintf("non-physical energy %g", out.Energy)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			s := out.StressGPa[i][j]
			if math.IsNaN(s) || math.IsInf(s, 0) {
				return fmt.Sprintf("non-physical stress component [%d][%d]", i, j)
			}
		}
	}
	return ""
}

// #endregion
