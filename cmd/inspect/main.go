// Command inspect prints run provenance and result status counts from a
// benchmark store.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/JonathanSchmidt1/ml-peg/internal/results"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to the results store")
	last := flag.Int("last", 20, "show N most recent runs")
	structure := flag.String("structure", "", "list per-deformation results for one structure")
	jsonOut := flag.Bool("json", false, "output as JSON instead of a table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/mlpeg_results.db [--last N] [--structure id] [--json]")
		os.Exit(2)
	}

	store, err := results.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if *structure != "" {
		err = runStructureMode(store, *structure, *jsonOut)
	} else {
		err = runListMode(store, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-mode

func runListMode(store *results.Store, last int, jsonOut bool) error {
	runs, err := store.ListRuns(last)
	if err != nil {
		return err
	}
	counts, err := store.StatusCounts()
	if err != nil {
		return err
	}

	if jsonOut {
		type runRow struct {
			RunID     string `json:"run_id"`
			ModelID   string `json:"model_id"`
			Mode      string `json:"mode"`
			Total     int    `json:"total"`
			Converged int    `json:"converged"`
			Failed    int    `json:"failed"`
			StartedAt string `json:"started_at"`
		}
		rows := make([]runRow, len(runs))
		for i, r := range runs {
			rows[i] = runRow{r.RunID, r.ModelID, r.Mode, r.Total, r.Converged, r.Failed,
				r.StartedAt.Format("2006-01-02T15:04:05Z")}
		}
		return printJSON(struct {
			Runs         []runRow               `json:"runs"`
			StatusCounts map[results.Status]int `json:"status_counts"`
		}{rows, counts})
	}

	if len(runs) == 0 {
		fmt.Fprintln(os.Stderr, "no runs found")
	} else {
		fmt.Printf("%-36s  %-16s  %-10s  %6s  %6s  %6s  %s\n",
			"Run", "Model", "Mode", "Total", "Conv", "Fail", "Started")
		for _, r := range runs {
			fmt.Printf("%-36s  %-16s  %-10s  %6d  %6d  %6d  %s\n",
				r.RunID, r.ModelID, r.Mode, r.Total, r.Converged, r.Failed,
				r.StartedAt.Format("2006-01-02T15:04:05Z"))
		}
	}

	fmt.Printf("\nResult status counts:\n")
	for _, s := range []results.Status{results.StatusConverged, results.StatusNonConverged, results.StatusUnstable} {
		fmt.Printf("  %-14s %d\n", s, counts[s])
	}
	return nil
}

// #endregion list-mode

// #region structure-mode

func runStructureMode(store *results.Store, structureID string, jsonOut bool) error {
	res, err := store.ListByStructure(structureID)
	if err != nil {
		return err
	}
	if len(res) == 0 {
		return fmt.Errorf("no results for structure %s", structureID)
	}

	if jsonOut {
		type row struct {
			DeformationID string         `json:"deformation_id"`
			Status        results.Status `json:"status"`
			Reason        string         `json:"reason,omitempty"`
			Energy        float64        `json:"energy"`
			StepsUsed     int            `json:"steps_used"`
			RunID         string         `json:"run_id"`
		}
		rows := make([]row, len(res))
		for i, r := range res {
			rows[i] = row{r.Key.DeformationID, r.Status, r.Reason, r.Energy, r.StepsUsed, r.RunID}
		}
		return printJSON(rows)
	}

	fmt.Printf("%-22s  %-14s  %12s  %6s  %s\n", "Deformation", "Status", "Energy", "Steps", "Reason")
	for _, r := range res {
		fmt.Printf("%-22s  %-14s  %12.4f  %6d  %s\n",
			r.Key.DeformationID, r.Status, r.Energy, r.StepsUsed, r.Reason)
	}
	return nil
}

// #endregion structure-mode

// #region output

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// #endregion output
