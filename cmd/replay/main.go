// Command replay runs a recorded fixture through the full benchmark
// pipeline and diffs the resulting metric table against the fixture's
// expected rows. Exit code 1 on divergence.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/JonathanSchmidt1/ml-peg/internal/replay"
)

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to fixture JSON")
	storePath := flag.String("store", "", "results store path (default: temp, discarded)")
	tol := flag.Float64("tol", 1e-6, "absolute tolerance for metric values")
	flag.Parse()

	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/fixture.json [--store path] [--tol 1e-6]")
		os.Exit(2)
	}
	os.Exit(run(*fixturePath, *storePath, *tol))
}

func run(fixturePath, storePath string, tol float64) int {
	f, err := replay.LoadFixture(fixturePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 2
	}

	if storePath == "" {
		dir, err := os.MkdirTemp("", "mlpeg-replay-")
		if err != nil {
			fmt.Fprintf(os.Stderr, "temp dir: %v\n", err)
			return 2
		}
		defer os.RemoveAll(dir)
		storePath = filepath.Join(dir, "replay.db")
	}

	rep, err := replay.NewHarness(f, storePath).Run(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		return 2
	}

	printMetricTable(rep)

	if len(f.Expected) == 0 {
		fmt.Println("\nno expected metrics in fixture, nothing to diff")
		return 0
	}
	mismatches := replay.Diff(rep, f.Expected, tol)
	if len(mismatches) > 0 {
		fmt.Printf("\n%d mismatch(es):\n", len(mismatches))
		for _, m := range mismatches {
			fmt.Printf("  %s\n", m)
		}
		return 1
	}
	fmt.Printf("\nall %d expected metrics match\n", len(f.Expected))
	return 0
}

// #endregion main

// #region output

func printMetricTable(rep *replay.Report) {
	fmt.Printf("model %s, run %s\n\n", rep.ModelID, rep.RunID)
	fmt.Printf("%-28s  %12s  %8s  %8s  %8s\n", "Metric", "Value", "Incl", "Excl", "Coverage")
	for _, name := range sortedNames(rep) {
		m := rep.Metrics[name]
		value := "n/a"
		if !math.IsNaN(m.Value) {
			value = fmt.Sprintf("%.6g", m.Value)
		}
		fmt.Printf("%-28s  %12s  %8d  %8d  %8.2f\n", name, value, m.Included, m.Excluded, m.Coverage)
	}
	fmt.Printf("\nrelaxations: %d total, %d cached, %d converged, %d failed\n",
		rep.Stats.Total, rep.Stats.Cached, rep.Stats.Converged, rep.Stats.Failed)
}

func sortedNames(rep *replay.Report) []string {
	names := make([]string, 0, len(rep.Metrics))
	for name := range rep.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// #endregion output
