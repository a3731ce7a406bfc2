package orchestrator

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"sync"
	"testing"

	"github.com/JonathanSchmidt1/ml-peg/internal/crystal"
	"github.com/JonathanSchmidt1/ml-peg/internal/deform"
	"github.com/JonathanSchmidt1/ml-peg/internal/engine"
	"github.com/JonathanSchmidt1/ml-peg/internal/results"
)

// #region fake-engine

type fakeEngine struct {
	mu    sync.Mutex
	calls map[string]int
	fn    func(s crystal.Structure, d deform.Deformation) (engine.Outcome, error)
}

func newFakeEngine(fn func(s crystal.Structure, d deform.Deformation) (engine.Outcome, error)) *fakeEngine {
	return &fakeEngine{calls: map[string]int{}, fn: fn}
}

func (f *fakeEngine) Evaluate(_ context.Context, s crystal.Structure, d deform.Deformation, _ engine.Tolerances) (engine.Outcome, error) {
	f.mu.Lock()
	f.calls[s.ID+"/"+d.ID()]++
	f.mu.Unlock()
	return f.fn(s, d)
}

func (f *fakeEngine) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func goodOutcome() engine.Outcome {
	return engine.Outcome{
		Cell:      [3][3]float64{{4, 0, 0}, {0, 4, 0}, {0, 0, 4}},
		Energy:    -5,
		Converged: true,
		StepsUsed: 10,
	}
}

// #endregion fake-engine

func testStructure(id string) crystal.Structure {
	return crystal.Structure{
		ID:      id,
		Cell:    [3][3]float64{{4, 0, 0}, {0, 4, 0}, {0, 0, 4}},
		Species: []string{"Si"},
	}
}

func tempStore(t *testing.T) *results.Store {
	t.Helper()
	s, err := results.NewStore(filepath.Join(t.TempDir(), "results.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRunStructureComputesEveryKeyOnce(t *testing.T) {
	eng := newFakeEngine(func(crystal.Structure, deform.Deformation) (engine.Outcome, error) {
		return goodOutcome(), nil
	})
	o := New(eng, tempStore(t), "run-1", DefaultOptions())
	defs := deform.ElasticitySet()

	if err := o.RunStructure(context.Background(), testStructure("mp-1"), defs); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := eng.totalCalls(); got != deform.ElasticityCount {
		t.Fatalf("expected %d engine calls, got %d", deform.ElasticityCount, got)
	}

	res, err := o.Collect("mp-1", defs)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(res) != deform.ElasticityCount {
		t.Fatalf("expected %d results, got %d", deform.ElasticityCount, len(res))
	}
	st := o.Stats()
	if st.Total != 12 || st.Converged != 12 || st.Failed != 0 || st.Cached != 0 {
		t.Fatalf("unexpected stats: %+v", st)
	}
}

func TestRunStructureIsIdempotent(t *testing.T) {
	eng := newFakeEngine(func(crystal.Structure, deform.Deformation) (engine.Outcome, error) {
		return goodOutcome(), nil
	})
	store := tempStore(t)
	defs := deform.PressureSet()

	o1 := New(eng, store, "run-1", DefaultOptions())
	if err := o1.RunStructure(context.Background(), testStructure("mp-1"), defs); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first, err := o1.Collect("mp-1", defs)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	// Second run over the same store: all cache hits, no recomputation.
	o2 := New(eng, store, "run-2", DefaultOptions())
	if err := o2.RunStructure(context.Background(), testStructure("mp-1"), defs); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if got := eng.totalCalls(); got != deform.PressureCount {
		t.Fatalf("recomputed cached keys: %d engine calls", got)
	}
	second, err := o2.Collect("mp-1", defs)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	for i := range first {
		if first[i].RunID != second[i].RunID || first[i].Energy != second[i].Energy {
			t.Fatalf("cached result drifted at %d", i)
		}
	}
	if st := o2.Stats(); st.Cached != deform.PressureCount {
		t.Fatalf("expected all cached, got %+v", st)
	}
}

func TestRunStructureRecordsFailuresWithoutAborting(t *testing.T) {
	// 100 and 150 GPa fail to converge, everything else is fine.
	eng := newFakeEngine(func(_ crystal.Structure, d deform.Deformation) (engine.Outcome, error) {
		out := goodOutcome()
		if d.PressureGPa >= 100 {
			out.Converged = false
			out.StepsUsed = 500
		}
		return out, nil
	})
	o := New(eng, tempStore(t), "run-1", DefaultOptions())
	defs := deform.PressureSet()

	if err := o.RunStructure(context.Background(), testStructure("mp-1"), defs); err != nil {
		t.Fatalf("run must not fail on non-convergence: %v", err)
	}
	res, err := o.Collect("mp-1", defs)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	var failed int
	for _, r := range res {
		if r.Status == results.StatusNonConverged {
			failed++
			if r.Reason == "" {
				t.Fatal("non-converged result must carry a reason")
			}
		}
	}
	if failed != 2 {
		t.Fatalf("expected 2 non-converged results, got %d", failed)
	}
}

func TestRunStructureClassifiesTransportFailureAsUnstable(t *testing.T) {
	eng := newFakeEngine(func(crystal.Structure, deform.Deformation) (engine.Outcome, error) {
		return engine.Outcome{}, errors.New("connection refused")
	})
	store := tempStore(t)
	o := New(eng, store, "run-1", DefaultOptions())
	defs := deform.PressureSet()[:1]

	if err := o.RunStructure(context.Background(), testStructure("mp-1"), defs); err != nil {
		t.Fatalf("run must not fail on engine unavailability: %v", err)
	}
	// Transport errors are retried maxAttempts times before giving up.
	if got := eng.totalCalls(); got != maxAttempts {
		t.Fatalf("expected %d attempts, got %d", maxAttempts, got)
	}
	res, err := o.Collect("mp-1", defs)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if res[0].Status != results.StatusUnstable {
		t.Fatalf("expected unstable, got %s", res[0].Status)
	}
	// The failure is this run's answer only, never a cache row.
	key := results.Key{StructureID: "mp-1", DeformationID: defs[0].ID()}
	if _, err := store.Get(key); !errors.Is(err, results.ErrNotFound) {
		t.Fatalf("engine-unreachable outcome must not be persisted, got %v", err)
	}
}

func TestEngineOutageDoesNotPoisonCache(t *testing.T) {
	store := tempStore(t)
	defs := deform.PressureSet()
	s := testStructure("mp-1")

	// First run with the engine down: every key fails on transport.
	down := newFakeEngine(func(crystal.Structure, deform.Deformation) (engine.Outcome, error) {
		return engine.Outcome{}, errors.New("connection refused")
	})
	o1 := New(down, store, "run-1", DefaultOptions())
	if err := o1.RunStructure(context.Background(), s, defs); err != nil {
		t.Fatalf("outage run: %v", err)
	}
	if st := o1.Stats(); st.Failed != deform.PressureCount {
		t.Fatalf("expected all keys failed, got %+v", st)
	}

	// Resumed run once the engine is back: every key is recomputed and the
	// healthy answers are the ones that stick.
	up := newFakeEngine(func(crystal.Structure, deform.Deformation) (engine.Outcome, error) {
		return goodOutcome(), nil
	})
	o2 := New(up, store, "run-2", DefaultOptions())
	if err := o2.RunStructure(context.Background(), s, defs); err != nil {
		t.Fatalf("resumed run: %v", err)
	}
	if got := up.totalCalls(); got != deform.PressureCount {
		t.Fatalf("expected %d recomputations, got %d", deform.PressureCount, got)
	}
	res, err := o2.Collect("mp-1", defs)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	for _, r := range res {
		if r.Status != results.StatusConverged || r.RunID != "run-2" {
			t.Fatalf("stale outage result survived: %+v", r)
		}
	}
	if st := o2.Stats(); st.Cached != 0 || st.Converged != deform.PressureCount {
		t.Fatalf("unexpected resumed stats: %+v", st)
	}
}

func TestClassifyNonPhysical(t *testing.T) {
	nanStress := goodOutcome()
	nanStress.StressGPa[1][1] = math.NaN()

	zeroVol := goodOutcome()
	zeroVol.Cell = [3][3]float64{}

	infEnergy := goodOutcome()
	infEnergy.Energy = math.Inf(1)

	for name, out := range map[string]engine.Outcome{
		"nan stress": nanStress, "zero volume": zeroVol, "inf energy": infEnergy,
	} {
		status, reason := Classify(out, nil)
		if status != results.StatusUnstable || reason == "" {
			t.Fatalf("%s: expected unstable with reason, got %s %q", name, status, reason)
		}
	}

	if status, _ := Classify(goodOutcome(), nil); status != results.StatusConverged {
		t.Fatalf("good outcome misclassified as %s", status)
	}
}

func TestCollectMissingKey(t *testing.T) {
	o := New(newFakeEngine(nil), tempStore(t), "run-1", DefaultOptions())
	if _, err := o.Collect("mp-never-run", deform.PressureSet()); !errors.Is(err, results.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
