// Package orchestrator fans (structure, deformation) relaxations out to the
// external engine over a bounded worker pool, classifies every answer, and
// records exactly one immutable result per key in the results store.
package orchestrator

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JonathanSchmidt1/ml-peg/internal/crystal"
	"github.com/JonathanSchmidt1/ml-peg/internal/deform"
	"github.com/JonathanSchmidt1/ml-peg/internal/engine"
	"github.com/JonathanSchmidt1/ml-peg/internal/results"
)

// #region orchestrator-struct

// Orchestrator coordinates relaxations for one run. Safe for concurrent use
// across structures; the store provides per-key write exclusivity.
//
// Engine-unreachable failures are environmental, not physical: they are kept
// in an in-memory overlay for this run's collection and never persisted, so
// a resumed run recomputes those keys once the engine is back.
type Orchestrator struct {
	eng   engine.Evaluator
	store *results.Store
	opts  Options
	runID string

	mu        sync.Mutex
	stats     Stats
	transient map[results.Key]results.Result
}

// #endregion

// #region constructor

// New creates an orchestrator writing results under the given run ID.
func New(eng engine.Evaluator, store *results.Store, runID string, opts Options) *Orchestrator {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Orchestrator{
		eng:       eng,
		store:     store,
		opts:      opts,
		runID:     runID,
		transient: map[results.Key]results.Result{},
	}
}

// #endregion

// #region run-structure

// RunStructure relaxes every deformation of one structure, at most once per
// key. Keys already present in the store are counted as cache hits and left
// untouched, which is what makes interrupted runs resumable. Individual
// relaxation failures are recorded, never returned; the error covers store
// access and context cancellation only.
func (o *Orchestrator) RunStructure(ctx context.Context, s crystal.Structure, defs []deform.Deformation) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.opts.Workers)

	for _, d := range defs {
		g.Go(func() error {
			return o.runOne(ctx, s, d)
		})
	}
	return g.Wait()
}

func (o *Orchestrator) runOne(ctx context.Context, s crystal.Structure, d deform.Deformation) error {
	key := results.Key{StructureID: s.ID, DeformationID: d.ID()}

	if _, err := o.store.Get(key); err == nil {
		o.bump(func(st *Stats) { st.Total++; st.Cached++ })
		return nil
	} else if !errors.Is(err, results.ErrNotFound) {
		return err
	}

	tol := o.opts.StrainTol
	if d.Kind == deform.KindPressure {
		tol = o.opts.PressureTol
	}

	out, evalErr := evaluateWithRetry(ctx, o.eng, s, d, tol)
	if evalErr != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	status, reason := Classify(out, evalErr)

	rec := results.Result{
		Key:       key,
		RunID:     o.runID,
		Cell:      out.Cell,
		Positions: out.Positions,
		Energy:    out.Energy,
		Forces:    out.Forces,
		StressGPa: out.StressGPa,
		Status:    status,
		Reason:    reason,
		StepsUsed: out.StepsUsed,
		CreatedAt: time.Now().UTC(),
	}

	if evalErr != nil {
		// The engine never answered: hold the failure for this run only.
		// Persisting it would serve a dead connection as a cache hit on
		// every future run.
		log.Printf("[ORCH] %s/%s: %s (%s)", key.StructureID, key.DeformationID, status, reason)
		o.mu.Lock()
		o.transient[key] = rec
		o.stats.Total++
		o.stats.Failed++
		o.mu.Unlock()
		return nil
	}

	wrote, err := o.store.PutOnce(rec)
	if err != nil {
		return err
	}
	if !wrote {
		// Another worker got there first; its result is authoritative.
		o.bump(func(st *Stats) { st.Total++; st.Cached++ })
		return nil
	}

	if status != results.StatusConverged {
		log.Printf("[ORCH] %s/%s: %s (%s)", key.StructureID, key.DeformationID, status, reason)
	}
	o.bump(func(st *Stats) {
		st.Total++
		if status == results.StatusConverged {
			st.Converged++
		} else {
			st.Failed++
		}
	})
	return nil
}

// #endregion

// #region collect

// Collect returns the full result set for a structure in deformation-set
// order. Every key must be present (converged or failed); estimation must
// never race ahead on partial data. Keys that failed on transport this run
// come from the in-memory overlay; ErrNotFound means RunStructure was not
// completed for this structure.
func (o *Orchestrator) Collect(structureID string, defs []deform.Deformation) ([]results.Result, error) {
	out := make([]results.Result, 0, len(defs))
	for _, d := range defs {
		key := results.Key{StructureID: structureID, DeformationID: d.ID()}
		r, err := o.store.Get(key)
		if errors.Is(err, results.ErrNotFound) {
			var ok bool
			if r, ok = o.transientFor(key); !ok {
				return nil, err
			}
		} else if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (o *Orchestrator) transientFor(key results.Key) (results.Result, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	r, ok := o.transient[key]
	return r, ok
}

// #endregion

// #region stats

// Stats returns a snapshot of the run counters.
func (o *Orchestrator) Stats() Stats {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stats
}

func (o *Orchestrator) bump(f func(*Stats)) {
	o.mu.Lock()
	f(&o.stats)
	o.mu.Unlock()
}

// #endregion
