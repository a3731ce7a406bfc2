// Command benchmark runs one model's moduli benchmark end to end: relax
// every (structure, deformation) pair through the external engine, estimate
// moduli, apply the exclusion filter, and write the aggregate metric table.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JonathanSchmidt1/ml-peg/internal/config"
	"github.com/JonathanSchmidt1/ml-peg/internal/crystal"
	"github.com/JonathanSchmidt1/ml-peg/internal/dataset"
	"github.com/JonathanSchmidt1/ml-peg/internal/deform"
	"github.com/JonathanSchmidt1/ml-peg/internal/elastic"
	"github.com/JonathanSchmidt1/ml-peg/internal/engine"
	"github.com/JonathanSchmidt1/ml-peg/internal/eos"
	"github.com/JonathanSchmidt1/ml-peg/internal/filter"
	"github.com/JonathanSchmidt1/ml-peg/internal/metrics"
	"github.com/JonathanSchmidt1/ml-peg/internal/orchestrator"
	"github.com/JonathanSchmidt1/ml-peg/internal/results"
)

// #region main

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := deform.Validate(); err != nil {
		log.Fatalf("deformation sets: %v", err)
	}

	structures, err := dataset.LoadStructures(cfg.StructuresPath)
	if err != nil {
		log.Fatalf("load structures: %v", err)
	}
	refs, err := dataset.LoadReferences(cfg.ReferencesPath)
	if err != nil {
		log.Fatalf("load references: %v", err)
	}

	store, err := results.NewStore(cfg.StorePath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer store.Close()

	eng, err := engine.NewClient(cfg.EngineAddr)
	if err != nil {
		log.Fatalf("connect engine at %s: %v", cfg.EngineAddr, err)
	}
	defer eng.Close()

	runID, err := store.BeginRun(cfg.ModelID, cfg.Mode)
	if err != nil {
		log.Fatalf("begin run: %v", err)
	}
	orch := orchestrator.New(eng, store, runID, cfg.OrchestratorOptions())

	log.Printf("[BENCH] run %s: model=%s mode=%s structures=%d", runID, cfg.ModelID, cfg.Mode, len(structures))

	ctx := context.Background()
	start := time.Now()
	if err := relaxAll(ctx, orch, structures, cfg); err != nil {
		log.Fatalf("relaxation phase: %v", err)
	}

	report, err := estimateAndAggregate(orch, structures, refs, cfg)
	if err != nil {
		log.Fatalf("estimation phase: %v", err)
	}
	report.RunID = runID

	outDir := filepath.Join(cfg.OutDir, cfg.ModelID)
	if err := writeReport(outDir, report); err != nil {
		log.Fatalf("write report: %v", err)
	}

	st := orch.Stats()
	if err := store.FinishRun(runID, st.Total, st.Converged, st.Failed); err != nil {
		log.Fatalf("finish run: %v", err)
	}
	log.Printf("[BENCH] done in %s: %d relaxations (%d cached, %d converged, %d failed), report in %s",
		time.Since(start).Round(time.Second), st.Total, st.Cached, st.Converged, st.Failed, outDir)
}

// #endregion main

// #region relax

// relaxAll fans structures out over a bounded group; each structure's
// deformations fan out again inside the orchestrator. Engine failures are
// recorded per key and never abort the run.
func relaxAll(ctx context.Context, orch *orchestrator.Orchestrator, structures []crystal.Structure, cfg config.Config) error {
	for _, mode := range cfg.Modes() {
		defs, err := deform.ForMode(mode)
		if err != nil {
			return err
		}
		g, ctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.Workers)
		for _, s := range structures {
			g.Go(func() error {
				return orch.RunStructure(ctx, s, defs)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		log.Printf("[BENCH] %s schedule complete", mode)
	}
	return nil
}

// #endregion relax

// #region estimate

// structureEstimate is the per-structure debug surface written alongside
// the metric table.
type structureEstimate struct {
	StructureID string           `json:"structure_id"`
	Elastic     *elasticEstimate `json:"elastic,omitempty"`
	EOS         *eosEstimate     `json:"eos,omitempty"`
}

type elasticEstimate struct {
	Available    bool          `json:"available"`
	Reason       string        `json:"reason,omitempty"`
	BulkGPa      float64       `json:"bulk_gpa"`
	ShearGPa     float64       `json:"shear_gpa"`
	BulkVoigt    float64       `json:"bulk_voigt"`
	BulkReuss    float64       `json:"bulk_reuss"`
	ShearVoigt   float64       `json:"shear_voigt"`
	ShearReuss   float64       `json:"shear_reuss"`
	Stiffness    [6][6]float64 `json:"stiffness_gpa"`
	Flags        []string      `json:"flags,omitempty"`
	AsymmetryGPa float64       `json:"asymmetry_gpa"`
}

type eosEstimate struct {
	BulkAvailable        bool     `json:"bulk_available"`
	BulkReason           string   `json:"bulk_reason,omitempty"`
	BulkGPa              float64  `json:"bulk_gpa"`
	CompressionAvailable bool     `json:"compression_available"`
	Compression          float64  `json:"compression"`
	Points               int      `json:"points"`
	Flags                []string `json:"flags,omitempty"`
	RMSResidual          float64  `json:"rms_residual"`
}

type runReport struct {
	ModelID     string                             `json:"model_id"`
	RunID       string                             `json:"run_id"`
	GeneratedAt string                             `json:"generated_at"`
	Metrics     map[string]metrics.AggregateMetric `json:"metrics"`
	Estimates   []structureEstimate                `json:"-"`
}

func estimateAndAggregate(orch *orchestrator.Orchestrator, structures []crystal.Structure, refs map[string]crystal.ReferenceRecord, cfg config.Config) (*runReport, error) {
	runElastic, runPressure := false, false
	for _, m := range cfg.Modes() {
		switch m {
		case deform.ModeElasticity:
			runElastic = true
		case deform.ModePressure:
			runPressure = true
		}
	}
	strainDefs := deform.ElasticitySet()
	pressureDefs := deform.PressureSet()

	rep := &runReport{ModelID: cfg.ModelID, GeneratedAt: time.Now().UTC().Format(time.RFC3339)}
	perMetric := map[string][]metrics.Entry{}

	for _, s := range structures {
		var ref *crystal.ReferenceRecord
		if r, ok := refs[s.ID]; ok {
			ref = &r
		}
		se := structureEstimate{StructureID: s.ID}

		if runElastic {
			res, err := orch.Collect(s.ID, strainDefs)
			if err != nil {
				return nil, fmt.Errorf("collect strain results for %s: %w", s.ID, err)
			}
			est := elastic.FromResults(res, strainDefs)
			se.Elastic = &elasticEstimate{
				Available: est.Available, Reason: est.Reason,
				BulkGPa: est.BulkGPa, ShearGPa: est.ShearGPa,
				BulkVoigt: est.BulkVoigt, BulkReuss: est.BulkReuss,
				ShearVoigt: est.ShearVoigt, ShearReuss: est.ShearReuss,
				Stiffness: est.Stiffness, Flags: est.Flags, AsymmetryGPa: est.AsymmetryGPa,
			}

			d := filter.Decide(s, est.Available, ref)
			addEntry(perMetric, metrics.BulkModulusMAE, s.ID, d, est.Available, est.BulkGPa, ref, func(r crystal.ReferenceRecord) float64 { return r.BulkModulusGPa })
			addEntry(perMetric, metrics.ShearModulusMAE, s.ID, d, est.Available, est.ShearGPa, ref, func(r crystal.ReferenceRecord) float64 { return r.ShearModulusGPa })
		}
		if runPressure {
			res, err := orch.Collect(s.ID, pressureDefs)
			if err != nil {
				return nil, fmt.Errorf("collect pressure results for %s: %w", s.ID, err)
			}
			est := eos.FromResults(res, pressureDefs)
			se.EOS = &eosEstimate{
				BulkAvailable: est.BulkAvailable, BulkReason: est.BulkReason, BulkGPa: est.BulkGPa,
				CompressionAvailable: est.CompressionAvailable, Compression: est.Compression,
				Points: est.Points, Flags: est.Flags, RMSResidual: est.RMSResidual,
			}

			dc := filter.Decide(s, est.CompressionAvailable, ref)
			addEntry(perMetric, metrics.VolumeCompressionMAE, s.ID, dc, est.CompressionAvailable, est.Compression, ref, func(r crystal.ReferenceRecord) float64 { return r.VolumeCompression })
			db := filter.Decide(s, est.BulkAvailable, ref)
			addEntry(perMetric, metrics.PressureBulkModulusMAE, s.ID, db, est.BulkAvailable, est.BulkGPa, ref, func(r crystal.ReferenceRecord) float64 { return r.PressureBulkModulusGPa })
		}
		rep.Estimates = append(rep.Estimates, se)
	}

	rep.Metrics = metrics.AggregateModel(perMetric)
	return rep, nil
}

func addEntry(perMetric map[string][]metrics.Entry, name, id string, d filter.Decision, available bool, predicted float64, ref *crystal.ReferenceRecord, pick func(crystal.ReferenceRecord) float64) {
	if !available {
		predicted = math.NaN()
	}
	reference := math.NaN()
	if ref != nil {
		reference = pick(*ref)
	}
	perMetric[name] = append(perMetric[name], metrics.Entry{
		StructureID: id, Decision: d, Predicted: predicted, Reference: reference,
	})
}

// #endregion estimate

// #region output

// writeReport writes metrics.json and estimates.json under outDir.
func writeReport(outDir string, rep *runReport) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", outDir, err)
	}
	if err := writeJSON(filepath.Join(outDir, "metrics.json"), rep); err != nil {
		return err
	}
	return writeJSON(filepath.Join(outDir, "estimates.json"), rep.Estimates)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// #endregion output
