// Package config loads benchmark run settings from environment variables.
// This is the only layer allowed to fail a run before it starts; everything
// past Load degrades per structure instead of aborting.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/JonathanSchmidt1/ml-peg/internal/deform"
	"github.com/JonathanSchmidt1/ml-peg/internal/engine"
	"github.com/JonathanSchmidt1/ml-peg/internal/orchestrator"
)

// #region config

// ModeBoth runs the elasticity and pressure schedules back to back.
const ModeBoth = "both"

// Config holds one benchmark run's settings.
type Config struct {
	EngineAddr     string  `env:"MLPEG_ENGINE_ADDR" envDefault:"localhost:50051"`
	StorePath      string  `env:"MLPEG_STORE_PATH" envDefault:"mlpeg_results.db"`
	Workers        int     `env:"MLPEG_WORKERS" envDefault:"4"`
	StrainFmax     float64 `env:"MLPEG_STRAIN_FMAX" envDefault:"0.02"`
	PressureFmax   float64 `env:"MLPEG_PRESSURE_FMAX" envDefault:"0.05"`
	MaxSteps       int     `env:"MLPEG_MAX_STEPS" envDefault:"500"`
	Mode           string  `env:"MLPEG_MODE" envDefault:"both"`
	ModelID        string  `env:"MLPEG_MODEL_ID" envDefault:"default"`
	StructuresPath string  `env:"MLPEG_STRUCTURES" envDefault:"structures.json"`
	ReferencesPath string  `env:"MLPEG_REFERENCES" envDefault:"references.json"`
	OutDir         string  `env:"MLPEG_OUT_DIR" envDefault:"out"`
}

// #endregion config

// #region load

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("MLPEG_WORKERS must be >= 1, got %d", c.Workers)
	}
	if c.StrainFmax <= 0 {
		return fmt.Errorf("MLPEG_STRAIN_FMAX must be > 0, got %g", c.StrainFmax)
	}
	if c.PressureFmax <= 0 {
		return fmt.Errorf("MLPEG_PRESSURE_FMAX must be > 0, got %g", c.PressureFmax)
	}
	if c.MaxSteps < 1 {
		return fmt.Errorf("MLPEG_MAX_STEPS must be >= 1, got %d", c.MaxSteps)
	}
	switch c.Mode {
	case string(deform.ModeElasticity), string(deform.ModePressure), ModeBoth:
	default:
		return fmt.Errorf("MLPEG_MODE must be elasticity, pressure, or both, got %q", c.Mode)
	}
	if c.ModelID == "" {
		return fmt.Errorf("MLPEG_MODEL_ID must not be empty")
	}
	return nil
}

// #endregion load

// #region derive

// OrchestratorOptions maps the run settings onto the worker pool and the
// per-kind convergence tolerances.
func (c Config) OrchestratorOptions() orchestrator.Options {
	return orchestrator.Options{
		Workers:     c.Workers,
		StrainTol:   engine.Tolerances{Fmax: c.StrainFmax, MaxSteps: c.MaxSteps},
		PressureTol: engine.Tolerances{Fmax: c.PressureFmax, MaxSteps: c.MaxSteps},
	}
}

// Modes expands the run mode into the deformation modes to execute.
func (c Config) Modes() []deform.Mode {
	if c.Mode == ModeBoth {
		return []deform.Mode{deform.ModeElasticity, deform.ModePressure}
	}
	return []deform.Mode{deform.Mode(c.Mode)}
}

// #endregion derive
