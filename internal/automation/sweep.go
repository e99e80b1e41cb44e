package automation

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/metrics"
	"github.com/san-kum/particlesim/internal/sim"
)

// ParameterSweep runs the same scenario across a range of one config value.
type ParameterSweep struct {
	Param    string
	Min      float64
	Max      float64
	NumSteps int

	Base     dynamo.Config
	Scene    sim.Scene
	Run      sim.RunConfig
	Scenario *Scenario
	Logger   *slog.Logger
}

// SweepResult holds the outcome of one sweep point.
type SweepResult struct {
	ParamValue float64
	Count      int
	Metrics    map[string]float64
	Errors     int
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("%w: num_steps=%d, want >= 1", dynamo.ErrParameterBounds, sweep.NumSteps)
	}
	log := sweep.Logger
	if log == nil {
		log = slog.Default()
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.Min + float64(i)*paramStep

		cfg := sweep.Base
		if err := cfg.SetParam(sweep.Param, paramVal); err != nil {
			return results, err
		}

		res, err := Evaluate(ctx, cfg, sweep.Scene, sweep.Run, sweep.Scenario)
		if err != nil {
			return results, fmt.Errorf("sweep %s=%g: %w", sweep.Param, paramVal, err)
		}

		results = append(results, SweepResult{
			ParamValue: paramVal,
			Count:      len(res.Final),
			Metrics:    res.Metrics,
			Errors:     len(res.Errors),
		})

		log.Info("sweep point complete",
			"index", i+1, "of", sweep.NumSteps,
			"param", sweep.Param, "value", paramVal,
			"bodies", len(res.Final))
	}

	return results, nil
}

// MonteCarloConfig jitters the emitter position between trials.
type MonteCarloConfig struct {
	Base         dynamo.Config
	Scene        sim.Scene
	Run          sim.RunConfig
	Scenario     *Scenario
	Perturbation float64
	NumTrials    int
	Seed         int64
	Logger       *slog.Logger
}

// MonteCarloResult holds statistics from Monte Carlo runs
type MonteCarloResult struct {
	TrialID int
	Emitter r2.Vec
	Count   int
	Metrics map[string]float64
	// Stable means every body stayed finite and inside the boundary.
	Stable bool
}

// RunMonteCarlo executes multiple trials with random emitter offsets
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	results := make([]MonteCarloResult, 0, cfg.NumTrials)
	for trial := 0; trial < cfg.NumTrials; trial++ {
		scene := cfg.Scene
		scene.Emitter = r2.Add(scene.Emitter, r2.Vec{
			X: (rng.Float64() - 0.5) * 2 * cfg.Perturbation,
			Y: (rng.Float64() - 0.5) * 2 * cfg.Perturbation,
		})

		res, err := Evaluate(ctx, cfg.Base, scene, cfg.Run, cfg.Scenario)
		if err != nil {
			return results, fmt.Errorf("trial %d: %w", trial, err)
		}

		results = append(results, MonteCarloResult{
			TrialID: trial,
			Emitter: scene.Emitter,
			Count:   len(res.Final),
			Metrics: res.Metrics,
			Stable:  len(res.Errors) == 0 && res.Metrics["containment"] == 1,
		})

		if (trial+1)%10 == 0 {
			log.Info("monte carlo progress", "done", trial+1, "of", cfg.NumTrials)
		}
	}

	return results, nil
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}

// Evaluate runs one scenario on a fresh simulation with the standard metrics.
func Evaluate(ctx context.Context, cfg dynamo.Config, scene sim.Scene, run sim.RunConfig, scenario *Scenario) (*sim.Result, error) {
	s, err := scene.Build(cfg)
	if err != nil {
		return nil, err
	}
	runner := sim.NewRunner(s, NewPlayer(scenario))
	for _, m := range metrics.Standard() {
		runner.AddMetric(m)
	}
	return runner.Run(ctx, run)
}
