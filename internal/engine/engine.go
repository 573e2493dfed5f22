// Package engine composes datasets, pricing strategies, billing, and
// the optimizer into the operations the API and CLI expose.
package engine

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tariff-engine/internal/billing"
	"tariff-engine/internal/fairness"
	"tariff-engine/internal/model"
	"tariff-engine/internal/optimize"
	"tariff-engine/internal/strategy"
)

// StrategyRun names one strategy execution: which strategy, its raw
// parameters, and the revenue target. A zero target selects the
// default rate over the dataset's total consumption.
type StrategyRun struct {
	Type   strategy.Type
	Params map[string]any
	Target float64
}

// StrategyOutcome bundles everything scored for one executed strategy.
type StrategyOutcome struct {
	Type       strategy.Type
	Name       string
	Target     float64
	PriceCurve model.PriceCurve
	Evaluation *billing.Evaluation
	Fairness   fairness.Result
	Outliers   billing.Outliers
	Runtime    time.Duration
}

// Comparison holds per-strategy outcomes in input order plus the two
// headline winners. Ties go to the earlier entry.
type Comparison struct {
	Outcomes     []*StrategyOutcome
	BestFairness strategy.Type
	BestRevenue  strategy.Type
}

// Engine is safe for concurrent use.
type Engine struct {
	optimizer *optimize.Optimizer
}

func New(opt *optimize.Optimizer) *Engine { return &Engine{optimizer: opt} }

// NewDefault wires the gonum-backed optimizer.
func NewDefault() *Engine { return New(optimize.NewDefault()) }

// ExecuteStrategy prices the dataset with one strategy and scores the
// resulting curve.
func (e *Engine) ExecuteStrategy(ds *model.Dataset, run StrategyRun) (*StrategyOutcome, error) {
	strat, err := strategy.New(run.Type, run.Params)
	if err != nil {
		return nil, err
	}

	target := run.Target
	if target == 0 {
		target = strategy.DefaultTarget(ds)
	}
	if target < 0 {
		return nil, model.NewInvalidParameterError("target_revenue",
			"must not be negative, got %.4f", target)
	}

	start := time.Now()
	curve := strat.PriceCurve(ds, target)
	ev, err := billing.Evaluate(ds, curve, target)
	if err != nil {
		return nil, err
	}
	fm := fairness.Compute(billing.AvgCosts(ev.HouseholdCosts))

	out := &StrategyOutcome{
		Type:       strat.Type(),
		Name:       strat.Name(),
		Target:     target,
		PriceCurve: curve,
		Evaluation: ev,
		Fairness:   fm,
		Outliers:   billing.IdentifyOutliers(ev.HouseholdCosts, billing.DefaultOutlierCount),
		Runtime:    time.Since(start),
	}

	zap.L().Info("strategy executed",
		zap.String("strategy", string(out.Type)),
		zap.Float64("target", target),
		zap.Float64("revenue", ev.TotalRevenue),
		zap.Float64("gini", fm.GiniCoefficient),
		zap.Duration("runtime", out.Runtime))
	return out, nil
}

// CompareStrategies executes several strategies concurrently against
// the same dataset. Outcomes keep input order; the first error cancels
// the remaining work.
func (e *Engine) CompareStrategies(ctx context.Context, ds *model.Dataset, runs []StrategyRun) (*Comparison, error) {
	if len(runs) == 0 {
		return nil, model.NewInvalidParameterError("strategies", "at least one strategy is required")
	}

	g, gctx := errgroup.WithContext(ctx)
	outcomes := make([]*StrategyOutcome, len(runs))
	for i, run := range runs {
		i, run := i, run // per-iteration copies: module builds with go < 1.22
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := e.ExecuteStrategy(ds, run)
			if err != nil {
				return err
			}
			outcomes[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	fairest, richest := outcomes[0], outcomes[0]
	for _, out := range outcomes[1:] {
		if out.Fairness.GiniCoefficient < fairest.Fairness.GiniCoefficient {
			fairest = out
		}
		if out.Evaluation.TotalRevenue > richest.Evaluation.TotalRevenue {
			richest = out
		}
	}
	return &Comparison{
		Outcomes:     outcomes,
		BestFairness: fairest.Type,
		BestRevenue:  richest.Type,
	}, nil
}

// RunOptimization solves the constrained tariff program for the dataset.
func (e *Engine) RunOptimization(ctx context.Context, ds *model.Dataset, cons optimize.Constraints) (*optimize.Result, error) {
	res, err := e.optimizer.Run(ctx, ds, cons)
	if err != nil {
		return nil, err
	}
	zap.L().Info("optimization finished",
		zap.String("status", string(res.Status)),
		zap.Float64("objective", res.ObjectiveValue),
		zap.Float64("fairness_weight", res.FairnessWeightUsed),
		zap.Float64("profit_weight", res.ProfitWeightUsed),
		zap.Float64("runtime_seconds", res.RuntimeSeconds))
	return res, nil
}
