// Package optimize solves the constrained fairness/profit tariff
// program: find an hourly price vector inside the price box whose
// revenue stays inside the cost-recovery band, maximizing a weighted
// blend of profit and price-curve flatness.
package optimize

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
	"gonum.org/v1/gonum/stat"

	"tariff-engine/internal/billing"
	"tariff-engine/internal/fairness"
	"tariff-engine/internal/model"
)

// Mode selects the regulatory regime for the revenue band.
type Mode string

const (
	// ModeRegulated clamps the lower recovery bound to 100% of the
	// target: the utility may not plan a loss.
	ModeRegulated Mode = "regulated"
	// ModeMarket keeps the lower bound as given, permitting deliberate
	// under-recovery.
	ModeMarket Mode = "market"
)

// ParseMode resolves a raw mode tag; empty means ModeRegulated.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeRegulated, ModeMarket:
		return Mode(s), nil
	case "":
		return ModeRegulated, nil
	default:
		return "", model.NewInvalidParameterError("mode",
			"unknown mode %q (expected regulated or market)", s)
	}
}

// Defaults applied by Run when the corresponding Constraints fields are
// left zero.
const (
	DefaultMinPrice           = 0.05
	DefaultMaxPrice           = 0.50
	DefaultMinCostRecoveryPct = 100.0
	DefaultMaxCostRecoveryPct = 150.0
	DefaultSolverTimeout      = 30 * time.Second
)

// Constraints parameterize one optimization solve. They are owned by
// that call and never mutated by it. Zero values select defaults for
// Mode, SolverTimeout, and CostRecoveryTarget (total consumption priced
// at the midpoint of the price bounds); the price box and recovery band
// default only when both of their fields are zero.
type Constraints struct {
	FairnessWeight float64
	ProfitWeight   float64

	Mode Mode

	// Revenue band as percentages of CostRecoveryTarget.
	MinCostRecoveryPct float64
	MaxCostRecoveryPct float64
	// CostRecoveryTarget in currency units. Must resolve positive.
	CostRecoveryTarget float64

	// Price box, currency per kWh.
	MinPrice float64
	MaxPrice float64

	SolverTimeout time.Duration
}

func (c Constraints) withDefaults(ds *model.Dataset) Constraints {
	if c.Mode == "" {
		c.Mode = ModeRegulated
	}
	if c.MinPrice == 0 && c.MaxPrice == 0 {
		c.MinPrice, c.MaxPrice = DefaultMinPrice, DefaultMaxPrice
	}
	if c.MinCostRecoveryPct == 0 && c.MaxCostRecoveryPct == 0 {
		c.MinCostRecoveryPct, c.MaxCostRecoveryPct = DefaultMinCostRecoveryPct, DefaultMaxCostRecoveryPct
	}
	if c.CostRecoveryTarget == 0 {
		c.CostRecoveryTarget = ds.TotalConsumption() * (c.MinPrice + c.MaxPrice) / 2
	}
	if c.SolverTimeout == 0 {
		c.SolverTimeout = DefaultSolverTimeout
	}
	return c
}

// Validate fails fast with *model.InvalidParameterError so no solver
// work starts on bad input.
func (c Constraints) Validate() error {
	if c.FairnessWeight < 0 || c.FairnessWeight > 1 {
		return model.NewInvalidParameterError("fairness_weight", "%.3f outside [0, 1]", c.FairnessWeight)
	}
	if c.ProfitWeight < 0 || c.ProfitWeight > 1 {
		return model.NewInvalidParameterError("profit_weight", "%.3f outside [0, 1]", c.ProfitWeight)
	}
	if sum := c.FairnessWeight + c.ProfitWeight; sum > 1 {
		return model.NewInvalidParameterError("weights",
			"fairness %.3f + profit %.3f = %.3f exceeds 1", c.FairnessWeight, c.ProfitWeight, sum)
	}
	if c.Mode != ModeRegulated && c.Mode != ModeMarket {
		return model.NewInvalidParameterError("mode", "unknown mode %q", string(c.Mode))
	}
	if c.MinCostRecoveryPct < 0 {
		return model.NewInvalidParameterError("min_cost_recovery_pct", "%.1f%% is negative", c.MinCostRecoveryPct)
	}
	if c.MaxCostRecoveryPct < c.MinCostRecoveryPct {
		return model.NewInvalidParameterError("cost_recovery_bounds",
			"min %.1f%% exceeds max %.1f%%", c.MinCostRecoveryPct, c.MaxCostRecoveryPct)
	}
	if c.CostRecoveryTarget <= 0 {
		return model.NewInvalidParameterError("cost_recovery_target",
			"must be positive, got %.4f", c.CostRecoveryTarget)
	}
	if c.MinPrice < 0 {
		return model.NewInvalidParameterError("min_price", "%.4f is negative", c.MinPrice)
	}
	if c.MaxPrice < c.MinPrice {
		return model.NewInvalidParameterError("price_bounds",
			"min_price %.4f exceeds max_price %.4f", c.MinPrice, c.MaxPrice)
	}
	if c.SolverTimeout <= 0 {
		return model.NewInvalidParameterError("solver_timeout", "must be positive, got %s", c.SolverTimeout)
	}
	return nil
}

// Optimizer solves the tariff program through a pluggable LP backend.
//
// Formulation: decision variables are the hourly prices p_t inside the
// price box, a free mean m with Σp_t = H·m, and nonnegative deviation
// splits d⁺_t, d⁻_t with p_t − m = d⁺_t − d⁻_t. Revenue Σ L_t·p_t is
// held inside the recovery band. The objective maximizes
//
//	profit_weight·(revenue/revNorm) + fairness_weight·(1 − Σ(d⁺+d⁻)/devNorm)
//
// where revNorm = MaxPrice · total consumption and devNorm =
// H·(MaxPrice − MinPrice) put both terms on comparable [0,1] scales
// (a degenerate norm drops its term). The deviation sum is the L1
// surrogate for curve flatness: a flat curve charges every household
// the same average rate, which drives the non-linear Gini to zero.
// True Gini is always recomputed from the solved curve afterward.
type Optimizer struct {
	solver Solver
}

// New builds an Optimizer on the given LP backend.
func New(solver Solver) *Optimizer { return &Optimizer{solver: solver} }

// NewDefault uses the gonum simplex backend.
func NewDefault() *Optimizer { return New(Simplex{}) }

// Run executes one solve end to end. Parameter problems fail fast with
// *model.InvalidParameterError before any solver work; everything after
// that surfaces through Result.Status.
// Infeasible, TimedOut, and Error are outcomes, not Go errors. A solve
// that exhausts its budget returns the flat incumbent curve with
// StatusFeasible.
func (o *Optimizer) Run(ctx context.Context, ds *model.Dataset, cons Constraints) (*Result, error) {
	start := time.Now()

	cons = cons.withDefaults(ds)
	if err := cons.Validate(); err != nil {
		return nil, err
	}

	load := ds.LoadProfile()
	total := ds.TotalConsumption()

	lo := cons.MinCostRecoveryPct / 100 * cons.CostRecoveryTarget
	hi := cons.MaxCostRecoveryPct / 100 * cons.CostRecoveryTarget
	if cons.Mode == ModeRegulated && lo < cons.CostRecoveryTarget {
		lo = cons.CostRecoveryTarget
	}

	shell := func(status Status, diag string) *Result {
		return &Result{
			Status:             status,
			Diagnostic:         diag,
			RuntimeSeconds:     time.Since(start).Seconds(),
			FairnessWeightUsed: cons.FairnessWeight,
			ProfitWeightUsed:   cons.ProfitWeight,
		}
	}

	// Feasibility pre-check: revenue achievable inside the price box
	// must intersect the recovery band.
	minRev := cons.MinPrice * total
	maxRev := cons.MaxPrice * total
	if lo > hi || maxRev < lo || minRev > hi {
		return shell(StatusInfeasible, fmt.Sprintf(
			"achievable revenue [%.4f, %.4f] cannot meet recovery band [%.4f, %.4f]",
			minRev, maxRev, lo, hi)), nil
	}

	incumbent := flatIncumbent(ds, cons, lo, hi)
	prob := buildProblem(load, total, cons, lo, hi)

	solveCtx, cancel := context.WithTimeout(ctx, cons.SolverTimeout)
	defer cancel()

	sol, err := o.solver.Solve(solveCtx, prob)

	switch {
	case err == nil:
		h := ds.Hours()
		curve := make(model.PriceCurve, h)
		for t := 0; t < h; t++ {
			// Snap solver tolerance residue back into the price box.
			curve[t] = clamp(sol.X[t], cons.MinPrice, cons.MaxPrice)
		}
		return o.finish(ds, cons, curve, StatusOptimal, "", start)
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		if incumbent == nil {
			return shell(StatusTimedOut, fmt.Sprintf(
				"solver exceeded its %s budget with no feasible incumbent", cons.SolverTimeout)), nil
		}
		return o.finish(ds, cons, incumbent, StatusFeasible, fmt.Sprintf(
			"solver exceeded its %s budget; returning the flat incumbent", cons.SolverTimeout), start)
	case errors.Is(err, lp.ErrInfeasible):
		return shell(StatusInfeasible, "solver reported the constraints infeasible"), nil
	default:
		return shell(StatusError, err.Error()), nil
	}
}

// finish scores the final curve and assembles the immutable Result.
func (o *Optimizer) finish(ds *model.Dataset, cons Constraints, curve model.PriceCurve,
	status Status, diag string, start time.Time) (*Result, error) {

	ev, err := billing.Evaluate(ds, curve, cons.CostRecoveryTarget)
	if err != nil {
		return nil, err
	}
	fm := fairness.Compute(billing.AvgCosts(ev.HouseholdCosts))

	prices := []float64(curve)
	return &Result{
		Status:             status,
		Diagnostic:         diag,
		PriceCurve:         curve,
		ObjectiveValue:     objectiveValue(curve, ds.LoadProfile(), cons),
		RuntimeSeconds:     time.Since(start).Seconds(),
		FairnessWeightUsed: cons.FairnessWeight,
		ProfitWeightUsed:   cons.ProfitWeight,
		Evaluation:         ev,
		Fairness:           fm,
		RevenueShortfall:   math.Max(0, cons.CostRecoveryTarget-ev.TotalRevenue),
		RevenueExcess:      math.Max(0, ev.TotalRevenue-cons.CostRecoveryTarget),
		MeanPrice:          stat.Mean(prices, nil),
		PriceStd:           stat.PopStdDev(prices, nil),
		PriceMin:           floats.Min(prices),
		PriceMax:           floats.Max(prices),
	}, nil
}

// objectiveValue recomputes the maximized objective from a curve, so
// the reported number never depends on solver-internal bookkeeping.
func objectiveValue(curve model.PriceCurve, load []float64, cons Constraints) float64 {
	revNorm := cons.MaxPrice * floats.Sum(load)
	devNorm := float64(len(curve)) * (cons.MaxPrice - cons.MinPrice)

	obj := 0.0
	if revNorm > 0 {
		obj += cons.ProfitWeight * (floats.Dot(curve, load) / revNorm)
	}
	if devNorm > 0 {
		mean := stat.Mean(curve, nil)
		dev := 0.0
		for _, p := range curve {
			dev += math.Abs(p - mean)
		}
		obj += cons.FairnessWeight * (1 - dev/devNorm)
	} else {
		// Equal price bounds force a perfectly flat curve.
		obj += cons.FairnessWeight
	}
	return obj
}

// flatIncumbent is the feasible fallback recorded before the LP runs:
// the uniform rate nearest target/total that honors both the recovery
// band and the price box. The pre-check guarantees such a rate exists.
func flatIncumbent(ds *model.Dataset, cons Constraints, lo, hi float64) model.PriceCurve {
	total := ds.TotalConsumption()
	rate := cons.MinPrice
	if total > 0 {
		rate = clamp(cons.CostRecoveryTarget/total, lo/total, hi/total)
		rate = clamp(rate, cons.MinPrice, cons.MaxPrice)
	}
	curve := make(model.PriceCurve, ds.Hours())
	for t := range curve {
		curve[t] = rate
	}
	return curve
}

// buildProblem lays the program out for the Solver. Variable order:
// [p_0..p_{H-1}, m, d⁺_0..d⁺_{H-1}, d⁻_0..d⁻_{H-1}].
func buildProblem(load []float64, total float64, cons Constraints, lo, hi float64) Problem {
	h := len(load)
	n := 3*h + 1
	iM := h
	iDp := func(t int) int { return h + 1 + t }
	iDn := func(t int) int { return 2*h + 1 + t }

	revNorm := cons.MaxPrice * total
	devNorm := float64(h) * (cons.MaxPrice - cons.MinPrice)

	// Minimize the negated objective.
	c := make([]float64, n)
	if revNorm > 0 {
		for t, l := range load {
			c[t] = -cons.ProfitWeight * l / revNorm
		}
	}
	if devNorm > 0 {
		for t := 0; t < h; t++ {
			c[iDp(t)] = cons.FairnessWeight / devNorm
			c[iDn(t)] = cons.FairnessWeight / devNorm
		}
	}

	// Equalities: the mean definition, then one deviation split per hour.
	a := mat.NewDense(1+h, n, nil)
	b := make([]float64, 1+h)
	for t := 0; t < h; t++ {
		a.Set(0, t, 1)
	}
	a.Set(0, iM, -float64(h))
	for t := 0; t < h; t++ {
		r := 1 + t
		a.Set(r, t, 1)
		a.Set(r, iM, -1)
		a.Set(r, iDp(t), -1)
		a.Set(r, iDn(t), 1)
	}

	// Inequalities: revenue band, price box, deviation nonnegativity.
	// With zero total consumption every curve earns zero revenue (the
	// pre-check already admitted it), so the band rows are omitted
	// rather than degenerating to all-zero rows.
	band := total > 0
	gRows := 4 * h
	if band {
		gRows += 2
	}
	g := mat.NewDense(gRows, n, nil)
	hvec := make([]float64, gRows)

	r := 0
	if band {
		for t, l := range load {
			g.Set(r, t, l)
			g.Set(r+1, t, -l)
		}
		hvec[r] = hi
		hvec[r+1] = -lo
		r += 2
	}
	for t := 0; t < h; t++ {
		g.Set(r, t, 1)
		hvec[r] = cons.MaxPrice
		r++
		g.Set(r, t, -1)
		hvec[r] = -cons.MinPrice
		r++
	}
	for t := 0; t < h; t++ {
		g.Set(r, iDp(t), -1)
		r++
		g.Set(r, iDn(t), -1)
		r++
	}

	return Problem{C: c, G: g, H: hvec, A: a, B: b}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
