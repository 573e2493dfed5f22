package optimize

import (
	"tariff-engine/internal/billing"
	"tariff-engine/internal/fairness"
	"tariff-engine/internal/model"
)

// Status is the terminal outcome of one solve. These are results, not
// errors: callers render Infeasible, TimedOut, and Error to end users
// the same way they render Optimal.
type Status string

const (
	// StatusOptimal: the solver proved optimality within the time budget.
	StatusOptimal Status = "Optimal"
	// StatusFeasible: a feasible curve is returned, but optimality was
	// not proven (the solver ran out of time and the incumbent stands).
	StatusFeasible Status = "Feasible"
	// StatusInfeasible: the constraints admit no price curve at all.
	StatusInfeasible Status = "Infeasible"
	// StatusTimedOut: the budget expired with no feasible incumbent.
	StatusTimedOut Status = "TimedOut"
	// StatusError: the solver failed numerically; see Diagnostic.
	StatusError Status = "Error"
)

// Succeeded reports whether the result carries a usable price curve.
func (s Status) Succeeded() bool {
	return s == StatusOptimal || s == StatusFeasible
}

// Result is the immutable outcome of one optimization solve,
// constructed atomically at the end of the call.
type Result struct {
	Status     Status
	Diagnostic string // why, for Infeasible / TimedOut / Error

	// PriceCurve is nil unless Status.Succeeded().
	PriceCurve model.PriceCurve

	// ObjectiveValue is recomputed from the final curve:
	// profit_weight*(revenue/revNorm) + fairness_weight*(1 - deviation/devNorm).
	ObjectiveValue float64
	RuntimeSeconds float64

	FairnessWeightUsed float64
	ProfitWeightUsed   float64

	// Exact post-solve scoring of the returned curve; nil/zero unless
	// Status.Succeeded().
	Evaluation       *billing.Evaluation
	Fairness         fairness.Result
	RevenueShortfall float64
	RevenueExcess    float64

	MeanPrice float64
	PriceStd  float64
	PriceMin  float64
	PriceMax  float64
}
