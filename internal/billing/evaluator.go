// Package billing scores price curves against consumption datasets:
// per-household bills, total revenue, and cost recovery versus a
// target. Everything here is pure and deterministic.
package billing

import (
	"tariff-engine/internal/model"
)

// Evaluation is the billed outcome of one price curve over one dataset.
type Evaluation struct {
	TotalRevenue        float64               `json:"total_revenue"`
	TotalConsumptionKWh float64               `json:"total_consumption"`
	CostRecoveryTarget  float64               `json:"cost_recovery_target"`
	CostRecoveryPct     float64               `json:"cost_recovery_percentage"`
	AvgPricePerKWh      float64               `json:"avg_price_per_kwh"`
	HouseholdCosts      []model.HouseholdCost `json:"household_costs"`
}

// Evaluate bills every household under curve and scores total revenue
// against the cost-recovery target (cost_recovery_percentage =
// 100 * revenue / target). Fails with *model.ShapeMismatchError when
// the curve length does not match the dataset's time grid.
func Evaluate(ds *model.Dataset, curve model.PriceCurve, target float64) (*Evaluation, error) {
	if len(curve) != ds.Hours() {
		return nil, &model.ShapeMismatchError{CurveLen: len(curve), GridLen: ds.Hours()}
	}

	costs := make([]model.HouseholdCost, 0, ds.Households())
	totalRevenue := 0.0

	for _, id := range ds.HouseholdIDs() {
		series, _ := ds.SeriesFor(id)
		var consumed, cost float64
		for t, kwh := range series {
			consumed += kwh
			cost += curve[t] * kwh
		}
		avg := 0.0
		if consumed > 0 {
			avg = cost / consumed
		}
		costs = append(costs, model.HouseholdCost{
			HouseholdID:         id,
			TotalConsumptionKWh: consumed,
			TotalCost:           cost,
			AvgCostPerKWh:       avg,
		})
		totalRevenue += cost
	}

	total := ds.TotalConsumption()
	pct := 0.0
	if target > 0 {
		pct = 100 * totalRevenue / target
	}
	avgPrice := 0.0
	if total > 0 {
		avgPrice = totalRevenue / total
	}

	return &Evaluation{
		TotalRevenue:        totalRevenue,
		TotalConsumptionKWh: total,
		CostRecoveryTarget:  target,
		CostRecoveryPct:     pct,
		AvgPricePerKWh:      avgPrice,
		HouseholdCosts:      costs,
	}, nil
}

// AvgCosts extracts the avg_cost_per_kwh column, the input to the
// fairness metrics.
func AvgCosts(costs []model.HouseholdCost) []float64 {
	out := make([]float64, len(costs))
	for i, c := range costs {
		out[i] = c.AvgCostPerKWh
	}
	return out
}
