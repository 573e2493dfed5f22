package model

// PriceCurve is an ordered sequence of per-hour prices (currency/kWh),
// index-aligned with a dataset's time grid. Produced by a pricing
// strategy or by the optimizer; consumed by the cost evaluator.
type PriceCurve []float64

// HouseholdCost is the billed outcome for one household under a price
// curve. Derived once, never mutated.
type HouseholdCost struct {
	HouseholdID         int     `json:"household_id"`
	TotalConsumptionKWh float64 `json:"total_consumption_kwh"`
	TotalCost           float64 `json:"total_cost"`
	AvgCostPerKWh       float64 `json:"avg_cost_per_kwh"`
}
