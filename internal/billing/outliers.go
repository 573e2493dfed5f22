package billing

import (
	"sort"

	"tariff-engine/internal/model"
)

// Outliers lists the households paying the highest and lowest average
// rates under a price curve.
type Outliers struct {
	HighestCost []model.HouseholdCost `json:"highest_cost"`
	LowestCost  []model.HouseholdCost `json:"lowest_cost"`
}

// DefaultOutlierCount is how many households each outlier list carries
// when the caller does not say.
const DefaultOutlierCount = 5

// IdentifyOutliers sorts households by avg_cost_per_kwh and returns the
// top n from each end: HighestCost descending, LowestCost ascending.
func IdentifyOutliers(costs []model.HouseholdCost, n int) Outliers {
	if n <= 0 {
		n = DefaultOutlierCount
	}
	if n > len(costs) {
		n = len(costs)
	}

	sorted := make([]model.HouseholdCost, len(costs))
	copy(sorted, costs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].AvgCostPerKWh > sorted[j].AvgCostPerKWh
	})

	highest := append([]model.HouseholdCost(nil), sorted[:n]...)
	lowest := make([]model.HouseholdCost, 0, n)
	for i := len(sorted) - 1; i >= len(sorted)-n; i-- {
		lowest = append(lowest, sorted[i])
	}

	return Outliers{HighestCost: highest, LowestCost: lowest}
}
