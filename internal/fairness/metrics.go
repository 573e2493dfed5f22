// Package fairness computes inequality metrics over per-household
// average electricity costs. All functions are pure and total: the
// degenerate inputs (empty, single household, all-zero costs) are
// defined to produce zero metrics rather than errors.
package fairness

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Result summarizes the distribution of per-household average cost per
// kWh under one price curve.
type Result struct {
	GiniCoefficient        float64 `json:"gini_coefficient"`
	CoefficientOfVariation float64 `json:"coefficient_of_variation"`
	MinCostPerKWh          float64 `json:"min_cost_per_kwh"`
	MaxCostPerKWh          float64 `json:"max_cost_per_kwh"`
	MeanCostPerKWh         float64 `json:"mean_cost_per_kwh"`
	MedianCostPerKWh       float64 `json:"median_cost_per_kwh"`
	StdCostPerKWh          float64 `json:"std_cost_per_kwh"`
}

// Compute builds the full metrics summary from per-household average
// costs. The input is not modified.
func Compute(costs []float64) Result {
	if len(costs) == 0 {
		return Result{}
	}

	sorted := make([]float64, len(costs))
	copy(sorted, costs)
	sort.Float64s(sorted)

	mean := stat.Mean(sorted, nil)
	std := stat.PopStdDev(sorted, nil)

	cov := 0.0
	if mean != 0 {
		cov = std / mean
	}

	return Result{
		GiniCoefficient:        giniSorted(sorted),
		CoefficientOfVariation: cov,
		MinCostPerKWh:          sorted[0],
		MaxCostPerKWh:          sorted[len(sorted)-1],
		MeanCostPerKWh:         mean,
		MedianCostPerKWh:       percentileSorted(sorted, 0.5),
		StdCostPerKWh:          std,
	}
}

// Gini returns the Gini coefficient of the given costs.
// For non-negative inputs the result is in [0,1]: 0 means every
// household pays the same average rate. Returns 0 when n <= 1 or all
// costs are zero.
func Gini(costs []float64) float64 {
	sorted := make([]float64, len(costs))
	copy(sorted, costs)
	sort.Float64s(sorted)
	return giniSorted(sorted)
}

func giniSorted(sorted []float64) float64 {
	n := len(sorted)
	if n <= 1 {
		return 0
	}
	var sum, weighted float64
	for i, y := range sorted {
		sum += y
		weighted += float64(i+1) * y
	}
	if sum == 0 {
		return 0
	}
	g := (2*weighted)/(float64(n)*sum) - float64(n+1)/float64(n)
	// Exact arithmetic keeps g within [0, 1-1/n]; clamp the float residue.
	return math.Min(1, math.Max(0, g))
}

// CoefficientOfVariation returns population std / mean, or 0 when the
// mean is zero.
func CoefficientOfVariation(costs []float64) float64 {
	if len(costs) == 0 {
		return 0
	}
	mean := stat.Mean(costs, nil)
	if mean == 0 {
		return 0
	}
	return stat.PopStdDev(costs, nil) / mean
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
