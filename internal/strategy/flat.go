package strategy

import "tariff-engine/internal/model"

// Flat charges one constant price per kWh across the whole window:
// price = target / total consumption. Revenue meets the target exactly.
// With zero total consumption the curve is all zeros.
type Flat struct{}

func NewFlat() *Flat { return &Flat{} }

func (*Flat) Type() Type   { return TypeFlat }
func (*Flat) Name() string { return "Flat Rate Pricing" }

func (*Flat) PriceCurve(ds *model.Dataset, target float64) model.PriceCurve {
	curve := make(model.PriceCurve, ds.Hours())
	total := ds.TotalConsumption()
	if total == 0 {
		return curve
	}
	price := target / total
	for t := range curve {
		curve[t] = price
	}
	return curve
}
