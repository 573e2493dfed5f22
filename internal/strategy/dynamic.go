package strategy

import (
	"gonum.org/v1/gonum/floats"

	"tariff-engine/internal/model"
)

// DynamicParams configures load-following pricing.
//   - MinMultiplier: 0.1 to 1.0, applied at the lowest-load hour
//   - MaxMultiplier: 1.0 to 5.0, applied at the highest-load hour
type DynamicParams struct {
	MinMultiplier float64 `json:"min_multiplier" yaml:"min_multiplier"`
	MaxMultiplier float64 `json:"max_multiplier" yaml:"max_multiplier"`
}

func DefaultDynamicParams() DynamicParams {
	return DynamicParams{MinMultiplier: 0.5, MaxMultiplier: 2.0}
}

// Dynamic scales price with aggregate hourly load: each hour's
// multiplier interpolates between MinMultiplier and MaxMultiplier by
// the hour's normalized load, then the whole curve is rescaled by one
// factor so total revenue meets the target exactly. A flat load
// profile prices every hour at the midpoint multiplier.
type Dynamic struct {
	params DynamicParams
}

func NewDynamic(params DynamicParams) (*Dynamic, error) {
	if params.MinMultiplier < 0.1 || params.MinMultiplier > 1 {
		return nil, model.NewInvalidParameterError("min_multiplier",
			"%.3f outside [0.1, 1.0]", params.MinMultiplier)
	}
	if params.MaxMultiplier < 1 || params.MaxMultiplier > 5 {
		return nil, model.NewInvalidParameterError("max_multiplier",
			"%.3f outside [1.0, 5.0]", params.MaxMultiplier)
	}
	return &Dynamic{params: params}, nil
}

func (*Dynamic) Type() Type   { return TypeDynamic }
func (*Dynamic) Name() string { return "Dynamic Load-Based Pricing" }

// Params returns the validated parameter set.
func (s *Dynamic) Params() DynamicParams { return s.params }

func (s *Dynamic) PriceCurve(ds *model.Dataset, target float64) model.PriceCurve {
	load := ds.LoadProfile()
	curve := make(model.PriceCurve, len(load))

	total := ds.TotalConsumption()
	if total == 0 {
		return curve
	}
	base := target / total

	lmin := floats.Min(load)
	lmax := floats.Max(load)
	span := s.params.MaxMultiplier - s.params.MinMultiplier

	for t, l := range load {
		norm := 0.5
		if lmax > lmin {
			norm = (l - lmin) / (lmax - lmin)
		}
		curve[t] = base * (s.params.MinMultiplier + norm*span)
	}

	// One rescale makes revenue hit the target exactly.
	revenue := 0.0
	for t, p := range curve {
		revenue += p * load[t]
	}
	if revenue > 0 {
		scale := target / revenue
		for t := range curve {
			curve[t] *= scale
		}
	}
	return curve
}
