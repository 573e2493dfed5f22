package strategy

import (
	"tariff-engine/internal/model"
)

// Type identifies a pricing strategy variant. Keep these values stable;
// they appear in API payloads and CSV output.
type Type string

const (
	TypeFlat      Type = "flat"
	TypeTimeOfUse Type = "tou"
	TypeDynamic   Type = "dynamic"
)

// ParseType resolves a raw strategy tag into the closed Type enum.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeFlat, TypeTimeOfUse, TypeDynamic:
		return Type(s), nil
	default:
		return "", model.NewInvalidParameterError("strategy_type",
			"unknown strategy %q (expected flat, tou, or dynamic)", s)
	}
}

// Strategy maps a dataset and a cost-recovery target (currency) to an
// hourly price curve aligned with the dataset's time grid. Parameter
// validation happens at construction; PriceCurve itself is total and
// safe for concurrent use.
type Strategy interface {
	Type() Type
	Name() string
	PriceCurve(ds *model.Dataset, target float64) model.PriceCurve
}

// DefaultTargetRate is the business default used when no explicit
// cost-recovery target is given: 0.25 currency units per kWh consumed.
const DefaultTargetRate = 0.25

// DefaultTarget returns the default cost-recovery target for a dataset.
func DefaultTarget(ds *model.Dataset) float64 {
	return ds.TotalConsumption() * DefaultTargetRate
}

// New builds a strategy of the given type from generic params as they
// arrive at the API or YAML boundary. Missing keys fall back to the
// variant's defaults; out-of-range values fail with
// *model.InvalidParameterError.
func New(t Type, params map[string]any) (Strategy, error) {
	switch t {
	case TypeFlat:
		return NewFlat(), nil
	case TypeTimeOfUse:
		p := DefaultTimeOfUseParams()
		p.PeakMultiplier = numParam(params, "peak_multiplier", p.PeakMultiplier)
		p.OffPeakMultiplier = numParam(params, "off_peak_multiplier", p.OffPeakMultiplier)
		hours, ok, err := intsParam(params, "peak_hours")
		if err != nil {
			return nil, err
		}
		if ok {
			p.PeakHours = hours
		}
		return NewTimeOfUse(p)
	case TypeDynamic:
		p := DefaultDynamicParams()
		p.MinMultiplier = numParam(params, "min_multiplier", p.MinMultiplier)
		p.MaxMultiplier = numParam(params, "max_multiplier", p.MaxMultiplier)
		return NewDynamic(p)
	default:
		return nil, model.NewInvalidParameterError("strategy_type",
			"unknown strategy %q (expected flat, tou, or dynamic)", string(t))
	}
}

func numParam(m map[string]any, key string, def float64) float64 {
	if v, ok := m[key]; ok && v != nil {
		switch x := v.(type) {
		case float64:
			return x
		case float32:
			return float64(x)
		case int:
			return float64(x)
		case int64:
			return float64(x)
		}
	}
	return def
}

// intsParam reads a list of integers. JSON decodes numbers as float64
// and YAML as int, so both element types are accepted.
func intsParam(m map[string]any, key string) ([]int, bool, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, false, nil
	}
	switch xs := v.(type) {
	case []int:
		return xs, true, nil
	case []any:
		out := make([]int, 0, len(xs))
		for _, e := range xs {
			switch x := e.(type) {
			case int:
				out = append(out, x)
			case int64:
				out = append(out, int(x))
			case float64:
				if x != float64(int(x)) {
					return nil, false, model.NewInvalidParameterError(key, "element %v is not an integer", x)
				}
				out = append(out, int(x))
			default:
				return nil, false, model.NewInvalidParameterError(key, "element %v is not an integer", e)
			}
		}
		return out, true, nil
	default:
		return nil, false, model.NewInvalidParameterError(key, "must be a list of integers")
	}
}
