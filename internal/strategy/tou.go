package strategy

import "tariff-engine/internal/model"

// TimeOfUseParams configures peak/off-peak pricing.
//   - PeakHours: hours of day (0-23) billed at the peak rate, evaluated
//     on the grid timestamps. May be empty (everything off-peak).
//   - PeakMultiplier: 1.0 to 3.0
//   - OffPeakMultiplier: >0 to 1.0
type TimeOfUseParams struct {
	PeakHours         []int   `json:"peak_hours" yaml:"peak_hours"`
	PeakMultiplier    float64 `json:"peak_multiplier" yaml:"peak_multiplier"`
	OffPeakMultiplier float64 `json:"off_peak_multiplier" yaml:"off_peak_multiplier"`
}

// DefaultTimeOfUseParams covers the morning ramp and evening peak.
func DefaultTimeOfUseParams() TimeOfUseParams {
	return TimeOfUseParams{
		PeakHours:         []int{7, 8, 17, 18, 19, 20, 21},
		PeakMultiplier:    1.5,
		OffPeakMultiplier: 0.7,
	}
}

// TimeOfUse prices peak hours at base*PeakMultiplier and the rest at
// base*OffPeakMultiplier, where base solves
//
//	base * (peakMult*peakKWh + offMult*offPeakKWh) = target
//
// so total revenue meets the target exactly.
type TimeOfUse struct {
	params TimeOfUseParams
	peak   [24]bool
}

func NewTimeOfUse(params TimeOfUseParams) (*TimeOfUse, error) {
	if params.PeakMultiplier < 1 || params.PeakMultiplier > 3 {
		return nil, model.NewInvalidParameterError("peak_multiplier",
			"%.3f outside [1.0, 3.0]", params.PeakMultiplier)
	}
	if params.OffPeakMultiplier <= 0 || params.OffPeakMultiplier > 1 {
		return nil, model.NewInvalidParameterError("off_peak_multiplier",
			"%.3f outside (0.0, 1.0]", params.OffPeakMultiplier)
	}
	s := &TimeOfUse{params: params}
	for _, h := range params.PeakHours {
		if h < 0 || h > 23 {
			return nil, model.NewInvalidParameterError("peak_hours", "hour %d outside [0, 23]", h)
		}
		s.peak[h] = true
	}
	return s, nil
}

func (*TimeOfUse) Type() Type   { return TypeTimeOfUse }
func (*TimeOfUse) Name() string { return "Time-of-Use Pricing" }

// Params returns the validated parameter set.
func (s *TimeOfUse) Params() TimeOfUseParams { return s.params }

func (s *TimeOfUse) PriceCurve(ds *model.Dataset, target float64) model.PriceCurve {
	grid := ds.TimeGrid()
	load := ds.LoadProfile()

	var peakKWh, offKWh float64
	for t, ts := range grid {
		if s.peak[ts.Hour()] {
			peakKWh += load[t]
		} else {
			offKWh += load[t]
		}
	}

	weighted := s.params.PeakMultiplier*peakKWh + s.params.OffPeakMultiplier*offKWh
	base := 0.0
	if weighted > 0 {
		base = target / weighted
	}

	curve := make(model.PriceCurve, len(grid))
	for t, ts := range grid {
		if s.peak[ts.Hour()] {
			curve[t] = base * s.params.PeakMultiplier
		} else {
			curve[t] = base * s.params.OffPeakMultiplier
		}
	}
	return curve
}
