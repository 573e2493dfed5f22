package engine

import "strings"

// Preset is a named fairness/profit weight pair.
type Preset struct {
	Key            string
	Name           string
	Description    string
	FairnessWeight float64
	ProfitWeight   float64
}

// Presets returns the built-in weight presets, strongest fairness first.
func Presets() []Preset {
	return []Preset{
		{
			Key:            "maximum_fairness",
			Name:           "Maximum Fairness",
			Description:    "Flattens the price curve as far as the recovery band allows.",
			FairnessWeight: 1.0,
			ProfitWeight:   0.0,
		},
		{
			Key:            "fair_with_revenue_focus",
			Name:           "Fair with Revenue Focus",
			Description:    "Leans toward flat prices while still chasing revenue.",
			FairnessWeight: 0.6,
			ProfitWeight:   0.4,
		},
		{
			Key:            "balanced",
			Name:           "Balanced",
			Description:    "Splits the objective evenly between fairness and revenue.",
			FairnessWeight: 0.5,
			ProfitWeight:   0.5,
		},
		{
			Key:            "revenue_with_fair_constraint",
			Name:           "Revenue with Fair Constraint",
			Description:    "Favors revenue but keeps a meaningful fairness pull.",
			FairnessWeight: 0.4,
			ProfitWeight:   0.6,
		},
		{
			Key:            "maximum_revenue",
			Name:           "Maximum Revenue",
			Description:    "Pushes revenue to the band ceiling; fairness only breaks ties.",
			FairnessWeight: 0.2,
			ProfitWeight:   0.8,
		},
	}
}

// PresetByKey looks a preset up by key, case-insensitively.
func PresetByKey(key string) (Preset, bool) {
	k := strings.ToLower(strings.TrimSpace(key))
	for _, p := range Presets() {
		if p.Key == k {
			return p, true
		}
	}
	return Preset{}, false
}
