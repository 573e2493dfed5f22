package strategy

// Info describes one strategy variant for listing surfaces (API, CLI).
type Info struct {
	Type        Type            `json:"strategy_type"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ParameterInfo `json:"parameters"`
}

// ParameterInfo describes a strategy parameter.
type ParameterInfo struct {
	Name        string `json:"name"`
	Type        string `json:"type"` // "float", "int_list"
	Description string `json:"description"`
	Default     any    `json:"default,omitempty"`
}

// Catalog returns metadata for every strategy variant.
func Catalog() []Info {
	tou := DefaultTimeOfUseParams()
	dyn := DefaultDynamicParams()

	return []Info{
		{
			Type:        TypeFlat,
			Name:        "Flat Rate Pricing",
			Description: "Single constant price per kWh. Revenue meets the cost-recovery target exactly.",
			Parameters:  []ParameterInfo{},
		},
		{
			Type:        TypeTimeOfUse,
			Name:        "Time-of-Use Pricing",
			Description: "Higher price during configured peak hours, discounted off-peak. The base price is solved so revenue meets the target exactly.",
			Parameters: []ParameterInfo{
				{
					Name:        "peak_hours",
					Type:        "int_list",
					Description: "Hours of day (0-23) billed at the peak rate",
					Default:     tou.PeakHours,
				},
				{
					Name:        "peak_multiplier",
					Type:        "float",
					Description: "Peak price multiplier (1.0 to 3.0)",
					Default:     tou.PeakMultiplier,
				},
				{
					Name:        "off_peak_multiplier",
					Type:        "float",
					Description: "Off-peak price multiplier (>0 to 1.0)",
					Default:     tou.OffPeakMultiplier,
				},
			},
		},
		{
			Type:        TypeDynamic,
			Name:        "Dynamic Load-Based Pricing",
			Description: "Price follows aggregate hourly load between a minimum and maximum multiplier, rescaled so revenue meets the target exactly.",
			Parameters: []ParameterInfo{
				{
					Name:        "min_multiplier",
					Type:        "float",
					Description: "Multiplier at the lowest-load hour (0.1 to 1.0)",
					Default:     dyn.MinMultiplier,
				},
				{
					Name:        "max_multiplier",
					Type:        "float",
					Description: "Multiplier at the highest-load hour (1.0 to 5.0)",
					Default:     dyn.MaxMultiplier,
				},
			},
		},
	}
}
