package models

import "tariff-engine/internal/model"

// DatasetPayload supplies the consumption data for a request: an inline
// record array or a synthetic generation spec. Exactly one must be set.
type DatasetPayload struct {
	Records   []model.ConsumptionRecord `json:"records,omitempty"`
	Synthetic *SyntheticSpec            `json:"synthetic,omitempty"`
}

// SyntheticSpec asks the server to generate a fleet instead of
// uploading one.
type SyntheticSpec struct {
	Households   int     `json:"households" binding:"required"`
	Days         int     `json:"days" binding:"required"`
	Seed         uint64  `json:"seed,omitempty"`
	BaseDailyKWh float64 `json:"base_daily_kwh,omitempty"`
}

// StrategySpec selects a pricing strategy and its parameters
type StrategySpec struct {
	Type   string                 `json:"type" binding:"required"` // "flat", "tou", "dynamic"
	Params map[string]interface{} `json:"params,omitempty"`
}

// ExecuteStrategyRequest represents the request body for running one strategy
type ExecuteStrategyRequest struct {
	Dataset       DatasetPayload `json:"dataset" binding:"required"`
	Strategy      StrategySpec   `json:"strategy" binding:"required"`
	TargetRevenue float64        `json:"target_revenue,omitempty"` // 0 = default rate
}

// CompareStrategiesRequest represents a request to run several strategies
// against the same dataset
type CompareStrategiesRequest struct {
	Dataset    DatasetPayload    `json:"dataset" binding:"required"`
	Strategies []StrategyRunSpec `json:"strategies" binding:"required"`
}

// StrategyRunSpec defines one entry of a comparison
type StrategyRunSpec struct {
	Type          string                 `json:"type" binding:"required"`
	Params        map[string]interface{} `json:"params,omitempty"`
	TargetRevenue float64                `json:"target_revenue,omitempty"`
}

// OptimizeRequest represents the request body for a tariff optimization.
// Weights come either from a preset key or from the explicit pair;
// pointer fields distinguish "absent" from a literal zero, and absent
// fields fall back to server configuration.
type OptimizeRequest struct {
	Dataset            DatasetPayload `json:"dataset" binding:"required"`
	Preset             string         `json:"preset,omitempty"`
	FairnessWeight     *float64       `json:"fairness_weight,omitempty"`
	ProfitWeight       *float64       `json:"profit_weight,omitempty"`
	Mode               string         `json:"mode,omitempty"` // "regulated", "market"
	CostRecoveryTarget float64        `json:"cost_recovery_target,omitempty"`
	MinCostRecoveryPct *float64       `json:"min_cost_recovery_pct,omitempty"`
	MaxCostRecoveryPct *float64       `json:"max_cost_recovery_pct,omitempty"`
	MinPrice           *float64       `json:"min_price,omitempty"`
	MaxPrice           *float64       `json:"max_price,omitempty"`
	TimeoutSecs        int            `json:"timeout_secs,omitempty"`
}
