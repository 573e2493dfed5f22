package models

import (
	"time"

	"tariff-engine/internal/billing"
	"tariff-engine/internal/fairness"
	"tariff-engine/internal/model"
	"tariff-engine/internal/strategy"
)

// StrategyResponse represents the response from executing one strategy
type StrategyResponse struct {
	Strategy            StrategyHeader   `json:"strategy"`
	TargetRevenue       float64          `json:"target_revenue"`
	ExecutionSeconds    float64          `json:"execution_time_seconds"`
	PriceCurve          []float64        `json:"price_curve"`
	PriceCurveTruncated bool             `json:"price_curve_truncated,omitempty"`
	Evaluation          EvaluationBody   `json:"evaluation"`
	Fairness            fairness.Result  `json:"fairness"`
	Outliers            billing.Outliers `json:"outliers"`
}

// StrategyHeader identifies the executed strategy
type StrategyHeader struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// EvaluationBody mirrors billing.Evaluation with the household list
// capped for transport
type EvaluationBody struct {
	TotalRevenue            float64               `json:"total_revenue"`
	TotalConsumption        float64               `json:"total_consumption"`
	CostRecoveryTarget      float64               `json:"cost_recovery_target"`
	CostRecoveryPercentage  float64               `json:"cost_recovery_percentage"`
	AvgPricePerKWh          float64               `json:"avg_price_per_kwh"`
	Households              int                   `json:"households"`
	HouseholdCosts          []model.HouseholdCost `json:"household_costs,omitempty"`
	HouseholdCostsTruncated bool                  `json:"household_costs_truncated,omitempty"`
}

// CompareResponse represents the response from a strategy comparison
type CompareResponse struct {
	Results      []StrategyResponse `json:"results"`
	BestFairness string             `json:"best_fairness"`
	BestRevenue  string             `json:"best_revenue"`
}

// CatalogResponse lists the available strategies
type CatalogResponse struct {
	Strategies []strategy.Info `json:"strategies"`
}

// OptimizeResponse represents a finished optimization run
type OptimizeResponse struct {
	ID                  string            `json:"id"`
	CreatedAt           time.Time         `json:"created_at"`
	Status              string            `json:"status"`
	Diagnostic          string            `json:"diagnostic,omitempty"`
	FairnessWeightUsed  float64           `json:"fairness_weight_used"`
	ProfitWeightUsed    float64           `json:"profit_weight_used"`
	ObjectiveValue      float64           `json:"objective_value"`
	RuntimeSeconds      float64           `json:"runtime_seconds"`
	PriceCurve          []float64         `json:"price_curve,omitempty"`
	PriceCurveTruncated bool              `json:"price_curve_truncated,omitempty"`
	PriceStats          *PriceStats       `json:"price_stats,omitempty"`
	Revenue             *RevenueDetail    `json:"revenue,omitempty"`
	Evaluation          *EvaluationBody   `json:"evaluation,omitempty"`
	Fairness            *fairness.Result  `json:"fairness,omitempty"`
	Outliers            *billing.Outliers `json:"outliers,omitempty"`
}

// PriceStats summarizes the solved curve
type PriceStats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// RevenueDetail relates solved revenue to the recovery target
type RevenueDetail struct {
	Total     float64 `json:"total"`
	Target    float64 `json:"target"`
	Shortfall float64 `json:"shortfall"`
	Excess    float64 `json:"excess"`
}

// PresetsResponse lists the built-in weight presets
type PresetsResponse struct {
	Presets []PresetBody `json:"presets"`
}

// PresetBody is one named weight pair
type PresetBody struct {
	Key            string  `json:"key"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	FairnessWeight float64 `json:"fairness_weight"`
	ProfitWeight   float64 `json:"profit_weight"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
