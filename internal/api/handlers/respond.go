package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tariff-engine/internal/api/models"
	"tariff-engine/internal/billing"
	"tariff-engine/internal/data"
	"tariff-engine/internal/engine"
	"tariff-engine/internal/model"
)

// Response caps keep payloads bounded for large fleets and long grids.
const (
	maxCurvePoints    = 1000
	maxHouseholdCosts = 100
)

func respondError(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// respondDomainError maps the typed domain errors onto the API error
// vocabulary. Anything unrecognized is an internal failure.
func respondDomainError(c *gin.Context, err error) {
	var perr *model.InvalidParameterError
	var merr *model.MalformedDataError
	var serr *model.ShapeMismatchError
	switch {
	case errors.As(err, &perr):
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(),
			map[string]interface{}{"parameter": perr.Param})
	case errors.As(err, &merr):
		respondError(c, http.StatusBadRequest, "MALFORMED_DATA", err.Error(), nil)
	case errors.As(err, &serr):
		respondError(c, http.StatusBadRequest, "SHAPE_MISMATCH", err.Error(),
			map[string]interface{}{"curve_len": serr.CurveLen, "grid_len": serr.GridLen})
	default:
		zap.L().Error("request failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", nil)
	}
}

// resolveDataset builds the working dataset from an inline record array
// or a synthetic spec.
func resolveDataset(p models.DatasetPayload) (*model.Dataset, error) {
	switch {
	case len(p.Records) > 0 && p.Synthetic != nil:
		return nil, model.NewInvalidParameterError("dataset", "provide records or synthetic, not both")
	case len(p.Records) > 0:
		return model.BuildDataset(p.Records)
	case p.Synthetic != nil:
		return data.GenerateSynthetic(data.SyntheticSpec{
			Households:   p.Synthetic.Households,
			Days:         p.Synthetic.Days,
			Seed:         p.Synthetic.Seed,
			BaseDailyKWh: p.Synthetic.BaseDailyKWh,
		})
	default:
		return nil, model.NewInvalidParameterError("dataset", "records or synthetic is required")
	}
}

func capCurve(curve model.PriceCurve) ([]float64, bool) {
	if len(curve) > maxCurvePoints {
		return curve[:maxCurvePoints], true
	}
	return curve, false
}

func buildEvaluationBody(ev *billing.Evaluation) models.EvaluationBody {
	costs := ev.HouseholdCosts
	truncated := false
	if len(costs) > maxHouseholdCosts {
		costs = costs[:maxHouseholdCosts]
		truncated = true
	}
	return models.EvaluationBody{
		TotalRevenue:            ev.TotalRevenue,
		TotalConsumption:        ev.TotalConsumptionKWh,
		CostRecoveryTarget:      ev.CostRecoveryTarget,
		CostRecoveryPercentage:  ev.CostRecoveryPct,
		AvgPricePerKWh:          ev.AvgPricePerKWh,
		Households:              len(ev.HouseholdCosts),
		HouseholdCosts:          costs,
		HouseholdCostsTruncated: truncated,
	}
}

func buildStrategyResponse(out *engine.StrategyOutcome) models.StrategyResponse {
	curve, truncated := capCurve(out.PriceCurve)
	return models.StrategyResponse{
		Strategy: models.StrategyHeader{
			Type: string(out.Type),
			Name: out.Name,
		},
		TargetRevenue:       out.Target,
		ExecutionSeconds:    out.Runtime.Seconds(),
		PriceCurve:          curve,
		PriceCurveTruncated: truncated,
		Evaluation:          buildEvaluationBody(out.Evaluation),
		Fairness:            out.Fairness,
		Outliers:            out.Outliers,
	}
}
