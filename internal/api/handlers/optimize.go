package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"tariff-engine/internal/api/middleware"
	"tariff-engine/internal/api/models"
	"tariff-engine/internal/billing"
	"tariff-engine/internal/config"
	"tariff-engine/internal/engine"
	"tariff-engine/internal/model"
	"tariff-engine/internal/optimize"
)

// OptimizeHandler handles tariff optimization requests
type OptimizeHandler struct {
	engine  *engine.Engine
	store   *ResultStore
	solves  *semaphore.Weighted
	solver  config.SolverConfig
	metrics *middleware.Metrics
}

// NewOptimizeHandler creates a new optimize handler
func NewOptimizeHandler(eng *engine.Engine, server config.ServerConfig, solver config.SolverConfig, m *middleware.Metrics) *OptimizeHandler {
	return &OptimizeHandler{
		engine:  eng,
		store:   NewResultStore(server.ResultTTL()),
		solves:  semaphore.NewWeighted(int64(server.MaxConcurrentSolves)),
		solver:  solver,
		metrics: m,
	}
}

// Solve handles POST /api/v1/optimize
func (h *OptimizeHandler) Solve(c *gin.Context) {
	var req models.OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	cons, err := h.constraints(req)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	ds, err := resolveDataset(req.Dataset)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	if !h.solves.TryAcquire(1) {
		respondError(c, http.StatusTooManyRequests, "SOLVER_SATURATED",
			"all solver slots are busy, retry shortly", nil)
		return
	}
	defer h.solves.Release(1)

	h.metrics.ActiveSolves.Inc()
	defer h.metrics.ActiveSolves.Dec()

	res, err := h.engine.RunOptimization(c.Request.Context(), ds, cons)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	h.metrics.SolvesTotal.WithLabelValues(string(res.Status)).Inc()
	h.metrics.SolveDuration.Observe(res.RuntimeSeconds)

	resp := buildOptimizeResponse(uuid.NewString(), res)
	h.store.Put(resp.ID, resp)
	c.JSON(statusCodeFor(res.Status), resp)
}

// GetResult handles GET /api/v1/optimize/results/:id
func (h *OptimizeHandler) GetResult(c *gin.Context) {
	id := c.Param("id")
	resp, ok := h.store.Get(id)
	if !ok {
		respondError(c, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("no result with id %s", id), nil)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Presets handles GET /api/v1/optimize/presets
func (h *OptimizeHandler) Presets(c *gin.Context) {
	presets := engine.Presets()
	resp := models.PresetsResponse{Presets: make([]models.PresetBody, len(presets))}
	for i, p := range presets {
		resp.Presets[i] = models.PresetBody{
			Key:            p.Key,
			Name:           p.Name,
			Description:    p.Description,
			FairnessWeight: p.FairnessWeight,
			ProfitWeight:   p.ProfitWeight,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// constraints merges request fields over the configured fallbacks.
func (h *OptimizeHandler) constraints(req models.OptimizeRequest) (optimize.Constraints, error) {
	var fw, pw float64
	switch {
	case req.Preset != "" && (req.FairnessWeight != nil || req.ProfitWeight != nil):
		return optimize.Constraints{}, model.NewInvalidParameterError("preset",
			"give a preset or explicit weights, not both")
	case req.Preset != "":
		p, ok := engine.PresetByKey(req.Preset)
		if !ok {
			return optimize.Constraints{}, model.NewInvalidParameterError("preset",
				"unknown preset %q", req.Preset)
		}
		fw, pw = p.FairnessWeight, p.ProfitWeight
	case req.FairnessWeight != nil && req.ProfitWeight != nil:
		fw, pw = *req.FairnessWeight, *req.ProfitWeight
	default:
		return optimize.Constraints{}, model.NewInvalidParameterError("weights",
			"fairness_weight and profit_weight are required unless a preset is given")
	}

	modeTag := req.Mode
	if modeTag == "" {
		modeTag = h.solver.Mode
	}
	mode, err := optimize.ParseMode(modeTag)
	if err != nil {
		return optimize.Constraints{}, err
	}

	cons := optimize.Constraints{
		FairnessWeight:     fw,
		ProfitWeight:       pw,
		Mode:               mode,
		CostRecoveryTarget: req.CostRecoveryTarget,
		MinCostRecoveryPct: h.solver.MinCostRecoveryPct,
		MaxCostRecoveryPct: h.solver.MaxCostRecoveryPct,
		MinPrice:           h.solver.MinPrice,
		MaxPrice:           h.solver.MaxPrice,
		SolverTimeout:      h.solver.Timeout(),
	}
	if req.MinCostRecoveryPct != nil {
		cons.MinCostRecoveryPct = *req.MinCostRecoveryPct
	}
	if req.MaxCostRecoveryPct != nil {
		cons.MaxCostRecoveryPct = *req.MaxCostRecoveryPct
	}
	if req.MinPrice != nil {
		cons.MinPrice = *req.MinPrice
	}
	if req.MaxPrice != nil {
		cons.MaxPrice = *req.MaxPrice
	}
	if req.TimeoutSecs > 0 {
		cons.SolverTimeout = time.Duration(req.TimeoutSecs) * time.Second
	}
	return cons, nil
}

func buildOptimizeResponse(id string, res *optimize.Result) *models.OptimizeResponse {
	resp := &models.OptimizeResponse{
		ID:                 id,
		CreatedAt:          time.Now().UTC(),
		Status:             string(res.Status),
		Diagnostic:         res.Diagnostic,
		FairnessWeightUsed: res.FairnessWeightUsed,
		ProfitWeightUsed:   res.ProfitWeightUsed,
		ObjectiveValue:     res.ObjectiveValue,
		RuntimeSeconds:     res.RuntimeSeconds,
	}
	if !res.Status.Succeeded() {
		return resp
	}

	curve, truncated := capCurve(res.PriceCurve)
	resp.PriceCurve = curve
	resp.PriceCurveTruncated = truncated
	resp.PriceStats = &models.PriceStats{
		Mean: res.MeanPrice,
		Std:  res.PriceStd,
		Min:  res.PriceMin,
		Max:  res.PriceMax,
	}
	resp.Revenue = &models.RevenueDetail{
		Total:     res.Evaluation.TotalRevenue,
		Target:    res.Evaluation.CostRecoveryTarget,
		Shortfall: res.RevenueShortfall,
		Excess:    res.RevenueExcess,
	}
	body := buildEvaluationBody(res.Evaluation)
	resp.Evaluation = &body
	fm := res.Fairness
	resp.Fairness = &fm
	outliers := billing.IdentifyOutliers(res.Evaluation.HouseholdCosts, billing.DefaultOutlierCount)
	resp.Outliers = &outliers
	return resp
}

func statusCodeFor(s optimize.Status) int {
	switch s {
	case optimize.StatusOptimal, optimize.StatusFeasible:
		return http.StatusOK
	case optimize.StatusInfeasible, optimize.StatusTimedOut:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
