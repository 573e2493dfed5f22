package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tariff-engine/internal/api/models"
	"tariff-engine/internal/engine"
	"tariff-engine/internal/strategy"
)

// StrategyHandler handles strategy catalog, execution, and comparison
type StrategyHandler struct {
	engine *engine.Engine
}

// NewStrategyHandler creates a new strategy handler
func NewStrategyHandler(eng *engine.Engine) *StrategyHandler {
	return &StrategyHandler{engine: eng}
}

// Catalog handles GET /api/v1/strategies
func (h *StrategyHandler) Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, models.CatalogResponse{Strategies: strategy.Catalog()})
}

// Execute handles POST /api/v1/strategies/execute
func (h *StrategyHandler) Execute(c *gin.Context) {
	var req models.ExecuteStrategyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	ds, err := resolveDataset(req.Dataset)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	out, err := h.engine.ExecuteStrategy(ds, engine.StrategyRun{
		Type:   strategy.Type(req.Strategy.Type),
		Params: req.Strategy.Params,
		Target: req.TargetRevenue,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, buildStrategyResponse(out))
}

// Compare handles POST /api/v1/strategies/compare
func (h *StrategyHandler) Compare(c *gin.Context) {
	var req models.CompareStrategiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	ds, err := resolveDataset(req.Dataset)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	runs := make([]engine.StrategyRun, len(req.Strategies))
	for i, spec := range req.Strategies {
		runs[i] = engine.StrategyRun{
			Type:   strategy.Type(spec.Type),
			Params: spec.Params,
			Target: spec.TargetRevenue,
		}
	}

	cmp, err := h.engine.CompareStrategies(c.Request.Context(), ds, runs)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	resp := models.CompareResponse{
		Results:      make([]models.StrategyResponse, len(cmp.Outcomes)),
		BestFairness: string(cmp.BestFairness),
		BestRevenue:  string(cmp.BestRevenue),
	}
	for i, out := range cmp.Outcomes {
		resp.Results[i] = buildStrategyResponse(out)
	}
	c.JSON(http.StatusOK, resp)
}
