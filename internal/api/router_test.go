package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tariff-engine/internal/api/models"
	"tariff-engine/internal/config"
	"tariff-engine/internal/engine"
	"tariff-engine/internal/model"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:                8080,
			AllowedOrigins:      []string{"*"},
			MaxConcurrentSolves: 2,
			ResultTTLMinutes:    1,
		},
		Solver: config.SolverConfig{
			Mode:               "regulated",
			MinPrice:           0.05,
			MaxPrice:           0.50,
			MinCostRecoveryPct: 100,
			MaxCostRecoveryPct: 150,
			TimeoutSecs:        10,
		},
	}
	return NewRouter(cfg, engine.NewDefault(), prometheus.NewRegistry())
}

func do(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func recordsPayload() models.DatasetPayload {
	t0 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	var recs []model.ConsumptionRecord
	for id, series := range map[int][]float64{1: {1, 2, 3, 4}, 2: {2, 3, 4, 5}} {
		for i, v := range series {
			recs = append(recs, model.ConsumptionRecord{
				HouseholdID:    id,
				Timestamp:      t0.Add(time.Duration(i) * time.Hour),
				ConsumptionKWh: v,
			})
		}
	}
	return models.DatasetPayload{Records: recs}
}

func errCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp models.ErrorResponse
	decode(t, w, &resp)
	return resp.Error.Code
}

func TestHealth(t *testing.T) {
	w := do(t, testRouter(), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestStrategyCatalog(t *testing.T) {
	w := do(t, testRouter(), http.MethodGet, "/api/v1/strategies", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.CatalogResponse
	decode(t, w, &resp)
	require.Len(t, resp.Strategies, 3)

	types := []string{}
	for _, s := range resp.Strategies {
		types = append(types, string(s.Type))
	}
	assert.ElementsMatch(t, []string{"flat", "tou", "dynamic"}, types)
}

func TestExecuteStrategy(t *testing.T) {
	w := do(t, testRouter(), http.MethodPost, "/api/v1/strategies/execute", models.ExecuteStrategyRequest{
		Dataset:       recordsPayload(),
		Strategy:      models.StrategySpec{Type: "flat"},
		TargetRevenue: 6,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.StrategyResponse
	decode(t, w, &resp)
	assert.Equal(t, "flat", resp.Strategy.Type)
	assert.Equal(t, 6.0, resp.TargetRevenue)
	require.Len(t, resp.PriceCurve, 4)
	assert.InDelta(t, 6, resp.Evaluation.TotalRevenue, 1e-9)
	assert.Equal(t, 2, resp.Evaluation.Households)
	assert.Zero(t, resp.Fairness.GiniCoefficient)
	assert.Len(t, resp.Outliers.HighestCost, 2)
}

func TestExecuteStrategyErrors(t *testing.T) {
	r := testRouter()

	// Unknown strategy type.
	w := do(t, r, http.MethodPost, "/api/v1/strategies/execute", models.ExecuteStrategyRequest{
		Dataset:  recordsPayload(),
		Strategy: models.StrategySpec{Type: "oracle"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errCode(t, w))

	// Missing body fields fail binding.
	w = do(t, r, http.MethodPost, "/api/v1/strategies/execute", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errCode(t, w))

	// Duplicate record makes the dataset malformed.
	payload := recordsPayload()
	payload.Records = append(payload.Records, payload.Records[0])
	w = do(t, r, http.MethodPost, "/api/v1/strategies/execute", models.ExecuteStrategyRequest{
		Dataset:  payload,
		Strategy: models.StrategySpec{Type: "flat"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MALFORMED_DATA", errCode(t, w))
}

func TestCompareStrategies(t *testing.T) {
	w := do(t, testRouter(), http.MethodPost, "/api/v1/strategies/compare", models.CompareStrategiesRequest{
		Dataset: recordsPayload(),
		Strategies: []models.StrategyRunSpec{
			{Type: "flat", TargetRevenue: 5},
			{Type: "tou", TargetRevenue: 6},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.CompareResponse
	decode(t, w, &resp)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "flat", resp.Results[0].Strategy.Type)
	assert.Equal(t, "tou", resp.Results[1].Strategy.Type)
	assert.Equal(t, "flat", resp.BestFairness)
	assert.Equal(t, "tou", resp.BestRevenue)
}

func TestOptimizeAndFetchResult(t *testing.T) {
	r := testRouter()

	w := do(t, r, http.MethodPost, "/api/v1/optimize", models.OptimizeRequest{
		Dataset: recordsPayload(),
		Preset:  "balanced",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.OptimizeResponse
	decode(t, w, &resp)
	require.NotEmpty(t, resp.ID)
	assert.Equal(t, "Optimal", resp.Status)
	assert.Equal(t, 0.5, resp.FairnessWeightUsed)
	assert.Equal(t, 0.5, resp.ProfitWeightUsed)
	require.Len(t, resp.PriceCurve, 4)
	require.NotNil(t, resp.PriceStats)
	require.NotNil(t, resp.Revenue)
	require.NotNil(t, resp.Outliers)
	assert.Len(t, resp.Outliers.HighestCost, 2)
	assert.GreaterOrEqual(t, resp.Revenue.Total, resp.Revenue.Target-1e-9)

	got := do(t, r, http.MethodGet, "/api/v1/optimize/results/"+resp.ID, nil)
	require.Equal(t, http.StatusOK, got.Code)
	var fetched models.OptimizeResponse
	decode(t, got, &fetched)
	assert.Equal(t, resp.ID, fetched.ID)
	assert.Equal(t, resp.Status, fetched.Status)

	missing := do(t, r, http.MethodGet, "/api/v1/optimize/results/nope", nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Equal(t, "NOT_FOUND", errCode(t, missing))
}

func TestOptimizeExplicitWeights(t *testing.T) {
	fw, pw := 1.0, 0.0
	w := do(t, testRouter(), http.MethodPost, "/api/v1/optimize", models.OptimizeRequest{
		Dataset:        recordsPayload(),
		FairnessWeight: &fw,
		ProfitWeight:   &pw,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.OptimizeResponse
	decode(t, w, &resp)
	require.NotNil(t, resp.PriceStats)
	// Pure fairness flattens the curve.
	assert.InDelta(t, 0, resp.PriceStats.Std, 1e-8)
}

func TestOptimizeValidation(t *testing.T) {
	r := testRouter()

	// Neither preset nor weights.
	w := do(t, r, http.MethodPost, "/api/v1/optimize", models.OptimizeRequest{
		Dataset: recordsPayload(),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errCode(t, w))

	// Unknown preset.
	w = do(t, r, http.MethodPost, "/api/v1/optimize", models.OptimizeRequest{
		Dataset: recordsPayload(),
		Preset:  "extreme_profit",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errCode(t, w))

	// Preset and weights together.
	fw := 0.5
	w = do(t, r, http.MethodPost, "/api/v1/optimize", models.OptimizeRequest{
		Dataset:        recordsPayload(),
		Preset:         "balanced",
		FairnessWeight: &fw,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errCode(t, w))
}

func TestOptimizeInfeasibleMapsTo422(t *testing.T) {
	w := do(t, testRouter(), http.MethodPost, "/api/v1/optimize", models.OptimizeRequest{
		Dataset:            recordsPayload(),
		Preset:             "balanced",
		CostRecoveryTarget: 10000,
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

	var resp models.OptimizeResponse
	decode(t, w, &resp)
	assert.Equal(t, "Infeasible", resp.Status)
	assert.Empty(t, resp.PriceCurve)
	assert.NotEmpty(t, resp.Diagnostic)
}

func TestOptimizeSyntheticDataset(t *testing.T) {
	w := do(t, testRouter(), http.MethodPost, "/api/v1/optimize", models.OptimizeRequest{
		Dataset: models.DatasetPayload{
			Synthetic: &models.SyntheticSpec{Households: 3, Days: 1, Seed: 11},
		},
		Preset: "maximum_fairness",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.OptimizeResponse
	decode(t, w, &resp)
	assert.Len(t, resp.PriceCurve, 24)
}

func TestOptimizeSaturatedReturns429(t *testing.T) {
	gin.SetMode(gin.TestMode)
	// Zero solver slots: every solve is turned away.
	cfg := &config.Config{
		Server: config.ServerConfig{
			AllowedOrigins:      []string{"*"},
			MaxConcurrentSolves: 0,
			ResultTTLMinutes:    1,
		},
		Solver: config.SolverConfig{
			Mode:               "regulated",
			MinPrice:           0.05,
			MaxPrice:           0.50,
			MinCostRecoveryPct: 100,
			MaxCostRecoveryPct: 150,
			TimeoutSecs:        10,
		},
	}
	r := NewRouter(cfg, engine.NewDefault(), prometheus.NewRegistry())

	w := do(t, r, http.MethodPost, "/api/v1/optimize", models.OptimizeRequest{
		Dataset: recordsPayload(),
		Preset:  "balanced",
	})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "SOLVER_SATURATED", errCode(t, w))
}

func TestPresetsEndpoint(t *testing.T) {
	w := do(t, testRouter(), http.MethodGet, "/api/v1/optimize/presets", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.PresetsResponse
	decode(t, w, &resp)
	require.Len(t, resp.Presets, 5)
	assert.Equal(t, "maximum_fairness", resp.Presets[0].Key)
}

func TestMetricsEndpoint(t *testing.T) {
	r := testRouter()
	do(t, r, http.MethodGet, "/health", nil)

	w := do(t, r, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tariff_http_requests_total")
}

func TestCORSPreflight(t *testing.T) {
	r := testRouter()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/strategies", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
