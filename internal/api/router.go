// Package api assembles the HTTP surface: routes, middleware, and the
// Prometheus registry wiring.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tariff-engine/internal/api/handlers"
	"tariff-engine/internal/api/middleware"
	"tariff-engine/internal/config"
	"tariff-engine/internal/engine"
)

// NewRouter builds the gin engine with all routes attached. The
// registry is injected so tests can use a private one.
func NewRouter(cfg *config.Config, eng *engine.Engine, reg *prometheus.Registry) *gin.Engine {
	r := gin.New()

	metrics := middleware.NewMetrics(reg)
	r.Use(middleware.Logger())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	r.Use(metrics.Collect())

	strategyHandler := handlers.NewStrategyHandler(eng)
	optimizeHandler := handlers.NewOptimizeHandler(eng, cfg.Server, cfg.Solver, metrics)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/strategies", strategyHandler.Catalog)
		v1.POST("/strategies/execute", strategyHandler.Execute)
		v1.POST("/strategies/compare", strategyHandler.Compare)

		v1.GET("/optimize/presets", optimizeHandler.Presets)
		v1.POST("/optimize", optimizeHandler.Solve)
		v1.GET("/optimize/results/:id", optimizeHandler.GetResult)
	}

	return r
}
