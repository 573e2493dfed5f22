package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"tariff-engine/internal/api"
	"tariff-engine/internal/config"
	"tariff-engine/internal/engine"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("load config: %v", err))
	}

	if err := config.InitLogger(cfg.Log); err != nil {
		panic(fmt.Sprintf("init logger: %v", err))
	}
	defer func() { _ = zap.L().Sync() }()

	gin.SetMode(cfg.Server.Mode)

	router := api.NewRouter(cfg, engine.NewDefault(), prometheus.NewRegistry())

	zap.L().Info("api listening",
		zap.Int("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.Int("max_concurrent_solves", cfg.Server.MaxConcurrentSolves),
	)

	if err := router.Run(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
		zap.L().Fatal("api server exited", zap.Error(err))
	}
}
