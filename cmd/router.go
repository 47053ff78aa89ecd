package main

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/angeloszaimis/cantonese-split/internal/handler"
	"github.com/angeloszaimis/cantonese-split/internal/healthcheck"
	"github.com/angeloszaimis/cantonese-split/internal/metrics"
	"github.com/angeloszaimis/cantonese-split/internal/workerpool"
)

func setupRouter(
	log *slog.Logger,
	splitHandler *handler.SplitHandler,
	metricsCollector *metrics.Collector,
	readiness healthcheck.Readiness,
	pool *workerpool.Pool,
) *gin.Engine {
	router := gin.New()
	router.Use(
		handler.RequestID(),
		handler.RequestLogger(log),
		handler.Recovery(log, metricsCollector),
	)

	router.POST(handler.SplitPath, splitHandler.Handle)
	router.GET("/health", healthcheck.Handler(readiness, pool))
	router.GET("/metrics", metricsCollector.Handler())

	return router
}
