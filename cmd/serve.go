package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/angeloszaimis/cantonese-split/config"
	"github.com/angeloszaimis/cantonese-split/internal/analyzer"
	"github.com/angeloszaimis/cantonese-split/internal/handler"
	"github.com/angeloszaimis/cantonese-split/internal/httpserver"
	"github.com/angeloszaimis/cantonese-split/internal/metrics"
	"github.com/angeloszaimis/cantonese-split/internal/split"
	"github.com/angeloszaimis/cantonese-split/internal/workerpool"
	"github.com/angeloszaimis/cantonese-split/pkg/logger"
)

const metricsBufferSize = 1000

type ServeCmd struct{}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.NewWithWriter(g.Stdout, cfg.Logging.Level, true, cfg.Server.Environment)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	router, err := buildApp(ctx, cfg, log)
	if err != nil {
		return err
	}

	srv, err := httpserver.New(cfg.Server.Address, router, httpserver.Timeouts{
		Read:  cfg.Server.ReadTimeout,
		Write: cfg.Server.WriteTimeout,
		Idle:  cfg.Server.IdleTimeout,
	})
	if err != nil {
		log.Error("Failed to create server", slog.Any("err", err))
		return err
	}

	srvErrCh := make(chan error, 1)
	go func() {
		srvErrCh <- srv.Start()
	}()

	log.Info("Listening",
		slog.String("address", cfg.Server.Address),
		slog.String("endpoint", handler.SplitPath))

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("Error during shutdown", slog.Any("err", err))
			return err
		}
	case err := <-srvErrCh:
		if err != nil {
			log.Error("Error starting server", slog.Any("err", err))
			return err
		}
	}

	return nil
}

// buildApp runs the one-time analyzer warm-up and wires the HTTP stack. The
// metrics collector lives until ctx ends.
func buildApp(ctx context.Context, cfg *config.Config, log *slog.Logger) (*gin.Engine, error) {
	if cfg.Server.Environment == config.EnvProd {
		gin.SetMode(gin.ReleaseMode)
	}

	a, err := analyzer.Init(ctx, cfg.AnalyzerOptions())
	if err != nil {
		log.Error("Failed to initialize analyzer", slog.Any("err", err))
		return nil, fmt.Errorf("initialize analyzer: %w", err)
	}

	dict := a.Dictionary()
	log.Info("Analyzer ready",
		slog.String("dictionary", dict.Source()),
		slog.Int("entries", dict.Len()),
		slog.String("fingerprint", dict.Fingerprint()),
		slog.String("normalize", cfg.Analyzer.Normalize),
		slog.Int("workers", cfg.Analyzer.Workers))

	pool := workerpool.New(cfg.Analyzer.Workers)
	splitter := split.New(log, a, pool)

	metricsCollector := metrics.NewCollector(metricsBufferSize, log)
	metricsCollector.Start(ctx)

	splitHandler := handler.NewSplitHandler(log, splitter, metricsCollector, cfg.Server.MaxBodyBytes)

	return setupRouter(log, splitHandler, metricsCollector, a, pool), nil
}
