package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/lm1285/project3-instrument-management-sub001/internal/handler"
	"github.com/lm1285/project3-instrument-management-sub001/internal/middleware"
	"github.com/lm1285/project3-instrument-management-sub001/internal/repository"
	"github.com/lm1285/project3-instrument-management-sub001/internal/service"
	"github.com/lm1285/project3-instrument-management-sub001/pkg/config"
	"github.com/lm1285/project3-instrument-management-sub001/pkg/kv"
	"github.com/lm1285/project3-instrument-management-sub001/pkg/logger"
	corsmiddleware "github.com/lm1285/project3-instrument-management-sub001/pkg/middleware/cors"
	reqidmiddleware "github.com/lm1285/project3-instrument-management-sub001/pkg/middleware/requestid"
)

// @title Instrument Inventory API
// @version 0.1.0
// @description Laboratory measurement instrument inventory and lifecycle tracker
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	slot, err := newSlot(cfg)
	if err != nil {
		logr.Sugar().Fatalw("failed to init storage slot", "backend", cfg.Store.Backend, "error", err)
	}

	metricsSvc := service.NewMetricsService()
	store := repository.NewInstrumentStore(slot, cfg.Store.MaxBytes, logr, repository.WithObserver(metricsSvc))

	searchSvc := service.NewSearchService(store, cfg.Search.SuggestionLimit, logr)
	lifecycleSvc := service.NewLifecycleService(store, searchSvc, logr, service.WithSweepObserver(metricsSvc))
	instrumentSvc := service.NewInstrumentService(store, validator.New(), logr)
	importSvc := service.NewImportService(store, metricsSvc, logr)
	exportSvc := service.NewExportService(store)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	api := r.Group(cfg.APIPrefix)
	handler.NewInstrumentHandler(instrumentSvc, searchSvc, lifecycleSvc).Register(api)
	handler.NewTransferHandler(importSvc, exportSvc).Register(api)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Sweep.Enabled {
		sweeper := service.NewSweeper(lifecycleSvc, cfg.Sweep.Interval, cfg.Sweep.Trigger, logr)
		sweeper.Start(ctx)
		defer sweeper.Stop()
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "store", cfg.Store.Backend)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func newSlot(cfg *config.Config) (kv.Slot, error) {
	switch cfg.Store.Backend {
	case config.StoreBackendRedis:
		client, err := kv.NewRedisClient(cfg.Redis)
		if err != nil {
			return nil, err
		}
		return kv.NewRedisSlot(client, cfg.Store.Key), nil
	case config.StoreBackendFile, "":
		return kv.NewFileSlot(cfg.Store.Path)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
