package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/k11-scheduler/api/swagger"
	"github.com/noah-isme/k11-scheduler/internal/engine"
	"github.com/noah-isme/k11-scheduler/internal/engine/proposalcache"
	"github.com/noah-isme/k11-scheduler/internal/handler"
	"github.com/noah-isme/k11-scheduler/internal/metrics"
	"github.com/noah-isme/k11-scheduler/pkg/cache"
	"github.com/noah-isme/k11-scheduler/pkg/config"
	"github.com/noah-isme/k11-scheduler/pkg/logger"
	corsmiddleware "github.com/noah-isme/k11-scheduler/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/k11-scheduler/pkg/middleware/requestid"
)

// @title K-11 Scheduler
// @version 0.1.0
// @description Weekly timetable generation engine
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	reg := prometheus.NewRegistry()
	mcs := metrics.New(reg)

	var store proposalcache.Store = proposalcache.NewMemory(cfg.Generator.ProposalTTL)
	if cfg.Redis.Enabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis proposal cache disabled, falling back to memory", "error", err)
		} else {
			store = proposalcache.NewRedis(client, cfg.Generator.ProposalTTL)
		}
	}

	eng := engine.New(engine.Config{
		NumOptions:          cfg.Generator.NumOptions,
		NumAttempts:         cfg.Generator.NumAttempts,
		TimeoutPerAttemptMs: cfg.Generator.TimeoutPerAttemptMs,
	}, logr, validator.New(), store, mcs)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(nil))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	genHandler := handler.NewGenerateHandler(eng, store, logr)

	api := r.Group(cfg.APIPrefix)
	api.POST("/generate", genHandler.Generate)
	api.GET("/proposals/:id", genHandler.GetProposal)
	api.DELETE("/proposals/:id", genHandler.DeleteProposal)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
