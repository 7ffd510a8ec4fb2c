package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/credlens/credlens/internal/analysis"
	"github.com/credlens/credlens/internal/cache"
	"github.com/credlens/credlens/internal/config"
	"github.com/credlens/credlens/internal/content"
	"github.com/credlens/credlens/internal/engine"
	apperrors "github.com/credlens/credlens/internal/errors"
	"github.com/credlens/credlens/internal/history"
	"github.com/credlens/credlens/internal/monitoring"
	"github.com/credlens/credlens/internal/providers"
	"github.com/credlens/credlens/internal/ratelimit"
	"github.com/credlens/credlens/internal/storage"
	"github.com/credlens/credlens/internal/weights"
)

func main() {
	logger := monitoring.NewLogger(slog.LevelInfo)
	slog.SetDefault(logger)

	cfg := config.Load()

	var cal *config.Calibration
	if cfg.CalibrationPath != "" {
		loaded, err := config.LoadCalibration(cfg.CalibrationPath)
		if err != nil {
			logger.Warn("failed to load calibration file, using built-in defaults", "error", err)
		} else {
			cal = loaded
			logger.Info("calibration loaded", "path", cfg.CalibrationPath)
		}
	}
	combiner := cal.Apply(&cfg)

	// Persistence is a collaborator, not a requirement: if the database
	// cannot be opened, scoring and learning continue in memory.
	var store *storage.Store
	var persister weights.Persister
	var recorder engine.AnalysisRecorder
	if st, err := storage.New(cfg.DataDir, logger); err != nil {
		logger.Warn("persistence unavailable, continuing with in-memory state", "error", err)
	} else {
		store = st
		persister = st
		recorder = st
		defer st.Close()
	}

	weightStore := weights.NewStore(persister, logger)
	learner := weights.NewLearner(weightStore, cal.ReasonRulesOrDefault(), logger)

	histLog := history.NewLog(cfg.HistoryCapacity)
	if store != nil {
		if entries, err := store.RecentHistory(cfg.HistoryCapacity); err != nil {
			logger.Warn("failed to restore analysis history", "error", err)
		} else if len(entries) > 0 {
			histLog.Seed(entries)
			logger.Info("analysis history restored", "entries", len(entries))
		}
	}

	eng := engine.New(engine.Config{
		MaxTextChars: cfg.MaxTextChars,
		Combiner:     combiner,
	}, weightStore, learner, histLog, recorder, logger)

	srv := &Server{
		engine:    eng,
		fetcher:   content.NewFetcher(15 * time.Second),
		factCheck: providers.NewFactCheckClient(cfg.FactCheckAPIKey, logger),
		cache:     cache.New(15 * time.Minute),
		store:     store,
		metrics:   monitoring.NewMetrics(),
		logger:    logger,
	}

	limiter := ratelimit.New(cfg.RedisAddr, cfg.RateLimitPerMin, logger)

	r := gin.New()
	r.Use(apperrors.RecoveryHandler())
	r.Use(monitoring.Middleware(srv.metrics, logger))
	r.Use(apperrors.ErrorHandler())

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	r.Use(cors.New(corsConfig))

	r.GET("/health", srv.handleHealth)

	api := r.Group("/api")
	{
		api.POST("/analyze", limiter.Middleware(), srv.handleAnalyze)
		api.POST("/feedback", srv.handleFeedback)
		api.GET("/weights", srv.handleWeights)
		api.POST("/weights/reset", srv.handleResetWeights)
		api.GET("/history", srv.handleHistory)
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening",
			"port", cfg.Port,
			"analyzers", len(analysis.Registry()),
			"history_capacity", cfg.HistoryCapacity,
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
