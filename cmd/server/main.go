package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/form-service/internal/cache"
	"github.com/SAP-F-2025/form-service/internal/config"
	"github.com/SAP-F-2025/form-service/internal/handlers"
	"github.com/SAP-F-2025/form-service/internal/metrics"
	"github.com/SAP-F-2025/form-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/form-service/internal/scoring"
	"github.com/SAP-F-2025/form-service/internal/services"
	"github.com/SAP-F-2025/form-service/internal/submission"
	"github.com/SAP-F-2025/form-service/internal/utils"
	"github.com/SAP-F-2025/form-service/internal/validator"
	"github.com/SAP-F-2025/form-service/pkg"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		utils.NewDefaultLogger().LogError(err, "Failed to load configuration")
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Environment, cfg.LogFile)
	slogger := logger.Slog()

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.LogError(err, "Failed to initialize database")
		os.Exit(1)
	}
	if err := pkg.Migrate(db); err != nil {
		logger.LogError(err, "Failed to migrate database")
		os.Exit(1)
	}

	// Redis only backs the public form cache; run without it when unreachable
	var formCache *cache.FormCache
	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, public form cache disabled", "error", err)
	} else {
		defer redisClient.Close()
		formCache = cache.NewFormCache(cache.NewRedisCache(redisClient, slogger), cfg.PublicFormCacheTTL, slogger)
	}

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		logger.LogError(err, "Failed to create event publisher")
		os.Exit(1)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.LogError(err, "Failed to close event publisher")
		}
	}()

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	scorerOpts := []scoring.Option{scoring.WithLogger(slogger)}
	if cfg.Scoring.ScoreChoiceQuestions {
		scorerOpts = append(scorerOpts, scoring.WithChoiceScoring())
	}
	if cfg.Scoring.StrictComprehension {
		scorerOpts = append(scorerOpts, scoring.WithStrictComprehension())
	}

	serviceManager := services.NewServiceManager(services.Dependencies{
		Forms:     postgres.NewFormPostgreSQL(db),
		Responses: postgres.NewResponsePostgreSQL(db),
		Tx:        postgres.NewTransactionManager(db),
		Cache:     formCache,
		Publisher: publisher,
		Metrics:   m,
		Evaluator: submission.NewEvaluator(scoring.NewScorer(scorerOpts...), slogger),
		Validator: validator.New(),
		Logger:    slogger,
	})

	var parser handlers.TokenParser
	if cfg.Auth.Enabled() {
		parser = handlers.NewCasdoorParser(cfg.Auth)
	} else {
		logger.Warn("Casdoor is not configured, bearer tokens will be rejected")
	}
	trustHeaders := !cfg.Auth.Enabled() && cfg.Environment == "development"
	authenticator := handlers.NewAuthenticator(parser, trustHeaders, logger)

	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), utils.LoggerMiddleware(logger), utils.ContextLogger(logger))
	handlers.NewHandlerManager(serviceManager, authenticator, m, logger).SetupRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.LogError(err, "Server failed")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.LogError(err, "Server forced to shutdown")
	}

	logger.Info("Server exited")
}
