package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/interview-sim/interview-service/internal/cache"
	"github.com/interview-sim/interview-service/internal/config"
	"github.com/interview-sim/interview-service/internal/evaluator"
	"github.com/interview-sim/interview-service/internal/handlers"
	"github.com/interview-sim/interview-service/internal/models"
	"github.com/interview-sim/interview-service/internal/repositories/postgres"
	"github.com/interview-sim/interview-service/internal/services"
	"github.com/interview-sim/interview-service/internal/session"
	"github.com/interview-sim/interview-service/internal/utils"
	"github.com/interview-sim/interview-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
	} else {
		logger = utils.NewDevelopmentLogger()
	}
	slogger := slog.Default()
	if sl, ok := logger.(*utils.SlogLogger); ok {
		slogger = sl.GetSlogLogger()
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := db.AutoMigrate(&models.Question{}, &models.EvaluationReport{}); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	cacheService := cache.NewRedisCache(redisClient, slogger)
	repo := postgres.NewRepository(db)

	eventCfg := config.LoadEventConfig()
	publisher, err := eventCfg.CreateSessionPublisher(slogger)
	if err != nil {
		logger.Error("failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	validator := utils.NewValidator()

	questionService := services.NewQuestionService(
		repo,
		cacheService,
		services.NewBankGenerator(repo),
		slogger,
		validator,
	)
	if err := questionService.SeedDefaultBank(context.Background()); err != nil {
		logger.Warn("failed to seed default question bank", "error", err)
	}

	importExport := services.NewImportExportService(repo, slogger)
	reportService := services.NewReportService(repo, slogger)

	evalClient := evaluator.NewClient(cfg.EvaluatorURL, cfg.EvaluatorTimeout, slogger)

	manager := session.NewManager(
		questionService,
		evalClient,
		publisher,
		reportService,
		slogger,
	)
	manager.SetSnapshotCache(cacheService, time.Hour)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))

	handlerManager := handlers.NewHandlerManager(
		manager,
		questionService,
		importExport,
		reportService,
		validator,
		logger,
	)
	handlerManager.SetupRoutes(router)

	logger.Info("interview service listening", "port", cfg.Port, "environment", cfg.Environment)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
