package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/wrd-mh/pah-award-api/api/routes"
	_ "github.com/wrd-mh/pah-award-api/api/swagger"
	"github.com/wrd-mh/pah-award-api/internal/handler"
	"github.com/wrd-mh/pah-award-api/internal/repository"
	"github.com/wrd-mh/pah-award-api/internal/service"
	rediscache "github.com/wrd-mh/pah-award-api/pkg/cache"
	"github.com/wrd-mh/pah-award-api/pkg/config"
	"github.com/wrd-mh/pah-award-api/pkg/database"
	"github.com/wrd-mh/pah-award-api/pkg/jobs"
	"github.com/wrd-mh/pah-award-api/pkg/logger"
	corsmiddleware "github.com/wrd-mh/pah-award-api/pkg/middleware/cors"
	reqidmiddleware "github.com/wrd-mh/pah-award-api/pkg/middleware/requestid"
	"github.com/wrd-mh/pah-award-api/pkg/storage"
)

// @title Punyashlok Ahilyabai Holkar Award API
// @version 1.0.0
// @description Award nomination workflow for Maharashtra Water User Associations
// @BasePath /api/v1
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	validate := validator.New()
	metrics := service.NewMetricsService()
	readyChecks := map[string]func(context.Context) error{
		"database": db.PingContext,
	}

	var cacheSvc *service.CacheService
	if cfg.Cache.Enabled {
		redisClient, err := rediscache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, continuing without cache", zap.Error(err))
		} else {
			defer redisClient.Close()
			readyChecks["redis"] = func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			}
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metrics, cfg.Cache.QueueTTL, logr, true)
		}
	}

	userRepo := repository.NewUserRepository(db)
	wuaRepo := repository.NewWUARepository(db)
	nominationRepo := repository.NewNominationRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)
	reportRepo := repository.NewReportRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "pah-award-api",
	})
	userSvc := service.NewUserService(userRepo, validate, logr)
	wuaSvc := service.NewWUAService(wuaRepo, validate, logr)
	assessmentSvc := service.NewAssessmentService(assessmentRepo, cacheSvc, cfg.Cache.RubricTTL, logr)

	workflowSvc := service.NewWorkflowService(nominationRepo, wuaRepo, assessmentSvc, userRepo, service.WorkflowYears{
		Min:    cfg.Awards.MinYear,
		Max:    cfg.Awards.MaxYear,
		Active: cfg.Awards.ActiveYear,
	}, validate, logr).WithMetrics(metrics)
	if cacheSvc != nil {
		workflowSvc = workflowSvc.WithCache(cacheSvc)
	}

	dashboardSvc := service.NewDashboardService(nominationRepo, cacheSvc, logr, service.DashboardServiceConfig{
		CacheTTL: cfg.Dashboard.CacheTTL,
	})

	var reportSvc *service.ReportService
	var reportQueue *jobs.Queue
	if cfg.Reports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
		if err != nil {
			logr.Fatal("report storage init failed", zap.Error(err))
		}
		signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
		exportSvc := service.NewExportService(nominationRepo, wuaRepo, store, signer, service.ExportConfig{
			APIPrefix: cfg.APIPrefix,
			ResultTTL: cfg.Reports.SignedURLTTL,
		}, logr)
		worker := service.NewReportWorker(reportRepo, exportSvc, cfg.Reports.WorkerRetries, logr)
		reportQueue = jobs.NewQueue("reports", worker.Handle, jobs.QueueConfig{
			Workers:    cfg.Reports.WorkerConcurrency,
			MaxRetries: cfg.Reports.WorkerRetries,
			Logger:     logr,
		})
		reportQueue.Start(ctx)
		defer reportQueue.Stop()

		reportSvc = service.NewReportService(reportRepo, reportQueue, exportSvc, logr, service.ReportServiceConfig{
			ResultTTL:       cfg.Reports.SignedURLTTL,
			CleanupInterval: time.Hour,
			MaxRetries:      cfg.Reports.WorkerRetries,
		})
		reportSvc.RecoverPendingJobs(ctx)
		reportSvc.StartCleanup(ctx)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	handlers := routes.Handlers{
		Auth:        handler.NewAuthHandler(authSvc),
		Users:       handler.NewUserHandler(userSvc),
		WUAs:        handler.NewWUAHandler(wuaSvc),
		Nominations: handler.NewNominationHandler(workflowSvc),
		Assessment:  handler.NewAssessmentHandler(assessmentSvc),
		Dashboard:   handler.NewDashboardHandler(dashboardSvc, metrics),
		Metrics:     handler.NewMetricsHandler(metrics, readyChecks),
	}
	if reportSvc != nil {
		handlers.Reports = handler.NewReportHandler(reportSvc, logr)
	}

	routes.Register(r, handlers, routes.Options{
		AuthService: authSvc,
		Metrics:     metrics,
		AuditRepo:   userRepo,
		EnableDocs:  cfg.Env != config.EnvProduction,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
