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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-timetable/api/swagger"
	"github.com/noah-isme/sma-timetable/internal/handler"
	internalmiddleware "github.com/noah-isme/sma-timetable/internal/middleware"
	"github.com/noah-isme/sma-timetable/internal/models"
	"github.com/noah-isme/sma-timetable/internal/repository"
	"github.com/noah-isme/sma-timetable/internal/service"
	"github.com/noah-isme/sma-timetable/pkg/cache"
	"github.com/noah-isme/sma-timetable/pkg/config"
	"github.com/noah-isme/sma-timetable/pkg/database"
	"github.com/noah-isme/sma-timetable/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-timetable/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-timetable/pkg/middleware/requestid"
)

// @title SMA Timetable API
// @version 1.0.0
// @description Weekly class timetable generation with teacher clash avoidance
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	metricsSvc := service.NewMetricsService()

	var store service.ProjectStore
	if cfg.Persistence.Enabled {
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			logr.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer db.Close() //nolint:errcheck
		repo := repository.NewProjectRepository(db)
		repo.SetQueryObserver(metricsSvc.ObserveDBQuery)
		if err := repo.EnsureSchema(ctx); err != nil {
			logr.Fatal("failed to prepare project schema", zap.Error(err))
		}
		store = repo
	}

	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, timetable cache disabled", zap.Error(err))
		} else {
			repo := repository.NewCacheRepository(client, logr).WithNamespace(cfg.Cache.Namespace)
			defer repo.Close() //nolint:errcheck
			cacheRepo = repo
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, cacheRepo != nil)

	validate := validator.New()
	timetableSvc := service.NewTimetableService(store, cacheSvc, metricsSvc, service.NewExportService(nil, logr, nil, nil), validate, logr, service.TimetableConfig{
		MaxAttempts: cfg.Scheduler.MaxAttempts,
		Seed:        cfg.Scheduler.Seed,
		Workers:     cfg.Scheduler.Workers,
		QueueSize:   cfg.Scheduler.QueueSize,
		CacheTTL:    cfg.Cache.TTL,
	})
	timetableSvc.Start(ctx)
	defer timetableSvc.Stop()

	tokens := service.NewTokenService(cfg.JWT.Secret, cfg.JWT.Expiration)

	projectHandler := handler.NewProjectHandler(timetableSvc)
	timetableHandler := handler.NewTimetableHandler(timetableSvc)
	jobHandler := handler.NewJobHandler(timetableSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/ready", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))
	r.Use(internalmiddleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	admin := api.Group("")
	admin.Use(internalmiddleware.JWT(tokens), internalmiddleware.RequireRoles(models.RoleAdmin, models.RoleSuperAdmin))

	api.GET("/metrics/summary", metricsHandler.Summary)
	api.GET("/jobs/:jobId", jobHandler.Get)

	api.GET("/projects", projectHandler.List)
	api.GET("/projects/:id", projectHandler.Get)
	api.GET("/projects/:id/clashes", projectHandler.Clashes)
	admin.POST("/projects", projectHandler.Import)
	admin.POST("/projects/:id/save", projectHandler.Save)
	admin.POST("/projects/:id/generate", projectHandler.Generate)

	api.GET("/projects/:id/classes/:classId/timetable", timetableHandler.Get)
	api.GET("/projects/:id/classes/:classId/remainder", timetableHandler.Remainder)
	api.GET("/projects/:id/classes/:classId/export", timetableHandler.Export)
	admin.POST("/projects/:id/classes/:classId/generate", timetableHandler.Generate)
	admin.POST("/projects/:id/classes/:classId/lock", timetableHandler.Lock)
	admin.POST("/projects/:id/classes/:classId/unlock", timetableHandler.Unlock)
	admin.POST("/projects/:id/classes/:classId/swap", timetableHandler.Swap)
	admin.POST("/projects/:id/classes/:classId/delete", timetableHandler.Delete)
	admin.POST("/projects/:id/classes/:classId/place", timetableHandler.Place)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("server shutdown failed", "error", err)
	}
	logr.Sugar().Infow("server stopped")
}
