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
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/cms-api/api/swagger"
	"github.com/noah-isme/cms-api/internal/handler"
	internalmiddleware "github.com/noah-isme/cms-api/internal/middleware"
	"github.com/noah-isme/cms-api/internal/repository"
	"github.com/noah-isme/cms-api/internal/service"
	"github.com/noah-isme/cms-api/pkg/cache"
	"github.com/noah-isme/cms-api/pkg/config"
	"github.com/noah-isme/cms-api/pkg/database"
	"github.com/noah-isme/cms-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/cms-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/cms-api/pkg/middleware/requestid"
)

// @title Course Management API
// @version 1.0.0
// @description Students, courses and enrollments.
// @BasePath /api
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db, logr); err != nil {
			logr.Fatal("failed to migrate database", zap.Error(err))
		}
	}

	var redisClient redis.UniversalClient
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, catalog cache disabled", zap.Error(err))
		} else {
			redisClient = client
		}
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}

	validate := validator.New()
	studentRepo := repository.NewStudentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	userRepo := repository.NewUserRepository(db)

	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, redisClient != nil)
	studentSvc := service.NewStudentService(studentRepo, cacheSvc, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, cacheSvc, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, studentRepo, courseRepo, metricsSvc, validate, logr)
	exportSvc := service.NewExportService(courseRepo, enrollmentRepo, logr)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.Auth.Secret,
		AccessTokenExpiry: cfg.Auth.Expiration,
		Issuer:            cfg.Auth.Issuer,
	})

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	checks := map[string]handler.Pinger{"database": db}
	if redisClient != nil {
		checks["cache"] = handler.PingFunc(cacheRepo.Ping)
	}
	var metricsHandler *handler.MetricsHandler
	if metricsSvc != nil {
		metricsHandler = handler.NewMetricsHandler(metricsSvc.Handler())
	}
	handler.RegisterSystemRoutes(r, handler.NewHealthHandler(checks, logr), metricsHandler)

	var authHandler *handler.AuthHandler
	if cfg.Auth.Enabled {
		authHandler = handler.NewAuthHandler(authSvc)
	}
	handler.RegisterRoutes(r.Group(cfg.APIPrefix), handler.Handlers{
		Students:    handler.NewStudentHandler(studentSvc),
		Courses:     handler.NewCourseHandler(courseSvc),
		Enrollments: handler.NewEnrollmentHandler(enrollmentSvc, exportSvc),
		Auth:        authHandler,
	}, handler.RouteOptions{AuthEnabled: cfg.Auth.Enabled, Validator: authSvc})

	if cfg.Env != config.EnvProduction {
		swagger.SwaggerInfo.BasePath = cfg.APIPrefix
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Env),
			zap.Bool("auth", cfg.Auth.Enabled),
			zap.Bool("cache", redisClient != nil),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
