package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/coursedeck/coursedeck-api/api/swagger"
	"github.com/coursedeck/coursedeck-api/internal/handler"
	"github.com/coursedeck/coursedeck-api/internal/repository"
	"github.com/coursedeck/coursedeck-api/internal/service"
	"github.com/coursedeck/coursedeck-api/pkg/cache"
	"github.com/coursedeck/coursedeck-api/pkg/config"
	"github.com/coursedeck/coursedeck-api/pkg/database"
	"github.com/coursedeck/coursedeck-api/pkg/export"
	"github.com/coursedeck/coursedeck-api/pkg/logger"
)

// @title Coursedeck API
// @version 1.0.0
// @description Course marketplace: accounts, catalog, purchases
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	if err := database.RunMigrations(database.URL(cfg.Database)); err != nil {
		logr.Sugar().Fatalw("failed to run migrations", "error", err)
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// The catalog cache is an optimization; the API serves without it.
		logr.Warn("redis unavailable, catalog cache disabled", zap.Error(err))
		redisClient = nil
	}

	identityRepo := repository.NewIdentityRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	tokenSvc := service.NewTokenService(service.TokenConfig{
		UserSecret:  cfg.Auth.UserSecret,
		AdminSecret: cfg.Auth.AdminSecret,
		TTL:         cfg.Auth.TokenTTL,
		Issuer:      cfg.Auth.Issuer,
	})
	accountSvc := service.NewAccountService(identityRepo, tokenSvc, nil, logr, service.AccountConfig{
		MinPasswordLength: cfg.Auth.MinPasswordLength,
	})
	courseSvc := service.NewCourseService(courseRepo, cacheRepo, nil, logr, service.CourseConfig{
		CatalogCacheTTL: cfg.Catalog.CacheTTL,
	})
	purchaseSvc := service.NewPurchaseService(purchaseRepo, courseRepo, identityRepo, metricsSvc, nil, logr)

	router := handler.Router{
		Config:    cfg,
		Logger:    logr,
		Tokens:    tokenSvc,
		Metrics:   metricsSvc,
		Accounts:  handler.NewAccountHandler(accountSvc),
		Courses:   handler.NewCourseHandler(courseSvc),
		Purchases: handler.NewPurchaseHandler(purchaseSvc, export.NewReceiptExporter()),
	}

	engine := router.Build()

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := engine.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
