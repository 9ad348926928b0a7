package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/bsm/redislock"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "salonstock/docs"
	"salonstock/internal/analytics"
	"salonstock/internal/caching"
	"salonstock/internal/common"
	"salonstock/internal/config"
	"salonstock/internal/handlers"
	"salonstock/internal/jobs"
	"salonstock/internal/jobs/background"
	"salonstock/internal/middleware"
	"salonstock/internal/repositories"
	"salonstock/internal/services"
	"salonstock/pkg/database"
	applogger "salonstock/pkg/logger"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger := applogger.New(applogger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checks := map[string]handlers.HealthCheck{}

	// Ledger store
	db := repositories.Unconfigured()
	if cfg.Database.URL != "" {
		pool, err := database.NewPool(ctx, cfg.Database.URL, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		if cfg.Database.ApplySchema {
			if err := database.ApplySchema(ctx, pool); err != nil {
				logger.Warn().Err(err).Msg("applying schema failed")
			}
		}
		db = pool
		checks["database"] = pool.Ping
	} else {
		logger.Warn().Msg("DATABASE_URL is empty; store operations will fail with not configured")
		checks["database"] = func(ctx context.Context) error {
			_, err := db.Exec(ctx, "SELECT 1")
			return err
		}
	}

	warehouseRepo := repositories.NewWarehouseRepository(db)
	productRepo := repositories.NewProductRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)

	// Selection store and mutation guard
	cacheSvc := caching.NewMemoryCacheService()
	guard := services.NewLocalGuard()
	if cfg.Redis.Addr != "" {
		client := caching.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
		defer client.Close()
		cacheSvc = caching.NewRedisCacheService(client)
		guard = services.NewRedisGuard(redislock.New(client), cfg.Stock.MutationLockTTL, logger)
		checks["redis"] = cacheSvc.Ping
	}

	// Product images
	var images services.ImageStore
	if cfg.Minio.Endpoint != "" {
		images, err = services.NewMinioImageStore(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.Bucket, cfg.Minio.UseSSL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create image store")
		}
		if err := images.EnsureBucket(ctx); err != nil {
			logger.Warn().Err(err).Str("bucket", cfg.Minio.Bucket).Msg("image bucket unavailable")
		}
		checks["storage"] = images.EnsureBucket
	}

	policy, err := services.ParseCreateFailurePolicy(cfg.Stock.CreateFailurePolicy)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid CREATE_FAILURE_POLICY")
	}

	resolver := services.NewScopeResolver(warehouseRepo, cacheSvc, services.WarehouseDefaults{
		Name:  cfg.Stock.DefaultWarehouseName,
		Color: cfg.Stock.DefaultWarehouseColor,
	}, logger)
	caps := resolver.DetectCapabilities(ctx)
	logger.Info().Bool("warehouses", caps.Warehouses).Msg("store capabilities detected")

	warehouseSvc := services.NewWarehouseService(warehouseRepo, resolver, guard, logger)
	stockSvc := services.NewStockService(productRepo, transactionRepo, warehouseRepo, resolver, guard, policy, logger)
	ledgerSvc := services.NewLedgerQueryService(productRepo, transactionRepo)
	productSvc := services.NewProductService(productRepo, images, logger)
	exportSvc := services.NewExportService(ledgerSvc)
	analyticsSvc := analytics.NewService(productRepo, transactionRepo, logger)

	// Background jobs
	if cfg.Jobs.Enabled {
		scheduler, err := background.NewJobScheduler(
			jobs.NewInventoryAlertService(productRepo, logger),
			jobs.NewReconciliationJob(productRepo, analyticsSvc, logger),
			background.Intervals{LowStock: cfg.Jobs.LowStockInterval, Reconcile: cfg.Jobs.ReconcileInterval},
			logger,
		)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create job scheduler")
		}
		scheduler.Start()
		defer func() {
			if err := scheduler.Stop(); err != nil {
				logger.Warn().Err(err).Msg("stopping scheduler failed")
			}
		}()
	}

	// Authentication
	var jwks *keyfunc.JWKS
	if cfg.Auth.JWKSURL != "" {
		jwks, err = middleware.LoadJWKS(cfg.Auth.JWKSURL, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to load JWKS")
		}
		defer jwks.EndBackground()
	}

	sessionHandlers := handlers.NewSessionHandlers(resolver, warehouseSvc)
	warehouseHandlers := handlers.NewWarehouseHandlers(warehouseSvc, stockSvc, resolver)
	productHandlers := handlers.NewProductHandlers(productSvc, stockSvc, ledgerSvc, resolver)
	transactionHandlers := handlers.NewTransactionHandlers(ledgerSvc, stockSvc, resolver)
	analyticsHandlers := handlers.NewAnalyticsHandlers(analyticsSvc, resolver)
	exportHandlers := handlers.NewExportHandlers(exportSvc, resolver)
	healthHandlers := handlers.NewHealthHandlers(checks, resolver, version)

	e := echo.New()
	e.HideBanner = true
	e.Validator = common.NewRequestValidator()
	e.HTTPErrorHandler = common.ErrorHandler(logger)

	// Global middleware
	e.Use(echoMiddleware.RequestID())
	e.Use(middleware.RequestLogger(logger))
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Pre(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/v1")
	v1.Use(middleware.VersionHeader("v1"))
	v1.Use(echojwt.WithConfig(middleware.JWTConfig(cfg.Auth.JWTSecret, jwks)))
	v1.Use(middleware.TenantContext())

	v1.POST("/session", sessionHandlers.StartSession)

	v1.GET("/warehouses", warehouseHandlers.ListWarehouses)
	v1.POST("/warehouses", warehouseHandlers.CreateWarehouse)
	v1.GET("/warehouses/:id", warehouseHandlers.GetWarehouse)
	v1.PUT("/warehouses/:id", warehouseHandlers.UpdateWarehouse)
	v1.DELETE("/warehouses/:id", warehouseHandlers.DeleteWarehouse)
	v1.POST("/warehouses/:id/default", warehouseHandlers.SetDefaultWarehouse)
	v1.POST("/warehouses/:id/select", warehouseHandlers.SelectWarehouse)

	v1.GET("/products", productHandlers.ListProducts)
	v1.POST("/products", productHandlers.CreateProduct)
	v1.GET("/products/low-stock", productHandlers.ListLowStock)
	v1.GET("/products/:id", productHandlers.GetProduct)
	v1.PUT("/products/:id", productHandlers.UpdateProduct)
	v1.DELETE("/products/:id", productHandlers.DeleteProduct)
	v1.POST("/products/:id/stock", productHandlers.AdjustStock)
	v1.POST("/products/:id/image", productHandlers.UploadImage)

	v1.GET("/transactions", transactionHandlers.ListTransactions)
	v1.DELETE("/transactions/:id", transactionHandlers.DeleteTransaction)

	v1.GET("/analytics/report", analyticsHandlers.InventoryReport)
	v1.GET("/analytics/reconciliation", analyticsHandlers.Reconciliation)

	v1.GET("/export/transactions", exportHandlers.ExportTransactions)
	v1.GET("/export/products", exportHandlers.ExportProducts)

	go func() {
		logger.Info().Str("version", version).Str("port", cfg.App.Port).Msg("salonstock server starting")
		if err := e.Start(":" + cfg.App.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	logger.Info().Msg("server stopped")
}
