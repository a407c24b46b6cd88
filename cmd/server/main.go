package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wms/backend/internal/application/audit"
	inventoryapp "github.com/wms/backend/internal/application/inventory"
	putawayapp "github.com/wms/backend/internal/application/putaway"
	receivingapp "github.com/wms/backend/internal/application/receiving"
	warehouseapp "github.com/wms/backend/internal/application/warehouse"
	"github.com/wms/backend/internal/infrastructure/cache"
	"github.com/wms/backend/internal/infrastructure/config"
	"github.com/wms/backend/internal/infrastructure/event"
	"github.com/wms/backend/internal/infrastructure/logger"
	"github.com/wms/backend/internal/infrastructure/persistence"
	"github.com/wms/backend/internal/infrastructure/telemetry"
	"github.com/wms/backend/internal/interfaces/http/handler"
	"github.com/wms/backend/internal/interfaces/http/middleware"
	"github.com/wms/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

//	@title			WMS Backend API
//	@version		1.0
//	@description	Warehouse putaway and capacity accounting API

//	@contact.name	API Support
//	@contact.url	https://github.com/wms/backend

//	@host		localhost:8080
//	@BasePath	/api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting WMS Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection with zap-backed GORM logging
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize distributed tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.App.Name,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Metrics export shares the tracer's collector endpoint
	meterProvider, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsExportInterval,
		ServiceName:       cfg.App.Name,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	loggerProvider, err := telemetry.NewLoggerProvider(context.Background(), telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.App.Name,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize log provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down log provider", zap.Error(err))
		}
	}()

	// Mirror application logs to the collector when log export is on
	if loggerProvider.IsEnabled() {
		otelCore := telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
			ServiceName:    cfg.App.Name,
			LoggerProvider: loggerProvider,
			Level:          zapcore.InfoLevel,
		})
		log = telemetry.NewBridgedLogger(log.Core(), otelCore)
	}

	// Continuous profiling; NewProfiler is a no-op when disabled
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Telemetry.ProfilingEnabled,
		ServerAddress:     cfg.Telemetry.ProfilingServerAddress,
		ApplicationName:   cfg.App.Name,
		ProfileCPU:        true,
		ProfileInuseSpace: true,
		ProfileGoroutines: true,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()

	// Database query spans and client metrics ride on the providers above
	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:          cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:       cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh:  cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:         "postgresql",
		WithoutVariables: !cfg.Telemetry.DBLogFullSQL,
	}, log)
	if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, meterProvider, telemetry.DBMetricsConfig{
		Enabled:            cfg.Telemetry.MetricsEnabled,
		SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
		PoolStatsInterval:  15 * time.Second,
	}, log)
	if err != nil {
		log.Fatal("Failed to register database metrics", zap.Error(err))
	}
	if dbMetrics != nil {
		dbMetrics.StartPoolStatsCollection(context.Background())
		defer dbMetrics.Stop()
	}

	// Holding backlog and storage exhaustion gauges, refreshed per tenant
	if meterProvider.IsEnabled() {
		warehouseMetrics, err := telemetry.NewWarehouseMetrics(telemetry.WarehouseMetricsConfig{
			Meter:            meterProvider.Meter("wms.warehouse"),
			Logger:           log,
			CollectInterval:  cfg.Telemetry.CapacityCollectInterval,
			CapacityProvider: telemetry.NewGormCapacityMetricsProvider(db.DB),
		})
		if err != nil {
			log.Fatal("Failed to initialize warehouse metrics", zap.Error(err))
		}
		warehouseMetrics.StartPeriodicCollection(context.Background(),
			telemetry.NewGormTenantProvider(db.DB), cfg.Telemetry.CapacityCollectInterval)
		defer warehouseMetrics.Stop()
	}

	// Initialize repositories
	locationRepo := persistence.NewGormLocationRepository(db.DB)
	recordRepo := persistence.NewGormRecordRepository(db.DB)
	shipmentRepo := persistence.NewGormShipmentRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Initialize application services
	locationService := warehouseapp.NewLocationService(locationRepo)
	receivingService := receivingapp.NewService(shipmentRepo, locationRepo, txScope)
	putawayService := putawayapp.NewService(
		shipmentRepo,
		locationRepo,
		recordRepo,
		txScope,
		log,
		putawayapp.WithDriftCheck(cfg.Putaway.DriftCheckEnabled),
		putawayapp.WithAutoMaxLines(cfg.Putaway.AutoMaxLines),
	)
	queryService := inventoryapp.NewQueryService(recordRepo)

	// Initialize event bus with a buffered queue and bounded handler time
	eventBus := event.NewInMemoryEventBus(log,
		event.WithBufferSize(cfg.Event.BufferSize),
		event.WithHandlerTimeout(cfg.Event.HandlerTimeout),
	)

	// The audit trail handler records every stock and capacity mutation.
	// It is wrapped for idempotent delivery: Redis-backed dedup when
	// available, in-memory fallback otherwise.
	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(true),
	).CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}

	auditHandler := audit.NewHandler(log)
	idempotentAuditHandler := event.NewIdempotentHandler(auditHandler, idempotencyStore, log)
	eventBus.Subscribe(idempotentAuditHandler)

	log.Info("Event handlers registered",
		zap.Strings("audit_events", auditHandler.EventTypes()),
	)

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Inject event bus into services that publish events
	locationService.SetEventPublisher(eventBus)
	receivingService.SetEventPublisher(eventBus)
	putawayService.SetEventPublisher(eventBus)

	// Initialize HTTP handlers
	locationHandler := handler.NewLocationHandler(locationService)
	shipmentHandler := handler.NewShipmentHandler(receivingService)
	putawayHandler := handler.NewPutawayHandler(putawayService)
	inventoryHandler := handler.NewInventoryHandler(queryService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. Tracing - OpenTelemetry spans per request
	// 6. Profiling - Pyroscope labels per request
	// 7. CORS - Handle cross-origin requests
	// 8. BodyLimit - Limit request body size
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.App.Name,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.ProfilingWithConfig(middleware.ProfilingConfig{
		Enabled:   cfg.Telemetry.ProfilingEnabled,
		SkipPaths: middleware.DefaultProfilingConfig().SkipPaths,
	}))

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Every business route operates within a tenant; system endpoints are exempt
	r.Use(middleware.TenantMiddlewareWithConfig(middleware.TenantMiddlewareConfig{
		SkipPaths: []string{"/api/v1/system", "/api/v1/ping"},
		Required:  true,
		Logger:    log,
	}))

	// Warehouse domain (location registry and capacity limits)
	warehouseRoutes := router.NewDomainGroup("warehouse", "/warehouse")
	warehouseRoutes.POST("/locations", locationHandler.Create)
	warehouseRoutes.GET("/locations", locationHandler.List)
	warehouseRoutes.GET("/locations/storage-candidates", locationHandler.ListStorageCandidates)
	warehouseRoutes.GET("/locations/code/:code", locationHandler.GetByCode)
	warehouseRoutes.GET("/locations/:id", locationHandler.GetByID)
	warehouseRoutes.PUT("/locations/:id", locationHandler.Update)
	warehouseRoutes.DELETE("/locations/:id", locationHandler.Delete)
	warehouseRoutes.POST("/locations/:id/enable", locationHandler.Enable)
	warehouseRoutes.POST("/locations/:id/disable", locationHandler.Disable)

	// Receiving domain (shipment notices and holding intake)
	receivingRoutes := router.NewDomainGroup("receiving", "/receiving")
	receivingRoutes.POST("/shipments", shipmentHandler.Create)
	receivingRoutes.GET("/shipments", shipmentHandler.List)
	receivingRoutes.GET("/shipments/number/:number", shipmentHandler.GetByNumber)
	receivingRoutes.GET("/shipments/:id", shipmentHandler.GetByID)
	receivingRoutes.POST("/shipments/:id/receive", shipmentHandler.Receive)
	receivingRoutes.GET("/shipments/:id/open-lines", shipmentHandler.ListOpenLines)
	receivingRoutes.POST("/shipments/:id/auto-putaway", putawayHandler.AutoPutaway)

	// Putaway operation (holding -> storage stock movement)
	putawayRoutes := router.NewDomainGroup("putaway", "/putaway")
	putawayRoutes.POST("", putawayHandler.Putaway)

	// Inventory domain (read-side record queries and summaries)
	inventoryRoutes := router.NewDomainGroup("inventory", "/inventory")
	inventoryRoutes.GET("/records", inventoryHandler.List)
	inventoryRoutes.GET("/records/:id", inventoryHandler.GetByID)
	inventoryRoutes.GET("/records/item/:item_id/location/:location_id", inventoryHandler.GetByItemAndLocation)
	inventoryRoutes.GET("/locations/:id/summary", inventoryHandler.SummarizeLocation)
	inventoryRoutes.GET("/items/:id/summary", inventoryHandler.SummarizeItem)

	// Register all domain groups
	r.Register(warehouseRoutes).
		Register(receivingRoutes).
		Register(putawayRoutes).
		Register(inventoryRoutes)

	// System routes (tenant-exempt)
	systemHandler := handler.NewSystemHandler()
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	r.Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
