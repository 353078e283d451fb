package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/storedesk/storedesk/application/port/inbound"
	"github.com/storedesk/storedesk/application/usecase/audit"
	"github.com/storedesk/storedesk/application/usecase/catalog"
	"github.com/storedesk/storedesk/infrastructure/adapter/postgres"
	"github.com/storedesk/storedesk/infrastructure/config"
	httpserver "github.com/storedesk/storedesk/infrastructure/http"
	"github.com/storedesk/storedesk/infrastructure/http/handler"
	"github.com/storedesk/storedesk/infrastructure/http/middleware"
	"github.com/storedesk/storedesk/infrastructure/service/companion"
	"github.com/storedesk/storedesk/infrastructure/service/jwt"
	"github.com/storedesk/storedesk/infrastructure/service/logger"
	"github.com/storedesk/storedesk/infrastructure/service/metrics"
	"github.com/storedesk/storedesk/infrastructure/service/ratelimit"
	"github.com/storedesk/storedesk/infrastructure/service/session"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize structured logger
	structuredLogger := logger.NewStructuredLogger(logger.LoggerConfig{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: "storedesk-dashboard",
	})
	structuredLogger.Info(ctx, "Application starting", map[string]interface{}{
		"version": "1.0.0",
		"env":     cfg.Environment,
	})

	// Connect to database
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		structuredLogger.Error(ctx, "Failed to connect to database", err, nil)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		structuredLogger.Error(ctx, "Failed to ping database", err, nil)
		log.Fatalf("Failed to ping database: %v", err)
	}
	structuredLogger.Info(ctx, "Database connection established", nil)

	// Rate limiting falls back to noop when Redis is unreachable
	var rateLimitService inbound.RateLimitService
	rateLimitService, err = ratelimit.NewRateLimitService(ratelimit.Config{
		Enabled:       cfg.RateLimitEnabled,
		RedisURL:      cfg.RedisURL,
		IPAttempts:    cfg.RateLimitIPAttempts,
		IPWindow:      cfg.RateLimitIPWindow,
		UserAttempts:  cfg.RateLimitUserAttempts,
		UserWindow:    cfg.RateLimitUserWindow,
		BlockDuration: cfg.RateLimitBlockDuration,
	}, structuredLogger)
	if err != nil {
		structuredLogger.Error(ctx, "Failed to initialize rate limit service, continuing without it", err, nil)
		rateLimitService = ratelimit.NewNoopRateLimitService()
	}

	// Initialize repositories
	auditRepo := postgres.NewAuditLogRepository(db)
	productRepo := postgres.NewProductRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	userRepo := postgres.NewUserRepositoryAdapter(db)

	// Initialize services
	tokenService, err := jwt.NewJWTService(cfg)
	if err != nil {
		structuredLogger.Error(ctx, "Failed to initialize JWT service", err, nil)
		log.Fatalf("Failed to initialize JWT service: %v", err)
	}
	prom := metrics.NewPrometheus("dashboard")
	sessionProvider := session.NewProvider(userRepo)
	companionClient := companion.NewClient(cfg.CompanionAPIURL, cfg.CompanionTimeout, structuredLogger)

	// Audit subsystem
	recorder := audit.NewRecorder(auditRepo, sessionProvider, prom, structuredLogger, cfg.AuditWriteTimeout)
	auditQuery := audit.NewQueryUseCase(auditRepo)
	revertEngine := audit.NewRevertEngine(
		auditRepo,
		productRepo,
		orderRepo,
		eventRepo,
		companionClient,
		sessionProvider,
		prom,
		structuredLogger,
		cfg.RevertTimeout,
	)
	softDelete := audit.NewSoftDeleteManager(auditRepo, sessionProvider, structuredLogger)

	// Catalog use cases
	productUseCase := catalog.NewProductUseCase(productRepo, companionClient, sessionProvider, recorder, structuredLogger)
	bulkUseCase := catalog.NewBulkUseCase(productUseCase, prom, structuredLogger, cfg.BulkMaxConcurrency)
	orderUseCase := catalog.NewOrderUseCase(orderRepo, companionClient, sessionProvider, recorder, structuredLogger)
	userUseCase := catalog.NewUserUseCase(userRepo, companionClient, sessionProvider, recorder, structuredLogger)
	eventUseCase := catalog.NewEventUseCase(eventRepo, sessionProvider, recorder, structuredLogger)
	exportUseCase := catalog.NewExportUseCase(auditRepo, productRepo, orderRepo, userRepo, sessionProvider, recorder, structuredLogger)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenService, sessionProvider, structuredLogger)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(rateLimitService, middleware.RateLimitPolicy{
		IPAttempts:    cfg.RateLimitIPAttempts,
		IPWindow:      cfg.RateLimitIPWindow,
		UserAttempts:  cfg.RateLimitUserAttempts,
		UserWindow:    cfg.RateLimitUserWindow,
		BlockDuration: cfg.RateLimitBlockDuration,
	}, structuredLogger)

	routerConfig := httpserver.RouterConfig{
		Logger:              structuredLogger,
		Auth:                authMiddleware,
		RateLimit:           rateLimitMiddleware,
		CorrelationIDHeader: cfg.LogCorrelationIDHeader,
		RequestTimeout:      cfg.RequestTimeout,
		EnableRequestLog:    cfg.LogEnableRequestLog,
	}
	if cfg.MetricsEnabled {
		routerConfig.Observer = prom
		routerConfig.MetricsHandler = prom.Handler()
	}
	if cfg.CORSEnabled {
		routerConfig.CORSAllowedOrigins = cfg.CORSAllowedOrigins
		routerConfig.CORSCredentials = cfg.CORSAllowCredentials
	}

	router := httpserver.NewDashboardRouter(routerConfig, httpserver.DashboardHandlers{
		Audit:       handler.NewAuditHandler(auditQuery, revertEngine, softDelete),
		Products:    handler.NewProductHandler(productUseCase, bulkUseCase),
		Orders:      handler.NewOrderHandler(orderUseCase),
		Users:       handler.NewUserHandler(userUseCase),
		Events:      handler.NewEventHandler(eventUseCase),
		Export:      handler.NewExportHandler(exportUseCase),
		Permissions: handler.NewPermissionsHandler(sessionProvider),
	})

	server := httpserver.NewServer(httpserver.ServerConfig{
		Name:         "dashboard",
		Addr:         cfg.ServerAddr(),
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
	}, router, structuredLogger)

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			structuredLogger.Error(ctx, "Server failed to start", err, map[string]interface{}{
				"addr": server.Addr(),
			})
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		structuredLogger.Error(ctx, "Server forced to shutdown", err, nil)
	}
	structuredLogger.Info(ctx, "Server exited", nil)
}
