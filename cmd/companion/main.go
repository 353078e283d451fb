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
	"github.com/storedesk/storedesk/application/port/outbound"
	"github.com/storedesk/storedesk/application/usecase/companion"
	"github.com/storedesk/storedesk/infrastructure/adapter/kafka"
	"github.com/storedesk/storedesk/infrastructure/adapter/postgres"
	"github.com/storedesk/storedesk/infrastructure/config"
	httpserver "github.com/storedesk/storedesk/infrastructure/http"
	"github.com/storedesk/storedesk/infrastructure/http/handler"
	"github.com/storedesk/storedesk/infrastructure/http/middleware"
	"github.com/storedesk/storedesk/infrastructure/http/response"
	"github.com/storedesk/storedesk/infrastructure/service/jwt"
	"github.com/storedesk/storedesk/infrastructure/service/logger"
	"github.com/storedesk/storedesk/infrastructure/service/metrics"
	"github.com/storedesk/storedesk/infrastructure/service/password"
	"github.com/storedesk/storedesk/infrastructure/service/ratelimit"
	"github.com/storedesk/storedesk/infrastructure/service/session"
)

// The companion API performs the operations the dashboard may not do with its own credentials
func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	structuredLogger := logger.NewStructuredLogger(logger.LoggerConfig{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: "storedesk-companion",
	})
	structuredLogger.Info(ctx, "Companion API starting", map[string]interface{}{
		"env": cfg.Environment,
	})

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
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

	userRepo := postgres.NewUserRepositoryAdapter(db)
	productRepo := postgres.NewProductRepository(db)
	orderRepo := postgres.NewOrderRepository(db)

	tokenService, err := jwt.NewJWTService(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize JWT service: %v", err)
	}
	passwordService := password.NewBcryptPasswordService(10)
	sessionProvider := session.NewProvider(userRepo)
	prom := metrics.NewPrometheus("companion")

	// Email jobs go to Kafka; without brokers they are only logged
	var publisher interface {
		outbound.EmailJobPublisher
		Close() error
	}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = kafka.NewEmailJobPublisher(cfg.KafkaBrokers, cfg.KafkaEmailTopic, structuredLogger)
		structuredLogger.Info(ctx, "Kafka email publisher initialized", map[string]interface{}{
			"brokers": cfg.KafkaBrokers,
			"topic":   cfg.KafkaEmailTopic,
		})
	} else {
		publisher = kafka.NewLogPublisher(structuredLogger)
		structuredLogger.Warn(ctx, "KAFKA_BROKERS not set, email jobs will be dropped", nil)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			structuredLogger.Error(ctx, "Failed to close email publisher", err, nil)
		}
	}()

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

	companionUseCase := companion.NewCompanionUseCase(
		userRepo,
		productRepo,
		orderRepo,
		passwordService,
		publisher,
		structuredLogger,
	)

	authMiddleware := middleware.NewAuthMiddleware(tokenService, sessionProvider, structuredLogger).
		WithErrorWriter(response.CompanionError)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(rateLimitService, middleware.RateLimitPolicy{
		IPAttempts:    cfg.RateLimitIPAttempts,
		IPWindow:      cfg.RateLimitIPWindow,
		UserAttempts:  cfg.RateLimitUserAttempts,
		UserWindow:    cfg.RateLimitUserWindow,
		BlockDuration: cfg.RateLimitBlockDuration,
	}, structuredLogger).WithErrorWriter(response.CompanionError)

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

	router := httpserver.NewCompanionRouter(routerConfig, handler.NewCompanionHandler(companionUseCase))
	server := httpserver.NewServer(httpserver.ServerConfig{
		Name: "companion",
		Addr: cfg.CompanionAddr(),
	}, router, structuredLogger)

	go func() {
		if err := server.Start(); err != nil {
			structuredLogger.Error(ctx, "Server failed to start", err, map[string]interface{}{
				"addr": server.Addr(),
			})
			os.Exit(1)
		}
	}()

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
