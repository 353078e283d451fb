package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL     string
	DBMaxOpenConns  int
	DBMaxIdleConns  int
	JWTSecret       string
	JWTAlgorithm    string
	JWTIssuer       string
	AccessTokenTTL  time.Duration
	ServerPort      string
	ServerHost      string
	CompanionPort   string
	CompanionHost   string
	Environment     string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	// Companion API client
	CompanionAPIURL  string
	CompanionTimeout time.Duration

	// Audit subsystem
	AuditWriteTimeout  time.Duration
	RevertTimeout      time.Duration
	BulkMaxConcurrency int

	// Messaging
	KafkaBrokers    []string
	KafkaEmailTopic string

	RedisURL               string
	RateLimitEnabled       bool
	RateLimitIPAttempts    int
	RateLimitIPWindow      time.Duration
	RateLimitUserAttempts  int
	RateLimitUserWindow    time.Duration
	RateLimitBlockDuration time.Duration

	LogLevel               string
	LogFormat              string
	LogCorrelationIDHeader string
	LogEnableRequestLog    bool

	MetricsEnabled bool

	// CORS configuration
	CORSEnabled          bool
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
}

var (
	ErrMissingDatabaseURL  = errors.New("DATABASE_URL is required")
	ErrMissingJWTSecret    = errors.New("JWT_SECRET is required")
	ErrInvalidTokenTTL     = errors.New("invalid token TTL format")
	ErrInvalidJWTAlgorithm = errors.New("invalid JWT algorithm")
	ErrInvalidConcurrency  = errors.New("BULK_MAX_CONCURRENCY must be positive")
)

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		DBMaxOpenConns:  getEnvOrDefaultInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:  getEnvOrDefaultInt("DB_MAX_IDLE_CONNS", 5),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		JWTAlgorithm:    getEnvOrDefault("JWT_ALG", "HS256"),
		JWTIssuer:       getEnvOrDefault("JWT_ISSUER", ""),
		ServerPort:      getEnvOrDefault("SERVER_PORT", "8080"),
		ServerHost:      getEnvOrDefault("SERVER_HOST", "localhost"),
		CompanionPort:   getEnvOrDefault("COMPANION_PORT", "8081"),
		CompanionHost:   getEnvOrDefault("COMPANION_HOST", "localhost"),
		Environment:     getEnvOrDefault("ENV", "development"),
		RequestTimeout:  getEnvOrDefaultDuration("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout: getEnvOrDefaultDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		CompanionAPIURL:  getEnvOrDefault("COMPANION_API_URL", "http://localhost:8081"),
		CompanionTimeout: getEnvOrDefaultDuration("COMPANION_TIMEOUT", 10*time.Second),

		AuditWriteTimeout:  getEnvOrDefaultDuration("AUDIT_WRITE_TIMEOUT", 10*time.Second),
		RevertTimeout:      getEnvOrDefaultDuration("REVERT_TIMEOUT", 30*time.Second),
		BulkMaxConcurrency: getEnvOrDefaultInt("BULK_MAX_CONCURRENCY", 5),

		KafkaBrokers:    parseList(getEnvOrDefault("KAFKA_BROKERS", "")),
		KafkaEmailTopic: getEnvOrDefault("KAFKA_EMAIL_TOPIC", "storedesk.email-jobs"),

		RedisURL:         getEnvOrDefault("REDIS_URL", "redis://localhost:6379/0"),
		RateLimitEnabled: getEnvOrDefaultBool("RATE_LIMIT_ENABLED", true),

		LogLevel:               getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:              getEnvOrDefault("LOG_FORMAT", "json"),
		LogCorrelationIDHeader: getEnvOrDefault("LOG_CORRELATION_ID_HEADER", "X-Correlation-ID"),
		LogEnableRequestLog:    getEnvOrDefaultBool("LOG_ENABLE_REQUEST_LOG", true),

		MetricsEnabled: getEnvOrDefaultBool("METRICS_ENABLED", true),

		CORSEnabled:          getEnvOrDefaultBool("CORS_ENABLED", true),
		CORSAllowCredentials: getEnvOrDefaultBool("CORS_ALLOW_CREDENTIALS", true),
		CORSAllowedOrigins:   parseList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "")),
	}

	// Validate required fields
	if cfg.DatabaseURL == "" {
		return nil, ErrMissingDatabaseURL
	}

	// The hosted auth provider signs with a shared secret
	if cfg.JWTAlgorithm != "HS256" {
		return nil, ErrInvalidJWTAlgorithm
	}
	if cfg.JWTSecret == "" {
		return nil, ErrMissingJWTSecret
	}

	if cfg.BulkMaxConcurrency <= 0 {
		return nil, ErrInvalidConcurrency
	}

	// Parse token TTL (only used by cmd/create_admin to mint tokens)
	accessTokenTTL, err := parseTokenTTL(getEnvOrDefault("JWT_ACCESS_TOKEN_TTL", "3600"))
	if err != nil {
		return nil, ErrInvalidTokenTTL
	}
	cfg.AccessTokenTTL = accessTokenTTL

	// Parse rate limiting config
	cfg.RateLimitIPAttempts = getEnvOrDefaultInt("RATE_LIMIT_IP_ATTEMPTS", 60)
	cfg.RateLimitUserAttempts = getEnvOrDefaultInt("RATE_LIMIT_USER_ATTEMPTS", 30)

	ipWindow, err := parseTokenTTL(getEnvOrDefault("RATE_LIMIT_IP_WINDOW", "60"))
	if err != nil {
		return nil, ErrInvalidTokenTTL
	}
	cfg.RateLimitIPWindow = ipWindow

	userWindow, err := parseTokenTTL(getEnvOrDefault("RATE_LIMIT_USER_WINDOW", "60"))
	if err != nil {
		return nil, ErrInvalidTokenTTL
	}
	cfg.RateLimitUserWindow = userWindow

	blockDuration, err := parseTokenTTL(getEnvOrDefault("RATE_LIMIT_BLOCK_DURATION", "300"))
	if err != nil {
		return nil, ErrInvalidTokenTTL
	}
	cfg.RateLimitBlockDuration = blockDuration

	return cfg, nil
}

// ServerAddr is the dashboard API listen address
func (c *Config) ServerAddr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// CompanionAddr is the companion API listen address
func (c *Config) CompanionAddr() string {
	return c.CompanionHost + ":" + c.CompanionPort
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvOrDefaultBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}

func getEnvOrDefaultDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		// interpret as seconds if numeric, else parse like Go duration
		if n, err := strconv.Atoi(value); err == nil {
			return time.Duration(n) * time.Second
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			return defaultValue
		}
		return d
	}
	return defaultValue
}

func parseTokenTTL(value string) (time.Duration, error) {
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return time.Duration(seconds) * time.Second, nil
}

func parseList(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			res = append(res, trimmed)
		}
	}
	return res
}
