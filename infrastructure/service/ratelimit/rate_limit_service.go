package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/storedesk/storedesk/application/port/inbound"
	"github.com/storedesk/storedesk/infrastructure/service/logger"
)

const keyPrefix = "storedesk:ratelimit:"

// Config for the Redis-backed limiter
type Config struct {
	Enabled       bool
	RedisURL      string
	IPAttempts    int
	IPWindow      time.Duration
	UserAttempts  int
	UserWindow    time.Duration
	BlockDuration time.Duration
}

// redisRateLimitService keeps one fixed-window counter per key
type redisRateLimitService struct {
	client *redis.Client
	logger logger.Logger
}

// NewRateLimitService returns the noop limiter when rate limiting is disabled
func NewRateLimitService(cfg Config, log logger.Logger) (inbound.RateLimitService, error) {
	if !cfg.Enabled {
		log.Info(context.Background(), "Rate limiting disabled", nil)
		return NewNoopRateLimitService(), nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info(ctx, "Rate limiting service initialized", map[string]interface{}{
		"ip_attempts":    cfg.IPAttempts,
		"ip_window":      cfg.IPWindow.String(),
		"user_attempts":  cfg.UserAttempts,
		"user_window":    cfg.UserWindow.String(),
		"block_duration": cfg.BlockDuration.String(),
	})

	return &redisRateLimitService{client: client, logger: log}, nil
}

func (s *redisRateLimitService) CheckLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := s.GetAttempts(ctx, key)
	if err != nil {
		return false, err
	}

	s.logger.Debug(ctx, "Rate limit check", map[string]interface{}{
		"key":     key,
		"current": count,
		"limit":   limit,
	})

	return count < limit, nil
}

func (s *redisRateLimitService) Increment(ctx context.Context, key string, window time.Duration) error {
	counterKey := keyPrefix + key

	count, err := s.client.Incr(ctx, counterKey).Result()
	if err == nil && count == 1 {
		// first hit opens the window
		err = s.client.Expire(ctx, counterKey, window).Err()
	}
	if err != nil {
		s.logger.Error(ctx, "Failed to increment rate limit counter", err, map[string]interface{}{"key": key})
		return fmt.Errorf("failed to increment rate limit: %w", err)
	}

	s.logger.Debug(ctx, "Rate limit incremented", map[string]interface{}{
		"key":   key,
		"count": count,
	})
	return nil
}

func (s *redisRateLimitService) Block(ctx context.Context, key string, duration time.Duration, reason string) error {
	blockKey := keyPrefix + "blocked:" + key

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, blockKey, map[string]interface{}{
		"reason":         reason,
		"blocked_at":     time.Now().Unix(),
		"duration":       duration.Seconds(),
		"correlation_id": logger.CorrelationID(ctx),
	})
	pipe.Expire(ctx, blockKey, duration)

	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Error(ctx, "Failed to block key", err, map[string]interface{}{"key": key})
		return fmt.Errorf("failed to block key: %w", err)
	}

	s.logger.Warn(ctx, "Key blocked due to rate limit exceeded", map[string]interface{}{
		"key":      key,
		"duration": duration.String(),
		"reason":   reason,
	})
	return nil
}

func (s *redisRateLimitService) IsBlocked(ctx context.Context, key string) (bool, error) {
	exists, err := s.client.Exists(ctx, keyPrefix+"blocked:"+key).Result()
	if err != nil {
		s.logger.Error(ctx, "Failed to check block status", err, map[string]interface{}{"key": key})
		return false, fmt.Errorf("failed to check block status: %w", err)
	}
	return exists > 0, nil
}

func (s *redisRateLimitService) GetAttempts(ctx context.Context, key string) (int, error) {
	count, err := s.client.Get(ctx, keyPrefix+key).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		s.logger.Error(ctx, "Failed to get attempts count", err, map[string]interface{}{"key": key})
		return 0, fmt.Errorf("failed to get attempts: %w", err)
	}
	return count, nil
}
