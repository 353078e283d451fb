package ratelimit

import (
	"context"
	"time"

	"github.com/storedesk/storedesk/application/port/inbound"
)

// noopRateLimitService allows everything
type noopRateLimitService struct{}

func NewNoopRateLimitService() inbound.RateLimitService {
	return noopRateLimitService{}
}

func (noopRateLimitService) CheckLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return true, nil
}

func (noopRateLimitService) Increment(ctx context.Context, key string, window time.Duration) error {
	return nil
}

func (noopRateLimitService) Block(ctx context.Context, key string, duration time.Duration, reason string) error {
	return nil
}

func (noopRateLimitService) IsBlocked(ctx context.Context, key string) (bool, error) {
	return false, nil
}

func (noopRateLimitService) GetAttempts(ctx context.Context, key string) (int, error) {
	return 0, nil
}
