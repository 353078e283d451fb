package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/storedesk/storedesk/application/port/inbound"
	"github.com/storedesk/storedesk/application/port/outbound"
	apperror "github.com/storedesk/storedesk/domain/error"
	"github.com/storedesk/storedesk/infrastructure/http/response"
	"github.com/storedesk/storedesk/infrastructure/service/logger"
)

// RateLimitPolicy is a fixed-window budget per IP and per authenticated user
type RateLimitPolicy struct {
	IPAttempts    int
	IPWindow      time.Duration
	UserAttempts  int
	UserWindow    time.Duration
	BlockDuration time.Duration
}

type limitCheck struct {
	key    string
	limit  int
	window time.Duration
}

type RateLimitMiddleware struct {
	rateLimitService inbound.RateLimitService
	policy           RateLimitPolicy
	logger           logger.Logger
	writeError       func(http.ResponseWriter, error)
}

func NewRateLimitMiddleware(rateLimitService inbound.RateLimitService, policy RateLimitPolicy, log logger.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		rateLimitService: rateLimitService,
		policy:           policy,
		logger:           log,
		writeError:       response.AppError,
	}
}

func (m *RateLimitMiddleware) WithErrorWriter(fn func(http.ResponseWriter, error)) *RateLimitMiddleware {
	m.writeError = fn
	return m
}

// RateLimit limits by client IP, and additionally by user once RequireAuth has run.
// Limiter failures let the request through.
func (m *RateLimitMiddleware) RateLimit(scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m.rateLimitService == nil {
				next.ServeHTTP(w, r)
				return
			}

			clientIP := getClientIP(r)
			checks := []limitCheck{
				{fmt.Sprintf("%s:ip:%s", scope, clientIP), m.policy.IPAttempts, m.policy.IPWindow},
			}
			if claims := outbound.TokenClaimsFromContext(r.Context()); claims != nil {
				checks = append(checks, limitCheck{fmt.Sprintf("%s:user:%s", scope, claims.UserID), m.policy.UserAttempts, m.policy.UserWindow})
			}

			for _, c := range checks {
				if c.limit <= 0 {
					continue
				}
				if !m.allow(w, r, c.key, c.limit, c.window) {
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (m *RateLimitMiddleware) allow(w http.ResponseWriter, r *http.Request, key string, limit int, window time.Duration) bool {
	ctx := r.Context()
	fields := map[string]interface{}{
		"ip":   getClientIP(r),
		"path": r.URL.Path,
		"key":  key,
	}

	blocked, err := m.rateLimitService.IsBlocked(ctx, key)
	if err != nil {
		m.logger.Error(ctx, "Failed to check block status", err, fields)
	}
	if blocked {
		logger.LogSecurityEvent(ctx, m.logger, "rate_limit_blocked", "MEDIUM", fields)
		m.reject(w, m.policy.BlockDuration)
		return false
	}

	allowed, err := m.rateLimitService.CheckLimit(ctx, key, limit, window)
	if err != nil {
		m.logger.Error(ctx, "Failed to check rate limit", err, fields)
		return true
	}
	if !allowed {
		if err := m.rateLimitService.Block(ctx, key, m.policy.BlockDuration, "Rate limit exceeded"); err != nil {
			m.logger.Error(ctx, "Failed to block key", err, fields)
		}
		logger.LogSecurityEvent(ctx, m.logger, "rate_limit_exceeded", "HIGH", fields)
		m.reject(w, m.policy.BlockDuration)
		return false
	}

	if err := m.rateLimitService.Increment(ctx, key, window); err != nil {
		m.logger.Error(ctx, "Failed to increment rate limit", err, fields)
	}
	return true
}

func (m *RateLimitMiddleware) reject(w http.ResponseWriter, retryAfter time.Duration) {
	if retryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
	}
	m.writeError(w, apperror.ErrRateLimitExceeded("Please try again later"))
}

// getClientIP extracts client IP from request
func getClientIP(r *http.Request) string {
	// X-Forwarded-For can contain multiple IPs, take the first one
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
