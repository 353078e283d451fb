package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/storedesk/storedesk/application/port/outbound"
	"github.com/storedesk/storedesk/domain/entity"
	"github.com/storedesk/storedesk/infrastructure/http/response"
	"github.com/storedesk/storedesk/infrastructure/service/logger"
)

// ActorResolver loads the actor for validated claims and caches it on the context
type ActorResolver interface {
	Resolve(ctx context.Context) (context.Context, *entity.Actor, error)
}

type AuthMiddleware struct {
	tokenService outbound.TokenService
	actors       ActorResolver
	logger       logger.Logger
	writeError   func(http.ResponseWriter, error)
}

func NewAuthMiddleware(tokenService outbound.TokenService, actors ActorResolver, log logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
		actors:       actors,
		logger:       log,
		writeError:   response.AppError,
	}
}

// WithErrorWriter swaps the error body shape, the companion API uses {"error","message"}
func (m *AuthMiddleware) WithErrorWriter(fn func(http.ResponseWriter, error)) *AuthMiddleware {
	m.writeError = fn
	return m
}

// RequireAuth validates the bearer token and resolves the actor from admin_users
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token, msg := bearerToken(r)
		if token == "" {
			m.writeError(w, unauthenticated(msg))
			return
		}

		claims, err := m.tokenService.ValidateAccessToken(token)
		if err != nil {
			logger.LogAuthEvent(ctx, m.logger, "token_validation", "", getClientIP(r), false, map[string]interface{}{
				"reason": err.Error(),
				"path":   r.URL.Path,
			})
			m.writeError(w, unauthenticated("Invalid or expired token"))
			return
		}

		ctx = outbound.WithTokenClaims(ctx, claims, token)
		ctx, _, err = m.actors.Resolve(ctx)
		if err != nil {
			m.writeError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole must run after RequireAuth
func (m *AuthMiddleware) RequireRole(roles ...entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := outbound.ActorFromContext(r.Context())
			if actor == nil {
				m.writeError(w, unauthenticated("User not authenticated"))
				return
			}

			for _, role := range roles {
				if actor.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			logger.LogSecurityEvent(r.Context(), m.logger, "role_denied", "MEDIUM", map[string]interface{}{
				"user_id": actor.ID,
				"role":    string(actor.Role),
				"path":    r.URL.Path,
			})
			m.writeError(w, forbiddenRole(roles))
		})
	}
}

func bearerToken(r *http.Request) (string, string) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", "Authorization header required"
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", "Invalid authorization header format"
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", "Token cannot be empty"
	}
	return token, ""
}
