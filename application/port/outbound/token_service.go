package outbound

import "context"

// TokenClaims are the claims the hosted auth provider puts in an access token.
// Roles are not trusted from the token; they are resolved from admin_users.
type TokenClaims struct {
	UserID string `json:"sub"`
	Email  string `json:"email"`
}

type TokenService interface {
	GenerateAccessToken(claims TokenClaims) (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
}

type ctxKey string

const (
	tokenClaimsKey ctxKey = "auth_user"
	bearerTokenKey ctxKey = "bearer_token"
	actorKey       ctxKey = "actor"
)

// WithTokenClaims stores validated claims and the raw bearer token on the context
func WithTokenClaims(ctx context.Context, claims *TokenClaims, token string) context.Context {
	ctx = context.WithValue(ctx, tokenClaimsKey, claims)
	return context.WithValue(ctx, bearerTokenKey, token)
}

// TokenClaimsFromContext returns the claims set by the auth middleware, or nil
func TokenClaimsFromContext(ctx context.Context) *TokenClaims {
	if claims, ok := ctx.Value(tokenClaimsKey).(*TokenClaims); ok {
		return claims
	}
	return nil
}

// BearerTokenFromContext returns the caller's raw access token, forwarded to the companion API
func BearerTokenFromContext(ctx context.Context) string {
	if token, ok := ctx.Value(bearerTokenKey).(string); ok {
		return token
	}
	return ""
}
