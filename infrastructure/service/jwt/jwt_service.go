package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/storedesk/storedesk/application/port/outbound"
	"github.com/storedesk/storedesk/infrastructure/config"
)

// JWTService validates access tokens issued by the hosted auth provider.
// GenerateAccessToken mints compatible tokens for local tooling and tests.
type JWTService struct {
	config     *config.Config
	hmacSecret []byte
	now        func() time.Time
}

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

var _ outbound.TokenService = (*JWTService)(nil)

func NewJWTService(cfg *config.Config) (*JWTService, error) {
	service := &JWTService{
		config: cfg,
		now:    time.Now,
	}

	switch cfg.JWTAlgorithm {
	case "HS256":
		service.hmacSecret = []byte(cfg.JWTSecret)
	default:
		return nil, fmt.Errorf("unsupported JWT algorithm: %s", cfg.JWTAlgorithm)
	}

	return service, nil
}

func (s *JWTService) GenerateAccessToken(claims outbound.TokenClaims) (string, error) {
	now := s.now()
	tokenClaims := jwt.MapClaims{
		"sub":   claims.UserID,
		"email": claims.Email,
		"exp":   now.Add(s.config.AccessTokenTTL).Unix(),
		"iat":   now.Unix(),
	}
	if s.config.JWTIssuer != "" {
		tokenClaims["iss"] = s.config.JWTIssuer
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims)

	tokenString, err := token.SignedString(s.hmacSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

func (s *JWTService) ValidateAccessToken(tokenString string) (*outbound.TokenClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.config.JWTIssuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.JWTIssuer))
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.hmacSecret, nil
	}, opts...)
	if err != nil {
		return nil, s.handleValidationError(err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	// Extract claims
	userID, err := claims.GetSubject()
	if err != nil || userID == "" {
		return nil, ErrInvalidToken
	}
	email, _ := claims["email"].(string)

	return &outbound.TokenClaims{
		UserID: userID,
		Email:  email,
	}, nil
}

func (s *JWTService) handleValidationError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return ErrTokenExpired
	}
	return ErrInvalidToken
}
