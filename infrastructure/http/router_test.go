package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/storedesk/storedesk/application/port/inbound"
	"github.com/storedesk/storedesk/application/port/outbound"
	"github.com/storedesk/storedesk/domain/entity"
	"github.com/storedesk/storedesk/infrastructure/http/handler"
	"github.com/storedesk/storedesk/infrastructure/http/middleware"
	"github.com/storedesk/storedesk/infrastructure/service/logger"
	"github.com/storedesk/storedesk/infrastructure/service/metrics"
)

// roleTokens treats the bearer token as the role of the caller
type roleTokens struct{}

func (roleTokens) GenerateAccessToken(claims outbound.TokenClaims) (string, error) {
	return claims.UserID, nil
}

func (roleTokens) ValidateAccessToken(token string) (*outbound.TokenClaims, error) {
	if !entity.Role(token).Valid() {
		return nil, errors.New("invalid token")
	}
	return &outbound.TokenClaims{UserID: token}, nil
}

type roleResolver struct{}

func (roleResolver) Resolve(ctx context.Context) (context.Context, *entity.Actor, error) {
	claims := outbound.TokenClaimsFromContext(ctx)
	actor := &entity.Actor{ID: "user-" + claims.UserID, Role: entity.Role(claims.UserID)}
	return outbound.WithActor(ctx, actor), actor, nil
}

func (r roleResolver) CurrentActor(ctx context.Context) (*entity.Actor, error) {
	return outbound.ActorFromContext(ctx), nil
}

type emptyAuditQuery struct{}

func (emptyAuditQuery) GetLogs(ctx context.Context, filter entity.AuditLogFilter) ([]*entity.AuditLog, error) {
	return []*entity.AuditLog{}, nil
}

func (emptyAuditQuery) GetLog(ctx context.Context, id string) (*entity.AuditLog, error) {
	return &entity.AuditLog{ID: id}, nil
}

func (emptyAuditQuery) SearchLogs(logs []*entity.AuditLog, query string) []*entity.AuditLog {
	return logs
}

func (emptyAuditQuery) ListLogs(ctx context.Context, req inbound.ListAuditLogsRequest) ([]*entity.AuditLog, error) {
	return []*entity.AuditLog{}, nil
}

type noRevert struct{}

func (noRevert) CanRevert(log *entity.AuditLog) bool { return false }

func (noRevert) Revert(ctx context.Context, logID string) (*entity.AuditLog, error) {
	return nil, errors.New("not used")
}

func newTestRouter() (http.Handler, *metrics.Prometheus) {
	log := logger.NewNopLogger()
	prom := metrics.NewPrometheus("test")
	cfg := RouterConfig{
		Logger:             log,
		Auth:               middleware.NewAuthMiddleware(roleTokens{}, roleResolver{}, log),
		Observer:           prom,
		MetricsHandler:     prom.Handler(),
		CORSAllowedOrigins: []string{"https://admin.store.test"},
	}
	h := DashboardHandlers{
		Audit:       handler.NewAuditHandler(emptyAuditQuery{}, noRevert{}, nil),
		Permissions: handler.NewPermissionsHandler(roleResolver{}),
	}
	return NewDashboardRouter(cfg, h), prom
}

func TestDashboardRouter(t *testing.T) {
	router, _ := newTestRouter()

	tests := []struct {
		name           string
		method         string
		path           string
		token          string
		expectedStatus int
	}{
		{"health is public", http.MethodGet, "/health", "", http.StatusOK},
		{"metrics is public", http.MethodGet, "/metrics", "", http.StatusOK},
		{"api requires auth", http.MethodGet, "/api/v1/me/permissions", "", http.StatusUnauthorized},
		{"bad token", http.MethodGet, "/api/v1/me/permissions", "nobody", http.StatusUnauthorized},
		{"permissions for viewer", http.MethodGet, "/api/v1/me/permissions", "viewer", http.StatusOK},
		{"audit logs for super admin", http.MethodGet, "/api/v1/audit-logs", "super_admin", http.StatusOK},
		{"audit logs hidden from admin", http.MethodGet, "/api/v1/audit-logs", "admin", http.StatusForbidden},
		{"audit log hidden from editor", http.MethodGet, "/api/v1/audit-logs/log-1", "editor", http.StatusForbidden},
		{"unknown route", http.MethodGet, "/api/v1/nothing", "admin", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.path != "/api/v1/nothing" {
				assert.NotEmpty(t, rec.Header().Get(middleware.CorrelationIDHeader))
			}
		})
	}
}

func TestDashboardRouter_Preflight(t *testing.T) {
	router, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/audit-logs/log-1/revert", nil)
	req.Header.Set("Origin", "https://admin.store.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://admin.store.test", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestDashboardRouter_ObservesRouteTemplate(t *testing.T) {
	router, prom := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit-logs/log-42", nil)
	req.Header.Set("Authorization", "Bearer super_admin")
	router.ServeHTTP(httptest.NewRecorder(), req)

	rec := httptest.NewRecorder()
	prom.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `route="/api/v1/audit-logs/{id}"`))
	assert.False(t, strings.Contains(body, "log-42"))
}

func TestServer_ShutdownBeforeStart(t *testing.T) {
	srv := NewServer(ServerConfig{Name: "dashboard", Addr: "127.0.0.1:0"}, http.NotFoundHandler(), logger.NewNopLogger())

	assert.Equal(t, "127.0.0.1:0", srv.Addr())
	assert.NoError(t, srv.Shutdown(context.Background()))
	assert.NoError(t, srv.Start())
}
