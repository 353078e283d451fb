package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/storedesk/storedesk/domain/entity"
	"github.com/storedesk/storedesk/infrastructure/http/handler"
	"github.com/storedesk/storedesk/infrastructure/http/middleware"
	"github.com/storedesk/storedesk/infrastructure/http/response"
	"github.com/storedesk/storedesk/infrastructure/service/logger"
)

// RouterConfig holds what both servers share
type RouterConfig struct {
	Logger              logger.Logger
	Auth                *middleware.AuthMiddleware
	RateLimit           *middleware.RateLimitMiddleware
	Observer            middleware.RequestObserver
	MetricsHandler      http.Handler
	CorrelationIDHeader string
	RequestTimeout      time.Duration
	EnableRequestLog    bool
	CORSAllowedOrigins  []string
	CORSCredentials     bool
}

type DashboardHandlers struct {
	Audit       *handler.AuditHandler
	Products    *handler.ProductHandler
	Orders      *handler.OrderHandler
	Users       *handler.UserHandler
	Events      *handler.EventHandler
	Export      *handler.ExportHandler
	Permissions *handler.PermissionsHandler
}

// NewDashboardRouter builds the /api/v1 routes of the admin dashboard backend
func NewDashboardRouter(cfg RouterConfig, h DashboardHandlers) http.Handler {
	router := newBaseRouter(cfg)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(cfg.Auth.RequireAuth)

	api.HandleFunc("/me/permissions", h.Permissions.Me).Methods(http.MethodGet)
	api.HandleFunc("/session/login", h.Users.Login).Methods(http.MethodPost)
	api.HandleFunc("/session/logout", h.Users.Logout).Methods(http.MethodPost)

	// Audit logs are super admin only
	audit := api.PathPrefix("/audit-logs").Subrouter()
	audit.Use(cfg.Auth.RequireRole(entity.RoleSuperAdmin))
	audit.HandleFunc("", h.Audit.ListLogs).Methods(http.MethodGet)
	audit.HandleFunc("/{id}", h.Audit.GetLog).Methods(http.MethodGet)
	audit.Handle("/{id}/revert", limited(cfg, "audit", h.Audit.RevertLog)).Methods(http.MethodPost)
	audit.Handle("/{id}", limited(cfg, "audit", h.Audit.DeleteLog)).Methods(http.MethodDelete)

	api.HandleFunc("/products", h.Products.List).Methods(http.MethodGet)
	api.HandleFunc("/products", h.Products.Create).Methods(http.MethodPost)
	api.HandleFunc("/products/bulk/delete", h.Products.BulkDelete).Methods(http.MethodPost)
	api.HandleFunc("/products/bulk/discount", h.Products.BulkSetDiscount).Methods(http.MethodPost)
	api.HandleFunc("/products/bulk/category", h.Products.BulkSetCategory).Methods(http.MethodPost)
	api.HandleFunc("/products/{id}", h.Products.Get).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}", h.Products.Update).Methods(http.MethodPatch, http.MethodPut)
	api.HandleFunc("/products/{id}", h.Products.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/products/{id}/duplicate", h.Products.Duplicate).Methods(http.MethodPost)

	api.HandleFunc("/orders", h.Orders.List).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id}", h.Orders.Get).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id}/status", h.Orders.UpdateStatus).Methods(http.MethodPut, http.MethodPatch)

	api.HandleFunc("/users", h.Users.List).Methods(http.MethodGet)
	api.Handle("/users", limited(cfg, "users", h.Users.Create)).Methods(http.MethodPost)
	api.HandleFunc("/users/{id}", h.Users.Get).Methods(http.MethodGet)
	api.Handle("/users/{id}/role", limited(cfg, "users", h.Users.UpdateRole)).Methods(http.MethodPut)
	api.Handle("/users/{id}", limited(cfg, "users", h.Users.Delete)).Methods(http.MethodDelete)

	api.HandleFunc("/events", h.Events.List).Methods(http.MethodGet)
	api.HandleFunc("/events", h.Events.Create).Methods(http.MethodPost)
	api.HandleFunc("/events/{id}", h.Events.Get).Methods(http.MethodGet)
	api.HandleFunc("/events/{id}", h.Events.Update).Methods(http.MethodPatch, http.MethodPut)
	api.HandleFunc("/events/{id}", h.Events.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/events/{id}/toggle", h.Events.ToggleActive).Methods(http.MethodPost)
	api.HandleFunc("/events/{id}/duplicate", h.Events.Duplicate).Methods(http.MethodPost)

	api.HandleFunc("/export/{resource}", h.Export.Export).Methods(http.MethodGet)

	return withCORS(cfg, router)
}

// NewCompanionRouter builds the privileged /api routes of the companion API
func NewCompanionRouter(cfg RouterConfig, h *handler.CompanionHandler) http.Handler {
	router := newBaseRouter(cfg)
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.Raw(w, http.StatusNotFound, response.ErrorBody{Error: "Not found"})
	})

	api := router.PathPrefix("/api").Subrouter()
	api.Use(cfg.Auth.RequireAuth)

	api.HandleFunc("/products/{id}", h.DeleteProduct).Methods(http.MethodDelete)
	api.Handle("/users", limited(cfg, "companion-users", h.CreateUser)).Methods(http.MethodPost)
	api.Handle("/users/{id}/role", limited(cfg, "companion-users", h.UpdateUserRole)).Methods(http.MethodPut)
	api.Handle("/users/{id}", limited(cfg, "companion-users", h.DeleteUser)).Methods(http.MethodDelete)
	api.HandleFunc("/orders/{id}/status-update-email", h.SendOrderStatusEmail).Methods(http.MethodPost)

	return withCORS(cfg, router)
}

func newBaseRouter(cfg RouterConfig) *mux.Router {
	router := mux.NewRouter()

	router.Use(middleware.CorrelationIDMiddleware(cfg.CorrelationIDHeader))
	if cfg.Observer != nil {
		router.Use(middleware.Metrics(cfg.Observer))
	}
	if cfg.EnableRequestLog {
		router.Use(middleware.RequestLogger(cfg.Logger))
	}
	router.Use(middleware.Recovery(cfg.Logger))
	router.Use(middleware.Timeout(cfg.RequestTimeout))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		response.Raw(w, http.StatusOK, map[string]string{"status": "healthy"})
	}).Methods(http.MethodGet)
	if cfg.MetricsHandler != nil {
		router.Handle("/metrics", cfg.MetricsHandler).Methods(http.MethodGet)
	}

	return router
}

func limited(cfg RouterConfig, scope string, fn http.HandlerFunc) http.Handler {
	if cfg.RateLimit == nil {
		return fn
	}
	return cfg.RateLimit.RateLimit(scope)(fn)
}

// withCORS wraps outside the router so preflight requests never hit method matching
func withCORS(cfg RouterConfig, router http.Handler) http.Handler {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return router
	}
	return middleware.CORSMiddleware(cfg.CORSAllowedOrigins, cfg.CORSCredentials)(router)
}
