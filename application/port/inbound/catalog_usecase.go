package inbound

import (
	"context"
	"time"

	"github.com/storedesk/storedesk/domain/entity"
)

// Products

type CreateProductRequest struct {
	Slug               string            `json:"slug"`
	Title              map[string]string `json:"title"`
	Description        map[string]string `json:"description"`
	Price              int64             `json:"price"`
	Currency           string            `json:"currency"`
	Stock              int               `json:"stock"`
	Category           string            `json:"category"`
	Tags               []string          `json:"tags"`
	Images             []string          `json:"images"`
	DiscountPercentage float64           `json:"discount_percentage"`
	DiscountActive     bool              `json:"discount_active"`
}

type ProductUseCase interface {
	List(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, error)
	Get(ctx context.Context, id string) (*entity.Product, error)
	Create(ctx context.Context, req CreateProductRequest) (*entity.Product, error)
	Update(ctx context.Context, id string, patch entity.ProductPatch) (*entity.Product, error)
	Delete(ctx context.Context, id string) error
	Duplicate(ctx context.Context, id string) (*entity.Product, error)
}

// Bulk operations

type BulkItemResult struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type BulkResult struct {
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Items     []BulkItemResult `json:"items"`
}

type BulkDiscountRequest struct {
	IDs                []string `json:"ids"`
	DiscountPercentage float64  `json:"discount_percentage"`
	DiscountActive     bool     `json:"discount_active"`
}

type BulkCategoryRequest struct {
	IDs      []string `json:"ids"`
	Category string   `json:"category"`
}

// BulkUseCase applies one operation to many products. Items succeed or fail
// independently and succeeded items are not rolled back.
type BulkUseCase interface {
	BulkDelete(ctx context.Context, ids []string) (*BulkResult, error)
	BulkSetDiscount(ctx context.Context, req BulkDiscountRequest) (*BulkResult, error)
	BulkSetCategory(ctx context.Context, req BulkCategoryRequest) (*BulkResult, error)
}

// Orders

type UpdateOrderStatusResponse struct {
	Order      *entity.Order `json:"order"`
	EmailSent  bool          `json:"email_sent"`
	EmailError string        `json:"email_error,omitempty"`
}

type OrderUseCase interface {
	List(ctx context.Context, filter entity.OrderFilter) ([]*entity.Order, error)
	Get(ctx context.Context, id string) (*entity.Order, error)
	UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) (*UpdateOrderStatusResponse, error)
}

// Users

type CreateUserRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	FullName string      `json:"full_name"`
	Role     entity.Role `json:"role"`
}

type UpdateUserRoleRequest struct {
	Role entity.Role `json:"role"`
}

type UserUseCase interface {
	List(ctx context.Context, filter entity.UserFilter) ([]*entity.AdminUser, error)
	Get(ctx context.Context, id string) (*entity.AdminUser, error)
	Create(ctx context.Context, req CreateUserRequest) (*entity.AdminUser, error)
	// CreateDirect is the legacy path that inserted users from the dashboard; it is rejected.
	CreateDirect(ctx context.Context, req CreateUserRequest) (*entity.AdminUser, error)
	UpdateRole(ctx context.Context, id string, role entity.Role) (*entity.AdminUser, error)
	Delete(ctx context.Context, id string) error
	RecordLogin(ctx context.Context) error
	RecordLogout(ctx context.Context) error
}

// Events

type CreateEventRequest struct {
	Title              map[string]string `json:"title"`
	Description        map[string]string `json:"description"`
	Link               string            `json:"link"`
	BackgroundColor    string            `json:"background_color"`
	TextColor          string            `json:"text_color"`
	StartDate          time.Time         `json:"start_date"`
	EndDate            time.Time         `json:"end_date"`
	DiscountPercentage float64           `json:"discount_percentage"`
	IsActive           bool              `json:"is_active"`
}

type EventUseCase interface {
	List(ctx context.Context, filter entity.EventFilter) ([]*entity.Event, error)
	Get(ctx context.Context, id string) (*entity.Event, error)
	Create(ctx context.Context, req CreateEventRequest) (*entity.Event, error)
	Update(ctx context.Context, id string, patch entity.EventPatch) (*entity.Event, error)
	Delete(ctx context.Context, id string) error
	ToggleActive(ctx context.Context, id string) (*entity.Event, error)
	Duplicate(ctx context.Context, id string) (*entity.Event, error)
}

// Export

const (
	ExportFormatCSV  = "csv"
	ExportFormatJSON = "json"
)

// ExportResource names an exportable collection as it appears in the URL
type ExportResource string

const (
	ExportAuditLogs ExportResource = "audit-logs"
	ExportProducts  ExportResource = "products"
	ExportOrders    ExportResource = "orders"
	ExportUsers     ExportResource = "users"
)

// EntityType is the audit entity type an export of r is recorded under.
// Audit log exports are recorded as settings.
func (r ExportResource) EntityType() (entity.EntityType, bool) {
	switch r {
	case ExportAuditLogs:
		return entity.EntityTypeSettings, true
	case ExportProducts:
		return entity.EntityTypeProduct, true
	case ExportOrders:
		return entity.EntityTypeOrder, true
	case ExportUsers:
		return entity.EntityTypeUser, true
	}
	return "", false
}

type ExportRequest struct {
	Resource ExportResource
	Format   string
}

type ExportResult struct {
	Filename    string
	ContentType string
	Body        []byte
	Rows        int
}

type ExportUseCase interface {
	Export(ctx context.Context, req ExportRequest) (*ExportResult, error)
}
