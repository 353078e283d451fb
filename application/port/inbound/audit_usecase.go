package inbound

import (
	"context"

	"github.com/storedesk/storedesk/domain/entity"
)

// LogRequest describes one action to record
type LogRequest struct {
	Action     entity.AuditAction
	EntityType entity.EntityType
	EntityID   string
	EntityName string
	Changes    *entity.Changes
	Metadata   map[string]interface{}
}

// AuditRecorder writes audit entries after successful mutations.
// Every method is best effort: the returned error is informational and
// callers are expected to discard it.
type AuditRecorder interface {
	TryLogAction(ctx context.Context, req LogRequest) error

	ProductCreated(ctx context.Context, product *entity.Product) error
	ProductUpdated(ctx context.Context, before, after *entity.Product) error
	ProductDeleted(ctx context.Context, before *entity.Product) error
	OrderStatusUpdated(ctx context.Context, orderID string, before, after entity.OrderStatus) error
	UserCreated(ctx context.Context, user *entity.AdminUser) error
	UserRoleUpdated(ctx context.Context, user *entity.AdminUser, before, after entity.Role) error
	UserDeleted(ctx context.Context, before *entity.AdminUser) error
	UserLogin(ctx context.Context, actor *entity.Actor) error
	UserLogout(ctx context.Context, actor *entity.Actor) error
	EventCreated(ctx context.Context, event *entity.Event) error
	EventUpdated(ctx context.Context, before, after *entity.Event) error
	EventDeleted(ctx context.Context, before *entity.Event) error
	Exported(ctx context.Context, entityType entity.EntityType, format string, rows int) error
}

// ListAuditLogsRequest is a store filter plus a post-fetch free-text search
type ListAuditLogsRequest struct {
	Filter entity.AuditLogFilter
	Search string
}

type AuditQueryUseCase interface {
	GetLogs(ctx context.Context, filter entity.AuditLogFilter) ([]*entity.AuditLog, error)
	GetLog(ctx context.Context, id string) (*entity.AuditLog, error)
	SearchLogs(logs []*entity.AuditLog, query string) []*entity.AuditLog
	ListLogs(ctx context.Context, req ListAuditLogsRequest) ([]*entity.AuditLog, error)
}

type RevertUseCase interface {
	CanRevert(log *entity.AuditLog) bool
	Revert(ctx context.Context, logID string) (*entity.AuditLog, error)
}

type SoftDeleteUseCase interface {
	DeleteLog(ctx context.Context, logID string) (*entity.AuditLog, error)
}
