package outbound

import (
	"context"
	"time"

	"github.com/storedesk/storedesk/domain/entity"
)

// AuditLogRepository persists audit log entries. Rows are never physically deleted.
type AuditLogRepository interface {
	// Insert stores a new entry and returns it with the store-assigned id and created_at.
	Insert(ctx context.Context, log *entity.AuditLog) (*entity.AuditLog, error)
	FindByID(ctx context.Context, id string) (*entity.AuditLog, error)
	// List returns matching entries ordered by created_at descending.
	List(ctx context.Context, filter entity.AuditLogFilter) ([]*entity.AuditLog, error)
	// MarkReverted flips the reverted flag once. A log that is already reverted
	// is reported as NotRevertible. Callers claim the log this way before
	// touching the entity.
	MarkReverted(ctx context.Context, id, actorID string, at time.Time) (*entity.AuditLog, error)
	// ReleaseRevert clears a claim taken by MarkReverted with the same actorID
	// and at. Any other claim is left alone.
	ReleaseRevert(ctx context.Context, id, actorID string, at time.Time) error
	MarkDeleted(ctx context.Context, id, actorID string, at time.Time) (*entity.AuditLog, error)
}
