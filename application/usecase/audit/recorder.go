package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/storedesk/storedesk/application/port/inbound"
	"github.com/storedesk/storedesk/application/port/outbound"
	"github.com/storedesk/storedesk/domain/entity"
	apperror "github.com/storedesk/storedesk/domain/error"
	"github.com/storedesk/storedesk/infrastructure/service/logger"
)

const DefaultWriteTimeout = 10 * time.Second

// Recorder persists audit log entries. It never fails the caller's primary action:
// every failure is logged, counted and returned for callers to discard.
type Recorder struct {
	repo    outbound.AuditLogRepository
	session outbound.SessionProvider
	metrics outbound.MetricsRecorder
	logger  logger.Logger
	timeout time.Duration
}

func NewRecorder(
	repo outbound.AuditLogRepository,
	session outbound.SessionProvider,
	metrics outbound.MetricsRecorder,
	log logger.Logger,
	timeout time.Duration,
) *Recorder {
	if timeout <= 0 {
		timeout = DefaultWriteTimeout
	}
	if metrics == nil {
		metrics = outbound.NoopMetrics()
	}
	return &Recorder{
		repo:    repo,
		session: session,
		metrics: metrics,
		logger:  log,
		timeout: timeout,
	}
}

var _ inbound.AuditRecorder = (*Recorder)(nil)

// TryLogAction records req for the current actor
func (r *Recorder) TryLogAction(ctx context.Context, req inbound.LogRequest) error {
	fields := map[string]interface{}{
		"action":      req.Action,
		"entity_type": req.EntityType,
		"entity_id":   req.EntityID,
	}

	actor, err := r.session.CurrentActor(ctx)
	if err != nil || actor == nil {
		r.logger.Warn(ctx, "Audit log skipped: no authenticated actor", fields)
		return apperror.ErrNoActor
	}

	log := &entity.AuditLog{
		UserID:     actor.ID,
		UserEmail:  actor.Email,
		Action:     req.Action,
		EntityType: req.EntityType,
		EntityID:   optional(req.EntityID),
		EntityName: optional(req.EntityName),
		Changes:    req.Changes,
		Metadata:   req.Metadata,
	}

	// The row outlives the request: a client disconnect must not drop it.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()

	if _, err := r.repo.Insert(writeCtx, log); err != nil {
		r.metrics.AuditWriteFailed(string(req.Action), string(req.EntityType))
		r.logger.Error(ctx, "Failed to write audit log", err, fields)
		return fmt.Errorf("failed to write audit log: %w", err)
	}

	r.logger.Debug(ctx, "Audit log written", fields)
	return nil
}

func (r *Recorder) ProductCreated(ctx context.Context, product *entity.Product) error {
	return r.logSnapshot(ctx, entity.AuditActionCreate, entity.EntityTypeProduct, product.ID, product.DisplayName(), nil, product)
}

func (r *Recorder) ProductUpdated(ctx context.Context, before, after *entity.Product) error {
	return r.logSnapshot(ctx, entity.AuditActionUpdate, entity.EntityTypeProduct, after.ID, after.DisplayName(), before, after)
}

func (r *Recorder) ProductDeleted(ctx context.Context, before *entity.Product) error {
	return r.logSnapshot(ctx, entity.AuditActionDelete, entity.EntityTypeProduct, before.ID, before.DisplayName(), before, nil)
}

func (r *Recorder) OrderStatusUpdated(ctx context.Context, orderID string, before, after entity.OrderStatus) error {
	return r.logSnapshot(ctx, entity.AuditActionUpdate, entity.EntityTypeOrder, orderID, entity.OrderDisplayName(orderID),
		entity.OrderStatusSnapshot{Status: before},
		entity.OrderStatusSnapshot{Status: after},
	)
}

func (r *Recorder) UserCreated(ctx context.Context, user *entity.AdminUser) error {
	return r.logSnapshot(ctx, entity.AuditActionCreate, entity.EntityTypeUser, user.ID, user.Email, nil, user)
}

func (r *Recorder) UserRoleUpdated(ctx context.Context, user *entity.AdminUser, before, after entity.Role) error {
	return r.logSnapshot(ctx, entity.AuditActionUpdate, entity.EntityTypeUser, user.ID, user.Email,
		entity.UserRoleSnapshot{Role: before},
		entity.UserRoleSnapshot{Role: after},
	)
}

func (r *Recorder) UserDeleted(ctx context.Context, before *entity.AdminUser) error {
	return r.logSnapshot(ctx, entity.AuditActionDelete, entity.EntityTypeUser, before.ID, before.Email, before, nil)
}

func (r *Recorder) UserLogin(ctx context.Context, actor *entity.Actor) error {
	return r.TryLogAction(ctx, inbound.LogRequest{
		Action:     entity.AuditActionLogin,
		EntityType: entity.EntityTypeAuth,
		EntityID:   actor.ID,
		EntityName: actor.Email,
	})
}

func (r *Recorder) UserLogout(ctx context.Context, actor *entity.Actor) error {
	return r.TryLogAction(ctx, inbound.LogRequest{
		Action:     entity.AuditActionLogout,
		EntityType: entity.EntityTypeAuth,
		EntityID:   actor.ID,
		EntityName: actor.Email,
	})
}

func (r *Recorder) EventCreated(ctx context.Context, event *entity.Event) error {
	return r.logSnapshot(ctx, entity.AuditActionCreate, entity.EntityTypeEvent, event.ID, event.DisplayName(), nil, event)
}

func (r *Recorder) EventUpdated(ctx context.Context, before, after *entity.Event) error {
	return r.logSnapshot(ctx, entity.AuditActionUpdate, entity.EntityTypeEvent, after.ID, after.DisplayName(), before, after)
}

func (r *Recorder) EventDeleted(ctx context.Context, before *entity.Event) error {
	return r.logSnapshot(ctx, entity.AuditActionDelete, entity.EntityTypeEvent, before.ID, before.DisplayName(), before, nil)
}

func (r *Recorder) Exported(ctx context.Context, entityType entity.EntityType, format string, rows int) error {
	return r.TryLogAction(ctx, inbound.LogRequest{
		Action:     entity.AuditActionExport,
		EntityType: entityType,
		Metadata: map[string]interface{}{
			"format": format,
			"rows":   rows,
		},
	})
}

func (r *Recorder) logSnapshot(ctx context.Context, action entity.AuditAction, entityType entity.EntityType, id, name string, before, after interface{}) error {
	changes, err := entity.NewChanges(before, after)
	if err != nil {
		r.logger.Error(ctx, "Failed to encode audit snapshot", err, map[string]interface{}{
			"action":      action,
			"entity_type": entityType,
			"entity_id":   id,
		})
		return fmt.Errorf("failed to encode audit snapshot: %w", err)
	}

	return r.TryLogAction(ctx, inbound.LogRequest{
		Action:     action,
		EntityType: entityType,
		EntityID:   id,
		EntityName: name,
		Changes:    changes,
	})
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
