package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/storedesk/storedesk/application/port/inbound"
	"github.com/storedesk/storedesk/application/port/outbound"
	"github.com/storedesk/storedesk/domain/entity"
	apperror "github.com/storedesk/storedesk/domain/error"
	"github.com/storedesk/storedesk/infrastructure/service/logger"
)

const DefaultRevertTimeout = 30 * time.Second

// RevertEngine undoes a logged action and marks the log reverted.
// It writes through the entity ports, not the audited use cases, so the
// undo itself is not recorded as a new forward action.
type RevertEngine struct {
	logs      outbound.AuditLogRepository
	products  outbound.ProductRepository
	orders    outbound.OrderRepository
	events    outbound.EventRepository
	companion outbound.CompanionAPI
	session   outbound.SessionProvider
	metrics   outbound.MetricsRecorder
	logger    logger.Logger
	timeout   time.Duration
	now       func() time.Time
}

func NewRevertEngine(
	logs outbound.AuditLogRepository,
	products outbound.ProductRepository,
	orders outbound.OrderRepository,
	events outbound.EventRepository,
	companion outbound.CompanionAPI,
	session outbound.SessionProvider,
	metrics outbound.MetricsRecorder,
	log logger.Logger,
	timeout time.Duration,
) *RevertEngine {
	if timeout <= 0 {
		timeout = DefaultRevertTimeout
	}
	if metrics == nil {
		metrics = outbound.NoopMetrics()
	}
	return &RevertEngine{
		logs:      logs,
		products:  products,
		orders:    orders,
		events:    events,
		companion: companion,
		session:   session,
		metrics:   metrics,
		logger:    log,
		timeout:   timeout,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

var _ inbound.RevertUseCase = (*RevertEngine)(nil)

func (e *RevertEngine) CanRevert(log *entity.AuditLog) bool {
	return log != nil && log.CanRevert()
}

// Revert claims the log by flipping reverted, then applies its before state
// (or deletes what it created). A failed undo releases the claim, so a log is
// only left reverted when its undo went through.
func (e *RevertEngine) Revert(ctx context.Context, logID string) (*entity.AuditLog, error) {
	if logID == "" {
		return nil, apperror.NewValidationError("id", "audit log id is required")
	}

	log, err := e.logs.FindByID(ctx, logID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"log_id":      log.ID,
		"action":      log.Action,
		"entity_type": log.EntityType,
	}

	if reason := log.RevertBlocker(); reason != "" {
		e.metrics.RevertAttempted(string(log.EntityType), "rejected")
		e.logger.Warn(ctx, "Revert rejected", withField(fields, "reason", reason))
		return nil, apperror.NewNotRevertibleError(log.ID, reason)
	}

	actor, err := e.session.CurrentActor(ctx)
	if err != nil || actor == nil {
		return nil, apperror.NewUnauthenticatedError("revert requires an authenticated actor")
	}
	if !actor.Permissions().CanViewAuditLogs {
		logger.LogSecurityEvent(ctx, e.logger, "revert_forbidden", "MEDIUM", withField(fields, "user_id", actor.ID))
		return nil, apperror.NewForbiddenError("revert audit logs")
	}

	op, err := planRevert(log)
	if err != nil {
		e.metrics.RevertAttempted(string(log.EntityType), "unsupported")
		e.logger.Warn(ctx, "Revert has no matching operation", withField(fields, "error", err.Error()))
		return nil, err
	}

	claimed, err := e.logs.MarkReverted(ctx, log.ID, actor.ID, e.now())
	if err != nil {
		if errors.Is(err, apperror.ErrNotRevertible) {
			e.metrics.RevertAttempted(string(log.EntityType), "rejected")
			e.logger.Warn(ctx, "Revert lost to a concurrent revert", fields)
		} else {
			e.metrics.RevertAttempted(string(log.EntityType), "failed")
			e.logger.Error(ctx, "Failed to mark audit log reverted", err, fields)
		}
		return nil, err
	}

	applyCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	if err := op.apply(applyCtx, e); err != nil {
		e.metrics.RevertAttempted(string(log.EntityType), "failed")
		e.logger.Error(ctx, "Revert operation failed", err, withField(fields, "operation", op.describe()))
		e.releaseClaim(ctx, claimed, actor.ID, fields)
		return nil, fmt.Errorf("failed to %s: %w", op.describe(), err)
	}

	e.metrics.RevertAttempted(string(log.EntityType), "reverted")
	logger.LogPerformance(ctx, e.logger, "audit_revert", time.Since(start), withField(fields, "operation", op.describe()))
	return claimed, nil
}

// releaseClaim runs even when ctx is already cancelled. A release that fails
// leaves the log marked reverted and is only logged.
func (e *RevertEngine) releaseClaim(ctx context.Context, claimed *entity.AuditLog, actorID string, fields map[string]interface{}) {
	if claimed == nil || claimed.RevertedAt == nil {
		e.logger.Error(ctx, "Revert claim has no timestamp; log stays reverted", nil, fields)
		return
	}

	releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
	defer cancel()

	if err := e.logs.ReleaseRevert(releaseCtx, claimed.ID, actorID, *claimed.RevertedAt); err != nil {
		e.logger.Error(ctx, "Failed to release revert claim", err, fields)
	}
}

// revertOp is the closed set of undo operations. Only planRevert builds them.
type revertOp interface {
	apply(ctx context.Context, e *RevertEngine) error
	describe() string
}

type deleteProduct struct{ id string }

func (op deleteProduct) apply(ctx context.Context, e *RevertEngine) error {
	return e.companion.DeleteProduct(ctx, op.id)
}

func (op deleteProduct) describe() string { return "delete product " + op.id }

type restoreProduct struct {
	id    string
	patch entity.ProductPatch
}

func (op restoreProduct) apply(ctx context.Context, e *RevertEngine) error {
	_, err := e.products.Update(ctx, op.id, op.patch)
	return err
}

func (op restoreProduct) describe() string { return "restore product " + op.id }

type restoreOrderStatus struct {
	id     string
	status entity.OrderStatus
}

func (op restoreOrderStatus) apply(ctx context.Context, e *RevertEngine) error {
	_, err := e.orders.UpdateStatus(ctx, op.id, op.status)
	return err
}

func (op restoreOrderStatus) describe() string { return "restore order status " + op.id }

type restoreUserRole struct {
	id   string
	role entity.Role
}

func (op restoreUserRole) apply(ctx context.Context, e *RevertEngine) error {
	return e.companion.UpdateUserRole(ctx, op.id, op.role)
}

func (op restoreUserRole) describe() string { return "restore user role " + op.id }

type deleteEvent struct{ id string }

func (op deleteEvent) apply(ctx context.Context, e *RevertEngine) error {
	return e.events.Delete(ctx, op.id)
}

func (op deleteEvent) describe() string { return "delete event " + op.id }

type restoreEvent struct {
	id    string
	patch entity.EventPatch
}

func (op restoreEvent) apply(ctx context.Context, e *RevertEngine) error {
	_, err := e.events.Update(ctx, op.id, op.patch)
	return err
}

func (op restoreEvent) describe() string { return "restore event " + op.id }

// planRevert maps (entity type, action) to an operation. Pairs without a row
// are UnsupportedOperation, so the reverted flag is never set for a no-op.
func planRevert(log *entity.AuditLog) (revertOp, error) {
	unsupported := apperror.NewUnsupportedOperationError(fmt.Sprintf("revert %s %s", log.EntityType, log.Action))

	if log.EntityID == nil || *log.EntityID == "" {
		return nil, unsupported
	}
	id := *log.EntityID

	switch log.EntityType {
	case entity.EntityTypeProduct:
		switch log.Action {
		case entity.AuditActionCreate:
			return deleteProduct{id: id}, nil
		case entity.AuditActionUpdate:
			var patch entity.ProductPatch
			if err := decodeBefore(log, &patch); err != nil || patch.IsEmpty() {
				return nil, unsupported
			}
			return restoreProduct{id: id, patch: patch}, nil
		}
	case entity.EntityTypeOrder:
		if log.Action == entity.AuditActionUpdate {
			var snapshot entity.OrderStatusSnapshot
			if err := decodeBefore(log, &snapshot); err != nil || !snapshot.Status.Valid() {
				return nil, unsupported
			}
			return restoreOrderStatus{id: id, status: snapshot.Status}, nil
		}
	case entity.EntityTypeUser:
		if log.Action == entity.AuditActionUpdate {
			var snapshot entity.UserRoleSnapshot
			if err := decodeBefore(log, &snapshot); err != nil || !snapshot.Role.Valid() {
				return nil, unsupported
			}
			return restoreUserRole{id: id, role: snapshot.Role}, nil
		}
	case entity.EntityTypeEvent:
		switch log.Action {
		case entity.AuditActionCreate:
			return deleteEvent{id: id}, nil
		case entity.AuditActionUpdate:
			var patch entity.EventPatch
			if err := decodeBefore(log, &patch); err != nil || patch.IsEmpty() {
				return nil, unsupported
			}
			return restoreEvent{id: id, patch: patch}, nil
		}
	}

	return nil, unsupported
}

func decodeBefore(log *entity.AuditLog, v interface{}) error {
	if !log.Changes.HasBefore() {
		return fmt.Errorf("no before state")
	}
	return json.Unmarshal(log.Changes.Before, v)
}

func withField(fields map[string]interface{}, key string, value interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out[key] = value
	return out
}
