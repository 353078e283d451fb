package audit

import (
	"context"
	"time"

	"github.com/storedesk/storedesk/application/port/inbound"
	"github.com/storedesk/storedesk/application/port/outbound"
	"github.com/storedesk/storedesk/domain/entity"
	apperror "github.com/storedesk/storedesk/domain/error"
	"github.com/storedesk/storedesk/infrastructure/service/logger"
)

// SoftDeleteManager hides audit logs without removing them. Deleting an already
// deleted log re-stamps deleted_at and deleted_by.
type SoftDeleteManager struct {
	logs    outbound.AuditLogRepository
	session outbound.SessionProvider
	logger  logger.Logger
	now     func() time.Time
}

func NewSoftDeleteManager(logs outbound.AuditLogRepository, session outbound.SessionProvider, log logger.Logger) *SoftDeleteManager {
	return &SoftDeleteManager{
		logs:    logs,
		session: session,
		logger:  log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

var _ inbound.SoftDeleteUseCase = (*SoftDeleteManager)(nil)

func (m *SoftDeleteManager) DeleteLog(ctx context.Context, logID string) (*entity.AuditLog, error) {
	if logID == "" {
		return nil, apperror.NewValidationError("id", "audit log id is required")
	}

	actor, err := m.session.CurrentActor(ctx)
	if err != nil || actor == nil {
		return nil, apperror.NewUnauthenticatedError("deleting audit logs requires an authenticated actor")
	}
	if !actor.Permissions().CanViewAuditLogs {
		return nil, apperror.NewForbiddenError("delete audit logs")
	}

	log, err := m.logs.MarkDeleted(ctx, logID, actor.ID, m.now())
	if err != nil {
		return nil, err
	}

	m.logger.Info(ctx, "Audit log soft-deleted", map[string]interface{}{
		"log_id":     logID,
		"deleted_by": actor.ID,
	})
	return log, nil
}
