package audit

import (
	"context"
	"fmt"

	"github.com/storedesk/storedesk/application/port/inbound"
	"github.com/storedesk/storedesk/application/port/outbound"
	"github.com/storedesk/storedesk/domain/entity"
	apperror "github.com/storedesk/storedesk/domain/error"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

type QueryUseCase struct {
	repo outbound.AuditLogRepository
}

func NewQueryUseCase(repo outbound.AuditLogRepository) *QueryUseCase {
	return &QueryUseCase{repo: repo}
}

var _ inbound.AuditQueryUseCase = (*QueryUseCase)(nil)

// GetLogs returns logs matching every set filter, newest first.
// Deleted logs are hidden unless IncludeDeleted is set.
func (uc *QueryUseCase) GetLogs(ctx context.Context, filter entity.AuditLogFilter) ([]*entity.AuditLog, error) {
	if filter.Action != nil && !filter.Action.Valid() {
		return nil, apperror.NewValidationError("action", fmt.Sprintf("unknown action %q", *filter.Action))
	}
	if filter.EntityType != nil && !filter.EntityType.Valid() {
		return nil, apperror.NewValidationError("entity_type", fmt.Sprintf("unknown entity type %q", *filter.EntityType))
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, apperror.NewValidationError("end_date", "must not be before start_date")
	}
	if filter.Offset < 0 {
		return nil, apperror.NewValidationError("offset", "must not be negative")
	}

	switch {
	case filter.Limit <= 0:
		filter.Limit = DefaultListLimit
	case filter.Limit > MaxListLimit:
		filter.Limit = MaxListLimit
	}

	logs, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return logs, nil
}

func (uc *QueryUseCase) GetLog(ctx context.Context, id string) (*entity.AuditLog, error) {
	if id == "" {
		return nil, apperror.NewValidationError("id", "audit log id is required")
	}
	return uc.repo.FindByID(ctx, id)
}

// SearchLogs filters already fetched logs by free text. logs is not modified.
func (uc *QueryUseCase) SearchLogs(logs []*entity.AuditLog, query string) []*entity.AuditLog {
	return entity.FilterBySearch(logs, query)
}

func (uc *QueryUseCase) ListLogs(ctx context.Context, req inbound.ListAuditLogsRequest) ([]*entity.AuditLog, error) {
	logs, err := uc.GetLogs(ctx, req.Filter)
	if err != nil {
		return nil, err
	}
	return uc.SearchLogs(logs, req.Search), nil
}
