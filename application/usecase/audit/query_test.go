package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/storedesk/storedesk/application/port/inbound"
	"github.com/storedesk/storedesk/domain/entity"
	apperror "github.com/storedesk/storedesk/domain/error"
)

func boolPtr(b bool) *bool { return &b }

func TestQueryUseCase_GetLogs_FilterConjunction(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	first := &entity.AuditLog{ID: "a", Action: entity.AuditActionCreate, EntityType: entity.EntityTypeProduct, CreatedAt: now}
	second := &entity.AuditLog{ID: "b", Action: entity.AuditActionUpdate, EntityType: entity.EntityTypeOrder, Reverted: true, CreatedAt: now.Add(-time.Minute)}

	uc := NewQueryUseCase(newMemoryAuditLogRepository(first, second))

	create := entity.AuditActionCreate
	product := entity.EntityTypeProduct
	logs, err := uc.GetLogs(ctx, entity.AuditLogFilter{Action: &create, EntityType: &product, Reverted: boolPtr(false)})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "a", logs[0].ID)

	logs, err = uc.GetLogs(ctx, entity.AuditLogFilter{Reverted: boolPtr(true)})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "b", logs[0].ID)
}

func TestQueryUseCase_GetLogs_HidesDeletedByDefault(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	visible := &entity.AuditLog{ID: "visible", Action: entity.AuditActionUpdate, CreatedAt: now}
	hidden := &entity.AuditLog{ID: "hidden", Action: entity.AuditActionUpdate, Deleted: true, CreatedAt: now.Add(-time.Second)}

	uc := NewQueryUseCase(newMemoryAuditLogRepository(visible, hidden))

	logs, err := uc.GetLogs(ctx, entity.AuditLogFilter{})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "visible", logs[0].ID)

	logs, err = uc.GetLogs(ctx, entity.AuditLogFilter{IncludeDeleted: true})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "visible", logs[0].ID, "newest first")
}

func TestQueryUseCase_GetLogs_Limits(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		limit         int
		expectedLimit int
	}{
		{"default", 0, DefaultListLimit},
		{"kept", 25, 25},
		{"capped", 10000, MaxListLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockAuditLogRepository)
			repo.On("List", ctx, mock.MatchedBy(func(f entity.AuditLogFilter) bool {
				return f.Limit == tt.expectedLimit
			})).Return([]*entity.AuditLog{}, nil)

			_, err := NewQueryUseCase(repo).GetLogs(ctx, entity.AuditLogFilter{Limit: tt.limit})
			assert.NoError(t, err)
			repo.AssertExpectations(t)
		})
	}
}

func TestQueryUseCase_GetLogs_Validation(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAuditLogRepository)
	uc := NewQueryUseCase(repo)

	bogus := entity.AuditAction("purge")
	_, err := uc.GetLogs(ctx, entity.AuditLogFilter{Action: &bogus})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	start := time.Now()
	end := start.Add(-time.Hour)
	_, err = uc.GetLogs(ctx, entity.AuditLogFilter{StartDate: &start, EndDate: &end})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestQueryUseCase_ListLogs_Search(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	name := "Blue Mug"
	logs := []*entity.AuditLog{
		{ID: "1", UserEmail: "alice@shop.test", CreatedAt: now},
		{ID: "2", UserEmail: "bob@shop.test", EntityName: &name, CreatedAt: now.Add(-time.Second)},
	}

	uc := NewQueryUseCase(newMemoryAuditLogRepository(logs...))

	found, err := uc.ListLogs(ctx, inbound.ListAuditLogsRequest{Search: "MUG"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "2", found[0].ID)
}

func TestQueryUseCase_GetLog_NotFound(t *testing.T) {
	uc := NewQueryUseCase(newMemoryAuditLogRepository())

	_, err := uc.GetLog(context.Background(), "missing")
	assert.True(t, apperror.IsNotFound(err))
}
