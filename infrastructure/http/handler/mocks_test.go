package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/storedesk/storedesk/application/port/inbound"
	"github.com/storedesk/storedesk/domain/entity"
)

type MockAuditQuery struct {
	mock.Mock
}

func (m *MockAuditQuery) GetLogs(ctx context.Context, filter entity.AuditLogFilter) ([]*entity.AuditLog, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.AuditLog), args.Error(1)
}

func (m *MockAuditQuery) GetLog(ctx context.Context, id string) (*entity.AuditLog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AuditLog), args.Error(1)
}

func (m *MockAuditQuery) SearchLogs(logs []*entity.AuditLog, query string) []*entity.AuditLog {
	return entity.FilterBySearch(logs, query)
}

func (m *MockAuditQuery) ListLogs(ctx context.Context, req inbound.ListAuditLogsRequest) ([]*entity.AuditLog, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.AuditLog), args.Error(1)
}

type MockRevert struct {
	mock.Mock
}

func (m *MockRevert) CanRevert(log *entity.AuditLog) bool {
	return log.CanRevert()
}

func (m *MockRevert) Revert(ctx context.Context, logID string) (*entity.AuditLog, error) {
	args := m.Called(ctx, logID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AuditLog), args.Error(1)
}

type MockSoftDelete struct {
	mock.Mock
}

func (m *MockSoftDelete) DeleteLog(ctx context.Context, logID string) (*entity.AuditLog, error) {
	args := m.Called(ctx, logID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AuditLog), args.Error(1)
}

type MockBulk struct {
	mock.Mock
}

func (m *MockBulk) BulkDelete(ctx context.Context, ids []string) (*inbound.BulkResult, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.BulkResult), args.Error(1)
}

func (m *MockBulk) BulkSetDiscount(ctx context.Context, req inbound.BulkDiscountRequest) (*inbound.BulkResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.BulkResult), args.Error(1)
}

func (m *MockBulk) BulkSetCategory(ctx context.Context, req inbound.BulkCategoryRequest) (*inbound.BulkResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.BulkResult), args.Error(1)
}

type MockOrders struct {
	mock.Mock
}

func (m *MockOrders) List(ctx context.Context, filter entity.OrderFilter) ([]*entity.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Order), args.Error(1)
}

func (m *MockOrders) Get(ctx context.Context, id string) (*entity.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockOrders) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) (*inbound.UpdateOrderStatusResponse, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.UpdateOrderStatusResponse), args.Error(1)
}

type MockExport struct {
	mock.Mock
}

func (m *MockExport) Export(ctx context.Context, req inbound.ExportRequest) (*inbound.ExportResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inbound.ExportResult), args.Error(1)
}

type MockCompanion struct {
	mock.Mock
}

func (m *MockCompanion) DeleteProduct(ctx context.Context, actor *entity.Actor, productID string) error {
	return m.Called(ctx, actor, productID).Error(0)
}

func (m *MockCompanion) CreateUser(ctx context.Context, actor *entity.Actor, req inbound.CreateUserRequest) (*entity.AdminUser, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AdminUser), args.Error(1)
}

func (m *MockCompanion) UpdateUserRole(ctx context.Context, actor *entity.Actor, userID string, role entity.Role) (*entity.AdminUser, error) {
	args := m.Called(ctx, actor, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AdminUser), args.Error(1)
}

func (m *MockCompanion) DeleteUser(ctx context.Context, actor *entity.Actor, userID string) error {
	return m.Called(ctx, actor, userID).Error(0)
}

func (m *MockCompanion) SendOrderStatusEmail(ctx context.Context, actor *entity.Actor, orderID string, status entity.OrderStatus) error {
	return m.Called(ctx, actor, orderID, status).Error(0)
}
