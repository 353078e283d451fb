package catalog

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/storedesk/storedesk/application/port/inbound"
	"github.com/storedesk/storedesk/application/port/outbound"
	"github.com/storedesk/storedesk/domain/entity"
)

// Mock implementations

type MockAuditLogRepository struct {
	mock.Mock
}

func (m *MockAuditLogRepository) Insert(ctx context.Context, log *entity.AuditLog) (*entity.AuditLog, error) {
	args := m.Called(ctx, log)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AuditLog), args.Error(1)
}

func (m *MockAuditLogRepository) FindByID(ctx context.Context, id string) (*entity.AuditLog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AuditLog), args.Error(1)
}

func (m *MockAuditLogRepository) List(ctx context.Context, filter entity.AuditLogFilter) ([]*entity.AuditLog, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.AuditLog), args.Error(1)
}

func (m *MockAuditLogRepository) MarkReverted(ctx context.Context, id, actorID string, at time.Time) (*entity.AuditLog, error) {
	args := m.Called(ctx, id, actorID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AuditLog), args.Error(1)
}

func (m *MockAuditLogRepository) ReleaseRevert(ctx context.Context, id, actorID string, at time.Time) error {
	args := m.Called(ctx, id, actorID, at)
	return args.Error(0)
}

func (m *MockAuditLogRepository) MarkDeleted(ctx context.Context, id, actorID string, at time.Time) (*entity.AuditLog, error) {
	args := m.Called(ctx, id, actorID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AuditLog), args.Error(1)
}

type MockSessionProvider struct {
	mock.Mock
}

func (m *MockSessionProvider) CurrentActor(ctx context.Context) (*entity.Actor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Actor), args.Error(1)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) List(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Product), args.Error(1)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id string) (*entity.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySlug(ctx context.Context, slug string) (*entity.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	args := m.Called(ctx, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, id string, patch entity.ProductPatch) (*entity.Product, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) List(ctx context.Context, filter entity.OrderFilter) ([]*entity.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) (*entity.Order, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) List(ctx context.Context, filter entity.EventFilter) ([]*entity.Event, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Event), args.Error(1)
}

func (m *MockEventRepository) FindByID(ctx context.Context, id string) (*entity.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Event), args.Error(1)
}

func (m *MockEventRepository) Create(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Event), args.Error(1)
}

func (m *MockEventRepository) Update(ctx context.Context, id string, patch entity.EventPatch) (*entity.Event, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Event), args.Error(1)
}

func (m *MockEventRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCompanionAPI struct {
	mock.Mock
}

func (m *MockCompanionAPI) DeleteProduct(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCompanionAPI) CreateUser(ctx context.Context, input outbound.CreateUserInput) (*entity.AdminUser, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AdminUser), args.Error(1)
}

func (m *MockCompanionAPI) UpdateUserRole(ctx context.Context, id string, role entity.Role) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *MockCompanionAPI) DeleteUser(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCompanionAPI) SendOrderStatusUpdateEmail(ctx context.Context, orderID string, status entity.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) AuditWriteFailed(action, entityType string) {
	m.Called(action, entityType)
}

func (m *MockMetrics) RevertAttempted(entityType, outcome string) {
	m.Called(entityType, outcome)
}

func (m *MockMetrics) BulkItemProcessed(operation, outcome string) {
	m.Called(operation, outcome)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*entity.AdminUser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AdminUser), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.AdminUser, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AdminUser), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, filter entity.UserFilter) ([]*entity.AdminUser, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.AdminUser), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.AdminUser) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, id string, role entity.Role) (*entity.AdminUser, error) {
	args := m.Called(ctx, id, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AdminUser), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

// MockAuditRecorder records which wrapper was called; every method returns the configured error.
type MockAuditRecorder struct {
	mock.Mock
}

func (m *MockAuditRecorder) TryLogAction(ctx context.Context, req inbound.LogRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockAuditRecorder) ProductCreated(ctx context.Context, product *entity.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockAuditRecorder) ProductUpdated(ctx context.Context, before, after *entity.Product) error {
	return m.Called(ctx, before, after).Error(0)
}

func (m *MockAuditRecorder) ProductDeleted(ctx context.Context, before *entity.Product) error {
	return m.Called(ctx, before).Error(0)
}

func (m *MockAuditRecorder) OrderStatusUpdated(ctx context.Context, orderID string, before, after entity.OrderStatus) error {
	return m.Called(ctx, orderID, before, after).Error(0)
}

func (m *MockAuditRecorder) UserCreated(ctx context.Context, user *entity.AdminUser) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockAuditRecorder) UserRoleUpdated(ctx context.Context, user *entity.AdminUser, before, after entity.Role) error {
	return m.Called(ctx, user, before, after).Error(0)
}

func (m *MockAuditRecorder) UserDeleted(ctx context.Context, before *entity.AdminUser) error {
	return m.Called(ctx, before).Error(0)
}

func (m *MockAuditRecorder) UserLogin(ctx context.Context, actor *entity.Actor) error {
	return m.Called(ctx, actor).Error(0)
}

func (m *MockAuditRecorder) UserLogout(ctx context.Context, actor *entity.Actor) error {
	return m.Called(ctx, actor).Error(0)
}

func (m *MockAuditRecorder) EventCreated(ctx context.Context, event *entity.Event) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockAuditRecorder) EventUpdated(ctx context.Context, before, after *entity.Event) error {
	return m.Called(ctx, before, after).Error(0)
}

func (m *MockAuditRecorder) EventDeleted(ctx context.Context, before *entity.Event) error {
	return m.Called(ctx, before).Error(0)
}

func (m *MockAuditRecorder) Exported(ctx context.Context, entityType entity.EntityType, format string, rows int) error {
	return m.Called(ctx, entityType, format, rows).Error(0)
}

var (
	_ outbound.UserRepository = (*MockUserRepository)(nil)
	_ inbound.AuditRecorder   = (*MockAuditRecorder)(nil)
)

func actorWith(role entity.Role) *entity.Actor {
	return &entity.Actor{ID: "actor-" + string(role), Email: string(role) + "@store.test", Role: role}
}

func strPtr(s string) *string { return &s }

func fixedNow() time.Time { return time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC) }
