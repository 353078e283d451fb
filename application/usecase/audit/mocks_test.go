package audit

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/storedesk/storedesk/application/port/outbound"
	"github.com/storedesk/storedesk/domain/entity"
	apperror "github.com/storedesk/storedesk/domain/error"
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

// memoryAuditLogRepository keeps logs in memory with the same filter and
// flag semantics as the postgres adapter.
type memoryAuditLogRepository struct {
	mu   sync.Mutex
	logs map[string]*entity.AuditLog
}

func newMemoryAuditLogRepository(logs ...*entity.AuditLog) *memoryAuditLogRepository {
	repo := &memoryAuditLogRepository{logs: make(map[string]*entity.AuditLog)}
	for _, l := range logs {
		repo.logs[l.ID] = l
	}
	return repo
}

func (r *memoryAuditLogRepository) Insert(ctx context.Context, log *entity.AuditLog) (*entity.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *log
	if stored.ID == "" {
		stored.ID = time.Now().Format("150405.000000000")
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	r.logs[stored.ID] = &stored
	return &stored, nil
}

func (r *memoryAuditLogRepository) FindByID(ctx context.Context, id string) (*entity.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	log, ok := r.logs[id]
	if !ok {
		return nil, apperror.NewNotFoundError("audit log", id)
	}
	copied := *log
	return &copied, nil
}

func (r *memoryAuditLogRepository) List(ctx context.Context, filter entity.AuditLogFilter) ([]*entity.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.AuditLog
	for _, log := range r.logs {
		if filter.Matches(log) {
			copied := *log
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryAuditLogRepository) MarkReverted(ctx context.Context, id, actorID string, at time.Time) (*entity.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	log, ok := r.logs[id]
	if !ok {
		return nil, apperror.NewNotFoundError("audit log", id)
	}
	if log.Reverted {
		return nil, apperror.NewNotRevertibleError(id, "already reverted")
	}
	log.Reverted = true
	log.RevertedAt = &at
	log.RevertedBy = &actorID
	copied := *log
	return &copied, nil
}

func (r *memoryAuditLogRepository) ReleaseRevert(ctx context.Context, id, actorID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	log, ok := r.logs[id]
	if !ok || !log.Reverted || log.RevertedBy == nil || *log.RevertedBy != actorID ||
		log.RevertedAt == nil || !log.RevertedAt.Equal(at) {
		return apperror.NewNotFoundError("audit log revert claim", id)
	}
	log.Reverted = false
	log.RevertedAt = nil
	log.RevertedBy = nil
	return nil
}

func (r *memoryAuditLogRepository) MarkDeleted(ctx context.Context, id, actorID string, at time.Time) (*entity.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	log, ok := r.logs[id]
	if !ok {
		return nil, apperror.NewNotFoundError("audit log", id)
	}
	log.Deleted = true
	log.DeletedAt = &at
	log.DeletedBy = &actorID
	copied := *log
	return &copied, nil
}
