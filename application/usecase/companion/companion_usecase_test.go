package companion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/storedesk/storedesk/application/port/inbound"
	"github.com/storedesk/storedesk/application/port/outbound"
	"github.com/storedesk/storedesk/domain/entity"
	apperror "github.com/storedesk/storedesk/domain/error"
	"github.com/storedesk/storedesk/infrastructure/service/logger"
)

// Mock implementations

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

type MockProductRepository struct {
	mock.Mock
	outbound.ProductRepository
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockOrderRepository struct {
	mock.Mock
	outbound.OrderRepository
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

type MockPasswordService struct {
	mock.Mock
}

func (m *MockPasswordService) HashPassword(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordService) ComparePassword(hashedPassword, password string) error {
	args := m.Called(hashedPassword, password)
	return args.Error(0)
}

type MockEmailJobPublisher struct {
	mock.Mock
}

func (m *MockEmailJobPublisher) PublishOrderStatusEmail(ctx context.Context, job outbound.OrderStatusEmailJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockEmailJobPublisher) Close() error {
	return m.Called().Error(0)
}

type fixture struct {
	users     *MockUserRepository
	products  *MockProductRepository
	orders    *MockOrderRepository
	passwords *MockPasswordService
	publisher *MockEmailJobPublisher
	uc        *CompanionUseCase
}

func newFixture() *fixture {
	f := &fixture{
		users:     new(MockUserRepository),
		products:  new(MockProductRepository),
		orders:    new(MockOrderRepository),
		passwords: new(MockPasswordService),
		publisher: new(MockEmailJobPublisher),
	}
	f.uc = NewCompanionUseCase(f.users, f.products, f.orders, f.passwords, f.publisher, logger.NewNopLogger())
	f.uc.newID = func() string { return "new-user-id" }
	f.uc.now = func() time.Time { return time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC) }
	return f
}

var (
	superAdmin = &entity.Actor{ID: "sa-1", Email: "root@store.test", Role: entity.RoleSuperAdmin}
	admin      = &entity.Actor{ID: "ad-1", Email: "admin@store.test", Role: entity.RoleAdmin}
	editor     = &entity.Actor{ID: "ed-1", Email: "editor@store.test", Role: entity.RoleEditor}
)

func TestCompanionUseCase_DeleteProduct(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		actor   *entity.Actor
		wantErr error
	}{
		{"super admin", superAdmin, nil},
		{"admin", admin, nil},
		{"editor is forbidden", editor, apperror.ErrForbidden},
		{"no actor", nil, apperror.ErrUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.products.On("Delete", ctx, "p-1").Return(nil)

			err := f.uc.DeleteProduct(ctx, tt.actor, "p-1")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				f.products.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			f.products.AssertExpectations(t)
		})
	}
}

func TestCompanionUseCase_CreateUser(t *testing.T) {
	ctx := context.Background()
	req := inbound.CreateUserRequest{Email: "New@Store.test ", Password: "password123", FullName: "New Person", Role: entity.RoleEditor}

	t.Run("hashes the password and stores the user", func(t *testing.T) {
		f := newFixture()
		f.users.On("ExistsByEmail", ctx, "new@store.test").Return(false, nil)
		f.passwords.On("HashPassword", "password123").Return("$2a$hash", nil)
		f.users.On("Create", ctx, mock.MatchedBy(func(u *entity.AdminUser) bool {
			return u.ID == "new-user-id" && u.Email == "new@store.test" && u.PasswordHash == "$2a$hash" && u.Role == entity.RoleEditor
		})).Return(nil)

		user, err := f.uc.CreateUser(ctx, admin, req)

		require.NoError(t, err)
		assert.Equal(t, "new-user-id", user.ID)
		f.users.AssertExpectations(t)
	})

	t.Run("existing email", func(t *testing.T) {
		f := newFixture()
		f.users.On("ExistsByEmail", ctx, "new@store.test").Return(true, nil)

		_, err := f.uc.CreateUser(ctx, admin, req)

		assert.True(t, apperror.IsValidationError(err))
		f.passwords.AssertNotCalled(t, "HashPassword", mock.Anything)
	})

	t.Run("admin cannot create a super admin", func(t *testing.T) {
		f := newFixture()
		elevated := req
		elevated.Role = entity.RoleSuperAdmin

		_, err := f.uc.CreateUser(ctx, admin, elevated)

		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("editor cannot create users", func(t *testing.T) {
		_, err := newFixture().uc.CreateUser(ctx, editor, req)
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})
}

func TestCompanionUseCase_UpdateUserRole(t *testing.T) {
	ctx := context.Background()

	t.Run("admin promotes an editor", func(t *testing.T) {
		f := newFixture()
		f.users.On("FindByID", ctx, "u-1").Return(&entity.AdminUser{ID: "u-1", Role: entity.RoleEditor}, nil)
		f.users.On("UpdateRole", ctx, "u-1", entity.RoleAdmin).Return(&entity.AdminUser{ID: "u-1", Role: entity.RoleAdmin}, nil)

		user, err := f.uc.UpdateUserRole(ctx, admin, "u-1", entity.RoleAdmin)

		require.NoError(t, err)
		assert.Equal(t, entity.RoleAdmin, user.Role)
	})

	t.Run("only super admin grants super admin", func(t *testing.T) {
		f := newFixture()
		f.users.On("FindByID", ctx, "u-1").Return(&entity.AdminUser{ID: "u-1", Role: entity.RoleEditor}, nil)

		_, err := f.uc.UpdateUserRole(ctx, admin, "u-1", entity.RoleSuperAdmin)

		assert.ErrorIs(t, err, apperror.ErrForbidden)
		f.users.AssertNotCalled(t, "UpdateRole", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("admin cannot demote a super admin", func(t *testing.T) {
		f := newFixture()
		f.users.On("FindByID", ctx, "sa-2").Return(&entity.AdminUser{ID: "sa-2", Role: entity.RoleSuperAdmin}, nil)

		_, err := f.uc.UpdateUserRole(ctx, admin, "sa-2", entity.RoleViewer)

		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("super admin grants super admin", func(t *testing.T) {
		f := newFixture()
		f.users.On("FindByID", ctx, "u-1").Return(&entity.AdminUser{ID: "u-1", Role: entity.RoleAdmin}, nil)
		f.users.On("UpdateRole", ctx, "u-1", entity.RoleSuperAdmin).Return(&entity.AdminUser{ID: "u-1", Role: entity.RoleSuperAdmin}, nil)

		_, err := f.uc.UpdateUserRole(ctx, superAdmin, "u-1", entity.RoleSuperAdmin)

		assert.NoError(t, err)
	})
}

func TestCompanionUseCase_DeleteUser(t *testing.T) {
	ctx := context.Background()

	t.Run("cannot delete self", func(t *testing.T) {
		f := newFixture()

		err := f.uc.DeleteUser(ctx, superAdmin, superAdmin.ID)

		assert.True(t, apperror.IsValidationError(err))
		f.users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("admin lacks the capability", func(t *testing.T) {
		assert.ErrorIs(t, newFixture().uc.DeleteUser(ctx, admin, "u-1"), apperror.ErrForbidden)
	})

	t.Run("missing user", func(t *testing.T) {
		f := newFixture()
		f.users.On("Delete", ctx, "ghost").Return(apperror.NewNotFoundError("user", "ghost"))

		assert.True(t, apperror.IsNotFound(f.uc.DeleteUser(ctx, superAdmin, "ghost")))
	})
}

func TestCompanionUseCase_SendOrderStatusEmail(t *testing.T) {
	ctx := context.Background()
	email := "buyer@example.com"

	t.Run("publishes a job with the stored address", func(t *testing.T) {
		f := newFixture()
		f.orders.On("FindByID", ctx, "o-1").Return(&entity.Order{ID: "o-1", ShippingEmail: &email}, nil)
		f.publisher.On("PublishOrderStatusEmail", ctx, outbound.OrderStatusEmailJob{
			Type:        outbound.OrderStatusUpdatedJob,
			OrderID:     "o-1",
			Email:       email,
			Status:      entity.OrderStatusShipped,
			RequestedBy: admin.ID,
			RequestedAt: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
		}).Return(nil)

		require.NoError(t, f.uc.SendOrderStatusEmail(ctx, admin, "o-1", entity.OrderStatusShipped))
		f.publisher.AssertExpectations(t)
	})

	t.Run("order without email", func(t *testing.T) {
		f := newFixture()
		f.orders.On("FindByID", ctx, "o-1").Return(&entity.Order{ID: "o-1"}, nil)

		err := f.uc.SendOrderStatusEmail(ctx, admin, "o-1", entity.OrderStatusShipped)

		assert.True(t, apperror.IsValidationError(err))
	})

	t.Run("broker failure is returned", func(t *testing.T) {
		f := newFixture()
		f.orders.On("FindByID", ctx, "o-1").Return(&entity.Order{ID: "o-1", ShippingEmail: &email}, nil)
		f.publisher.On("PublishOrderStatusEmail", ctx, mock.Anything).Return(errors.New("kafka: leader not available"))

		err := f.uc.SendOrderStatusEmail(ctx, admin, "o-1", entity.OrderStatusShipped)

		assert.ErrorContains(t, err, "failed to queue status email")
	})
}
