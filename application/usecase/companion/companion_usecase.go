package companion

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/storedesk/storedesk/application/port/inbound"
	"github.com/storedesk/storedesk/application/port/outbound"
	"github.com/storedesk/storedesk/domain/entity"
	apperror "github.com/storedesk/storedesk/domain/error"
	"github.com/storedesk/storedesk/infrastructure/service/logger"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const minPasswordLength = 8

// CompanionUseCase runs the privileged operations with service credentials.
// The role is always re-read from admin_users by the caller; nothing here trusts the client.
type CompanionUseCase struct {
	users       outbound.UserRepository
	products    outbound.ProductRepository
	orders      outbound.OrderRepository
	passwordSvc outbound.PasswordService
	publisher   outbound.EmailJobPublisher
	logger      logger.Logger
	newID       func() string
	now         func() time.Time
}

func NewCompanionUseCase(
	users outbound.UserRepository,
	products outbound.ProductRepository,
	orders outbound.OrderRepository,
	passwordSvc outbound.PasswordService,
	publisher outbound.EmailJobPublisher,
	log logger.Logger,
) *CompanionUseCase {
	return &CompanionUseCase{
		users:       users,
		products:    products,
		orders:      orders,
		passwordSvc: passwordSvc,
		publisher:   publisher,
		logger:      log,
		newID:       func() string { return uuid.New().String() },
		now:         func() time.Time { return time.Now().UTC() },
	}
}

var _ inbound.CompanionUseCase = (*CompanionUseCase)(nil)

func (uc *CompanionUseCase) DeleteProduct(ctx context.Context, actor *entity.Actor, productID string) error {
	if err := uc.require(ctx, actor, "delete products", actor.Permissions().CanDeleteProducts); err != nil {
		return err
	}
	if productID == "" {
		return apperror.NewValidationError("id", "product id is required")
	}

	if err := uc.products.Delete(ctx, productID); err != nil {
		return err
	}

	uc.logger.Info(ctx, "Product deleted", map[string]interface{}{
		"product_id": productID,
		"actor_id":   actor.ID,
	})
	return nil
}

func (uc *CompanionUseCase) CreateUser(ctx context.Context, actor *entity.Actor, req inbound.CreateUserRequest) (*entity.AdminUser, error) {
	if err := uc.require(ctx, actor, "create users", actor.Permissions().CanCreateUsers); err != nil {
		return nil, err
	}

	// Validate input
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validateCreateUserRequest(req); err != nil {
		return nil, err
	}
	if req.Role == entity.RoleSuperAdmin && actor.Role != entity.RoleSuperAdmin {
		return nil, apperror.NewForbiddenError("grant super_admin")
	}

	// Check if email already exists
	exists, err := uc.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, apperror.NewValidationError("email", "already exists")
	}

	// Hash password
	hashedPassword, err := uc.passwordSvc.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := entity.NewAdminUser(uc.newID(), req.Email, strings.TrimSpace(req.FullName), req.Role, hashedPassword)
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	uc.logger.Info(ctx, "Admin user created", map[string]interface{}{
		"user_id":  user.ID,
		"role":     user.Role,
		"actor_id": actor.ID,
	})
	return user, nil
}

func (uc *CompanionUseCase) UpdateUserRole(ctx context.Context, actor *entity.Actor, userID string, role entity.Role) (*entity.AdminUser, error) {
	if err := uc.require(ctx, actor, "edit users", actor.Permissions().CanEditUsers); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, apperror.NewValidationError("role", fmt.Sprintf("unknown role %q", role))
	}

	target, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Only a super admin may grant or take away super_admin.
	if (role == entity.RoleSuperAdmin || target.Role == entity.RoleSuperAdmin) && actor.Role != entity.RoleSuperAdmin {
		logger.LogSecurityEvent(ctx, uc.logger, "super_admin_change_denied", "HIGH", map[string]interface{}{
			"actor_id":  actor.ID,
			"target_id": userID,
			"role":      role,
		})
		return nil, apperror.NewForbiddenError("grant super_admin")
	}

	updated, err := uc.users.UpdateRole(ctx, userID, role)
	if err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	uc.logger.Info(ctx, "Admin user role updated", map[string]interface{}{
		"user_id":  userID,
		"from":     target.Role,
		"to":       role,
		"actor_id": actor.ID,
	})
	return updated, nil
}

func (uc *CompanionUseCase) DeleteUser(ctx context.Context, actor *entity.Actor, userID string) error {
	if err := uc.require(ctx, actor, "delete users", actor.Permissions().CanDeleteUsers); err != nil {
		return err
	}
	if userID == actor.ID {
		return apperror.NewValidationError("id", "you cannot delete your own account")
	}

	if err := uc.users.Delete(ctx, userID); err != nil {
		return err
	}

	uc.logger.Info(ctx, "Admin user deleted", map[string]interface{}{
		"user_id":  userID,
		"actor_id": actor.ID,
	})
	return nil
}

// SendOrderStatusEmail queues a notification for the mail worker. The address is
// read from the stored order, never from the request.
func (uc *CompanionUseCase) SendOrderStatusEmail(ctx context.Context, actor *entity.Actor, orderID string, status entity.OrderStatus) error {
	if err := uc.require(ctx, actor, "edit orders", actor.Permissions().CanEditOrders); err != nil {
		return err
	}
	if !status.Valid() {
		return apperror.NewValidationError("status", fmt.Sprintf("unknown status %q", status))
	}

	order, err := uc.orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.ShippingEmail == nil || *order.ShippingEmail == "" {
		return apperror.NewValidationError("shipping_email", "order has no shipping email")
	}

	job := outbound.OrderStatusEmailJob{
		Type:        outbound.OrderStatusUpdatedJob,
		OrderID:     orderID,
		Email:       *order.ShippingEmail,
		Status:      status,
		RequestedBy: actor.ID,
		RequestedAt: uc.now(),
	}
	if err := uc.publisher.PublishOrderStatusEmail(ctx, job); err != nil {
		return fmt.Errorf("failed to queue status email: %w", err)
	}

	uc.logger.Info(ctx, "Order status email queued", map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	})
	return nil
}

func (uc *CompanionUseCase) require(ctx context.Context, actor *entity.Actor, capability string, allowed bool) error {
	if actor == nil {
		return apperror.NewUnauthenticatedError("no authenticated actor")
	}
	if !allowed {
		logger.LogSecurityEvent(ctx, uc.logger, "companion_forbidden", "MEDIUM", map[string]interface{}{
			"actor_id":   actor.ID,
			"role":       actor.Role,
			"capability": capability,
		})
		return apperror.NewForbiddenError(capability)
	}
	return nil
}

func validateCreateUserRequest(req inbound.CreateUserRequest) error {
	if !emailRegex.MatchString(req.Email) {
		return apperror.NewValidationError("email", "invalid email format")
	}
	if len(req.Password) < minPasswordLength {
		return apperror.NewValidationError("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}
	if !req.Role.Valid() {
		return apperror.NewValidationError("role", fmt.Sprintf("unknown role %q", req.Role))
	}
	return nil
}
