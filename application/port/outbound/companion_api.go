package outbound

import (
	"context"

	"github.com/storedesk/storedesk/domain/entity"
)

// CompanionAPI performs the privileged operations the dashboard is not allowed to do
// against the store directly. Non-2xx responses surface as CompanionAPIError.
type CompanionAPI interface {
	DeleteProduct(ctx context.Context, id string) error
	CreateUser(ctx context.Context, input CreateUserInput) (*entity.AdminUser, error)
	UpdateUserRole(ctx context.Context, id string, role entity.Role) error
	DeleteUser(ctx context.Context, id string) error
	SendOrderStatusUpdateEmail(ctx context.Context, orderID string, status entity.OrderStatus) error
}

type CreateUserInput struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	FullName string      `json:"full_name"`
	Role     entity.Role `json:"role"`
}
