package inbound

import (
	"context"

	"github.com/storedesk/storedesk/domain/entity"
)

// CompanionUseCase holds the privileged operations served by the companion API.
// Every method re-checks the actor's role before touching the store.
type CompanionUseCase interface {
	DeleteProduct(ctx context.Context, actor *entity.Actor, productID string) error
	CreateUser(ctx context.Context, actor *entity.Actor, req CreateUserRequest) (*entity.AdminUser, error)
	UpdateUserRole(ctx context.Context, actor *entity.Actor, userID string, role entity.Role) (*entity.AdminUser, error)
	DeleteUser(ctx context.Context, actor *entity.Actor, userID string) error
	SendOrderStatusEmail(ctx context.Context, actor *entity.Actor, orderID string, status entity.OrderStatus) error
}
