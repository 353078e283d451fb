package outbound

import (
	"context"

	"github.com/storedesk/storedesk/domain/entity"
)

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*entity.AdminUser, error)
	FindByEmail(ctx context.Context, email string) (*entity.AdminUser, error)
	List(ctx context.Context, filter entity.UserFilter) ([]*entity.AdminUser, error)
	Create(ctx context.Context, user *entity.AdminUser) error
	UpdateRole(ctx context.Context, id string, role entity.Role) (*entity.AdminUser, error)
	Delete(ctx context.Context, id string) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
