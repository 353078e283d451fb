package outbound

import (
	"context"

	"github.com/storedesk/storedesk/domain/entity"
)

type ProductRepository interface {
	List(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, error)
	FindByID(ctx context.Context, id string) (*entity.Product, error)
	FindBySlug(ctx context.Context, slug string) (*entity.Product, error)
	Create(ctx context.Context, product *entity.Product) (*entity.Product, error)
	Update(ctx context.Context, id string, patch entity.ProductPatch) (*entity.Product, error)
	// Delete is only called by the companion API; the dashboard deletes through CompanionAPI.
	Delete(ctx context.Context, id string) error
}

type OrderRepository interface {
	List(ctx context.Context, filter entity.OrderFilter) ([]*entity.Order, error)
	FindByID(ctx context.Context, id string) (*entity.Order, error)
	UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) (*entity.Order, error)
}

type EventRepository interface {
	List(ctx context.Context, filter entity.EventFilter) ([]*entity.Event, error)
	FindByID(ctx context.Context, id string) (*entity.Event, error)
	Create(ctx context.Context, event *entity.Event) (*entity.Event, error)
	Update(ctx context.Context, id string, patch entity.EventPatch) (*entity.Event, error)
	Delete(ctx context.Context, id string) error
}
