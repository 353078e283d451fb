package outbound

import (
	"context"
	"time"

	"github.com/storedesk/storedesk/domain/entity"
)

const OrderStatusUpdatedJob = "order.status_updated"

// OrderStatusEmailJob is the message the mail worker consumes
type OrderStatusEmailJob struct {
	Type        string             `json:"type"`
	OrderID     string             `json:"order_id"`
	Email       string             `json:"email"`
	Status      entity.OrderStatus `json:"status"`
	RequestedBy string             `json:"requested_by"`
	RequestedAt time.Time          `json:"requested_at"`
}

type EmailJobPublisher interface {
	PublishOrderStatusEmail(ctx context.Context, job OrderStatusEmailJob) error
	Close() error
}
