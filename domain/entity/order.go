package entity

import "time"

// OrderStatus represents the fulfilment status of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is a known status
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order represents a customer order
type Order struct {
	ID            string      `json:"id"`
	UserID        string      `json:"user_id"`
	Status        OrderStatus `json:"status"`
	Total         int64       `json:"total"`
	Currency      string      `json:"currency"`
	ShippingEmail *string     `json:"shipping_email,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// DisplayName is the label recorded in audit logs, e.g. "Order #1a2b3c4d"
func (o *Order) DisplayName() string {
	return OrderDisplayName(o.ID)
}

// OrderDisplayName builds the audit label from an order id
func OrderDisplayName(id string) string {
	short := id
	if len(short) > 8 {
		short = short[:8]
	}
	return "Order #" + short
}

// OrderStatusSnapshot is the before/after shape of an order status change
type OrderStatusSnapshot struct {
	Status OrderStatus `json:"status"`
}

// OrderFilter represents filters for listing orders
type OrderFilter struct {
	Status *OrderStatus `json:"status,omitempty"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
	After  *PageCursor  `json:"-"`
}
