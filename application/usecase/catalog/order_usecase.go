package catalog

import (
	"context"
	"fmt"

	"github.com/storedesk/storedesk/application/port/inbound"
	"github.com/storedesk/storedesk/application/port/outbound"
	"github.com/storedesk/storedesk/domain/entity"
	apperror "github.com/storedesk/storedesk/domain/error"
	"github.com/storedesk/storedesk/infrastructure/service/logger"
)

type OrderUseCase struct {
	orders    outbound.OrderRepository
	companion outbound.CompanionAPI
	session   outbound.SessionProvider
	recorder  inbound.AuditRecorder
	logger    logger.Logger
}

func NewOrderUseCase(
	orders outbound.OrderRepository,
	companion outbound.CompanionAPI,
	session outbound.SessionProvider,
	recorder inbound.AuditRecorder,
	log logger.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		orders:    orders,
		companion: companion,
		session:   session,
		recorder:  recorder,
		logger:    log,
	}
}

var _ inbound.OrderUseCase = (*OrderUseCase)(nil)

func (uc *OrderUseCase) List(ctx context.Context, filter entity.OrderFilter) ([]*entity.Order, error) {
	if _, err := authorize(ctx, uc.session, "view orders", func(p entity.Permissions) bool { return p.CanViewOrders }); err != nil {
		return nil, err
	}
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, apperror.NewValidationError("status", fmt.Sprintf("unknown status %q", *filter.Status))
	}
	filter.Limit = clampLimit(filter.Limit)
	return uc.orders.List(ctx, filter)
}

func (uc *OrderUseCase) Get(ctx context.Context, id string) (*entity.Order, error) {
	if _, err := authorize(ctx, uc.session, "view orders", func(p entity.Permissions) bool { return p.CanViewOrders }); err != nil {
		return nil, err
	}
	return uc.orders.FindByID(ctx, id)
}

// UpdateStatus changes the status and, when the order has a shipping email, asks the
// companion API to notify the customer. A failed email never fails the update.
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus) (*inbound.UpdateOrderStatusResponse, error) {
	if _, err := authorize(ctx, uc.session, "edit orders", func(p entity.Permissions) bool { return p.CanEditOrders }); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, apperror.NewValidationError("status", fmt.Sprintf("unknown status %q", status))
	}

	before, err := uc.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if before.Status == status {
		return nil, apperror.NewValidationError("status", "order already has status "+string(status))
	}

	updated, err := uc.orders.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	_ = uc.recorder.OrderStatusUpdated(ctx, id, before.Status, status)

	resp := &inbound.UpdateOrderStatusResponse{Order: updated}
	if updated.ShippingEmail == nil || *updated.ShippingEmail == "" {
		return resp, nil
	}

	if err := uc.companion.SendOrderStatusUpdateEmail(ctx, id, status); err != nil {
		uc.logger.Warn(ctx, "Order status email failed", map[string]interface{}{
			"order_id": id,
			"status":   status,
			"error":    err.Error(),
		})
		resp.EmailError = apperror.PublicMessage(err)
		return resp, nil
	}

	resp.EmailSent = true
	return resp, nil
}
