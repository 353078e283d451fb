package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/storedesk/storedesk/application/port/inbound"
	"github.com/storedesk/storedesk/domain/entity"
	"github.com/storedesk/storedesk/infrastructure/http/response"
	"github.com/storedesk/storedesk/infrastructure/http/validator"
)

type OrderHandler struct {
	orders inbound.OrderUseCase
}

func NewOrderHandler(orders inbound.OrderUseCase) *OrderHandler {
	return &OrderHandler{orders: orders}
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	q := validator.NewQuery(r.URL.Query())
	filter := entity.OrderFilter{
		Limit:  q.Int("limit", 0),
		Offset: q.Int("offset", 0),
	}
	if v := q.OptionalString("status"); v != nil {
		status := entity.OrderStatus(*v)
		filter.Status = &status
	}
	if err := q.Err(); err != nil {
		response.AppError(w, err)
		return
	}

	orders, err := h.orders.List(r.Context(), filter)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "success", orders)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "success", order)
}

type updateOrderStatusRequest struct {
	Status entity.OrderStatus `json:"status"`
}

// UpdateStatus succeeds even when the notification email could not be sent
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateOrderStatusRequest
	if err := validator.DecodeJSON(r, &req); err != nil {
		response.AppError(w, err)
		return
	}

	result, err := h.orders.UpdateStatus(r.Context(), mux.Vars(r)["id"], req.Status)
	if err != nil {
		response.AppError(w, err)
		return
	}

	message := "Order status updated successfully"
	if !result.EmailSent && result.EmailError != "" {
		message = "Order status updated, but the notification email could not be sent"
	}
	response.Success(w, http.StatusOK, message, result)
}
