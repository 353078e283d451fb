package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/storedesk/storedesk/application/port/inbound"
	"github.com/storedesk/storedesk/application/port/outbound"
	"github.com/storedesk/storedesk/domain/entity"
	"github.com/storedesk/storedesk/infrastructure/http/response"
	"github.com/storedesk/storedesk/infrastructure/http/validator"
)

// CompanionHandler serves the companion API. Errors use the {"error","message"} body.
type CompanionHandler struct {
	companion inbound.CompanionUseCase
}

func NewCompanionHandler(companion inbound.CompanionUseCase) *CompanionHandler {
	return &CompanionHandler{companion: companion}
}

func (h *CompanionHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	actor := outbound.ActorFromContext(r.Context())
	if err := h.companion.DeleteProduct(r.Context(), actor, mux.Vars(r)["id"]); err != nil {
		response.CompanionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CompanionHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req inbound.CreateUserRequest
	if err := validator.DecodeJSON(r, &req); err != nil {
		response.CompanionError(w, err)
		return
	}

	user, err := h.companion.CreateUser(r.Context(), outbound.ActorFromContext(r.Context()), req)
	if err != nil {
		response.CompanionError(w, err)
		return
	}
	response.Raw(w, http.StatusCreated, user)
}

func (h *CompanionHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	var req inbound.UpdateUserRoleRequest
	if err := validator.DecodeJSON(r, &req); err != nil {
		response.CompanionError(w, err)
		return
	}

	user, err := h.companion.UpdateUserRole(r.Context(), outbound.ActorFromContext(r.Context()), mux.Vars(r)["id"], req.Role)
	if err != nil {
		response.CompanionError(w, err)
		return
	}
	response.Raw(w, http.StatusOK, user)
}

func (h *CompanionHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.companion.DeleteUser(r.Context(), outbound.ActorFromContext(r.Context()), mux.Vars(r)["id"]); err != nil {
		response.CompanionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type statusEmailRequest struct {
	Status entity.OrderStatus `json:"status"`
}

func (h *CompanionHandler) SendOrderStatusEmail(w http.ResponseWriter, r *http.Request) {
	var req statusEmailRequest
	if err := validator.DecodeJSON(r, &req); err != nil {
		response.CompanionError(w, err)
		return
	}

	err := h.companion.SendOrderStatusEmail(r.Context(), outbound.ActorFromContext(r.Context()), mux.Vars(r)["id"], req.Status)
	if err != nil {
		response.CompanionError(w, err)
		return
	}
	response.Raw(w, http.StatusAccepted, map[string]bool{"queued": true})
}
