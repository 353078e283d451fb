package handler

import (
	"net/http"

	"github.com/storedesk/storedesk/application/port/outbound"
	"github.com/storedesk/storedesk/domain/entity"
	"github.com/storedesk/storedesk/infrastructure/http/response"
)

type PermissionsHandler struct {
	session outbound.SessionProvider
}

func NewPermissionsHandler(session outbound.SessionProvider) *PermissionsHandler {
	return &PermissionsHandler{session: session}
}

type meResponse struct {
	User        *entity.Actor      `json:"user"`
	Permissions entity.Permissions `json:"permissions"`
}

// Me handles GET /api/v1/me/permissions
func (h *PermissionsHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, err := h.session.CurrentActor(r.Context())
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "success", meResponse{
		User:        actor,
		Permissions: entity.PermissionsFor(actor.Role),
	})
}
