package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/storedesk/storedesk/application/port/inbound"
	"github.com/storedesk/storedesk/domain/entity"
	apperror "github.com/storedesk/storedesk/domain/error"
	"github.com/storedesk/storedesk/infrastructure/http/response"
	"github.com/storedesk/storedesk/infrastructure/http/validator"
)

type AuditHandler struct {
	query      inbound.AuditQueryUseCase
	revert     inbound.RevertUseCase
	softDelete inbound.SoftDeleteUseCase
}

func NewAuditHandler(query inbound.AuditQueryUseCase, revert inbound.RevertUseCase, softDelete inbound.SoftDeleteUseCase) *AuditHandler {
	return &AuditHandler{
		query:      query,
		revert:     revert,
		softDelete: softDelete,
	}
}

// auditLogView adds the computed revertibility the dashboard uses to show the revert button
type auditLogView struct {
	*entity.AuditLog
	CanRevert bool `json:"can_revert"`
}

func (h *AuditHandler) view(log *entity.AuditLog) auditLogView {
	return auditLogView{AuditLog: log, CanRevert: h.revert.CanRevert(log)}
}

// ListLogs handles GET /api/v1/audit-logs
func (h *AuditHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	req, err := parseAuditListRequest(validator.NewQuery(r.URL.Query()))
	if err != nil {
		response.AppError(w, err)
		return
	}

	logs, err := h.query.ListLogs(r.Context(), req)
	if err != nil {
		response.AppError(w, err)
		return
	}

	views := make([]auditLogView, 0, len(logs))
	for _, l := range logs {
		views = append(views, h.view(l))
	}
	response.Success(w, http.StatusOK, "success", views)
}

// GetLog handles GET /api/v1/audit-logs/{id}
func (h *AuditHandler) GetLog(w http.ResponseWriter, r *http.Request) {
	log, err := h.query.GetLog(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "success", h.view(log))
}

// RevertLog handles POST /api/v1/audit-logs/{id}/revert
func (h *AuditHandler) RevertLog(w http.ResponseWriter, r *http.Request) {
	log, err := h.revert.Revert(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Change reverted successfully", h.view(log))
}

// DeleteLog handles DELETE /api/v1/audit-logs/{id}. The row is only hidden.
func (h *AuditHandler) DeleteLog(w http.ResponseWriter, r *http.Request) {
	log, err := h.softDelete.DeleteLog(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Audit log deleted successfully", h.view(log))
}

func parseAuditListRequest(q *validator.Query) (inbound.ListAuditLogsRequest, error) {
	var filter entity.AuditLogFilter

	// Status presets of the dashboard selector, explicit flags below override them
	switch q.String("status") {
	case "", "all":
	case "active":
		filter.Reverted = boolPtr(false)
		filter.Deleted = boolPtr(false)
	case "reverted":
		filter.Reverted = boolPtr(true)
	case "deleted":
		filter.Deleted = boolPtr(true)
		filter.IncludeDeleted = true
	default:
		return inbound.ListAuditLogsRequest{}, apperror.NewValidationError("status", "status must be one of active, reverted, deleted")
	}

	if v := q.OptionalString("action"); v != nil {
		action := entity.AuditAction(*v)
		filter.Action = &action
	}
	if v := q.OptionalString("entity_type"); v != nil {
		entityType := entity.EntityType(*v)
		filter.EntityType = &entityType
	}
	filter.UserID = q.OptionalString("user_id")
	filter.StartDate = q.OptionalTime("start_date", false)
	filter.EndDate = q.OptionalTime("end_date", true)
	if v := q.OptionalBool("reverted"); v != nil {
		filter.Reverted = v
	}
	if v := q.OptionalBool("deleted"); v != nil {
		filter.Deleted = v
	}
	if v := q.OptionalBool("include_deleted"); v != nil {
		filter.IncludeDeleted = *v
	}
	filter.Limit = q.Int("limit", 0)
	filter.Offset = q.Int("offset", 0)

	if err := q.Err(); err != nil {
		return inbound.ListAuditLogsRequest{}, err
	}
	return inbound.ListAuditLogsRequest{Filter: filter, Search: q.String("search")}, nil
}

func boolPtr(b bool) *bool {
	return &b
}
