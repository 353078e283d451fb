package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/storedesk/storedesk/application/port/inbound"
	"github.com/storedesk/storedesk/domain/entity"
	"github.com/storedesk/storedesk/infrastructure/http/response"
	"github.com/storedesk/storedesk/infrastructure/http/validator"
)

type EventHandler struct {
	events inbound.EventUseCase
}

func NewEventHandler(events inbound.EventUseCase) *EventHandler {
	return &EventHandler{events: events}
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	q := validator.NewQuery(r.URL.Query())
	filter := entity.EventFilter{
		From:     q.OptionalTime("from", false),
		To:       q.OptionalTime("to", true),
		IsActive: q.OptionalBool("is_active"),
	}
	if err := q.Err(); err != nil {
		response.AppError(w, err)
		return
	}

	events, err := h.events.List(r.Context(), filter)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "success", events)
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	event, err := h.events.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "success", event)
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req inbound.CreateEventRequest
	if err := validator.DecodeJSON(r, &req); err != nil {
		response.AppError(w, err)
		return
	}

	event, err := h.events.Create(r.Context(), req)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, http.StatusCreated, "Event created successfully", event)
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch entity.EventPatch
	if err := validator.DecodeJSON(r, &patch); err != nil {
		response.AppError(w, err)
		return
	}

	event, err := h.events.Update(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Event updated successfully", event)
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.events.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Event deleted successfully", nil)
}

func (h *EventHandler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	event, err := h.events.ToggleActive(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Event updated successfully", event)
}

func (h *EventHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	event, err := h.events.Duplicate(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, http.StatusCreated, "Event duplicated successfully", event)
}
