package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/storedesk/storedesk/application/port/inbound"
	"github.com/storedesk/storedesk/domain/entity"
	"github.com/storedesk/storedesk/infrastructure/http/response"
	"github.com/storedesk/storedesk/infrastructure/http/validator"
)

type UserHandler struct {
	users inbound.UserUseCase
}

func NewUserHandler(users inbound.UserUseCase) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	q := validator.NewQuery(r.URL.Query())
	filter := entity.UserFilter{
		Search: q.String("search"),
		Limit:  q.Int("limit", 0),
		Offset: q.Int("offset", 0),
	}
	if v := q.OptionalString("role"); v != nil {
		role := entity.Role(*v)
		filter.Role = &role
	}
	if err := q.Err(); err != nil {
		response.AppError(w, err)
		return
	}

	users, err := h.users.List(r.Context(), filter)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "success", users)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "success", user)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req inbound.CreateUserRequest
	if err := validator.DecodeJSON(r, &req); err != nil {
		response.AppError(w, err)
		return
	}

	user, err := h.users.Create(r.Context(), req)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, http.StatusCreated, "User created successfully", user)
}

func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var req inbound.UpdateUserRoleRequest
	if err := validator.DecodeJSON(r, &req); err != nil {
		response.AppError(w, err)
		return
	}

	user, err := h.users.UpdateRole(r.Context(), mux.Vars(r)["id"], req.Role)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "User role updated successfully", user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "User deleted successfully", nil)
}

// Login records the sign-in of the bearer's actor; the hosted provider did the authentication
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := h.users.RecordLogin(r.Context()); err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Login recorded", nil)
}

func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.users.RecordLogout(r.Context()); err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Logout recorded", nil)
}
