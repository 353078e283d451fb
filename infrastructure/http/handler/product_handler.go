package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/storedesk/storedesk/application/port/inbound"
	"github.com/storedesk/storedesk/domain/entity"
	"github.com/storedesk/storedesk/infrastructure/http/response"
	"github.com/storedesk/storedesk/infrastructure/http/validator"
)

type ProductHandler struct {
	products inbound.ProductUseCase
	bulk     inbound.BulkUseCase
}

func NewProductHandler(products inbound.ProductUseCase, bulk inbound.BulkUseCase) *ProductHandler {
	return &ProductHandler{products: products, bulk: bulk}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := validator.NewQuery(r.URL.Query())
	filter := entity.ProductFilter{
		Search:   q.String("search"),
		Category: q.String("category"),
		Limit:    q.Int("limit", 0),
		Offset:   q.Int("offset", 0),
	}
	if err := q.Err(); err != nil {
		response.AppError(w, err)
		return
	}

	products, err := h.products.List(r.Context(), filter)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "success", products)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "success", product)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req inbound.CreateProductRequest
	if err := validator.DecodeJSON(r, &req); err != nil {
		response.AppError(w, err)
		return
	}

	product, err := h.products.Create(r.Context(), req)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, http.StatusCreated, "Product created successfully", product)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch entity.ProductPatch
	if err := validator.DecodeJSON(r, &patch); err != nil {
		response.AppError(w, err)
		return
	}

	product, err := h.products.Update(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Product updated successfully", product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Product deleted successfully", nil)
}

func (h *ProductHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.Duplicate(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		response.AppError(w, err)
		return
	}
	response.Success(w, http.StatusCreated, "Product duplicated successfully", product)
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

func (h *ProductHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var req bulkDeleteRequest
	if err := validator.DecodeJSON(r, &req); err != nil {
		response.AppError(w, err)
		return
	}
	result, err := h.bulk.BulkDelete(r.Context(), req.IDs)
	writeBulkResult(w, result, err)
}

func (h *ProductHandler) BulkSetDiscount(w http.ResponseWriter, r *http.Request) {
	var req inbound.BulkDiscountRequest
	if err := validator.DecodeJSON(r, &req); err != nil {
		response.AppError(w, err)
		return
	}
	result, err := h.bulk.BulkSetDiscount(r.Context(), req)
	writeBulkResult(w, result, err)
}

func (h *ProductHandler) BulkSetCategory(w http.ResponseWriter, r *http.Request) {
	var req inbound.BulkCategoryRequest
	if err := validator.DecodeJSON(r, &req); err != nil {
		response.AppError(w, err)
		return
	}
	result, err := h.bulk.BulkSetCategory(r.Context(), req)
	writeBulkResult(w, result, err)
}

// writeBulkResult reports a partial failure as 207 with per-item results
func writeBulkResult(w http.ResponseWriter, result *inbound.BulkResult, err error) {
	switch {
	case result == nil:
		response.AppError(w, err)
	case err != nil && result.Succeeded == 0:
		response.WriteJSON(w, http.StatusUnprocessableEntity, false, err.Error(), result)
	case err != nil:
		response.WriteJSON(w, http.StatusMultiStatus, false, err.Error(), result)
	default:
		response.Success(w, http.StatusOK, "Bulk operation completed", result)
	}
}
