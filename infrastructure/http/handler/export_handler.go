package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/storedesk/storedesk/application/port/inbound"
	"github.com/storedesk/storedesk/infrastructure/http/response"
)

type ExportHandler struct {
	export inbound.ExportUseCase
}

func NewExportHandler(export inbound.ExportUseCase) *ExportHandler {
	return &ExportHandler{export: export}
}

// Export handles GET /api/v1/export/{resource}?format=csv|json as a file download
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	result, err := h.export.Export(r.Context(), inbound.ExportRequest{
		Resource: inbound.ExportResource(mux.Vars(r)["resource"]),
		Format:   r.URL.Query().Get("format"),
	})
	if err != nil {
		response.AppError(w, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Body)))
	w.Header().Set("X-Export-Rows", strconv.Itoa(result.Rows))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Body)
}
