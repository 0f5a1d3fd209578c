package handlers

import (
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sift/internal/interfaces"
)

// ReportHandler handles persisted report HTTP requests
type ReportHandler struct {
	storage interfaces.ReportStorage
	logger  arbor.ILogger
}

// NewReportHandler creates a new report handler
func NewReportHandler(storage interfaces.ReportStorage, logger arbor.ILogger) *ReportHandler {
	return &ReportHandler{
		storage: storage,
		logger:  logger,
	}
}

// ListReportsHandler handles GET /api/reports - lists saved reports newest
// first. Supports an optional limit query parameter (default 50).
func (h *ReportHandler) ListReportsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	limit := GetLimitParam(r, 50)

	reports, err := h.storage.ListReports(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list reports")
		WriteError(w, http.StatusInternalServerError, "Failed to list reports")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"reports": reports,
		"count":   len(reports),
	})
}

// GetReportHandler handles GET /api/reports/{id} and DELETE /api/reports/{id}.
func (h *ReportHandler) GetReportHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/reports/")
	if id == "" || strings.Contains(id, "/") {
		WriteError(w, http.StatusBadRequest, "Invalid report ID")
		return
	}

	switch r.Method {
	case "GET":
		report, err := h.storage.GetReport(r.Context(), id)
		if err != nil {
			WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, report)
	case "DELETE":
		if err := h.storage.DeleteReport(r.Context(), id); err != nil {
			WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Info().Str("report_id", id).Msg("Report deleted")
		WriteSuccess(w, "Report deleted")
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
