package handlers

import (
	"io"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sift/internal/models"
	"github.com/ternarybob/sift/internal/services/analysis"
)

// maxUploadBytes caps a multipart analysis upload at 32 MB.
const maxUploadBytes = 32 << 20

// AnalyzeHandler handles artifact upload and analysis HTTP requests
type AnalyzeHandler struct {
	analysisService *analysis.Service
	logger          arbor.ILogger
}

// NewAnalyzeHandler creates a new analyze handler
func NewAnalyzeHandler(analysisService *analysis.Service, logger arbor.ILogger) *AnalyzeHandler {
	return &AnalyzeHandler{
		analysisService: analysisService,
		logger:          logger,
	}
}

// AnalyzeUploadHandler handles POST /api/analyze - runs the pipeline over
// uploaded artifact files. Files are submitted as multipart form parts
// named "files"; extension decides the extractor.
func (h *AnalyzeHandler) AnalyzeUploadHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse multipart upload")
		WriteError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	parts := r.MultipartForm.File["files"]
	if len(parts) == 0 {
		WriteError(w, http.StatusBadRequest, "No files provided")
		return
	}

	files := make([]models.ArtifactFile, 0, len(parts))
	for _, part := range parts {
		f, err := part.Open()
		if err != nil {
			h.logger.Warn().Err(err).Str("file", part.Filename).Msg("Failed to open uploaded file")
			continue
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			h.logger.Warn().Err(err).Str("file", part.Filename).Msg("Failed to read uploaded file")
			continue
		}
		files = append(files, models.ArtifactFile{Name: part.Filename, Content: content})
	}

	result, err := h.analysisService.AnalyzeFiles(r.Context(), files, "upload")
	if err != nil {
		h.logger.Error().Err(err).Msg("Analysis failed")
		WriteError(w, http.StatusInternalServerError, "Analysis failed: "+err.Error())
		return
	}

	h.logger.Info().
		Int("files", len(files)).
		Int("failures", result.Summary.TotalFailures).
		Msg("Upload analysis complete")

	WriteJSON(w, http.StatusOK, result)
}

// AnalyzeScanHandler handles POST /api/analyze/scan - runs the pipeline
// over the configured artifact directories.
func (h *AnalyzeHandler) AnalyzeScanHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	result, err := h.analysisService.AnalyzeDirs(r.Context(), "scan")
	if err != nil {
		h.logger.Error().Err(err).Msg("Directory scan failed")
		WriteError(w, http.StatusInternalServerError, "Scan failed: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, result)
}
