package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Analysis
	mux.HandleFunc("/api/analyze", s.app.AnalyzeHandler.AnalyzeUploadHandler)    // POST - analyze uploaded artifacts
	mux.HandleFunc("/api/analyze/scan", s.app.AnalyzeHandler.AnalyzeScanHandler) // POST - analyze configured directories

	// API routes - Reports (only when storage is enabled)
	if s.app.ReportHandler != nil {
		mux.HandleFunc("/api/reports", s.app.ReportHandler.ListReportsHandler) // GET - list saved reports
		mux.HandleFunc("/api/reports/", s.app.ReportHandler.GetReportHandler)  // GET/DELETE /{id}
	}

	// API routes - Notifications
	mux.HandleFunc("/api/notify", s.app.NotifyHandler.NotifyHandler) // POST - send a notification email

	// API routes - System
	mux.HandleFunc("/api/status", s.app.StatusHandler.StatusHandler) // GET - service status

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.notFoundHandler)

	return mux
}

// notFoundHandler answers unmatched API paths with a JSON error.
func (s *Server) notFoundHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte(`{"status":"error","error":"Not found"}`))
}
