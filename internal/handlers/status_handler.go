package handlers

import (
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sift/internal/common"
	"github.com/ternarybob/sift/internal/services/scheduler"
)

// StatusHandler handles service status HTTP requests
type StatusHandler struct {
	config    *common.Config
	scheduler *scheduler.Service
	startTime time.Time
	logger    arbor.ILogger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(config *common.Config, schedulerService *scheduler.Service, logger arbor.ILogger) *StatusHandler {
	return &StatusHandler{
		config:    config,
		scheduler: schedulerService,
		startTime: time.Now(),
		logger:    logger,
	}
}

// StatusHandler handles GET /api/status - reports version, uptime, and
// collaborator state.
func (h *StatusHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	status := map[string]interface{}{
		"status":      "ok",
		"version":     common.GetVersion(),
		"environment": h.config.Environment,
		"uptime":      time.Since(h.startTime).Round(time.Second).String(),
		"storage": map[string]interface{}{
			"enabled": h.config.Storage.Enabled,
		},
		"scan": map[string]interface{}{
			"enabled":  h.config.Scan.Enabled,
			"schedule": h.config.Scan.Schedule,
		},
	}

	if h.scheduler != nil {
		lastRun, lastError := h.scheduler.LastRun()
		scan := status["scan"].(map[string]interface{})
		scan["running"] = h.scheduler.IsRunning()
		if lastRun != nil {
			scan["last_run"] = lastRun.UTC().Format(time.RFC3339)
		}
		if lastError != "" {
			scan["last_error"] = lastError
		}
	}

	WriteJSON(w, http.StatusOK, status)
}
