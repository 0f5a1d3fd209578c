package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sift/internal/interfaces"
	"github.com/ternarybob/sift/internal/models"
)

// NotifyHandler handles notification HTTP requests
type NotifyHandler struct {
	notifier interfaces.Notifier
	logger   arbor.ILogger
}

// NewNotifyHandler creates a new notify handler
func NewNotifyHandler(notifier interfaces.Notifier, logger arbor.ILogger) *NotifyHandler {
	return &NotifyHandler{
		notifier: notifier,
		logger:   logger,
	}
}

// NotifyHandler handles POST /api/notify - sends a notification email.
// Delivery failures come back as a structured error result with status
// 200; only malformed requests produce HTTP errors.
func (h *NotifyHandler) NotifyHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req struct {
		Recipient string `json:"recipient"`
		Subject   string `json:"subject"`
		Message   string `json:"message"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Recipient == "" {
		WriteError(w, http.StatusBadRequest, "Recipient is required")
		return
	}

	subject := req.Subject
	if subject == "" {
		subject = "Diagnostic notification"
	}

	result := h.notifier.Notify(r.Context(), req.Recipient, subject, req.Message)
	if result.Status == models.NotificationStatusError {
		h.logger.Warn().Str("to", req.Recipient).Str("error", result.Message).Msg("Notification delivery failed")
	}

	WriteJSON(w, http.StatusOK, result)
}
