package models

// Notification result statuses.
const (
	NotificationStatusSuccess = "success"
	NotificationStatusError   = "error"
)

// NotificationResult is the structured outcome of a notification attempt.
// Transport failures are reported here with the error's literal message,
// never propagated to the caller.
type NotificationResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
