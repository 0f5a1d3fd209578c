package interfaces

import (
	"context"

	"github.com/ternarybob/sift/internal/models"
)

// Notifier delivers an operator notification. Transport failures are
// reported in the result, never returned as an error.
type Notifier interface {
	Notify(ctx context.Context, recipient, subject, body string) models.NotificationResult
	IsConfigured() bool
}
