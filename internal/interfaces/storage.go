package interfaces

import (
	"context"

	"github.com/ternarybob/sift/internal/models"
)

// ReportStorage persists analysis reports. The core pipeline never depends
// on persistence; this interface is the boundary to the storage collaborator.
type ReportStorage interface {
	SaveReport(ctx context.Context, report *models.AnalysisReport) error
	GetReport(ctx context.Context, id string) (*models.AnalysisReport, error)
	ListReports(ctx context.Context, limit int) ([]*models.AnalysisReport, error)
	DeleteReport(ctx context.Context, id string) error
}

// StorageManager owns the database connection and hands out typed stores.
type StorageManager interface {
	ReportStorage() ReportStorage
	Close() error
}
