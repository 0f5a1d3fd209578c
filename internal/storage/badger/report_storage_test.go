package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/sift/internal/common"
	"github.com/ternarybob/sift/internal/interfaces"
	"github.com/ternarybob/sift/internal/models"
)

func newTestStorage(t *testing.T) interfaces.ReportStorage {
	t.Helper()

	logger := common.GetLogger()
	db, err := NewBadgerDB(logger, &common.BadgerConfig{Path: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewReportStorage(db, logger)
}

func sampleReport(id string, createdAt time.Time) *models.AnalysisReport {
	return &models.AnalysisReport{
		ID:             id,
		CreatedAt:      createdAt,
		Source:         "upload",
		HARRecordCount: 2,
		RunRecordCount: 3,
		Summary: models.Summary{
			TotalFailures: 1,
			PatternDistribution: map[models.PatternCategory]int{
				models.PatternCategoryAuthentication: 1,
				models.PatternCategoryAPI:            0,
				models.PatternCategoryVerification:   0,
			},
		},
	}
}

func TestSaveAndGetReport(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	report := sampleReport("report-1", time.Now().UTC())
	require.NoError(t, storage.SaveReport(ctx, report))

	got, err := storage.GetReport(ctx, "report-1")
	require.NoError(t, err)
	assert.Equal(t, report.ID, got.ID)
	assert.Equal(t, report.Source, got.Source)
	assert.Equal(t, report.HARRecordCount, got.HARRecordCount)
	assert.Equal(t, report.Summary.TotalFailures, got.Summary.TotalFailures)
}

func TestSaveReportRequiresID(t *testing.T) {
	storage := newTestStorage(t)

	err := storage.SaveReport(context.Background(), &models.AnalysisReport{})

	assert.Error(t, err)
}

func TestGetReportNotFound(t *testing.T) {
	storage := newTestStorage(t)

	_, err := storage.GetReport(context.Background(), "missing")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "report not found")
}

func TestListReportsNewestFirst(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	base := time.Now().UTC()
	require.NoError(t, storage.SaveReport(ctx, sampleReport("older", base.Add(-time.Hour))))
	require.NoError(t, storage.SaveReport(ctx, sampleReport("newer", base)))

	reports, err := storage.ListReports(ctx, 0)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "newer", reports[0].ID)
	assert.Equal(t, "older", reports[1].ID)
}

func TestListReportsLimit(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	base := time.Now().UTC()
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, storage.SaveReport(ctx, sampleReport(id, base.Add(time.Duration(i)*time.Minute))))
	}

	reports, err := storage.ListReports(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, reports, 2)
}

func TestDeleteReport(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.SaveReport(ctx, sampleReport("report-1", time.Now().UTC())))
	require.NoError(t, storage.DeleteReport(ctx, "report-1"))

	_, err := storage.GetReport(ctx, "report-1")
	assert.Error(t, err)

	err = storage.DeleteReport(ctx, "report-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "report not found")
}
