// -----------------------------------------------------------------------
// Analysis Service - orchestrates the extractors and the pattern detector
// over one artifact batch and persists the resulting report
// -----------------------------------------------------------------------

package analysis

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sift/internal/interfaces"
	"github.com/ternarybob/sift/internal/models"
	"github.com/ternarybob/sift/internal/services/har"
	"github.com/ternarybob/sift/internal/services/patterns"
	"github.com/ternarybob/sift/internal/services/runlog"
)

// Result is the outcome of one analysis pass: everything extracted plus
// the aggregated failure summary. ReportID is set only when the report was
// persisted.
type Result struct {
	HARRecords []models.HARRecord `json:"har_records"`
	RunRecords []models.RunRecord `json:"run_records"`
	Summary    models.Summary     `json:"summary"`
	ReportID   string             `json:"report_id,omitempty"`
}

// Service wires the HAR extractor, the log extractor, and the pattern
// detector into a single batch operation. Storage is optional; without it
// results are returned but not persisted.
type Service struct {
	har     *har.Service
	runlog  *runlog.Service
	vocab   patterns.Vocabulary
	storage interfaces.ReportStorage
	harDir  string
	logDir  string
	logger  arbor.ILogger
}

// NewService creates the orchestrator. harDir and logDir drive directory
// mode; storage may be nil.
func NewService(harService *har.Service, runlogService *runlog.Service, vocab patterns.Vocabulary, storage interfaces.ReportStorage, harDir, logDir string, logger arbor.ILogger) *Service {
	return &Service{
		har:     harService,
		runlog:  runlogService,
		vocab:   vocab,
		storage: storage,
		harDir:  harDir,
		logDir:  logDir,
		logger:  logger,
	}
}

// AnalyzeFiles runs the full pipeline over named artifact blobs. Files are
// routed to extractors by extension; anything else is skipped with a
// warning. source labels the persisted report's origin ("upload", "scan").
func (s *Service) AnalyzeFiles(ctx context.Context, files []models.ArtifactFile, source string) (*Result, error) {
	harFiles := make([]models.ArtifactFile, 0)
	logFiles := make([]models.ArtifactFile, 0)

	for _, file := range files {
		switch strings.ToLower(filepath.Ext(file.Name)) {
		case har.Extension:
			harFiles = append(harFiles, file)
		case runlog.Extension:
			logFiles = append(logFiles, file)
		default:
			s.logger.Warn().Str("file", file.Name).Msg("Skipping artifact with unrecognized extension")
		}
	}

	harRecords := s.har.ParseFiles(harFiles)
	runRecords := s.runlog.ParseFiles(logFiles)

	return s.finish(ctx, harRecords, runRecords, source)
}

// AnalyzeDirs runs the full pipeline over the configured artifact
// directories. A missing directory aborts the pass.
func (s *Service) AnalyzeDirs(ctx context.Context, source string) (*Result, error) {
	harRecords, err := s.har.ParseDir(s.harDir)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze HAR directory: %w", err)
	}

	runRecords, err := s.runlog.ParseDir(s.logDir)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze log directory: %w", err)
	}

	return s.finish(ctx, harRecords, runRecords, source)
}

// finish runs detection over the extracted batch and persists the report
// when storage is configured.
func (s *Service) finish(ctx context.Context, harRecords []models.HARRecord, runRecords []models.RunRecord, source string) (*Result, error) {
	detector := patterns.NewDetector(harRecords, runRecords, s.vocab, s.logger)

	result := &Result{
		HARRecords: harRecords,
		RunRecords: runRecords,
		Summary:    detector.GenerateSummary(),
	}

	s.logger.Info().
		Str("source", source).
		Int("har_records", len(harRecords)).
		Int("run_records", len(runRecords)).
		Int("failures", result.Summary.TotalFailures).
		Msg("Analysis complete")

	if s.storage != nil {
		report := &models.AnalysisReport{
			ID:             uuid.New().String(),
			CreatedAt:      time.Now().UTC(),
			Source:         source,
			HARRecordCount: len(harRecords),
			RunRecordCount: len(runRecords),
			Summary:        result.Summary,
		}
		if err := s.storage.SaveReport(ctx, report); err != nil {
			return nil, fmt.Errorf("failed to save analysis report: %w", err)
		}
		result.ReportID = report.ID
	}

	return result, nil
}
