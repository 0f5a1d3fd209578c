// -----------------------------------------------------------------------
// Scheduler Service - periodic directory scans on a cron schedule with
// notification delivery when failures are found
// -----------------------------------------------------------------------

package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sift/internal/common"
	"github.com/ternarybob/sift/internal/interfaces"
	"github.com/ternarybob/sift/internal/models"
	"github.com/ternarybob/sift/internal/services/analysis"
)

// Service runs the analysis pipeline over the artifact directories on a
// cron schedule. Scans are single-flight: a tick that arrives while a scan
// is in progress is skipped.
type Service struct {
	analysis *analysis.Service
	notifier interfaces.Notifier
	config   *common.ScanConfig
	cron     *cron.Cron
	logger   arbor.ILogger

	mu        sync.Mutex
	scanning  bool
	running   bool
	lastRun   *time.Time
	lastError string
}

// NewService creates a new scan scheduler
func NewService(analysisService *analysis.Service, notifier interfaces.Notifier, config *common.ScanConfig, logger arbor.ILogger) *Service {
	return &Service{
		analysis: analysisService,
		notifier: notifier,
		config:   config,
		cron:     cron.New(),
		logger:   logger,
	}
}

// Start registers the scan on the configured schedule and begins ticking.
func (s *Service) Start() error {
	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	schedule := s.config.Schedule
	if schedule == "" {
		schedule = "*/15 * * * *"
	}

	if _, err := s.cron.AddFunc(schedule, s.runScan); err != nil {
		return fmt.Errorf("failed to register scan schedule: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info().Str("schedule", schedule).Msg("Scan scheduler started")
	return nil
}

// Stop halts the scheduler, waiting for an in-flight scan to finish.
func (s *Service) Stop() error {
	if !s.running {
		return nil
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.running = false

	s.logger.Info().Msg("Scan scheduler stopped")
	return nil
}

// IsRunning reports whether the scheduler is ticking.
func (s *Service) IsRunning() bool {
	return s.running
}

// LastRun returns the time and error of the most recent scan, if any.
func (s *Service) LastRun() (*time.Time, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun, s.lastError
}

// runScan is the cron entrypoint. Overlapping ticks are dropped.
func (s *Service) runScan() {
	s.mu.Lock()
	if s.scanning {
		s.mu.Unlock()
		s.logger.Warn().Msg("Previous scan still in progress, skipping tick")
		return
	}
	s.scanning = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.scanning = false
		s.mu.Unlock()
	}()

	now := time.Now()
	result, err := s.analysis.AnalyzeDirs(context.Background(), "scan")

	s.mu.Lock()
	s.lastRun = &now
	if err != nil {
		s.lastError = err.Error()
	} else {
		s.lastError = ""
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error().Err(err).Msg("Scheduled scan failed")
		return
	}

	if result.Summary.TotalFailures > 0 {
		s.notifyFailures(result)
	}
}

// notifyFailures mails the scan summary to the configured recipient.
func (s *Service) notifyFailures(result *analysis.Result) {
	if s.notifier == nil || s.config.Recipient == "" {
		s.logger.Debug().Int("failures", result.Summary.TotalFailures).Msg("Failures found but no notification recipient configured")
		return
	}

	subject := fmt.Sprintf("Scan found %d failed payment run(s)", result.Summary.TotalFailures)
	body := formatSummary(result.Summary)

	notification := s.notifier.Notify(context.Background(), s.config.Recipient, subject, body)
	if notification.Status == models.NotificationStatusError {
		s.logger.Error().Str("error", notification.Message).Msg("Failed to deliver scan notification")
	}
}

// formatSummary renders the failure summary as a plain-text report body.
func formatSummary(summary models.Summary) string {
	body := fmt.Sprintf("Total failed runs: %d\n\n", summary.TotalFailures)
	for _, category := range models.Categories {
		body += fmt.Sprintf("%s: %d\n", category, summary.PatternDistribution[category])
		for _, pattern := range summary.Patterns[category] {
			body += fmt.Sprintf("  - %s (x%d)\n", pattern.Type, pattern.Frequency)
			for _, message := range pattern.ErrorMessages {
				body += fmt.Sprintf("      %s\n", message)
			}
		}
	}
	return body
}
