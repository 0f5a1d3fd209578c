package app

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sift/internal/common"
	"github.com/ternarybob/sift/internal/handlers"
	"github.com/ternarybob/sift/internal/interfaces"
	"github.com/ternarybob/sift/internal/sanitize"
	"github.com/ternarybob/sift/internal/services/analysis"
	"github.com/ternarybob/sift/internal/services/har"
	"github.com/ternarybob/sift/internal/services/mailer"
	"github.com/ternarybob/sift/internal/services/patterns"
	"github.com/ternarybob/sift/internal/services/runlog"
	"github.com/ternarybob/sift/internal/services/scheduler"
	"github.com/ternarybob/sift/internal/storage"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// Extraction and detection services
	Sanitizer       *sanitize.Sanitizer
	HARService      *har.Service
	RunlogService   *runlog.Service
	AnalysisService *analysis.Service

	// Collaborators
	MailerService    *mailer.Service
	SchedulerService *scheduler.Service

	// HTTP handlers
	AnalyzeHandler *handlers.AnalyzeHandler
	ReportHandler  *handlers.ReportHandler
	NotifyHandler  *handlers.NotifyHandler
	StatusHandler  *handlers.StatusHandler
}

// New wires the application from configuration: sanitizer, extractors,
// storage (when enabled), mailer, analysis pipeline, scheduler, and the
// HTTP handlers.
func New(config *common.Config, logger arbor.ILogger) (*App, error) {
	a := &App{
		Config: config,
		Logger: logger,
	}

	a.Sanitizer = sanitize.New(config.Detector.SensitiveHeaders, config.Detector.SensitiveParams)
	a.HARService = har.NewService(a.Sanitizer, logger)
	a.RunlogService = runlog.NewService(logger)

	var reportStorage interfaces.ReportStorage
	if config.Storage.Enabled {
		manager, err := storage.NewStorageManager(logger, config)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		a.StorageManager = manager
		reportStorage = manager.ReportStorage()
	} else {
		logger.Info().Msg("Report storage disabled, analysis results will not be persisted")
	}

	vocab := patterns.Vocabulary{
		Authentication: config.Detector.AuthKeywords,
		Verification:   config.Detector.VerificationKeywords,
	}

	a.AnalysisService = analysis.NewService(
		a.HARService,
		a.RunlogService,
		vocab,
		reportStorage,
		config.Artifacts.HARDir,
		config.Artifacts.LogDir,
		logger,
	)

	a.MailerService = mailer.NewService(logger)
	a.SchedulerService = scheduler.NewService(a.AnalysisService, a.MailerService, &config.Scan, logger)

	a.AnalyzeHandler = handlers.NewAnalyzeHandler(a.AnalysisService, logger)
	if reportStorage != nil {
		a.ReportHandler = handlers.NewReportHandler(reportStorage, logger)
	}
	a.NotifyHandler = handlers.NewNotifyHandler(a.MailerService, logger)
	a.StatusHandler = handlers.NewStatusHandler(config, a.SchedulerService, logger)

	return a, nil
}

// StartScheduler begins the periodic scan when enabled in configuration.
func (a *App) StartScheduler() error {
	if !a.Config.Scan.Enabled {
		a.Logger.Debug().Msg("Scheduled scan disabled")
		return nil
	}
	return a.SchedulerService.Start()
}

// Close releases application resources in reverse dependency order.
func (a *App) Close() error {
	if a.SchedulerService != nil && a.SchedulerService.IsRunning() {
		if err := a.SchedulerService.Stop(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to stop scheduler")
		}
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
	}

	return nil
}
