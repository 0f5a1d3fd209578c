package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sift/internal/app"
	"github.com/ternarybob/sift/internal/common"
	"github.com/ternarybob/sift/internal/server"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	// Command-line flags
	configFiles  configPaths // Multiple -config flags supported
	serverPort   = flag.Int("port", 0, "Server port (overrides config)")
	serverPortP  = flag.Int("p", 0, "Server port (shorthand, overrides config)")
	serverHost   = flag.String("host", "", "Server host (overrides config)")
	harDir       = flag.String("har-dir", "", "HAR artifact directory (overrides config)")
	logDir       = flag.String("log-dir", "", "Log artifact directory (overrides config)")
	serveMode    = flag.Bool("serve", false, "Run the HTTP server instead of a one-shot scan")
	notifyTo     = flag.String("notify", "", "Email recipient for the one-shot scan summary")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")

	// Global state
	config *common.Config
	logger arbor.ILogger
)

func init() {
	// Register custom flag for multiple config files
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	// Parse command-line flags
	flag.Parse()

	// Handle version flag
	if *showVersion || *showVersionV {
		fmt.Printf("Sift version %s\n", common.GetVersion())
		os.Exit(0)
	}

	// Merge port flags (shorthand takes precedence)
	finalPort := *serverPort
	if *serverPortP != 0 {
		finalPort = *serverPortP
	}

	// Startup sequence (REQUIRED ORDER):
	// 1. Load config (defaults -> file1 -> file2 -> ... -> env)
	// 2. Apply CLI overrides (highest priority)
	// 3. Initialize logger
	// 4. Print banner
	var err error

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("sift.toml"); err == nil {
			configFiles = append(configFiles, "sift.toml")
		} else if _, err := os.Stat("deployments/local/sift.toml"); err == nil {
			// Fallback for users running from the project root
			configFiles = append(configFiles, "deployments/local/sift.toml")
		}
	}

	// 1. Load configuration (default -> file1 -> file2 -> ... -> env)
	config, err = common.LoadFromFiles(configFiles...)
	if err != nil {
		// Use temporary logger for startup errors
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	// 2. Apply command-line flag overrides (highest priority)
	common.ApplyFlagOverrides(config, finalPort, *serverHost, *harDir, *logDir)

	// 3. Initialize logger with final configuration
	logger = common.InitLogger(config)

	// 4. Print banner
	common.PrintBanner(common.GetVersion())

	logger.Info().
		Strs("config_files", configFiles).
		Str("har_dir", config.Artifacts.HARDir).
		Str("log_dir", config.Artifacts.LogDir).
		Msg("Application configuration loaded")

	// Initialize application
	application, err := app.New(config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize application")
		os.Exit(1)
	}
	defer application.Close()

	if *serveMode {
		runServer(application)
		return
	}

	runScan(application, *notifyTo)
}

// runScan performs a one-shot analysis of the configured artifact
// directories and prints the summary to stdout.
func runScan(application *app.App, recipient string) {
	result, err := application.AnalysisService.AnalyzeDirs(context.Background(), "cli")
	if err != nil {
		logger.Fatal().Err(err).Msg("Analysis failed")
		os.Exit(1)
	}

	output, err := json.MarshalIndent(map[string]interface{}{
		"har_records": len(result.HARRecords),
		"run_records": len(result.RunRecords),
		"report_id":   result.ReportID,
		"summary":     result.Summary,
	}, "", "  ")
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to render summary")
		os.Exit(1)
	}
	fmt.Println(string(output))

	if recipient != "" && result.Summary.TotalFailures > 0 {
		subject := fmt.Sprintf("Scan found %d failed payment run(s)", result.Summary.TotalFailures)
		notification := application.MailerService.Notify(context.Background(), recipient, subject, string(output))
		logger.Info().
			Str("to", recipient).
			Str("status", notification.Status).
			Str("message", notification.Message).
			Msg("Notification result")
	}
}

// runServer starts the HTTP server and the scheduled scan, then blocks
// until an interrupt arrives.
func runServer(application *app.App) {
	if err := application.StartScheduler(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start scan scheduler")
		os.Exit(1)
	}

	srv := server.New(application)

	// Start server in goroutine
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Fatal().Str("panic", fmt.Sprintf("%v", r)).Msg("Server goroutine panicked")
			}
		}()

		if err := srv.Start(); err != nil {
			logger.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Give goroutine a moment to start
	time.Sleep(100 * time.Millisecond)

	logger.Info().
		Str("url", fmt.Sprintf("http://%s:%d", config.Server.Host, config.Server.Port)).
		Msg("Server ready - Press Ctrl+C to stop")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	logger.Info().Msg("Interrupt signal received")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown failed")
	}

	logger.Info().Msg("Server stopped")
}
