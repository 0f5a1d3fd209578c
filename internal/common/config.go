package common

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Logging     LoggingConfig   `toml:"logging"`
	Artifacts   ArtifactsConfig `toml:"artifacts"`
	Detector    DetectorConfig  `toml:"detector"`
	Storage     StorageConfig   `toml:"storage"`
	Scan        ScanConfig      `toml:"scan"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"min=0,max=65535"`
	Host string `toml:"host"`
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"omitempty,oneof=debug info warn error"`
	Output []string `toml:"output"` // "stdout", "file"
}

// ArtifactsConfig locates the diagnostic artifacts scanned in directory
// mode. Uploads bypass these and supply named byte blobs directly.
type ArtifactsConfig struct {
	HARDir string `toml:"har_dir"` // Directory scanned for *.har captures
	LogDir string `toml:"log_dir"` // Directory scanned for *.log transcripts
}

// DetectorConfig carries the keyword vocabularies driving the rule
// families, plus additions to the sanitization sets. The defaults cover the
// known failure signatures; adding a signature is a config change, not code.
type DetectorConfig struct {
	AuthKeywords         []string `toml:"auth_keywords"`         // Authentication family vocabulary
	VerificationKeywords []string `toml:"verification_keywords"` // Verification family vocabulary
	SensitiveHeaders     []string `toml:"sensitive_headers"`     // Extra headers to redact
	SensitiveParams      []string `toml:"sensitive_params"`      // Extra query param fragments to redact
}

type StorageConfig struct {
	Enabled bool         `toml:"enabled"` // Persist analysis reports
	Badger  BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

// ScanConfig controls the scheduled directory scan in serve mode.
type ScanConfig struct {
	Enabled   bool   `toml:"enabled"`
	Schedule  string `toml:"schedule"`  // Cron schedule format
	Recipient string `toml:"recipient"` // Notification recipient when failures are found (empty = no mail)
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8085,
			Host: "localhost",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout", "file"},
		},
		Artifacts: ArtifactsConfig{
			HARDir: "./artifacts/har",
			LogDir: "./artifacts/logs",
		},
		Detector: DetectorConfig{
			// Vocabulary defaults match the failure signatures observed in
			// production payment runs. Matching is case-insensitive substring
			// over a run's steps and error message.
			AuthKeywords:         []string{"cookie", "session", "auth"},
			VerificationKeywords: []string{"card", "verification"},
		},
		Storage: StorageConfig{
			Enabled: true,
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Scan: ScanConfig{
			Enabled:  false, // Disabled by default - user must explicitly opt-in
			Schedule: "*/15 * * * *",
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env -> CLI
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// default -> file1 -> file2 -> ... -> env -> CLI. Later files override
// earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("SIFT_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if port := os.Getenv("SIFT_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if host := os.Getenv("SIFT_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	if level := os.Getenv("SIFT_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if dir := os.Getenv("SIFT_HAR_DIR"); dir != "" {
		config.Artifacts.HARDir = dir
	}

	if dir := os.Getenv("SIFT_LOG_DIR"); dir != "" {
		config.Artifacts.LogDir = dir
	}

	if path := os.Getenv("SIFT_STORAGE_PATH"); path != "" {
		config.Storage.Badger.Path = path
	}

	if schedule := os.Getenv("SIFT_SCAN_SCHEDULE"); schedule != "" {
		config.Scan.Schedule = schedule
	}

	if recipient := os.Getenv("SIFT_SCAN_RECIPIENT"); recipient != "" {
		config.Scan.Recipient = recipient
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host, harDir, logDir string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
	if harDir != "" {
		config.Artifacts.HARDir = harDir
	}
	if logDir != "" {
		config.Artifacts.LogDir = logDir
	}
}
