// -----------------------------------------------------------------------
// Mailer Service - SMTP notification delivery for triage summaries
// Configuration is sourced from environment variables at construction
// -----------------------------------------------------------------------

package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"os"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sift/internal/models"
)

// Environment variables read at construction.
const (
	EnvServer   = "SMTP_SERVER"
	EnvPort     = "SMTP_PORT"
	EnvUsername = "SMTP_USERNAME"
	EnvPassword = "SMTP_PASSWORD"
	EnvSender   = "SENDER_EMAIL"
)

// Defaults applied when a variable is unset. The password default is a
// placeholder and counts as missing configuration.
const (
	DefaultServer       = "live.smtp.mailtrap.io"
	DefaultPort         = 587
	DefaultUsername     = "api"
	DefaultSender       = "hello@demomailtrap.co"
	PlaceholderPassword = "your_password_here"
)

// Config holds the SMTP transport settings.
type Config struct {
	Server   string
	Port     int
	Username string
	Password string
	Sender   string
}

// ConfigFromEnv builds the transport config from the environment. An unset
// variable falls back to its default; a variable set to the empty string
// stays empty and is flagged by MissingNames.
func ConfigFromEnv() *Config {
	return &Config{
		Server:   envOrDefault(EnvServer, DefaultServer),
		Port:     envPortOrDefault(EnvPort, DefaultPort),
		Username: envOrDefault(EnvUsername, DefaultUsername),
		Password: envOrDefault(EnvPassword, PlaceholderPassword),
		Sender:   envOrDefault(EnvSender, DefaultSender),
	}
}

func envOrDefault(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func envPortOrDefault(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	port, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return port
}

// MissingNames returns the environment variable names whose values are
// empty or still at the password placeholder.
func (c *Config) MissingNames() []string {
	missing := make([]string, 0)
	if c.Server == "" {
		missing = append(missing, EnvServer)
	}
	if c.Port == 0 {
		missing = append(missing, EnvPort)
	}
	if c.Username == "" {
		missing = append(missing, EnvUsername)
	}
	if c.Password == "" || c.Password == PlaceholderPassword {
		missing = append(missing, EnvPassword)
	}
	if c.Sender == "" {
		missing = append(missing, EnvSender)
	}
	return missing
}

// sendFunc performs the SMTP exchange. Swappable in tests.
type sendFunc func(config *Config, recipient, message string) error

// Service delivers notifications over an authenticated STARTTLS SMTP
// session. Transport failures are reported in the result, never returned
// to the caller.
type Service struct {
	config *Config
	logger arbor.ILogger
	send   sendFunc
}

// NewService creates a mailer from the environment. Incomplete
// configuration produces a single warning rather than a failure; the
// service stays constructible and reports errors per send.
func NewService(logger arbor.ILogger) *Service {
	return NewServiceWithConfig(ConfigFromEnv(), logger)
}

// NewServiceWithConfig creates a mailer with an explicit transport config.
func NewServiceWithConfig(config *Config, logger arbor.ILogger) *Service {
	s := &Service{
		config: config,
		logger: logger,
		send:   sendSTARTTLS,
	}

	if missing := config.MissingNames(); len(missing) > 0 {
		logger.Warn().
			Str("variables", strings.Join(missing, ", ")).
			Msg("Missing required email configuration")
	}

	return s
}

// Config returns the active transport configuration.
func (s *Service) Config() *Config {
	return s.config
}

// IsConfigured reports whether every required setting has a real value.
func (s *Service) IsConfigured() bool {
	return len(s.config.MissingNames()) == 0
}

// Notify sends a plain-text notification and reports the outcome as a
// structured result carrying either a success message or the literal
// transport error.
func (s *Service) Notify(ctx context.Context, recipient, subject, body string) models.NotificationResult {
	if err := ctx.Err(); err != nil {
		return models.NotificationResult{
			Status:  models.NotificationStatusError,
			Message: err.Error(),
		}
	}

	message := buildMessage(s.config.Sender, recipient, subject, body)

	if err := s.send(s.config, recipient, message); err != nil {
		s.logger.Error().Err(err).Str("to", recipient).Msg("Failed to send notification email")
		return models.NotificationResult{
			Status:  models.NotificationStatusError,
			Message: err.Error(),
		}
	}

	s.logger.Info().Str("to", recipient).Str("subject", subject).Msg("Notification email sent")
	return models.NotificationResult{
		Status:  models.NotificationStatusSuccess,
		Message: "Email sent successfully",
	}
}

// buildMessage assembles an RFC 5322 plain-text message.
func buildMessage(sender, recipient, subject, body string) string {
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", sender))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", recipient))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)
	return msg.String()
}

// sendSTARTTLS opens the SMTP session, upgrades to TLS, authenticates, and
// submits the message.
func sendSTARTTLS(config *Config, recipient, message string) error {
	addr := fmt.Sprintf("%s:%d", config.Server, config.Port)

	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	tlsConfig := &tls.Config{
		ServerName: config.Server,
	}
	if err := client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	auth := smtp.PlainAuth("", config.Username, config.Password, config.Server)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}

	if err := client.Mail(config.Sender); err != nil {
		return fmt.Errorf("failed to set mail sender: %w", err)
	}

	if err := client.Rcpt(recipient); err != nil {
		return fmt.Errorf("failed to set mail recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open message body: %w", err)
	}

	if _, err := w.Write([]byte(message)); err != nil {
		return fmt.Errorf("failed to write message body: %w", err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize message body: %w", err)
	}

	return client.Quit()
}
