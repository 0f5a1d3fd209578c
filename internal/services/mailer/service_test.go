package mailer

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/sift/internal/common"
	"github.com/ternarybob/sift/internal/models"
)

func validConfig() *Config {
	return &Config{
		Server:   "smtp.example.com",
		Port:     587,
		Username: "user",
		Password: "real_password",
		Sender:   "sender@example.com",
	}
}

func TestConfigFromEnvDefaults(t *testing.T) {
	for _, name := range []string{EnvServer, EnvPort, EnvUsername, EnvPassword, EnvSender} {
		// t.Setenv registers the restore; Unsetenv makes the variable absent
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}

	config := ConfigFromEnv()

	assert.Equal(t, DefaultServer, config.Server)
	assert.Equal(t, DefaultPort, config.Port)
	assert.Equal(t, DefaultUsername, config.Username)
	assert.Equal(t, PlaceholderPassword, config.Password)
	assert.Equal(t, DefaultSender, config.Sender)
}

func TestConfigFromEnvOverrides(t *testing.T) {
	t.Setenv(EnvServer, "mail.internal")
	t.Setenv(EnvPort, "2525")
	t.Setenv(EnvUsername, "svc")
	t.Setenv(EnvPassword, "hunter2")
	t.Setenv(EnvSender, "noreply@internal")

	config := ConfigFromEnv()

	assert.Equal(t, "mail.internal", config.Server)
	assert.Equal(t, 2525, config.Port)
	assert.Equal(t, "svc", config.Username)
	assert.Equal(t, "hunter2", config.Password)
	assert.Equal(t, "noreply@internal", config.Sender)
}

func TestConfigFromEnvInvalidPortFallsBack(t *testing.T) {
	t.Setenv(EnvPort, "not-a-number")

	config := ConfigFromEnv()

	assert.Equal(t, DefaultPort, config.Port)
}

func TestMissingNamesPlaceholderPassword(t *testing.T) {
	config := validConfig()
	config.Password = PlaceholderPassword

	assert.Equal(t, []string{EnvPassword}, config.MissingNames())
}

func TestMissingNamesEmptyValues(t *testing.T) {
	config := &Config{}

	missing := config.MissingNames()

	assert.Equal(t, []string{EnvServer, EnvPort, EnvUsername, EnvPassword, EnvSender}, missing)
}

func TestIsConfigured(t *testing.T) {
	service := NewServiceWithConfig(validConfig(), common.GetLogger())
	assert.True(t, service.IsConfigured())

	incomplete := validConfig()
	incomplete.Password = PlaceholderPassword
	service = NewServiceWithConfig(incomplete, common.GetLogger())
	assert.False(t, service.IsConfigured())
}

func TestNotifySuccess(t *testing.T) {
	service := NewServiceWithConfig(validConfig(), common.GetLogger())

	var gotRecipient, gotMessage string
	service.send = func(config *Config, recipient, message string) error {
		gotRecipient = recipient
		gotMessage = message
		return nil
	}

	result := service.Notify(context.Background(), "ops@example.com", "Triage summary", "2 failures detected")

	assert.Equal(t, models.NotificationStatusSuccess, result.Status)
	assert.Equal(t, "Email sent successfully", result.Message)
	assert.Equal(t, "ops@example.com", gotRecipient)
	assert.Contains(t, gotMessage, "From: sender@example.com\r\n")
	assert.Contains(t, gotMessage, "To: ops@example.com\r\n")
	assert.Contains(t, gotMessage, "Subject: Triage summary\r\n")
	assert.Contains(t, gotMessage, "\r\n\r\n2 failures detected")
}

func TestNotifyTransportError(t *testing.T) {
	service := NewServiceWithConfig(validConfig(), common.GetLogger())
	service.send = func(config *Config, recipient, message string) error {
		return errors.New("SMTP authentication failed: 535 bad credentials")
	}

	result := service.Notify(context.Background(), "ops@example.com", "Triage summary", "body")

	assert.Equal(t, models.NotificationStatusError, result.Status)
	assert.Equal(t, "SMTP authentication failed: 535 bad credentials", result.Message)
}

func TestNotifyCancelledContext(t *testing.T) {
	service := NewServiceWithConfig(validConfig(), common.GetLogger())
	service.send = func(config *Config, recipient, message string) error {
		t.Fatal("send must not be called with a cancelled context")
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := service.Notify(ctx, "ops@example.com", "subject", "body")

	assert.Equal(t, models.NotificationStatusError, result.Status)
}
