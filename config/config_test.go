package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Port:               "8080",
		ShutdownTimeout:    10 * time.Second,
		DBDriver:           "sqlite3",
		DatabaseURL:        "./data/finance.db",
		LogLevel:           "info",
		LogFormat:          "json",
		AccrualSchedule:    "0 2 * * *",
		ReminderSchedule:   "0 8 * * *",
		ReminderWithinDays: 21,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		errString string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "memory needs no url", mutate: func(c *Config) { c.DBDriver = "memory"; c.DatabaseURL = "" }},
		{name: "reminders disabled", mutate: func(c *Config) { c.ReminderSchedule = "" }},
		{
			name:      "non-numeric port",
			mutate:    func(c *Config) { c.Port = "abc" },
			errString: "invalid port 'abc': must be a number",
		},
		{
			name:      "port out of range",
			mutate:    func(c *Config) { c.Port = "70000" },
			errString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:      "unknown driver",
			mutate:    func(c *Config) { c.DBDriver = "mysql" },
			errString: "invalid database driver 'mysql'",
		},
		{
			name:      "postgres without url",
			mutate:    func(c *Config) { c.DBDriver = "postgres"; c.DatabaseURL = "" },
			errString: "DATABASE_URL cannot be empty when using postgres",
		},
		{
			name:      "bad cron",
			mutate:    func(c *Config) { c.AccrualSchedule = "every night" },
			errString: "invalid accrual schedule 'every night'",
		},
		{
			name:      "bad log level",
			mutate:    func(c *Config) { c.LogLevel = "loud" },
			errString: "invalid log level 'loud'",
		},
		{
			name:      "amqp scheme",
			mutate:    func(c *Config) { c.AMQPURL = "http://localhost:5672/"; c.AMQPExchange = "x" },
			errString: "invalid AMQP URL scheme 'http'",
		},
		{
			name:      "smtp without recipients",
			mutate:    func(c *Config) { c.SMTPHost = "smtp.example.com"; c.NotifyFrom = "a@example.com" },
			errString: "NOTIFY_TO is required when SMTP_HOST is set",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errString == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errString)
		})
	}
}

func TestConfig_ValidateReportsEveryProblem(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "0"
	cfg.LogFormat = "xml"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port 0")
	assert.Contains(t, err.Error(), "invalid log format 'xml'")
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "DATABASE_URL", "REMINDER_WITHIN_DAYS", "ACCRUAL_SCHEDULE", "NOTIFY_TO", "LOG_LEVEL", "LOG_FORMAT", "AMQP_URL", "SMTP_HOST", "SHUTDOWN_TIMEOUT"} {
		t.Setenv(key, "")
	}
	t.Setenv("REMINDER_SCHEDULE", "")
	os.Unsetenv("REMINDER_SCHEDULE")

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite3", cfg.DBDriver)
	assert.Equal(t, "0 2 * * *", cfg.AccrualSchedule)
	assert.Equal(t, "0 8 * * *", cfg.ReminderSchedule)
	assert.Equal(t, 21, cfg.ReminderWithinDays)
	assert.Nil(t, cfg.NotifyTo)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FromEnvAndDotenv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("SMTP_HOST=smtp.example.com\nNOTIFY_FROM=bills@example.com\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("SMTP_HOST")
		os.Unsetenv("NOTIFY_FROM")
	})

	t.Setenv("PORT", "9090")
	t.Setenv("REMINDER_WITHIN_DAYS", "7")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("NOTIFY_TO", "me@example.com, you@example.com")

	cfg := Load(envFile)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 7, cfg.ReminderWithinDays)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"me@example.com", "you@example.com"}, cfg.NotifyTo)
	assert.Equal(t, "smtp.example.com", cfg.SMTPHost)
	assert.Equal(t, "bills@example.com", cfg.NotifyFrom)
}

func TestConfig_Logger(t *testing.T) {
	cfg := validConfig()
	cfg.LogLevel = "debug"
	cfg.LogFormat = "text"
	log := cfg.Logger()
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)
}
