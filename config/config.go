/*
config.go - Server configuration from the environment

PURPOSE:
  Reads every setting from environment variables, optionally seeded from a
  .env file, and validates them in one pass so a misconfigured deployment
  reports all of its problems at once.

KEYS:
  PORT                   HTTP port (8080)
  DB_DRIVER              sqlite3 | postgres | memory (sqlite3)
  DATABASE_URL           File path or postgres DSN (./data/finance.db)
  LOG_LEVEL, LOG_FORMAT  logrus level; json | text
  ACCRUAL_SCHEDULE       Cron spec for batch accrual ("0 2 * * *")
  REMINDER_SCHEDULE      Cron spec for due reminders ("0 8 * * *"), "" disables
  REMINDER_WITHIN_DAYS   Reminder horizon in days (21)
  CORS_ALLOWED_ORIGINS   Comma separated
  AMQP_URL, AMQP_EXCHANGE  Event publishing; empty URL logs events instead
  SMTP_*, NOTIFY_FROM, NOTIFY_TO  Email reminders; empty host logs instead
  SHUTDOWN_TIMEOUT       Graceful shutdown budget (10s)
*/
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

type Config struct {
	// HTTP Server
	Port               string
	CORSAllowedOrigins []string
	ShutdownTimeout    time.Duration

	// Database
	DBDriver    string
	DatabaseURL string

	// Logging
	LogLevel  string
	LogFormat string

	// Scheduler
	AccrualSchedule    string
	ReminderSchedule   string
	ReminderWithinDays int

	// AMQP
	AMQPURL      string
	AMQPExchange string

	// SMTP
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	NotifyFrom   string
	NotifyTo     []string
}

// Load reads the configuration. Files are loaded with godotenv first;
// missing files are ignored and real environment variables win.
func Load(files ...string) *Config {
	_ = godotenv.Load(files...)

	return &Config{
		Port:               getEnv("PORT", "8080"),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		ShutdownTimeout:    getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		DBDriver:    getEnv("DB_DRIVER", "sqlite3"),
		DatabaseURL: getEnv("DATABASE_URL", "./data/finance.db"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		AccrualSchedule:    getEnv("ACCRUAL_SCHEDULE", "0 2 * * *"),
		ReminderSchedule:   getEnvAllowEmpty("REMINDER_SCHEDULE", "0 8 * * *"),
		ReminderWithinDays: getEnvInt("REMINDER_WITHIN_DAYS", 21),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "finance.events"),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		NotifyFrom:   getEnv("NOTIFY_FROM", ""),
		NotifyTo:     getEnvList("NOTIFY_TO", nil),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DBDriver {
	case "sqlite3", "postgres", "memory":
	default:
		errs = append(errs, fmt.Sprintf("invalid database driver '%s': must be one of [sqlite3 postgres memory]", c.DBDriver))
	}
	if c.DBDriver != "memory" && c.DatabaseURL == "" {
		errs = append(errs, fmt.Sprintf("DATABASE_URL cannot be empty when using %s", c.DBDriver))
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Sprintf("invalid log level '%s'", c.LogLevel))
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		errs = append(errs, fmt.Sprintf("invalid log format '%s': must be json or text", c.LogFormat))
	}

	if _, err := cron.ParseStandard(c.AccrualSchedule); err != nil {
		errs = append(errs, fmt.Sprintf("invalid accrual schedule '%s': %v", c.AccrualSchedule, err))
	}
	if c.ReminderSchedule != "" {
		if _, err := cron.ParseStandard(c.ReminderSchedule); err != nil {
			errs = append(errs, fmt.Sprintf("invalid reminder schedule '%s': %v", c.ReminderSchedule, err))
		}
	}
	if c.ReminderWithinDays < 0 {
		errs = append(errs, fmt.Sprintf("invalid reminder window %d: must not be negative", c.ReminderWithinDays))
	}

	if c.AMQPURL != "" {
		if u, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if u.Scheme != "amqp" && u.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", u.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	if c.SMTPHost != "" {
		if c.NotifyFrom == "" {
			errs = append(errs, "NOTIFY_FROM is required when SMTP_HOST is set")
		}
		if len(c.NotifyTo) == 0 {
			errs = append(errs, "NOTIFY_TO is required when SMTP_HOST is set")
		}
	}

	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("invalid shutdown timeout %v: must be positive", c.ShutdownTimeout))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// Logger builds a logrus logger from LogLevel and LogFormat.
func (c *Config) Logger() *logrus.Logger {
	log := logrus.New()
	if c.LogFormat == "text" {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	if level, err := logrus.ParseLevel(c.LogLevel); err == nil {
		log.SetLevel(level)
	}
	return log
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAllowEmpty lets an explicitly empty variable override the default.
func getEnvAllowEmpty(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
