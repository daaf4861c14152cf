// Package config loads runtime settings from .env files and the environment.
package config

import (
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/example/livedict/internal/database"
	"github.com/example/livedict/internal/scheduler"
	"github.com/example/livedict/pkg/models"
)

// Environment keys
const (
	EnvDBDriver          = "LIVEDICT_DB_DRIVER"
	EnvDBDSN             = "LIVEDICT_DB_DSN"
	EnvTelegramToken     = "TELEGRAM_BOT_TOKEN"
	EnvTelegramChatIDs   = "TELEGRAM_CHAT_IDS"
	EnvExcludedLabels    = "LIVEDICT_EXCLUDED_LABELS"
	EnvReminderInterval  = "LIVEDICT_REMINDER_INTERVAL"
	EnvNotificationStart = "NOTIFICATION_START_HOUR"
	EnvNotificationEnd   = "NOTIFICATION_END_HOUR"
	EnvLogLevel          = "LOG_LEVEL"
)

// Config represents the configuration of the application
type Config struct {
	// Database driver, sqlite3 or postgres
	DBDriver string
	// Database DSN; a file path for sqlite
	DBDSN string
	// Telegram bot token, required only by the bot command
	TelegramToken string
	// Chats allowed to use the bot and receiving reminders
	TelegramChatIDs []int64
	// Labels left out of practice
	ExcludedLabels []models.Label
	// Time between reminder checks
	ReminderInterval time.Duration
	// Reminders are only sent between these hours, inclusive
	NotificationStartHour int
	NotificationEndHour   int
	LogLevel              slog.Level
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		DBDriver:              database.DriverSQLite,
		DBDSN:                 database.DefaultDSN,
		ExcludedLabels:        []models.Label{models.LabelA, models.LabelB},
		ReminderInterval:      time.Hour,
		NotificationStartHour: scheduler.DefaultNotificationStartHour,
		NotificationEndHour:   scheduler.DefaultNotificationEndHour,
		LogLevel:              slog.LevelInfo,
	}
}

// Load starts from DefaultConfig and applies values from the given .env
// files, then from the environment. Missing .env files are ignored and
// environment variables win over file values.
func Load(envFiles ...string) (*Config, error) {
	fileValues := make(map[string]string)
	for _, file := range envFiles {
		values, err := godotenv.Read(file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", file)
		}
		for k, v := range values {
			fileValues[k] = v
		}
	}

	return FromLookup(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileValues[key]
		return v, ok
	})
}

// FromLookup builds a Config reading every key through lookup
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	cfg := DefaultConfig()
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvDBDriver); ok {
		cfg.DBDriver = v
	}
	if v, ok := get(EnvDBDSN); ok {
		cfg.DBDSN = v
	}
	if v, ok := get(EnvTelegramToken); ok {
		cfg.TelegramToken = v
	}
	if v, ok := get(EnvTelegramChatIDs); ok {
		ids, err := parseIDs(v)
		if err != nil {
			return nil, errors.Wrap(err, EnvTelegramChatIDs)
		}
		cfg.TelegramChatIDs = ids
	}
	if v, ok := lookup(EnvExcludedLabels); ok {
		// an empty value means nothing is excluded
		labels, err := models.ParseLabels(v)
		if err != nil {
			return nil, errors.Wrap(err, EnvExcludedLabels)
		}
		cfg.ExcludedLabels = labels
	}
	if v, ok := get(EnvReminderInterval); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, errors.Wrap(err, EnvReminderInterval)
		}
		cfg.ReminderInterval = d
	}
	if v, ok := get(EnvNotificationStart); ok {
		h, err := parseHour(v)
		if err != nil {
			return nil, errors.Wrap(err, EnvNotificationStart)
		}
		cfg.NotificationStartHour = h
	}
	if v, ok := get(EnvNotificationEnd); ok {
		h, err := parseHour(v)
		if err != nil {
			return nil, errors.Wrap(err, EnvNotificationEnd)
		}
		cfg.NotificationEndHour = h
	}
	if v, ok := get(EnvLogLevel); ok {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, errors.Wrap(err, EnvLogLevel)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that can't be checked while parsing
func (c *Config) Validate() error {
	if c.ReminderInterval <= 0 {
		return errors.Errorf("reminder interval must be positive, got %s", c.ReminderInterval)
	}
	if c.NotificationStartHour > c.NotificationEndHour {
		return errors.Errorf("notification hours %d-%d are reversed", c.NotificationStartHour, c.NotificationEndHour)
	}
	return nil
}

// Scheduler returns the reminder job settings
func (c *Config) Scheduler() scheduler.Config {
	return scheduler.Config{
		Interval:  c.ReminderInterval,
		StartHour: c.NotificationStartHour,
		EndHour:   c.NotificationEndHour,
	}
}

// NewLogger returns a text logger writing to w at the given level
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func parseHour(s string) (int, error) {
	h, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if h < 0 || h > 23 {
		return 0, errors.Errorf("hour %d out of range 0-23", h)
	}
	return h, nil
}

func parseIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
