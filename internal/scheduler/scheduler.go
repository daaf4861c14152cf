package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/pkg/errors"

	"github.com/example/livedict/internal/clock"
	"github.com/example/livedict/internal/dictionary"
)

// Default notification hours, in UTC
const (
	DefaultNotificationStartHour = 4
	DefaultNotificationEndHour   = 18
)

// checkTimeout bounds a single reminder check
const checkTimeout = 30 * time.Second

// Source reports the state of the practice pool
type Source interface {
	Summary(ctx context.Context) (dictionary.Summary, error)
}

// Notifier interface for sending notifications
type Notifier interface {
	SendReminders(ctx context.Context, summary dictionary.Summary) error
}

// Config controls when reminders are checked and sent
type Config struct {
	Interval  time.Duration
	StartHour int
	EndHour   int
}

// DefaultConfig checks hourly during the default notification hours
func DefaultConfig() Config {
	return Config{
		Interval:  time.Hour,
		StartHour: DefaultNotificationStartHour,
		EndHour:   DefaultNotificationEndHour,
	}
}

// Scheduler periodically tells the notifier when translations are due
type Scheduler struct {
	scheduler *gocron.Scheduler
	source    Source
	notifier  Notifier
	config    Config
	clock     clock.Clock
	logger    *slog.Logger
}

// New creates a new scheduler instance
func New(source Source, notifier Notifier, config Config, c clock.Clock, logger *slog.Logger) *Scheduler {
	if c == nil {
		c = clock.System{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		source:    source,
		notifier:  notifier,
		config:    config,
		clock:     c,
		logger:    logger,
	}
}

// Start begins running the reminder check in the background
func (s *Scheduler) Start() error {
	if s.config.Interval <= 0 {
		return errors.Errorf("invalid reminder interval %s", s.config.Interval)
	}
	_, err := s.scheduler.Every(s.config.Interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
		defer cancel()
		if _, err := s.CheckAndSendReminders(ctx); err != nil {
			s.logger.Error("reminder check failed", "error", err)
		}
	})
	if err != nil {
		return errors.Wrap(err, "failed to schedule reminder check")
	}

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
	return nil
}

// Run starts the scheduler and blocks until ctx is done
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	s.Stop()
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// InNotificationHours reports whether now falls inside the configured hours
func (s *Scheduler) InNotificationHours(now time.Time) bool {
	hour := now.UTC().Hour()
	return hour >= s.config.StartHour && hour <= s.config.EndHour
}

// CheckAndSendReminders notifies when something can be practiced now. It
// reports whether a reminder was sent.
func (s *Scheduler) CheckAndSendReminders(ctx context.Context) (bool, error) {
	now := s.clock.Now()
	if !s.InNotificationHours(now) {
		s.logger.Debug("outside notification hours, skipping reminders",
			"hour", now.UTC().Hour(), "start", s.config.StartHour, "end", s.config.EndHour)
		return false, nil
	}

	summary, err := s.source.Summary(ctx)
	if err != nil {
		return false, errors.Wrap(err, "failed to get summary")
	}
	if !summary.HasDue() {
		s.logger.Debug("nothing due", "resting", summary.Resting, "next_unlock", summary.NextUnlock)
		return false, nil
	}

	if err := s.notifier.SendReminders(ctx, summary); err != nil {
		return false, errors.Wrap(err, "failed to send reminders")
	}
	s.logger.Info("reminder sent", "eligible", summary.Eligible, "difficult", summary.Difficult)
	return true, nil
}

// LogNotifier writes reminders to a logger, for running without Telegram
type LogNotifier struct {
	Logger *slog.Logger
}

// SendReminders logs the summary
func (n LogNotifier) SendReminders(_ context.Context, summary dictionary.Summary) error {
	n.Logger.Info("translations waiting for practice",
		"eligible", summary.Eligible, "difficult", summary.Difficult, "resting", summary.Resting)
	return nil
}
