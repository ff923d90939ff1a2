/*
scheduler.go - Cron-driven accrual and due reminders

PURPOSE:
  Runs batch accrual on a cron schedule, supplying today's date as the
  as-of date, and optionally sends reminders for payee accounts coming due.

DESIGN:
  - robfig/cron with SkipIfStillRunning, so a slow run is never overlapped
  - Accrual is idempotent per calendar month, so a daily schedule is safe:
    only the first run in a month posts interest, the rest skip
  - Panics inside a job are recovered and logged

CONFIGURATION:
  - AccrualSpec:  cron spec, default "0 2 * * *"
  - ReminderSpec: cron spec; empty or no Reminder disables the job
  - WithinDays:   reminder horizon in days

USAGE:
  scheduler := NewAccrualScheduler(svc, log)
  scheduler.Reminder = notifier
  if err := scheduler.Start(); err != nil { ... }
  defer scheduler.Stop()

SEE ALSO:
  - handlers.go: RunAccrual endpoint (manual accrual)
  - finance/service.go: RunAccrual, SendDueReminders
*/
package api

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/warp/finance-engine/finance"
)

const (
	DefaultAccrualSpec  = "0 2 * * *"
	DefaultReminderSpec = "0 8 * * *"
)

// AccrualScheduler handles automated accrual and reminders.
type AccrualScheduler struct {
	Service      *finance.Service
	Reminder     finance.Reminder
	AccrualSpec  string
	ReminderSpec string
	WithinDays   int
	Log          logrus.FieldLogger

	// JobTimeout bounds a single job run.
	JobTimeout time.Duration

	cron      *cron.Cron
	accrualID cron.EntryID
	mu        sync.Mutex
}

// NewAccrualScheduler creates a scheduler with the default specs.
func NewAccrualScheduler(svc *finance.Service, log logrus.FieldLogger) *AccrualScheduler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &AccrualScheduler{
		Service:      svc,
		AccrualSpec:  DefaultAccrualSpec,
		ReminderSpec: DefaultReminderSpec,
		WithinDays:   finance.DefaultDueWithinDays,
		JobTimeout:   30 * time.Minute,
		Log:          log.WithField("component", "scheduler"),
	}
}

// Start registers the jobs and starts the cron loop.
func (s *AccrualScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return fmt.Errorf("scheduler already started")
	}

	logger := cron.PrintfLogger(s.Log)
	c := cron.New(cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)))

	accrualID, err := c.AddFunc(s.AccrualSpec, s.runAccrualJob)
	if err != nil {
		return fmt.Errorf("invalid accrual schedule %q: %w", s.AccrualSpec, err)
	}
	if s.Reminder != nil && s.ReminderSpec != "" {
		if _, err := c.AddFunc(s.ReminderSpec, s.runReminderJob); err != nil {
			return fmt.Errorf("invalid reminder schedule %q: %w", s.ReminderSpec, err)
		}
	}

	c.Start()
	s.cron = c
	s.accrualID = accrualID
	s.Log.WithFields(logrus.Fields{
		"accrual_schedule":  s.AccrualSpec,
		"reminder_schedule": s.reminderSpecForLog(),
	}).Info("scheduler started")
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *AccrualScheduler) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	if c == nil {
		return
	}
	<-c.Stop().Done()
	s.Log.Info("scheduler stopped")
}

// RunNow triggers an immediate accrual as of today (for testing/admin).
func (s *AccrualScheduler) RunNow(ctx context.Context) (finance.AccrualSummary, error) {
	return s.Service.RunAccrual(ctx, finance.DateOf(s.Service.Now()))
}

// RemindNow sends due reminders as of today.
func (s *AccrualScheduler) RemindNow(ctx context.Context) (int, error) {
	if s.Reminder == nil {
		return 0, nil
	}
	return s.Service.SendDueReminders(ctx, finance.DateOf(s.Service.Now()), s.WithinDays, s.Reminder)
}

// NextRun returns when the next accrual job will fire, or zero when stopped.
func (s *AccrualScheduler) NextRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron == nil {
		return time.Time{}
	}
	return s.cron.Entry(s.accrualID).Next
}

func (s *AccrualScheduler) runAccrualJob() {
	ctx, cancel := context.WithTimeout(context.Background(), s.JobTimeout)
	defer cancel()

	if _, err := s.RunNow(ctx); err != nil {
		s.Log.WithError(err).Error("scheduled accrual failed")
	}
}

func (s *AccrualScheduler) runReminderJob() {
	ctx, cancel := context.WithTimeout(context.Background(), s.JobTimeout)
	defer cancel()

	sent, err := s.RemindNow(ctx)
	if err != nil {
		s.Log.WithError(err).Error("scheduled reminders failed")
		return
	}
	s.Log.WithField("sent", sent).Info("reminders sent")
}

func (s *AccrualScheduler) reminderSpecForLog() string {
	if s.Reminder == nil || s.ReminderSpec == "" {
		return "disabled"
	}
	return s.ReminderSpec
}
