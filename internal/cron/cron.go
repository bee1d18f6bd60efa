package cron

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/pixelcraft/agency-api/internal/service"
)

const (
	DefaultFollowUpSchedule = "@every 1h"
	jobTimeout              = time.Minute
)

// Scheduler handles scheduled tasks
type Scheduler struct {
	cron       *cron.Cron
	contactSvc service.ContactService
	log        *zap.Logger
}

// NewScheduler creates a new scheduler
func NewScheduler(contactSvc service.ContactService, log *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithChain(cron.Recover(cronLogger{log}))),
		contactSvc: contactSvc,
		log:        log,
	}
}

// Start registers the jobs and starts the scheduler. An empty schedule
// falls back to DefaultFollowUpSchedule.
func (s *Scheduler) Start(followUpSchedule string) error {
	if followUpSchedule == "" {
		followUpSchedule = DefaultFollowUpSchedule
	}

	if _, err := s.cron.AddFunc(followUpSchedule, func() {
		s.log.Debug("running overdue follow-up check")
		s.CheckOverdueFollowUps(context.Background())
	}); err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info("scheduler started", zap.String("followup_schedule", followUpSchedule))
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// CheckOverdueFollowUps logs every contact whose follow-up date has passed
// without being completed. It returns how many were found.
func (s *Scheduler) CheckOverdueFollowUps(ctx context.Context) int {
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	contacts, err := s.contactSvc.OverdueFollowUps(ctx)
	if err != nil {
		s.log.Error("failed to load overdue follow-ups", zap.Error(err))
		return 0
	}

	for _, c := range contacts {
		s.log.Warn("follow-up overdue",
			zap.String("contact_id", c.ID),
			zap.String("name", c.Name),
			zap.String("email", c.Email),
			zap.String("priority", c.Priority),
			zap.Timep("scheduled", c.FollowUp.Scheduled),
		)
	}
	if len(contacts) > 0 {
		s.log.Info("overdue follow-ups", zap.Int("count", len(contacts)))
	}
	return len(contacts)
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	log *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
