// Package scheduler fires stored prompts at fixed local times every day. Each
// schedule row is dispatched through the message handler exactly like an
// inbound message from the user, and the reply is delivered through the
// transport sender.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/hupe1980/agenthub/core"
	"github.com/hupe1980/agenthub/logging"
	"github.com/hupe1980/agenthub/router"
)

// Handler dispatches a scheduled prompt directly to its target agent.
// *router.Router and *agenthub.Hub both satisfy it.
type Handler interface {
	DispatchTo(ctx context.Context, userID, agentID, rawText string) (router.Response, error)
}

// Sender delivers a reply to the user through the transport.
type Sender interface {
	Send(ctx context.Context, userID, text string) error
}

// Options holds dependency + configuration overrides passed to New().
type Options struct {
	// Location is the timezone schedule offsets are interpreted in.
	Location *time.Location
	Logger   logging.Logger
}

// Scheduler registers one cron entry per stored schedule and dispatches each
// firing through the handler.
type Scheduler struct {
	schedules core.ScheduleLister
	handler   Handler
	sender    Sender
	logger    logging.Logger

	cron *cron.Cron

	// base context for dispatches, set by Start.
	ctx context.Context
}

// New constructs a Scheduler. Call Start to load schedules and begin firing.
func New(schedules core.ScheduleLister, handler Handler, sender Sender, optFns ...func(o *Options)) *Scheduler {
	opts := Options{
		Location: time.Local,
		Logger:   logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Scheduler{
		schedules: schedules,
		handler:   handler,
		sender:    sender,
		logger:    logging.OrNoOp(opts.Logger),
		cron:      cron.New(cron.WithLocation(opts.Location)),
	}
}

// Start loads the schedule table and begins firing. ctx bounds every
// dispatch triggered by the cron entries.
func (s *Scheduler) Start(ctx context.Context) error {
	rows, err := s.schedules.ListSchedules(ctx)
	if err != nil {
		return fmt.Errorf("list schedules: %w", err)
	}
	s.ctx = ctx

	for _, row := range rows {
		row := row
		spec, err := cronSpec(row.At)
		if err != nil {
			return fmt.Errorf("schedule %s: %w", row.ID, err)
		}
		if _, err := s.cron.AddFunc(spec, func() {
			if err := s.Dispatch(s.ctx, row); err != nil {
				s.logger.Error("scheduled prompt failed", "schedule_id", row.ID, "user_id", row.UserID, "error", err)
			}
		}); err != nil {
			return fmt.Errorf("register schedule %s: %w", row.ID, err)
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "schedules", len(rows))
	return nil
}

// Stop halts the cron loop and waits for running dispatches to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// Dispatch runs one schedule row immediately: the prompt goes to the row's
// target agent as if the user had sent it, and the reply goes out via the
// sender.
func (s *Scheduler) Dispatch(ctx context.Context, row core.Schedule) error {
	resp, err := s.handler.DispatchTo(ctx, row.UserID, row.AgentID, row.Prompt)
	if err != nil {
		return fmt.Errorf("handle prompt: %w", err)
	}
	if err := s.sender.Send(ctx, row.UserID, resp.Text); err != nil {
		return fmt.Errorf("send reply: %w", err)
	}
	s.logger.Debug("scheduled prompt dispatched", "schedule_id", row.ID, "user_id", row.UserID, "agent", resp.Agent.Name)
	return nil
}

// cronSpec converts a midnight offset into a daily five-field cron spec.
// Cron fires on minute boundaries, so offsets carrying a sub-minute
// remainder are rejected instead of silently rounded.
func cronSpec(at time.Duration) (string, error) {
	if at < 0 || at >= 24*time.Hour {
		return "", fmt.Errorf("offset %s outside a day", at)
	}
	if at%time.Minute != 0 {
		return "", fmt.Errorf("offset %s is not a whole minute", at)
	}
	minutes := int(at.Minutes())
	return fmt.Sprintf("%d %d * * *", minutes%60, minutes/60), nil
}
