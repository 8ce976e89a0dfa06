// Package scheduler fires the orchestrator's entry points on the fixed
// daily timetable. Jobs are declared in one table so the set of jobs
// exempt from the pause flag is auditable in one place.
package scheduler

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mystylekpop/snsbot/internal/control"
	"github.com/mystylekpop/snsbot/internal/logger"
	"github.com/mystylekpop/snsbot/internal/notify"
)

// Job is one scheduled entry in the timetable.
type Job struct {
	// Name identifies the job in logs and failure escalation.
	Name string

	// Spec is the cron expression, evaluated in the scheduler's
	// timezone.
	Spec string

	// AlwaysRun exempts the job from the pause flag. Analysis jobs
	// run unconditionally; generation and publishing do not.
	AlwaysRun bool

	// Handler does the work.
	Handler func(ctx context.Context) error
}

// Scheduler dispatches the job table through one cron runner.
type Scheduler struct {
	cron     *cron.Cron
	control  *control.Controller
	notifier notify.Notifier
	jobs     []Job
	baseCtx  context.Context
}

// New builds a Scheduler running in loc.
func New(loc *time.Location, ctrl *control.Controller, notifier notify.Notifier) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		control:  ctrl,
		notifier: notifier,
	}
}

// Register adds jobs to the table. Must be called before Start.
func (s *Scheduler) Register(jobs ...Job) error {
	for _, job := range jobs {
		job := job
		if _, err := s.cron.AddFunc(job.Spec, func() { s.dispatch(job) }); err != nil {
			return fmt.Errorf("register job %q (%s): %w", job.Name, job.Spec, err)
		}
		s.jobs = append(s.jobs, job)
	}
	return nil
}

// Jobs returns the registered table, for status display.
func (s *Scheduler) Jobs() []Job {
	return s.jobs
}

// Start begins dispatching. ctx is the base context handed to every
// job run; cancelling it does not stop the cron loop, call Stop.
func (s *Scheduler) Start(ctx context.Context) {
	s.baseCtx = ctx
	s.cron.Start()
	logger.Info(ctx, "scheduler: started", "jobs", len(s.jobs))
}

// Stop halts dispatching and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
}

// dispatch runs one job tick: pause gate, panic guard, failure
// escalation, reset on success.
func (s *Scheduler) dispatch(job Job) {
	ctx := s.baseCtx
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.WithValues(ctx, "job", job.Name)

	if !job.AlwaysRun && s.control.IsPaused() {
		logger.Info(ctx, "scheduler: paused, skipping job")
		return
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error(ctx, "scheduler: job panicked", "panic", r, "stack", string(debug.Stack()))
			s.notifier.NotifyError(ctx, "scheduler:"+job.Name, fmt.Errorf("panic: %v", r), job.Name)
		}
	}()

	logger.Info(ctx, "scheduler: job started")
	if err := job.Handler(ctx); err != nil {
		logger.Error(ctx, "scheduler: job failed", "err", err)
		s.notifier.NotifyError(ctx, "scheduler:"+job.Name, err, job.Name)
		return
	}
	s.notifier.ResetFailures(job.Name)
	logger.Info(ctx, "scheduler: job finished")
}
