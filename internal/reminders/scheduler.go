package reminders

import (
	"context"
	"counsel/pkg/logger"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

const runTimeout = 2 * time.Minute

// Scheduler triggers Job.RunOnce on a cron schedule. Runs never overlap: a
// tick that fires while the previous run is active is skipped.
type Scheduler struct {
	cron   *cron.Cron
	job    *Job
	log    *logger.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

func NewScheduler(job *Job, spec string, log *logger.Logger) (*Scheduler, error) {
	cl := cronLogger{log: log}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{cron: c, job: job, log: log, ctx: ctx, cancel: cancel}

	if _, err := c.AddFunc(spec, s.tick); err != nil {
		cancel()
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) tick() {
	ctx, cancel := context.WithTimeout(s.ctx, runTimeout)
	defer cancel()

	if _, err := s.job.RunOnce(ctx); err != nil {
		s.log.Error("Reminder run failed", "error", err)
	}
}

func (s *Scheduler) Start() {
	s.log.Info("Reminder scheduler started", "entries", len(s.cron.Entries()))
	s.cron.Start()
}

// Stop cancels the active run and waits for it to return or for ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	s.cancel()
	done := s.cron.Stop()

	select {
	case <-done.Done():
		s.log.Info("Reminder scheduler stopped")
	case <-ctx.Done():
		s.log.Warn("Reminder scheduler did not stop in time", "error", ctx.Err())
	}
}

// cronLogger routes cron's internal logging through the service logger.
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
