// Package worker runs the periodic maintenance jobs: counter reconciliation
// and closing polls whose expiry has passed.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"quickpoll/internal/domain/vote"
)

type Reconciler interface {
	ReconcileAll(ctx context.Context) (vote.Report, error)
}

type Expirer interface {
	DeactivateExpired(ctx context.Context) ([]int64, error)
}

// Schedules are cron specs ("@every 10m", "0 */1 * * *"). An empty spec
// disables the job.
type Schedules struct {
	Reconcile string
	Expiry    string
}

type Scheduler struct {
	cron       *cron.Cron
	reconciler Reconciler
	expirer    Expirer
	log        *slog.Logger
	jobTimeout time.Duration
}

func NewScheduler(r Reconciler, e Expirer, s Schedules, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cronLog := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))

	sch := &Scheduler{
		cron: cron.New(
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		reconciler: r,
		expirer:    e,
		log:        logger,
		jobTimeout: 5 * time.Minute,
	}

	if s.Reconcile != "" && r != nil {
		if _, err := sch.cron.AddFunc(s.Reconcile, func() { sch.RunReconcile(context.Background()) }); err != nil {
			return nil, fmt.Errorf("reconcile schedule %q: %w", s.Reconcile, err)
		}
	}
	if s.Expiry != "" && e != nil {
		if _, err := sch.cron.AddFunc(s.Expiry, func() { sch.RunExpiry(context.Background()) }); err != nil {
			return nil, fmt.Errorf("expiry schedule %q: %w", s.Expiry, err)
		}
	}
	return sch, nil
}

// Jobs reports how many jobs are scheduled.
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

// Run starts the scheduler and blocks until ctx is done, then waits for a
// running job to finish.
func (s *Scheduler) Run(ctx context.Context) {
	s.log.Info("scheduler started", "jobs", s.Jobs())
	s.cron.Start()
	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

func (s *Scheduler) RunReconcile(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.jobTimeout)
	defer cancel()

	start := time.Now()
	report, err := s.reconciler.ReconcileAll(ctx)
	if err != nil {
		s.log.Error("reconcile sweep finished with errors", "polls", report.Polls, "err", err)
	}
	if report.Corrected > 0 {
		s.log.Warn("counter drift corrected",
			"polls", report.Corrected,
			"options", report.Options,
			"likes", report.Likes,
		)
	}
	s.log.Debug("reconcile sweep done", "polls", report.Polls, "duration_ms", time.Since(start).Milliseconds())
}

func (s *Scheduler) RunExpiry(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.jobTimeout)
	defer cancel()

	ids, err := s.expirer.DeactivateExpired(ctx)
	if err != nil {
		s.log.Error("closing expired polls failed", "err", err)
		return
	}
	if len(ids) > 0 {
		s.log.Info("closed expired polls", "count", len(ids), "poll_ids", ids)
	}
}
