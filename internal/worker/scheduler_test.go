package worker

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"quickpoll/internal/domain/vote"
)

type stubReconciler struct {
	mu     sync.Mutex
	calls  int
	report vote.Report
	err    error
}

func (s *stubReconciler) ReconcileAll(ctx context.Context) (vote.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if _, ok := ctx.Deadline(); !ok {
		return vote.Report{}, errors.New("job ran without a deadline")
	}
	return s.report, s.err
}

type stubExpirer struct {
	ids []int64
	err error
}

func (s *stubExpirer) DeactivateExpired(context.Context) ([]int64, error) {
	return s.ids, s.err
}

func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestNewSchedulerRegistersConfiguredJobs(t *testing.T) {
	cases := []struct {
		name  string
		sched Schedules
		jobs  int
	}{
		{"both", Schedules{Reconcile: "@every 10m", Expiry: "* * * * *"}, 2},
		{"reconcile only", Schedules{Reconcile: "@hourly"}, 1},
		{"disabled", Schedules{}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := NewScheduler(&stubReconciler{}, &stubExpirer{}, tc.sched, nil)
			if err != nil {
				t.Fatalf("new scheduler: %v", err)
			}
			if s.Jobs() != tc.jobs {
				t.Fatalf("expected %d jobs, got %d", tc.jobs, s.Jobs())
			}
		})
	}
}

func TestNewSchedulerRejectsBadSpec(t *testing.T) {
	if _, err := NewScheduler(&stubReconciler{}, &stubExpirer{}, Schedules{Reconcile: "every tuesday"}, nil); err == nil {
		t.Fatalf("expected invalid spec to fail")
	}
}

func TestRunReconcileLogsDrift(t *testing.T) {
	var buf bytes.Buffer
	rec := &stubReconciler{
		report: vote.Report{Polls: 3, Corrected: 1, Options: 2},
		err:    errors.New("reconcile poll 7: timeout"),
	}
	s, err := NewScheduler(rec, &stubExpirer{}, Schedules{}, testLogger(&buf))
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}

	s.RunReconcile(context.Background())

	if rec.calls != 1 {
		t.Fatalf("expected one sweep, got %d", rec.calls)
	}
	out := buf.String()
	if !strings.Contains(out, "counter drift corrected") || !strings.Contains(out, "reconcile poll 7") {
		t.Fatalf("missing log lines:\n%s", out)
	}
}

func TestRunExpiryLogsClosedPolls(t *testing.T) {
	var buf bytes.Buffer
	s, err := NewScheduler(&stubReconciler{}, &stubExpirer{ids: []int64{4, 9}}, Schedules{}, testLogger(&buf))
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}

	s.RunExpiry(context.Background())

	if out := buf.String(); !strings.Contains(out, "closed expired polls") || !strings.Contains(out, "count=2") {
		t.Fatalf("missing log line:\n%s", out)
	}
}

func TestRunStopsWithContext(t *testing.T) {
	s, err := NewScheduler(&stubReconciler{}, &stubExpirer{}, Schedules{Expiry: "@every 1h"}, nil)
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("scheduler did not stop")
	}
}
