package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Sheetal-x-Sharma/LCC/internal/logger"
)

type fakeTasks struct {
	purged, swept, reconciled int
	err                       error
}

func (f *fakeTasks) PurgeExpired(context.Context) (int64, error) {
	f.purged++
	return 2, f.err
}

func (f *fakeTasks) Sweep(context.Context) (int, error) {
	f.swept++
	return 0, f.err
}

func (f *fakeTasks) Reconcile(context.Context) (int64, error) {
	f.reconciled++
	return 1, f.err
}

func newTestScheduler(t *testing.T, f *fakeTasks) *Scheduler {
	t.Helper()
	s, err := New(f, f, f, logger.Nop(), Opts{
		StoryPurgeEvery:  time.Hour,
		FanoutSweepEvery: time.Hour,
		ReconcileAtHour:  3,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = s.Stop() })
	return s
}

func TestSchedulerRegistersJobs(t *testing.T) {
	s := newTestScheduler(t, &fakeTasks{})

	jobs := s.s.Jobs()
	if len(jobs) != 3 {
		t.Fatalf("registered %d jobs, want 3", len(jobs))
	}
	names := map[string]bool{}
	for _, j := range jobs {
		names[j.Name()] = true
	}
	for _, want := range []string{"purge-expired-stories", "fanout-sweep", "reconcile-counters"} {
		if !names[want] {
			t.Errorf("job %q not registered", want)
		}
	}
}

func TestTasksCallThrough(t *testing.T) {
	f := &fakeTasks{}
	s := newTestScheduler(t, f)

	s.purgeStories()
	s.sweepFanout()
	s.reconcileCounters()

	if f.purged != 1 || f.swept != 1 || f.reconciled != 1 {
		t.Fatalf("calls = %+v", f)
	}

	f.err = errors.New("db down")
	s.purgeStories()
	s.reconcileCounters()
	if f.purged != 2 || f.reconciled != 2 {
		t.Fatalf("calls after failure = %+v", f)
	}
}

func TestNewRejectsBadInterval(t *testing.T) {
	f := &fakeTasks{}
	if _, err := New(f, f, f, logger.Nop(), Opts{FanoutSweepEvery: time.Minute, ReconcileAtHour: 3}); err == nil {
		t.Fatal("expected error for a zero purge interval")
	}
}
