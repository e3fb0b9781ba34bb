// Package jobs runs the periodic maintenance tasks: expired story purge,
// fan-out sweep and the nightly counter reconciliation.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/Sheetal-x-Sharma/LCC/internal/logger"
	"github.com/go-co-op/gocron/v2"
)

const jobTimeout = 5 * time.Minute

type StoryPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

type FanoutSweeper interface {
	Sweep(ctx context.Context) (int, error)
}

type CounterReconciler interface {
	Reconcile(ctx context.Context) (int64, error)
}

type Opts struct {
	StoryPurgeEvery  time.Duration
	FanoutSweepEvery time.Duration
	ReconcileAtHour  uint
}

type Scheduler struct {
	s        gocron.Scheduler
	stories  StoryPurger
	fanout   FanoutSweeper
	counters CounterReconciler
	log      logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// New 创建定时任务调度器。任务以单例模式运行，上一次未结束时顺延。
func New(stories StoryPurger, fanout FanoutSweeper, counters CounterReconciler, log logger.Logger, opts Opts) (*Scheduler, error) {
	s, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	j := &Scheduler{
		s:        s,
		stories:  stories,
		fanout:   fanout,
		counters: counters,
		log:      log.WithComponent("Jobs"),
		ctx:      ctx,
		cancel:   cancel,
	}

	defs := []struct {
		name string
		def  gocron.JobDefinition
		task func()
	}{
		{"purge-expired-stories", gocron.DurationJob(opts.StoryPurgeEvery), j.purgeStories},
		{"fanout-sweep", gocron.DurationJob(opts.FanoutSweepEvery), j.sweepFanout},
		{"reconcile-counters", gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(opts.ReconcileAtHour, 0, 0))), j.reconcileCounters},
	}
	for _, d := range defs {
		_, err := s.NewJob(d.def, gocron.NewTask(d.task),
			gocron.WithName(d.name),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			cancel()
			_ = s.Shutdown()
			return nil, fmt.Errorf("schedule %s: %w", d.name, err)
		}
	}
	return j, nil
}

func (j *Scheduler) Start() {
	j.s.Start()
	j.log.Info("scheduler started", "jobs", len(j.s.Jobs()))
}

// Stop cancels running tasks and waits for them to return.
func (j *Scheduler) Stop() error {
	j.cancel()
	return j.s.Shutdown()
}

func (j *Scheduler) purgeStories() {
	ctx, cancel := context.WithTimeout(j.ctx, jobTimeout)
	defer cancel()

	n, err := j.stories.PurgeExpired(ctx)
	if err != nil {
		j.log.Error("story purge failed", "error", err)
		return
	}
	j.log.Debug("story purge finished", "deleted", n)
}

func (j *Scheduler) sweepFanout() {
	ctx, cancel := context.WithTimeout(j.ctx, jobTimeout)
	defer cancel()

	if _, err := j.fanout.Sweep(ctx); err != nil {
		j.log.Error("fan-out sweep failed", "error", err)
	}
}

func (j *Scheduler) reconcileCounters() {
	ctx, cancel := context.WithTimeout(j.ctx, jobTimeout)
	defer cancel()

	start := time.Now()
	n, err := j.counters.Reconcile(ctx)
	if err != nil {
		j.log.Error("counter reconciliation failed", "error", err)
		return
	}
	j.log.Info("counters reconciled", "rows_fixed", n, "took", time.Since(start).String())
}
