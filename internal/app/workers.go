package app

import (
	"context"

	"github.com/Sheetal-x-Sharma/LCC/internal/config"
	"github.com/Sheetal-x-Sharma/LCC/internal/events"
	"github.com/Sheetal-x-Sharma/LCC/internal/jobs"
	"github.com/Sheetal-x-Sharma/LCC/internal/logger"
	"github.com/Sheetal-x-Sharma/LCC/internal/mirror"
	"github.com/Sheetal-x-Sharma/LCC/internal/retry"
	"github.com/Sheetal-x-Sharma/LCC/internal/services"
	"go.uber.org/fx"
)

// Stop hooks run in reverse start order: the HTTP server stops first, then
// the scheduler and the event bus, and the workers drain last.
var workerModule = fx.Module("workers",
	fx.Provide(
		newFanoutWorker,
		fx.Annotate(newEventBus, fx.As(new(services.Dispatcher))),
		newMirror,
		newMirrorWorker,
	),
	fx.Invoke(newScheduler),
)

func newFanoutWorker(lc fx.Lifecycle, notes services.NotificationStore, posts services.PostStore, cfg *config.Config, log logger.Logger) *services.FanoutWorker {
	w := services.NewFanoutWorker(notes, posts, log, services.FanoutOpts{
		QueueSize: cfg.Jobs.FanoutQueueSize,
		Grace:     cfg.Jobs.FanoutSweepGrace,
		Retry:     retry.DefaultConfig(),
	})
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			w.Start()
			return nil
		},
		OnStop: w.Stop,
	})
	return w
}

func newEventBus(lc fx.Lifecycle, worker *services.FanoutWorker, cfg *config.Config, log logger.Logger) (*events.Bus, error) {
	bus, err := events.Connect(cfg.NATS.URL, worker, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error { return bus.Start() },
		OnStop:  func(context.Context) error { return bus.Close() },
	})
	return bus, nil
}

// newMirror picks the Drive mirror when credentials are configured.
func newMirror(cfg *config.Config, log logger.Logger) (services.Mirror, error) {
	if !cfg.MirrorEnabled() {
		return mirror.Nop{}, nil
	}
	return mirror.NewDrive(context.Background(), cfg.Mirror.CredentialsFile, cfg.Mirror.FolderID, log)
}

func newMirrorWorker(lc fx.Lifecycle, m services.Mirror, cfg *config.Config, log logger.Logger) *services.MirrorWorker {
	w := services.NewMirrorWorker(m, log, cfg.Jobs.MirrorQueueSize)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			w.Start()
			return nil
		},
		OnStop: w.Stop,
	})
	return w
}

func newScheduler(lc fx.Lifecycle, stories *services.StoryService, fanout *services.FanoutWorker, counters services.CounterStore, cfg *config.Config, log logger.Logger) error {
	s, err := jobs.New(stories, fanout, counters, log, jobs.Opts{
		StoryPurgeEvery:  cfg.Jobs.StoryPurgeEvery,
		FanoutSweepEvery: cfg.Jobs.FanoutSweepEvery,
		ReconcileAtHour:  cfg.Jobs.ReconcileAtHour,
	})
	if err != nil {
		return err
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			s.Start()
			return nil
		},
		OnStop: func(context.Context) error { return s.Stop() },
	})
	return nil
}
