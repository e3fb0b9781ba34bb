package services

import (
	"context"
	"sync"
	"time"

	"github.com/Sheetal-x-Sharma/LCC/internal/apperr"
	"github.com/Sheetal-x-Sharma/LCC/internal/logger"
	"github.com/Sheetal-x-Sharma/LCC/internal/models"
	"github.com/Sheetal-x-Sharma/LCC/internal/retry"
)

const (
	fanoutBatchSize = 50
	fanoutInterval  = 500 * time.Millisecond
	sweepLimit      = 200
)

// FanoutWorker 异步为粉丝生成新帖通知。
// 队列按 post id 去重，每 500ms 或攒满一批处理一次；失败按指数退避重试，
// 仍失败的帖子 notified_at 为空，由 Sweep 重新入队。
type FanoutWorker struct {
	notes NotificationStore
	posts PostStore
	log   logger.Logger
	retry retry.Config
	now   Clock
	grace time.Duration

	queue   chan models.FanoutTask
	pending map[uint]bool
	mu      sync.Mutex

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

type FanoutOpts struct {
	QueueSize int
	Grace     time.Duration // how old an unnotified post must be before Sweep replays it
	Retry     retry.Config
	Clock     Clock
}

func NewFanoutWorker(notes NotificationStore, posts PostStore, log logger.Logger, opts FanoutOpts) *FanoutWorker {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 1000
	}
	if opts.Retry.MaxRetries == 0 && opts.Retry.InitialInterval == 0 {
		opts.Retry = retry.DefaultConfig()
	}
	if opts.Clock == nil {
		opts.Clock = systemClock
	}
	return &FanoutWorker{
		notes:   notes,
		posts:   posts,
		log:     log.WithComponent("FanoutWorker"),
		retry:   opts.Retry,
		now:     opts.Clock,
		grace:   opts.Grace,
		queue:   make(chan models.FanoutTask, opts.QueueSize),
		pending: make(map[uint]bool),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Enqueue 将任务加入队列（非阻塞）。同一帖子已在队列中时跳过。
// Returns false when the task was dropped because the queue is full; the
// sweeper picks such posts up later.
func (w *FanoutWorker) Enqueue(task models.FanoutTask) bool {
	w.mu.Lock()
	if w.pending[task.PostID] {
		w.mu.Unlock()
		return true
	}
	w.pending[task.PostID] = true
	w.mu.Unlock()

	select {
	case w.queue <- task:
		return true
	default:
		w.mu.Lock()
		delete(w.pending, task.PostID)
		w.mu.Unlock()
		w.log.Warn("fan-out queue full, leaving post for sweeper", "post_id", task.PostID)
		return false
	}
}

// PostCreated lets the worker act as an in-process Dispatcher.
func (w *FanoutWorker) PostCreated(_ context.Context, task models.FanoutTask) {
	w.Enqueue(task)
}

func (w *FanoutWorker) PostDeleted(context.Context, uint) {}

func (w *FanoutWorker) Start() {
	go w.run()
}

// Stop drains what is already queued and waits for the worker to exit or
// ctx to expire.
func (w *FanoutWorker) Stop(ctx context.Context) error {
	w.stopOnce.Do(func() { close(w.stop) })
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *FanoutWorker) run() {
	defer close(w.done)

	batch := make([]models.FanoutTask, 0, fanoutBatchSize)
	ticker := time.NewTicker(fanoutInterval)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for {
		select {
		case task := <-w.queue:
			batch = append(batch, task)
			if len(batch) >= fanoutBatchSize {
				w.processBatch(ctx, batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				w.processBatch(ctx, batch)
				batch = batch[:0]
			}
		case <-w.stop:
			for {
				select {
				case task := <-w.queue:
					batch = append(batch, task)
				default:
					w.processBatch(ctx, batch)
					return
				}
			}
		}
	}
}

func (w *FanoutWorker) processBatch(ctx context.Context, tasks []models.FanoutTask) {
	for _, task := range tasks {
		w.deliver(ctx, task)

		w.mu.Lock()
		delete(w.pending, task.PostID)
		w.mu.Unlock()
	}
}

// deliver writes the notifications for one post, retrying transient errors.
func (w *FanoutWorker) deliver(ctx context.Context, task models.FanoutTask) {
	var inserted int64
	err := retry.Do(ctx, w.log, "notification fan-out", func() error {
		n, err := w.notes.FanOut(ctx, task.ActorID, task.PostID, w.now())
		if err != nil {
			if apperr.IsNotFound(err) {
				return retry.Permanent(err)
			}
			return err
		}
		inserted = n
		return nil
	}, w.retry)

	switch {
	case err == nil:
		w.log.Debug("fan-out done", "post_id", task.PostID, "notifications", inserted)
	case apperr.IsNotFound(err):
		w.log.Debug("post gone before fan-out", "post_id", task.PostID)
	default:
		w.log.Error("fan-out failed, leaving post for sweeper",
			"post_id", task.PostID, "actor_id", task.ActorID, "error", err)
	}
}

// Sweep re-enqueues posts older than the grace period that were never fanned
// out. Replays are idempotent.
func (w *FanoutWorker) Sweep(ctx context.Context) (int, error) {
	cutoff := w.now().Add(-w.grace)
	posts, err := w.posts.PendingFanout(ctx, cutoff, sweepLimit)
	if err != nil {
		return 0, err
	}

	queued := 0
	for _, p := range posts {
		if w.Enqueue(models.FanoutTask{ActorID: p.UserID, PostID: p.ID, CreatedAt: p.CreatedAt}) {
			queued++
		}
	}
	if queued > 0 {
		w.log.Info("re-queued posts for fan-out", "count", queued)
	}
	return queued, nil
}
