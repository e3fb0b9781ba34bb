package services

import (
	"context"
	"sync"

	"github.com/Sheetal-x-Sharma/LCC/internal/logger"
	"github.com/Sheetal-x-Sharma/LCC/internal/retry"
)

type MirrorJob struct {
	Path     string
	Name     string
	MimeType string
}

// MirrorWorker copies uploaded files to the configured Mirror in the
// background. Failures are logged only; the local copy stays authoritative.
type MirrorWorker struct {
	mirror Mirror
	log    logger.Logger
	retry  retry.Config

	mu     sync.RWMutex
	closed bool
	queue  chan MirrorJob
	done   chan struct{}
}

func NewMirrorWorker(mirror Mirror, log logger.Logger, queueSize int) *MirrorWorker {
	if queueSize <= 0 {
		queueSize = 100
	}
	return &MirrorWorker{
		mirror: mirror,
		log:    log.WithComponent("MirrorWorker"),
		retry:  retry.DefaultConfig(),
		queue:  make(chan MirrorJob, queueSize),
		done:   make(chan struct{}),
	}
}

// Enqueue 非阻塞入队，队列满时丢弃并记录日志
func (w *MirrorWorker) Enqueue(job MirrorJob) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return false
	}
	select {
	case w.queue <- job:
		return true
	default:
		w.log.Warn("mirror queue full, skipping", "file", job.Name)
		return false
	}
}

func (w *MirrorWorker) Start() {
	go func() {
		defer close(w.done)
		for job := range w.queue {
			w.copy(job)
		}
	}()
}

// Stop closes the queue and waits for queued jobs or ctx.
func (w *MirrorWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.queue)
	}
	w.mu.Unlock()
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *MirrorWorker) copy(job MirrorJob) {
	ctx := context.Background()
	err := retry.Do(ctx, w.log, "mirror upload", func() error {
		return w.mirror.Upload(ctx, job.Path, job.Name, job.MimeType)
	}, w.retry)
	if err != nil {
		w.log.Error("mirror upload failed", "file", job.Name, "error", err)
		return
	}
	w.log.Debug("mirrored upload", "file", job.Name)
}
