package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Sheetal-x-Sharma/LCC/internal/apperr"
	"github.com/Sheetal-x-Sharma/LCC/internal/logger"
	"github.com/Sheetal-x-Sharma/LCC/internal/models"
	"github.com/Sheetal-x-Sharma/LCC/internal/retry"
	"github.com/Sheetal-x-Sharma/LCC/internal/services/mocks"
	"go.uber.org/mock/gomock"
)

var fastRetry = retry.Config{
	MaxRetries:      2,
	InitialInterval: time.Millisecond,
	MaxInterval:     time.Millisecond,
	Multiplier:      1,
}

func newTestFanout(t *testing.T, queueSize int) (*FanoutWorker, *mocks.MockNotificationStore, *mocks.MockPostStore) {
	ctrl := gomock.NewController(t)
	notes := mocks.NewMockNotificationStore(ctrl)
	posts := mocks.NewMockPostStore(ctrl)
	now := time.Date(2025, 11, 20, 10, 0, 0, 0, time.UTC)
	w := NewFanoutWorker(notes, posts, logger.Nop(), FanoutOpts{
		QueueSize: queueSize,
		Grace:     time.Minute,
		Retry:     fastRetry,
		Clock:     func() time.Time { return now },
	})
	return w, notes, posts
}

func TestFanoutEnqueueDedupes(t *testing.T) {
	w, _, _ := newTestFanout(t, 10)

	task := models.FanoutTask{ActorID: 1, PostID: 5}
	if !w.Enqueue(task) || !w.Enqueue(task) {
		t.Fatal("Enqueue should accept a post already queued")
	}
	if len(w.queue) != 1 {
		t.Fatalf("queue length = %d, want 1", len(w.queue))
	}
}

func TestFanoutEnqueueFullQueue(t *testing.T) {
	w, _, _ := newTestFanout(t, 1)

	if !w.Enqueue(models.FanoutTask{ActorID: 1, PostID: 1}) {
		t.Fatal("first task rejected")
	}
	if w.Enqueue(models.FanoutTask{ActorID: 1, PostID: 2}) {
		t.Fatal("second task accepted by a full queue")
	}
	if w.pending[2] {
		t.Fatal("dropped task still marked pending")
	}
}

func TestFanoutDeliverRetriesTransientErrors(t *testing.T) {
	w, notes, _ := newTestFanout(t, 10)

	gomock.InOrder(
		notes.EXPECT().FanOut(gomock.Any(), uint(1), uint(9), gomock.Any()).Return(int64(0), errors.New("connection reset")),
		notes.EXPECT().FanOut(gomock.Any(), uint(1), uint(9), gomock.Any()).Return(int64(3), nil),
	)

	w.deliver(context.Background(), models.FanoutTask{ActorID: 1, PostID: 9})
}

func TestFanoutDeliverStopsOnMissingPost(t *testing.T) {
	w, notes, _ := newTestFanout(t, 10)

	notes.EXPECT().FanOut(gomock.Any(), uint(1), uint(9), gomock.Any()).
		Return(int64(0), apperr.NotFound("post not found")).
		Times(1)

	w.deliver(context.Background(), models.FanoutTask{ActorID: 1, PostID: 9})
}

func TestFanoutStopDrainsQueue(t *testing.T) {
	w, notes, _ := newTestFanout(t, 10)

	notes.EXPECT().FanOut(gomock.Any(), uint(1), uint(1), gomock.Any()).Return(int64(2), nil)
	notes.EXPECT().FanOut(gomock.Any(), uint(2), uint(2), gomock.Any()).Return(int64(0), nil)

	w.Enqueue(models.FanoutTask{ActorID: 1, PostID: 1})
	w.Enqueue(models.FanoutTask{ActorID: 2, PostID: 2})
	w.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := w.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if len(w.pending) != 0 {
		t.Fatalf("pending = %v, want empty", w.pending)
	}
}

func TestFanoutSweepRequeuesPendingPosts(t *testing.T) {
	w, _, posts := newTestFanout(t, 10)

	cutoff := w.now().Add(-time.Minute)
	posts.EXPECT().PendingFanout(gomock.Any(), cutoff, sweepLimit).Return([]models.Post{
		{ID: 3, UserID: 1},
		{ID: 4, UserID: 2},
	}, nil)

	n, err := w.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if n != 2 || len(w.queue) != 2 {
		t.Fatalf("queued %d, queue length %d, want 2", n, len(w.queue))
	}
}
