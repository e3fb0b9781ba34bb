// Package events carries post lifecycle events to the notification fan-out.
// With NATS configured, events go through the broker so every API replica
// shares the work through a queue group; without it they go straight to the
// in-process worker.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/Sheetal-x-Sharma/LCC/internal/logger"
	"github.com/Sheetal-x-Sharma/LCC/internal/models"
	"github.com/nats-io/nats.go"
)

const (
	SubjectPostCreated = "post.created"
	SubjectPostDeleted = "post.deleted"

	fanoutQueueGroup = "lcc-fanout"
)

// Enqueuer is the local fan-out worker.
type Enqueuer interface {
	Enqueue(task models.FanoutTask) bool
}

type Bus struct {
	nc     *nats.Conn
	worker Enqueuer
	log    logger.Logger
	sub    *nats.Subscription
}

// Connect 连接 NATS。url 为空时返回仅走本地队列的 Bus。
func Connect(url string, worker Enqueuer, log logger.Logger) (*Bus, error) {
	b := &Bus{worker: worker, log: log.WithComponent("EventBus")}
	if url == "" {
		b.log.Info("NATS_URL not set, dispatching fan-out in process")
		return b, nil
	}

	nc, err := nats.Connect(url,
		nats.Name("lcc-api"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				b.log.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			b.log.Info("NATS reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	b.nc = nc
	b.log.Info("connected to NATS", "url", nc.ConnectedUrl())
	return b, nil
}

// Start subscribes the local worker to post.created.
func (b *Bus) Start() error {
	if b.nc == nil {
		return nil
	}
	sub, err := b.nc.QueueSubscribe(SubjectPostCreated, fanoutQueueGroup, b.handlePostCreated)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", SubjectPostCreated, err)
	}
	b.sub = sub
	return nil
}

// Close drains the subscription and the connection.
func (b *Bus) Close() error {
	if b.nc == nil {
		return nil
	}
	return b.nc.Drain()
}

// PostCreated publishes the event. A publish failure falls back to the local
// worker so the post is not left waiting for the sweeper.
func (b *Bus) PostCreated(_ context.Context, task models.FanoutTask) {
	if b.nc == nil {
		b.worker.Enqueue(task)
		return
	}
	data, err := json.Marshal(task)
	if err == nil {
		err = b.nc.Publish(SubjectPostCreated, data)
	}
	if err != nil {
		b.log.Warn("publish failed, fanning out locally", "subject", SubjectPostCreated, "post_id", task.PostID, "error", err)
		b.worker.Enqueue(task)
	}
}

func (b *Bus) PostDeleted(_ context.Context, postID uint) {
	if b.nc == nil {
		return
	}
	if err := b.nc.Publish(SubjectPostDeleted, []byte(strconv.FormatUint(uint64(postID), 10))); err != nil {
		b.log.Warn("publish failed", "subject", SubjectPostDeleted, "post_id", postID, "error", err)
	}
}

func (b *Bus) handlePostCreated(msg *nats.Msg) {
	var task models.FanoutTask
	if err := json.Unmarshal(msg.Data, &task); err != nil {
		b.log.Error("invalid post.created payload", "error", err)
		return
	}
	if task.PostID == 0 || task.ActorID == 0 {
		b.log.Error("post.created without ids", "payload", string(msg.Data))
		return
	}
	b.worker.Enqueue(task)
}
