package redisstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"taskflow/internal/core/domain"
)

const DefaultChangeChannel = "taskflow:tasks:changed"

const defaultRetryDelay = time.Second

type ChangeKind string

const (
	ChangeUpsert ChangeKind = "upsert"
	ChangeDelete ChangeKind = "delete"
	// ChangeResync asks every listener to reload; sent after the feed lost
	// messages.
	ChangeResync ChangeKind = "resync"
)

// Change announces that a task was written. Assignees let listeners skip
// changes outside their scope.
type Change struct {
	Kind             ChangeKind `json:"kind"`
	TaskID           string     `json:"task_id"`
	AssignedTo       string     `json:"assigned_to,omitempty"`
	PreviousAssignee string     `json:"previous_assignee,omitempty"`
}

// Affects reports whether a listener scoped to assignedTo must reload. An
// empty scope sees every change.
func (c Change) Affects(assignedTo string) bool {
	if assignedTo == "" || c.Kind == ChangeResync {
		return true
	}
	return c.AssignedTo == assignedTo || c.PreviousAssignee == assignedTo
}

// ChangeFeed carries task change notifications over Redis pub/sub.
type ChangeFeed struct {
	client     *redis.Client
	channel    string
	retryDelay time.Duration
	logger     *zap.Logger
}

func NewChangeFeed(client *redis.Client, channel string, logger *zap.Logger) *ChangeFeed {
	if channel == "" {
		channel = DefaultChangeChannel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChangeFeed{client: client, channel: channel, retryDelay: defaultRetryDelay, logger: logger}
}

func (f *ChangeFeed) Publish(ctx context.Context, change Change) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return err
	}
	if err := f.client.Publish(ctx, f.channel, payload).Err(); err != nil {
		return domain.Unavailable("publish task change", err)
	}
	return nil
}

// Listen delivers changes to handle until ctx is done. Receive errors go to
// fail and are followed by a resync change once the connection is back.
// The returned error only reports a failed initial subscribe.
func (f *ChangeFeed) Listen(ctx context.Context, handle func(Change), fail func(error)) error {
	pubsub := f.client.Subscribe(ctx, f.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return domain.Unavailable("subscribe to task changes", err)
	}
	// ReceiveMessage ignores cancellation once blocked on the socket;
	// closing the pubsub unblocks it.
	stop := context.AfterFunc(ctx, func() { _ = pubsub.Close() })
	defer stop()

	broken := false
	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if !broken {
				f.logger.Warn("task change feed interrupted", zap.String("channel", f.channel), zap.Error(err))
			}
			broken = true
			fail(domain.Unavailable("receive task change", err))

			select {
			case <-ctx.Done():
				return nil
			case <-time.After(f.retryDelay):
			}
			if err := pubsub.Ping(ctx); err == nil {
				broken = false
				f.logger.Info("task change feed resumed", zap.String("channel", f.channel))
				handle(Change{Kind: ChangeResync})
			}
			continue
		}

		var change Change
		if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
			f.logger.Warn("unreadable task change, forcing resync", zap.String("payload", msg.Payload), zap.Error(err))
			change = Change{Kind: ChangeResync}
		}
		handle(change)
	}
}
