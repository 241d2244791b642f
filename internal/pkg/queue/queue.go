package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type Queue struct {
	client    *redis.Client
	queueName string
}

// BroadcastMessage is one queued broadcast: the source message to copy to
// every user.
type BroadcastMessage struct {
	FromChatID  int64 `json:"from_chat_id"`
	MessageID   int   `json:"message_id"`
	RequestedBy int64 `json:"requested_by"`
}

func NewQueue(client *redis.Client, queueName string) *Queue {
	return &Queue{
		client:    client,
		queueName: queueName,
	}
}

// Push enqueues a broadcast job.
func (q *Queue) Push(ctx context.Context, msg *BroadcastMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	return q.client.LPush(ctx, q.queueName, data).Err()
}

// Pop dequeues the next broadcast job, blocking up to timeout. Returns
// (nil, nil) on timeout.
func (q *Queue) Pop(ctx context.Context, timeout time.Duration) (*BroadcastMessage, error) {
	result, err := q.client.BRPop(ctx, timeout, q.queueName).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to pop from queue: %w", err)
	}

	if len(result) < 2 {
		return nil, nil
	}

	var msg BroadcastMessage
	if err := json.Unmarshal([]byte(result[1]), &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %w", err)
	}

	return &msg, nil
}

// Length returns the number of pending broadcast jobs.
func (q *Queue) Length(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.queueName).Result()
}
