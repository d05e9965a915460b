// Package queue is a thin work-queue layer over Redis lists: producers push
// with LPUSH, consumers block on BRPOP. It matches the list-based queue the
// upstream HR application publishes calculation jobs to.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Queue struct {
	client *redis.Client
	name   string
}

func New(client *redis.Client, name string) *Queue {
	return &Queue{client: client, name: name}
}

func (q *Queue) Name() string { return q.name }

// Len returns the number of payloads waiting in the list.
func (q *Queue) Len(ctx context.Context) (int64, error) {
	n, err := q.client.LLen(ctx, q.name).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to measure %s: %w", q.name, err)
	}
	return n, nil
}

// Publish marshals the payload and pushes it to the head of the list.
func (q *Queue) Publish(ctx context.Context, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload for %s: %w", q.name, err)
	}
	if err := q.client.LPush(ctx, q.name, data).Err(); err != nil {
		return fmt.Errorf("failed to push to %s: %w", q.name, err)
	}
	return nil
}

// Consume blocks up to timeout waiting for the next payload. A nil payload
// with a nil error means the wait timed out and the caller should poll
// again.
func (q *Queue) Consume(ctx context.Context, timeout time.Duration) ([]byte, error) {
	res, err := q.client.BRPop(ctx, timeout, q.name).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to pop from %s: %w", q.name, err)
	}
	// BRPOP replies with [key, value].
	if len(res) < 2 {
		return nil, nil
	}
	return []byte(res[1]), nil
}

// Requeue puts an already-consumed payload back at the tail of the list, so
// it is the next one delivered.
func (q *Queue) Requeue(ctx context.Context, payload []byte) error {
	if err := q.client.RPush(ctx, q.name, payload).Err(); err != nil {
		return fmt.Errorf("failed to requeue to %s: %w", q.name, err)
	}
	return nil
}
