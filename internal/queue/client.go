package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// TaskTokenCleanup removes device tokens FCM reported as unregistered.
const TaskTokenCleanup = "token:cleanup"

// Client wraps asynq.Client for enqueuing tasks
type Client struct {
	client *asynq.Client
}

// NewClient creates a new queue client
func NewClient(redisAddr string, redisPassword string) *Client {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     redisAddr,
		Password: redisPassword,
	})

	return &Client{
		client: client,
	}
}

// Close closes the client connection
func (c *Client) Close() error {
	return c.client.Close()
}

// EnqueueTokenCleanup enqueues removal of stale device tokens. Cleanup is
// off the request path, so it goes to the low-priority queue.
func (c *Client) EnqueueTokenCleanup(ctx context.Context, tokens []string) error {
	taskPayload := map[string]any{
		"job_id": uuid.NewString(),
		"tokens": tokens,
	}

	payloadBytes, err := json.Marshal(taskPayload)
	if err != nil {
		return fmt.Errorf("failed to marshal task payload: %w", err)
	}

	task := asynq.NewTask(TaskTokenCleanup, payloadBytes, asynq.Queue("low"))

	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	log.Printf("[Queue] Enqueued task: id=%s queue=%s", info.ID, info.Queue)
	return nil
}
