package scheduler

import (
	"context"

	"msp_portal_backend/platform/config"

	"github.com/hibiken/asynq"
)

// Client enqueues scoring tasks.
type Client struct {
	client *asynq.Client
}

// RefreshEnqueuer is the narrow interface handed to HTTP-facing code.
type RefreshEnqueuer interface {
	EnqueueScoreRefresh(ctx context.Context, payload ScoreRefreshPayload) error
}

// NewClient creates an asynq client over the configured redis instance.
func NewClient(cfg config.RedisConfig) *Client {
	return &Client{
		client: asynq.NewClient(redisClientOpt(cfg)),
	}
}

// Close releases the underlying redis connections.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueScoreRefresh queues a score refresh for one client or for all.
func (c *Client) EnqueueScoreRefresh(ctx context.Context, payload ScoreRefreshPayload) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewScoreRefreshTask(payload)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task)
	return err
}

func redisClientOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.GetRedisPassword(),
		DB:       cfg.GetRedisDB(),
	}
}
