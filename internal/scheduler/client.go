// Package scheduler wires the lead pipeline to asynq: an enqueue client for
// the intake path, a worker consuming analyze and sweep tasks, and a
// periodic scheduler emitting the sweep.
package scheduler

import (
	"context"
	"crypto/tls"
	"fmt"

	"leadpilot_backend/platform/config"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// Enqueuer triggers background analysis for a lead. The intake service
// depends on this interface so tests and Redis-less deployments can swap
// the implementation.
type Enqueuer interface {
	EnqueueLeadAnalyze(ctx context.Context, leadID int64) error
}

type Client struct {
	client *asynq.Client
	queue  string
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queue,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueLeadAnalyze schedules background analysis for a lead. Duplicate
// enqueues are harmless: the pipeline's idempotency guard makes redundant
// triggers no-ops.
func (c *Client) EnqueueLeadAnalyze(ctx context.Context, leadID int64) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewLeadAnalyzeTask(LeadAnalyzePayload{LeadID: leadID})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue))
	return err
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
