package scheduler

import (
	"context"
	"fmt"

	"leadpilot_backend/platform/config"
	"leadpilot_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// PeriodicSweeper emits the sweep task on a fixed interval.
type PeriodicSweeper struct {
	scheduler *asynq.Scheduler
	log       *logger.Logger
}

func NewPeriodicSweeper(cfg config.SchedulerConfig, log *logger.Logger) (*PeriodicSweeper, error) {
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

	interval := cfg.GetSweepInterval()
	if interval <= 0 {
		return nil, fmt.Errorf("sweep interval must be positive")
	}

	sched := asynq.NewScheduler(opt, nil)
	spec := fmt.Sprintf("@every %s", interval)
	if _, err := sched.Register(spec, NewLeadSweepTask(), asynq.Queue(queue)); err != nil {
		return nil, fmt.Errorf("register sweep task: %w", err)
	}

	return &PeriodicSweeper{scheduler: sched, log: log}, nil
}

func (p *PeriodicSweeper) Run(ctx context.Context) {
	if p == nil || p.scheduler == nil {
		return
	}

	go func() {
		<-ctx.Done()
		p.scheduler.Shutdown()
	}()

	if err := p.scheduler.Run(); err != nil {
		p.log.Error("periodic sweeper stopped", "error", err)
	}
}
