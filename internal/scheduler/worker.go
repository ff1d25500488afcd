package scheduler

import (
	"context"
	"fmt"

	"leadpilot_backend/internal/leads/domain"
	"leadpilot_backend/internal/leads/pipeline"
	"leadpilot_backend/platform/config"
	"leadpilot_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// ProcessingLister is the repository slice the sweep needs.
type ProcessingLister interface {
	ListProcessing(ctx context.Context, limit int) ([]*domain.Lead, error)
}

type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	pipe      *pipeline.Pipeline
	leads     ProcessingLister
	batchSize int
	log       *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, pipe *pipeline.Pipeline, leads ProcessingLister, log *logger.Logger) (*Worker, error) {
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

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	batchSize := cfg.GetSweepBatchSize()
	if batchSize < 1 {
		batchSize = 5
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		mux:       mux,
		pipe:      pipe,
		leads:     leads,
		batchSize: batchSize,
		log:       log,
	}

	mux.HandleFunc(TaskLeadAnalyze, w.handleLeadAnalyze)
	mux.HandleFunc(TaskLeadSweep, w.handleLeadSweep)

	return w, nil
}

func (w *Worker) handleLeadAnalyze(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseLeadAnalyzePayload(task)
	if err != nil {
		return err
	}
	return w.pipe.Advance(ctx, payload.LeadID)
}

// handleLeadSweep advances a bounded batch of leads stuck in processing,
// oldest first. Leads already finished by the enqueue path no-op inside
// Advance, so sweep and enqueue can safely overlap.
func (w *Worker) handleLeadSweep(ctx context.Context, _ *asynq.Task) error {
	stuck, err := w.leads.ListProcessing(ctx, w.batchSize)
	if err != nil {
		return err
	}

	if len(stuck) == 0 {
		return nil
	}
	w.log.Info("sweep picked up processing leads", "count", len(stuck))

	for _, lead := range stuck {
		if err := w.pipe.Advance(ctx, lead.ID); err != nil {
			// One stubborn lead must not block the rest of the batch.
			w.log.WithLead(lead.ID).Error("sweep advance failed", "error", err)
		}
	}

	return nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
