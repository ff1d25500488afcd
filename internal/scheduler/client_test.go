package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
)

type testSchedulerConfig struct {
	redisURL string
}

func (c testSchedulerConfig) GetRedisURL() string              { return c.redisURL }
func (c testSchedulerConfig) GetRedisTLSInsecure() bool        { return false }
func (c testSchedulerConfig) GetAsynqQueueName() string        { return "leads" }
func (c testSchedulerConfig) GetAsynqConcurrency() int         { return 1 }
func (c testSchedulerConfig) GetSweepInterval() time.Duration  { return time.Minute }
func (c testSchedulerConfig) GetSweepBatchSize() int           { return 5 }

func TestEnqueueLeadAnalyze(t *testing.T) {
	redis := miniredis.RunT(t)

	client, err := NewClient(testSchedulerConfig{redisURL: "redis://" + redis.Addr()})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	defer client.Close()

	if err := client.EnqueueLeadAnalyze(context.Background(), 42); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: redis.Addr()})
	defer inspector.Close()

	tasks, err := inspector.ListPendingTasks("leads")
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 pending task, got %d", len(tasks))
	}
	if tasks[0].Type != TaskLeadAnalyze {
		t.Fatalf("expected task type %q, got %q", TaskLeadAnalyze, tasks[0].Type)
	}

	payload, err := ParseLeadAnalyzePayload(asynq.NewTask(tasks[0].Type, tasks[0].Payload))
	if err != nil {
		t.Fatalf("parse payload: %v", err)
	}
	if payload.LeadID != 42 {
		t.Fatalf("expected lead id 42, got %d", payload.LeadID)
	}
}

func TestNewClientRequiresRedisURL(t *testing.T) {
	if _, err := NewClient(testSchedulerConfig{redisURL: ""}); err == nil {
		t.Fatalf("expected error when redis url missing")
	}
}

func TestRedisClientOptParsesURL(t *testing.T) {
	opt, err := redisClientOpt("redis://:secret@localhost:6380/2", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opt.Addr != "localhost:6380" || opt.Password != "secret" || opt.DB != 2 {
		t.Fatalf("unexpected opt: %+v", opt)
	}
}
