package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// TaskLeadAnalyze drives one freshly submitted lead through the pipeline.
const TaskLeadAnalyze = "leads:analyze"

// TaskLeadSweep periodically picks up leads stuck in processing. It is the
// at-least-once recovery path when an enqueued analyze task was lost.
const TaskLeadSweep = "leads:sweep"

type LeadAnalyzePayload struct {
	LeadID int64 `json:"leadId"`
}

func NewLeadAnalyzeTask(payload LeadAnalyzePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeadAnalyze, data), nil
}

func ParseLeadAnalyzePayload(task *asynq.Task) (LeadAnalyzePayload, error) {
	var payload LeadAnalyzePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return LeadAnalyzePayload{}, err
	}
	return payload, nil
}

func NewLeadSweepTask() *asynq.Task {
	return asynq.NewTask(TaskLeadSweep, nil)
}
