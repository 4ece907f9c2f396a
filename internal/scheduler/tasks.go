// Package scheduler queues and runs background scoring work over asynq.
package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// TaskScoreRefresh recomputes stored scores. An empty ClientID refreshes
// every non-churned client.
const TaskScoreRefresh = "clients.scores.refresh"

// ScoreRefreshPayload selects which client(s) to refresh.
type ScoreRefreshPayload struct {
	ClientID string `json:"clientId,omitempty"`
}

// NewScoreRefreshTask builds the asynq task for a refresh request.
func NewScoreRefreshTask(payload ScoreRefreshPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskScoreRefresh, data), nil
}

// ParseScoreRefreshPayload decodes a refresh task's payload.
func ParseScoreRefreshPayload(task *asynq.Task) (ScoreRefreshPayload, error) {
	var payload ScoreRefreshPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ScoreRefreshPayload{}, err
	}
	return payload, nil
}
