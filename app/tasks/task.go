package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type TaskType string

const (
	TaskTypeHarvestSources TaskType = "harvest_sources"
	TaskTypeSyncEngagement TaskType = "sync_engagement"
)

// Persistence writes are retried a small bounded number of times before a
// unit of work is counted as failed.
const (
	persistRetries    = 2
	persistRetryDelay = 250 * time.Millisecond
)

type TaskInterface interface {
	Execute(ctx context.Context) error
	GetID() string
	GetType() TaskType
	Start()
	GetDuration() time.Duration
	GetSummary() RunSummary
}

// Task carries the bookkeeping shared by both harvesters.
type Task struct {
	ID        string
	Type      TaskType
	StartedAt *time.Time
	summary   RunSummary
}

func NewTask(taskType TaskType) Task {
	runID := uuid.NewString()
	return Task{
		ID:      runID,
		Type:    taskType,
		summary: RunSummary{RunID: runID},
	}
}

func (t *Task) GetID() string {
	return t.ID
}

func (t *Task) GetType() TaskType {
	return t.Type
}

func (t *Task) Start() {
	now := time.Now()
	t.StartedAt = &now
}

func (t *Task) GetDuration() time.Duration {
	if t.StartedAt == nil {
		return 0
	}
	return time.Since(*t.StartedAt)
}

func (t *Task) GetSummary() RunSummary {
	return t.summary
}

// RunSummary is the externally observable result of one harvester run.
type RunSummary struct {
	RunID     string
	Attempted int
	Created   int
	Updated   int
	Skipped   int
}

func (s RunSummary) String() string {
	return fmt.Sprintf("run=%s attempted=%d created=%d updated=%d skipped=%d",
		s.RunID, s.Attempted, s.Created, s.Updated, s.Skipped)
}
