package tasks

import (
	"time"

	"github.com/google/uuid"
)

type TaskType string

const (
	TaskTypeSyncSource TaskType = "sync_source"
	TaskTypeCleanup    TaskType = "cleanup"
)

const (
	DefaultMaxRetries = 3
)

type Task struct {
	ID         string
	Type       TaskType
	Subject    string
	RetryCount int
	MaxRetries int
	StartedAt  *time.Time
}

func (t *Task) GetID() string {
	return t.ID
}

func (t *Task) GetType() TaskType {
	return t.Type
}

func (t *Task) GetSubject() string {
	return t.Subject
}

func (t *Task) GetRetryCount() int {
	return t.RetryCount
}

func (t *Task) GetMaxRetries() int {
	return t.MaxRetries
}

func (t *Task) IncrementRetryCount() {
	t.RetryCount++
}

func (t *Task) CanRetry() bool {
	return t.RetryCount < t.MaxRetries
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

func NewTask(taskType TaskType, subject string) Task {
	return Task{
		ID:         uuid.NewString(),
		Type:       taskType,
		Subject:    subject,
		RetryCount: 0,
		MaxRetries: DefaultMaxRetries,
	}
}
