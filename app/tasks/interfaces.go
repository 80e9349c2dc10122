package tasks

import (
	"context"
	"time"
)

type TaskInterface interface {
	Execute(ctx context.Context) error
	GetID() string
	GetType() TaskType
	GetSubject() string
	GetRetryCount() int
	GetMaxRetries() int
	IncrementRetryCount()
	CanRetry() bool
	Start()
	GetDuration() time.Duration
}

type TaskSchedulerInterface interface {
	EnqueueTask(task TaskInterface) error
}
