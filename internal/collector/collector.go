// Package collector produces TaskRecords for the two populations of an
// experiment. It sits outside the scoring core: a Collector runs one task,
// a Runner adds rate limiting, bounded retries and concurrency on top.
package collector

//go:generate go tool mockgen -source collector.go -destination mock_collector_test.go -package collector

import (
	"context"

	"github.com/spboyer/promptlift/internal/models"
)

// Request describes one task execution.
type Request struct {
	TaskID   string
	TaskType string
	Prompt   string
	Method   models.Method
}

// Collector executes a single task and reports what happened.
type Collector interface {
	Collect(ctx context.Context, req Request) (models.TaskRecord, error)
}

// Func adapts an ordinary function to the Collector interface.
type Func func(ctx context.Context, req Request) (models.TaskRecord, error)

func (f Func) Collect(ctx context.Context, req Request) (models.TaskRecord, error) {
	return f(ctx, req)
}
