package models

import (
	"errors"
	"fmt"
)

// Method identifies how the prompt behind a task execution was produced.
type Method string

const (
	// MethodManual tags records produced with hand-written prompts (baseline).
	MethodManual Method = "manual"
	// MethodGenerated tags records produced with generated prompts (enhanced).
	MethodGenerated Method = "generated"
)

// Valid reports whether m is one of the known methods.
func (m Method) Valid() bool {
	return m == MethodManual || m == MethodGenerated
}

// TaskRecord holds the execution facts of one completed task.
// Times are monotonic timestamps in seconds.
type TaskRecord struct {
	TaskID     string   `json:"task_id" mapstructure:"task_id"`
	TaskType   string   `json:"task_type" mapstructure:"task_type"`
	StartTime  float64  `json:"start_time" mapstructure:"start_time"`
	EndTime    float64  `json:"end_time" mapstructure:"end_time"`
	Success    bool     `json:"success" mapstructure:"success"`
	Iterations int      `json:"iterations" mapstructure:"iterations"`
	TokensUsed int      `json:"tokens_used" mapstructure:"tokens_used"`
	Errors     []string `json:"errors" mapstructure:"errors"`
	Method     Method   `json:"method" mapstructure:"method"`
}

// Duration returns EndTime - StartTime in seconds.
func (r TaskRecord) Duration() float64 {
	return r.EndTime - r.StartTime
}

// ErrorCount returns the number of recorded errors.
func (r TaskRecord) ErrorCount() int {
	return len(r.Errors)
}

// ErrInvalidRecord is wrapped by every error returned from TaskRecord.Validate.
var ErrInvalidRecord = errors.New("invalid task record")

// Validate checks the record invariants: end_time >= start_time,
// non-negative iterations and tokens, and a known method.
func (r TaskRecord) Validate() error {
	switch {
	case r.TaskID == "":
		return fmt.Errorf("%w: task_id is empty", ErrInvalidRecord)
	case r.EndTime < r.StartTime:
		return fmt.Errorf("%w: %s: end_time %.3f precedes start_time %.3f", ErrInvalidRecord, r.TaskID, r.EndTime, r.StartTime)
	case r.Iterations < 0:
		return fmt.Errorf("%w: %s: iterations is negative (%d)", ErrInvalidRecord, r.TaskID, r.Iterations)
	case r.TokensUsed < 0:
		return fmt.Errorf("%w: %s: tokens_used is negative (%d)", ErrInvalidRecord, r.TaskID, r.TokensUsed)
	case !r.Method.Valid():
		return fmt.Errorf("%w: %s: unknown method %q", ErrInvalidRecord, r.TaskID, r.Method)
	}
	return nil
}
