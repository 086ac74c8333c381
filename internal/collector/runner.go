package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/spboyer/promptlift/internal/models"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// ErrAttemptsExhausted is returned when every attempt of a request failed.
var ErrAttemptsExhausted = errors.New("collection attempts exhausted")

// Defaults for RunnerOptions fields left at zero.
const (
	DefaultWorkers     = 4
	DefaultMaxAttempts = 3
)

// RunnerOptions configures a Runner.
type RunnerOptions struct {
	// Workers bounds the number of concurrent requests.
	Workers int
	// MaxAttempts bounds the attempts per request, including the first.
	MaxAttempts int
	// RetryDelay is the fixed pause between attempts.
	RetryDelay time.Duration
	// Limiter, when set, is waited on before every attempt.
	Limiter *rate.Limiter
	// Recorder observes outcomes and retries.
	Recorder Recorder
	// Progress is called after each request finishes, from any goroutine.
	Progress func(done, total int)
	Logger   *slog.Logger
}

// Runner wraps a Collector with retries, rate limiting and bounded concurrency.
// It is itself a Collector.
type Runner struct {
	collector Collector
	opts      RunnerOptions
}

// NewRunner returns a Runner around c.
func NewRunner(c Collector, opts RunnerOptions) *Runner {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Runner{collector: c, opts: opts}
}

// Collect runs req until it yields a valid record or MaxAttempts is reached.
// Invalid records are not retried. Context cancellation stops waiting
// immediately.
func (r *Runner) Collect(ctx context.Context, req Request) (models.TaskRecord, error) {
	log := r.opts.Logger.With("task_id", req.TaskID, "task_type", req.TaskType, "method", req.Method)

	var lastErr error
	for attempt := 1; attempt <= r.opts.MaxAttempts; attempt++ {
		if attempt > 1 {
			r.opts.Recorder.ObserveRetry(req.TaskType, req.Method)
			if err := sleep(ctx, r.opts.RetryDelay); err != nil {
				return models.TaskRecord{}, err
			}
		}
		if err := ctx.Err(); err != nil {
			return models.TaskRecord{}, err
		}
		if r.opts.Limiter != nil {
			if err := r.opts.Limiter.Wait(ctx); err != nil {
				return models.TaskRecord{}, fmt.Errorf("waiting for rate limiter: %w", err)
			}
		}

		start := time.Now()
		rec, err := r.collector.Collect(ctx, req)
		elapsed := time.Since(start)

		if err == nil {
			err = rec.Validate()
			if err != nil {
				r.opts.Recorder.ObserveTask(req.TaskType, req.Method, StatusError, elapsed)
				return models.TaskRecord{}, fmt.Errorf("task %s: %w", req.TaskID, err)
			}
			status := StatusFailure
			if rec.Success {
				status = StatusSuccess
			}
			r.opts.Recorder.ObserveTask(req.TaskType, req.Method, status, elapsed)
			log.Debug("collected task", "attempt", attempt, "success", rec.Success, "duration", rec.Duration())
			return rec, nil
		}

		r.opts.Recorder.ObserveTask(req.TaskType, req.Method, StatusError, elapsed)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return models.TaskRecord{}, ctxErr
		}
		if errors.Is(err, models.ErrInvalidRecord) {
			return models.TaskRecord{}, fmt.Errorf("task %s: %w", req.TaskID, err)
		}
		lastErr = err
		log.Warn("collection attempt failed", "attempt", attempt, "max_attempts", r.opts.MaxAttempts, "error", err)
	}
	return models.TaskRecord{}, fmt.Errorf("%w: task %s after %d attempts: %w", ErrAttemptsExhausted, req.TaskID, r.opts.MaxAttempts, lastErr)
}

// CollectPopulation runs every request on at most Workers goroutines and
// returns the records in request order. The first failure cancels the rest.
func (r *Runner) CollectPopulation(ctx context.Context, reqs []Request) ([]models.TaskRecord, error) {
	records := make([]models.TaskRecord, len(reqs))
	total := len(reqs)
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for i, req := range reqs {
		g.Go(func() error {
			rec, err := r.Collect(gctx, req)
			if err != nil {
				return err
			}
			records[i] = rec
			if r.opts.Progress != nil {
				r.opts.Progress(int(done.Add(1)), total)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
