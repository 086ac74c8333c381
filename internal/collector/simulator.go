package collector

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/google/uuid"
	"github.com/spboyer/promptlift/internal/models"
	"github.com/spboyer/promptlift/internal/tokens"
)

// ErrTransient marks a simulated failure that is worth retrying.
var ErrTransient = errors.New("transient collection failure")

// Profile shapes the simulated outcome of one prompting method.
type Profile struct {
	// DurationMean and DurationJitter are in seconds; durations are drawn
	// uniformly from mean±jitter and never go below zero.
	DurationMean   float64
	DurationJitter float64
	SuccessRate    float64
	MinIterations  int
	MaxIterations  int
	// ErrorRate is the per-iteration probability of an error message.
	ErrorRate float64
	// ResponseTokens is the mean number of tokens produced per iteration.
	ResponseTokens int
}

// DefaultProfiles reflect hand-written prompts taking longer, failing more
// often and needing more back-and-forth than generated ones.
var DefaultProfiles = map[models.Method]Profile{
	models.MethodManual: {
		DurationMean:   300,
		DurationJitter: 90,
		SuccessRate:    0.70,
		MinIterations:  2,
		MaxIterations:  5,
		ErrorRate:      0.30,
		ResponseTokens: 400,
	},
	models.MethodGenerated: {
		DurationMean:   190,
		DurationJitter: 50,
		SuccessRate:    0.88,
		MinIterations:  1,
		MaxIterations:  3,
		ErrorRate:      0.12,
		ResponseTokens: 320,
	},
}

var simulatedErrors = []string{
	"syntax error",
	"type mismatch",
	"missing import",
	"off-by-one",
	"nil dereference",
	"timeout waiting for response",
}

// SimulatorOptions configures a Simulator.
type SimulatorOptions struct {
	// Seed makes the simulation reproducible; nil draws a random seed.
	Seed *int64
	// Counter prices prompts; defaults to the estimating counter.
	Counter tokens.Counter
	// Profiles override DefaultProfiles per method.
	Profiles map[models.Method]Profile
	// FailureRate is the probability that an attempt returns ErrTransient.
	FailureRate float64
}

// Simulator is a Collector that fabricates plausible task records without
// calling any model. Records are laid out on a simulated clock so that each
// task starts where the previous one ended.
type Simulator struct {
	counter     tokens.Counter
	profiles    map[models.Method]Profile
	failureRate float64

	mu    sync.Mutex
	rng   *rand.Rand
	clock float64
}

// NewSimulator returns a Simulator.
func NewSimulator(opts SimulatorOptions) *Simulator {
	var rng *rand.Rand
	if opts.Seed != nil {
		s := uint64(*opts.Seed)
		rng = rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
	} else {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	profiles := make(map[models.Method]Profile, len(DefaultProfiles))
	for m, p := range DefaultProfiles {
		profiles[m] = p
	}
	for m, p := range opts.Profiles {
		profiles[m] = p
	}

	counter := opts.Counter
	if counter == nil {
		counter = tokens.NewEstimatingCounter()
	}

	return &Simulator{
		counter:     counter,
		profiles:    profiles,
		failureRate: opts.FailureRate,
		rng:         rng,
	}
}

func (s *Simulator) Collect(ctx context.Context, req Request) (models.TaskRecord, error) {
	if err := ctx.Err(); err != nil {
		return models.TaskRecord{}, err
	}
	profile, ok := s.profiles[req.Method]
	if !ok {
		return models.TaskRecord{}, fmt.Errorf("%w: no profile for method %q", models.ErrInvalidRecord, req.Method)
	}

	promptTokens := s.counter.Count(req.Prompt)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failureRate > 0 && s.rng.Float64() < s.failureRate {
		return models.TaskRecord{}, ErrTransient
	}

	duration := math.Max(0, profile.DurationMean+(s.rng.Float64()*2-1)*profile.DurationJitter)
	iterations := profile.MinIterations
	if span := profile.MaxIterations - profile.MinIterations; span > 0 {
		iterations += s.rng.IntN(span + 1)
	}

	var errs []string
	for range iterations {
		if s.rng.Float64() < profile.ErrorRate {
			errs = append(errs, simulatedErrors[s.rng.IntN(len(simulatedErrors))])
		}
	}

	used := 0
	for range iterations {
		// ±25% around the profile mean
		response := float64(profile.ResponseTokens) * (0.75 + s.rng.Float64()*0.5)
		used += promptTokens + int(response)
	}

	id := req.TaskID
	if id == "" {
		id = uuid.NewString()
	}

	start := s.clock
	s.clock += duration

	return models.TaskRecord{
		TaskID:     id,
		TaskType:   req.TaskType,
		StartTime:  start,
		EndTime:    start + duration,
		Success:    s.rng.Float64() < profile.SuccessRate,
		Iterations: iterations,
		TokensUsed: used,
		Errors:     errs,
		Method:     req.Method,
	}, nil
}
