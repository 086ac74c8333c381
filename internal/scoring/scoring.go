// Package scoring turns a baseline and an enhanced population into four
// zero-floored improvement percentages and one weighted overall score.
//
// All functions are pure and recompute from the records on every call.
// Values keep full precision; round with Scores.Rounded at the output boundary.
package scoring

import (
	"errors"
	"fmt"
	"math"

	"github.com/spboyer/promptlift/internal/metrics"
	"github.com/spboyer/promptlift/internal/models"
)

// Fixed metric weights of the overall score.
const (
	EfficiencyWeight      = 0.30
	QualityWeight         = 0.40
	TokenEfficiencyWeight = 0.15
	IterationWeight       = 0.15

	// ZeroTokenScore is reported when enhanced successes consumed no tokens.
	ZeroTokenScore = 100.0

	weightTolerance = 1e-9
)

// Weights are the coefficients of the overall score.
type Weights struct {
	Efficiency           float64 `json:"efficiency"`
	Quality              float64 `json:"quality"`
	TokenEfficiency      float64 `json:"token_efficiency"`
	IterationImprovement float64 `json:"iteration_improvement"`
}

// DefaultWeights is the fixed weighting used by the comparison report.
var DefaultWeights = Weights{
	Efficiency:           EfficiencyWeight,
	Quality:              QualityWeight,
	TokenEfficiency:      TokenEfficiencyWeight,
	IterationImprovement: IterationWeight,
}

// ErrInvalidWeights is wrapped by every Weights.Validate failure.
var ErrInvalidWeights = errors.New("invalid score weights")

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Efficiency + w.Quality + w.TokenEfficiency + w.IterationImprovement
}

// Validate checks that no weight is negative and that the weights sum to 1.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"efficiency":            w.Efficiency,
		"quality":               w.Quality,
		"token_efficiency":      w.TokenEfficiency,
		"iteration_improvement": w.IterationImprovement,
	} {
		if v < 0 {
			return fmt.Errorf("%w: %s weight is negative (%g)", ErrInvalidWeights, name, v)
		}
	}
	if sum := w.Sum(); math.Abs(sum-1.0) > weightTolerance {
		return fmt.Errorf("%w: weights sum to %g, want 1", ErrInvalidWeights, sum)
	}
	return nil
}

// Scores holds the four improvement percentages and the weighted overall.
type Scores struct {
	Efficiency           float64 `json:"efficiency_score"`
	Quality              float64 `json:"quality_score"`
	TokenEfficiency      float64 `json:"token_efficiency"`
	IterationImprovement float64 `json:"iteration_improvement"`
	Overall              float64 `json:"overall_score"`
}

// Rounded returns a copy with every value rounded to two decimals.
func (s Scores) Rounded() Scores {
	return Scores{
		Efficiency:           metrics.Round(s.Efficiency, 2),
		Quality:              metrics.Round(s.Quality, 2),
		TokenEfficiency:      metrics.Round(s.TokenEfficiency, 2),
		IterationImprovement: metrics.Round(s.IterationImprovement, 2),
		Overall:              metrics.Round(s.Overall, 2),
	}
}

// Calculator computes scores with a validated set of weights.
type Calculator struct {
	weights Weights
}

// NewCalculator validates w and returns a Calculator using it.
func NewCalculator(w Weights) (*Calculator, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &Calculator{weights: w}, nil
}

// Weights returns the calculator's weights.
func (c *Calculator) Weights() Weights {
	return c.weights
}

// Compute evaluates all four metrics and the overall score.
func (c *Calculator) Compute(baseline, enhanced []models.TaskRecord) Scores {
	s := Scores{
		Efficiency:           Efficiency(baseline, enhanced),
		Quality:              Quality(baseline, enhanced),
		TokenEfficiency:      TokenEfficiency(baseline, enhanced),
		IterationImprovement: IterationImprovement(baseline, enhanced),
	}
	s.Overall = c.Overall(s)
	return s
}

// Overall combines the four sub-scores of s with the calculator's weights.
func (c *Calculator) Overall(s Scores) float64 {
	return s.Efficiency*c.weights.Efficiency +
		s.Quality*c.weights.Quality +
		s.TokenEfficiency*c.weights.TokenEfficiency +
		s.IterationImprovement*c.weights.IterationImprovement
}

// Compute evaluates the scores with DefaultWeights.
func Compute(baseline, enhanced []models.TaskRecord) Scores {
	return defaultCalculator.Compute(baseline, enhanced)
}

var defaultCalculator = mustCalculator(DefaultWeights)

func mustCalculator(w Weights) *Calculator {
	c, err := NewCalculator(w)
	if err != nil {
		panic(fmt.Sprintf("scoring: %v", err))
	}
	return c
}

// Efficiency is the percentage reduction of the mean task duration.
// Returns 0 when either population is empty or the baseline mean is 0.
func Efficiency(baseline, enhanced []models.TaskRecord) float64 {
	if len(baseline) == 0 || len(enhanced) == 0 {
		return 0
	}
	return reduction(metrics.AvgDuration(baseline), metrics.AvgDuration(enhanced))
}

// Quality averages the success-rate gain (percentage points) and the
// percentage reduction of mean errors per task, floored at 0. The error
// denominator is max(baseline mean errors, 1).
func Quality(baseline, enhanced []models.TaskRecord) float64 {
	if len(baseline) == 0 || len(enhanced) == 0 {
		return 0
	}
	successGain := (metrics.SuccessRate(enhanced) - metrics.SuccessRate(baseline)) * 100

	baseErrors := metrics.AvgErrors(baseline)
	errorReduction := (baseErrors - metrics.AvgErrors(enhanced)) / math.Max(baseErrors, 1) * 100

	return math.Max(0, (successGain+errorReduction)/2)
}

// TokenEfficiency is the percentage reduction of tokens per successful task.
// When the enhanced population spent zero tokens per success the result is
// ZeroTokenScore. A baseline spending zero tokens per success yields 0.
func TokenEfficiency(baseline, enhanced []models.TaskRecord) float64 {
	if len(baseline) == 0 || len(enhanced) == 0 {
		return 0
	}
	enhancedTPS := metrics.TokensPerSuccess(enhanced)
	if enhancedTPS == 0 {
		return ZeroTokenScore
	}
	return reduction(metrics.TokensPerSuccess(baseline), enhancedTPS)
}

// IterationImprovement is the percentage reduction of mean iterations.
// Returns 0 when either population is empty or the baseline mean is 0.
func IterationImprovement(baseline, enhanced []models.TaskRecord) float64 {
	if len(baseline) == 0 || len(enhanced) == 0 {
		return 0
	}
	return reduction(metrics.AvgIterations(baseline), metrics.AvgIterations(enhanced))
}

// reduction returns max(0, (base-value)/base*100), or 0 when base is 0.
func reduction(base, value float64) float64 {
	if base == 0 {
		return 0
	}
	return math.Max(0, (base-value)/base*100)
}
