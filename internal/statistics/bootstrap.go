// Package statistics provides descriptive resampling statistics used to
// qualify a comparison report. Nothing here tests hypotheses.
package statistics

import (
	"math"
	"math/rand/v2"
	"slices"

	"github.com/spboyer/promptlift/internal/metrics"
	"github.com/spboyer/promptlift/internal/models"
)

// Defaults for a Resampler.
const (
	DefaultResamples       = 10000
	DefaultConfidenceLevel = 0.95
)

// Resampler computes percentile bootstrap intervals of a sample mean. A
// Resampler is not safe for concurrent use; successive calls draw from the
// same stream, so a seeded Resampler yields the same intervals for the same
// sequence of calls.
type Resampler struct {
	Resamples int
	Level     float64

	rng *rand.Rand
}

// NewResampler returns a Resampler with the default resample count and level.
// A negative seed draws from a random source.
func NewResampler(seed int64) *Resampler {
	var src rand.Source
	if seed >= 0 {
		src = rand.NewPCG(uint64(seed), uint64(seed)>>1|1)
	} else {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Resampler{
		Resamples: DefaultResamples,
		Level:     DefaultConfidenceLevel,
		rng:       rand.New(src),
	}
}

// MeanInterval resamples durations with replacement and returns the central
// Level share of the resampled means around the sample mean. Fewer than two
// durations give a zero-width interval with no resamples.
func (r *Resampler) MeanInterval(durations []float64) models.DurationInterval {
	iv := models.DurationInterval{
		Mean:            metrics.Mean(durations),
		ConfidenceLevel: r.Level,
	}
	if len(durations) < 2 || r.Resamples <= 0 {
		iv.Lower, iv.Upper = iv.Mean, iv.Mean
		return iv
	}

	means := make([]float64, r.Resamples)
	for i := range means {
		sum := 0.0
		for range durations {
			sum += durations[r.rng.IntN(len(durations))]
		}
		means[i] = sum / float64(len(durations))
	}
	slices.Sort(means)

	tail := (1 - r.Level) / 2
	iv.Lower = percentile(means, tail)
	iv.Upper = percentile(means, 1-tail)
	iv.NumBootstraps = r.Resamples
	return iv
}

// percentile picks the nearest-rank value at q from sorted.
func percentile(sorted []float64, q float64) float64 {
	i := int(math.Ceil(q*float64(len(sorted)))) - 1
	return sorted[min(max(i, 0), len(sorted)-1)]
}

// NormalizedGain is Hake's gain (post - pre) / (1 - pre) for two rates in
// [0, 1]. It is 0 when pre is already 1 or nothing changed, and 1 when post
// reaches 1.
func NormalizedGain(pre, post float64) float64 {
	switch {
	case pre >= 1:
		return 0
	case post >= 1:
		return 1
	case math.Abs(post-pre) < 1e-12:
		return 0
	}
	return (post - pre) / (1 - pre)
}
