package metrics

import "math"

// Mean computes the arithmetic mean of a float64 slice.
// Returns 0 for empty input.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return Sum(values) / float64(len(values))
}

// Sum adds up a float64 slice.
func Sum(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum
}

// Variance computes the population variance of a float64 slice.
// Returns 0 for empty input.
func Variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return sumSquaredDeviations(values) / float64(len(values))
}

// StdDev computes the population standard deviation.
func StdDev(values []float64) float64 {
	return math.Sqrt(Variance(values))
}

// SampleStdDev computes the sample standard deviation (Bessel's correction).
// Returns 0 when fewer than 2 data points are available.
func SampleStdDev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	return math.Sqrt(sumSquaredDeviations(values) / float64(n-1))
}

// EffectSize returns the baseline-normalized mean difference
//
//	(mean(baseline) - mean(treatment)) / stdev(baseline)
//
// using the sample standard deviation of the baseline. A baseline without
// variance has no normalized effect, so 0 is returned in that case.
func EffectSize(baseline, treatment []float64) float64 {
	sd := SampleStdDev(baseline)
	if sd == 0 {
		return 0
	}
	return (Mean(baseline) - Mean(treatment)) / sd
}

// EffectMagnitude labels an effect size with Cohen's conventional thresholds.
func EffectMagnitude(d float64) string {
	switch a := math.Abs(d); {
	case a < 0.2:
		return "negligible"
	case a < 0.5:
		return "small"
	case a < 0.8:
		return "medium"
	default:
		return "large"
	}
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func sumSquaredDeviations(values []float64) float64 {
	m := Mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return sumSq
}
