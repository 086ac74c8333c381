package metrics

import "github.com/spboyer/promptlift/internal/models"

// Durations extracts every record's duration in seconds.
func Durations(records []models.TaskRecord) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.Duration()
	}
	return out
}

// AvgDuration is the mean duration in seconds; 0 for no records.
func AvgDuration(records []models.TaskRecord) float64 {
	return Mean(Durations(records))
}

// TotalDuration is the summed duration in seconds.
func TotalDuration(records []models.TaskRecord) float64 {
	return Sum(Durations(records))
}

// SuccessCount counts successful records.
func SuccessCount(records []models.TaskRecord) int {
	n := 0
	for _, r := range records {
		if r.Success {
			n++
		}
	}
	return n
}

// SuccessRate is the fraction (0-1) of successful records; 0 for no records.
func SuccessRate(records []models.TaskRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	return float64(SuccessCount(records)) / float64(len(records))
}

// AvgIterations is the mean iteration count; 0 for no records.
func AvgIterations(records []models.TaskRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	total := 0
	for _, r := range records {
		total += r.Iterations
	}
	return float64(total) / float64(len(records))
}

// AvgTokens is the mean token usage over all records; 0 for no records.
func AvgTokens(records []models.TaskRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	total := 0
	for _, r := range records {
		total += r.TokensUsed
	}
	return float64(total) / float64(len(records))
}

// TotalErrors sums the error counts of all records.
func TotalErrors(records []models.TaskRecord) int {
	total := 0
	for _, r := range records {
		total += r.ErrorCount()
	}
	return total
}

// AvgErrors is the mean error count per record; 0 for no records.
func AvgErrors(records []models.TaskRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	return float64(TotalErrors(records)) / float64(len(records))
}

// TokensPerSuccess divides the tokens spent by successful records by the
// number of successful records, using max(count, 1) as the denominator.
func TokensPerSuccess(records []models.TaskRecord) float64 {
	tokens, successes := 0, 0
	for _, r := range records {
		if r.Success {
			tokens += r.TokensUsed
			successes++
		}
	}
	return float64(tokens) / float64(max(successes, 1))
}

// DistinctErrors counts the distinct error messages across records.
func DistinctErrors(records []models.TaskRecord) int {
	seen := make(map[string]struct{})
	for _, r := range records {
		for _, e := range r.Errors {
			seen[e] = struct{}{}
		}
	}
	return len(seen)
}

// Summarize computes the descriptive statistics of one population.
func Summarize(records []models.TaskRecord) models.PopulationSummary {
	return models.PopulationSummary{
		TotalTasks:      len(records),
		SuccessfulTasks: SuccessCount(records),
		AvgDuration:     AvgDuration(records),
		AvgIterations:   AvgIterations(records),
		AvgTokens:       AvgTokens(records),
		TotalErrors:     TotalErrors(records),
	}
}
