// Package breakdown recomputes the improvement percentages inside each task
// type shared by the baseline and enhanced populations.
package breakdown

import (
	"sort"

	"github.com/spboyer/promptlift/internal/metrics"
	"github.com/spboyer/promptlift/internal/models"
	"github.com/spboyer/promptlift/internal/scoring"
)

// TaskTypeResult pairs one task type's baseline and enhanced groups with the
// improvement figures computed between them.
type TaskTypeResult struct {
	TaskType string `json:"task_type"`

	TimeReduction       float64 `json:"time_reduction"`
	SuccessRateIncrease float64 `json:"success_rate_increase"`
	IterationReduction  float64 `json:"iteration_reduction"`
	TokenEfficiency     float64 `json:"token_efficiency"`
	// ErrorReduction is the drop in distinct error messages, not a percentage.
	ErrorReduction int `json:"error_reduction"`

	BaselineTasks int `json:"baseline_tasks"`
	EnhancedTasks int `json:"enhanced_tasks"`
}

// ByTaskType groups both populations by task type and computes a
// TaskTypeResult for every type of the baseline that has at least one
// enhanced record. Types present on only one side are skipped.
func ByTaskType(baseline, enhanced []models.TaskRecord) map[string]TaskTypeResult {
	baseGroups := group(baseline)
	enhGroups := group(enhanced)

	results := make(map[string]TaskTypeResult, len(baseGroups))
	for taskType, base := range baseGroups {
		enh, ok := enhGroups[taskType]
		if !ok {
			continue
		}
		results[taskType] = compute(taskType, base, enh)
	}
	return results
}

// Skipped lists, sorted, the task types that ByTaskType leaves out because
// they appear in only one population.
func Skipped(baseline, enhanced []models.TaskRecord) []string {
	baseGroups := group(baseline)
	enhGroups := group(enhanced)

	var skipped []string
	for t := range baseGroups {
		if _, ok := enhGroups[t]; !ok {
			skipped = append(skipped, t)
		}
	}
	for t := range enhGroups {
		if _, ok := baseGroups[t]; !ok {
			skipped = append(skipped, t)
		}
	}
	sort.Strings(skipped)
	return skipped
}

// TaskTypes returns the sorted keys of a ByTaskType result.
func TaskTypes(results map[string]TaskTypeResult) []string {
	keys := make([]string, 0, len(results))
	for k := range results {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ToAnalysis converts results to the report representation, rounding the
// percentages to two decimals.
func ToAnalysis(results map[string]TaskTypeResult) map[string]models.TaskTypeAnalysis {
	out := make(map[string]models.TaskTypeAnalysis, len(results))
	for k, r := range results {
		out[k] = models.TaskTypeAnalysis{
			TimeImprovementPercent:        metrics.Round(r.TimeReduction, 2),
			TokenImprovementPercent:       metrics.Round(r.TokenEfficiency, 2),
			SuccessRateImprovementPercent: metrics.Round(r.SuccessRateIncrease, 2),
			IterationImprovementPercent:   metrics.Round(r.IterationReduction, 2),
			ErrorReduction:                r.ErrorReduction,
			BaselineTasks:                 r.BaselineTasks,
			EnhancedTasks:                 r.EnhancedTasks,
		}
	}
	return out
}

func compute(taskType string, base, enh []models.TaskRecord) TaskTypeResult {
	return TaskTypeResult{
		TaskType:            taskType,
		TimeReduction:       scoring.Efficiency(base, enh),
		SuccessRateIncrease: (metrics.SuccessRate(enh) - metrics.SuccessRate(base)) * 100,
		IterationReduction:  scoring.IterationImprovement(base, enh),
		TokenEfficiency:     scoring.TokenEfficiency(base, enh),
		ErrorReduction:      metrics.DistinctErrors(base) - metrics.DistinctErrors(enh),
		BaselineTasks:       len(base),
		EnhancedTasks:       len(enh),
	}
}

func group(records []models.TaskRecord) map[string][]models.TaskRecord {
	groups := make(map[string][]models.TaskRecord)
	for _, r := range records {
		groups[r.TaskType] = append(groups[r.TaskType], r)
	}
	return groups
}
