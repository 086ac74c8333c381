package reporting

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spboyer/promptlift/internal/models"
	"github.com/spboyer/promptlift/internal/scoring"
)

// InterpretScore returns a plain-language label for an overall score (0–100).
func InterpretScore(overall float64) string {
	switch scoring.LevelFor(overall) {
	case scoring.ImpactHigh:
		return "High impact (≥40)"
	case scoring.ImpactModerate:
		return "Moderate impact (20-40)"
	case scoring.ImpactLow:
		return "Low impact (<20)"
	default:
		return "No measurable impact"
	}
}

// InterpretSuccessChange explains a success-rate change in percentage points.
func InterpretSuccessChange(pp float64) string {
	switch {
	case pp > 0:
		return fmt.Sprintf("Generated prompts succeeded more often (+%.1f pp)", pp)
	case pp < 0:
		return fmt.Sprintf("Generated prompts succeeded less often (%.1f pp)", pp)
	default:
		return "Success rate is unchanged"
	}
}

// InterpretEffect explains an effect size and its magnitude label.
func InterpretEffect(effect float64, magnitude string) string {
	if effect == 0 {
		return "No normalized effect (no baseline variance or too few tasks)."
	}
	direction := "faster"
	if effect < 0 {
		direction = "slower"
	}
	return fmt.Sprintf("Enhanced tasks were %s with a %s effect (d=%.2f).", direction, magnitude, effect)
}

// FormatSummaryReport produces a full plain-language report from a ComparisonReport.
func FormatSummaryReport(r *models.ComparisonReport) string {
	var b strings.Builder

	s := r.Summary

	b.WriteString("=== Interpretation ===\n\n")

	b.WriteString(fmt.Sprintf("Overall Score: %.2f, %s\n", s.OverallScore, InterpretScore(s.OverallScore)))
	b.WriteString(fmt.Sprintf("Efficiency:    %.2f%% less time per task\n", s.EfficiencyScore))
	b.WriteString(fmt.Sprintf("Quality:       %.2f\n", s.QualityScore))
	b.WriteString(fmt.Sprintf("Tokens:        %.2f%% fewer tokens per success\n", s.TokenEfficiency))
	b.WriteString(fmt.Sprintf("Iterations:    %.2f%% fewer iterations\n", s.IterationImprovement))
	b.WriteString(fmt.Sprintf("Success:       %s\n", InterpretSuccessChange(r.Improvements.SuccessRateIncrease)))
	b.WriteString(fmt.Sprintf("Tasks:         %d baseline, %d enhanced\n", r.Baseline.TotalTasks, r.Enhanced.TotalTasks))

	roi := r.ROI
	b.WriteString(fmt.Sprintf("Time saved:    %.2f hours (≈ %.2f in cost)\n", roi.TotalTimeSavedHours, roi.EstimatedCostSavings))

	if st := r.Statistics; st != nil {
		b.WriteString(fmt.Sprintf("Effect:        %s\n", InterpretEffect(st.EffectSize, st.EffectMagnitude)))
	}

	// Per-type interpretation
	if len(r.TaskTypeAnalysis) > 0 {
		b.WriteString("\nPer-Task-Type Interpretation:\n")
		for _, name := range sortedTypes(r.TaskTypeAnalysis) {
			a := r.TaskTypeAnalysis[name]
			icon := "✓"
			if !improved(a) {
				icon = "✗"
			}
			b.WriteString(fmt.Sprintf("  %s %s (%d vs %d tasks)\n", icon, name, a.BaselineTasks, a.EnhancedTasks))
			b.WriteString(fmt.Sprintf("    time -%.2f%%, tokens -%.2f%%, iterations -%.2f%%, success %+.2f pp, distinct errors %+d\n",
				a.TimeImprovementPercent, a.TokenImprovementPercent, a.IterationImprovementPercent,
				a.SuccessRateImprovementPercent, -a.ErrorReduction))
		}
	}

	return b.String()
}

// improved reports whether any dimension of a task type got better.
func improved(a models.TaskTypeAnalysis) bool {
	return a.TimeImprovementPercent > 0 ||
		a.TokenImprovementPercent > 0 ||
		a.IterationImprovementPercent > 0 ||
		a.SuccessRateImprovementPercent > 0 ||
		a.ErrorReduction > 0
}

func sortedTypes(m map[string]models.TaskTypeAnalysis) []string {
	return slices.Sorted(maps.Keys(m))
}
