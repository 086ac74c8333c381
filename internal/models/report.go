package models

import "time"

// ComparisonReport is the assembled baseline-vs-enhanced comparison.
// It is built fresh for every request and never mutated afterwards.
type ComparisonReport struct {
	Summary          ScoreSummary                `json:"summary"`
	Baseline         PopulationSummary           `json:"baseline"`
	Enhanced         PopulationSummary           `json:"enhanced"`
	Improvements     Improvements                `json:"improvements"`
	TaskTypeAnalysis map[string]TaskTypeAnalysis `json:"task_type_analysis,omitempty"`
	ROI              ROIMetrics                  `json:"roi_metrics"`
	Statistics       *StatisticalSummary         `json:"statistics,omitempty"`
}

// ScoreSummary carries the four improvement percentages and the weighted
// overall score, rounded to two decimals.
type ScoreSummary struct {
	EfficiencyScore      float64   `json:"efficiency_score"`
	QualityScore         float64   `json:"quality_score"`
	TokenEfficiency      float64   `json:"token_efficiency"`
	IterationImprovement float64   `json:"iteration_improvement"`
	OverallScore         float64   `json:"overall_score"`
	Timestamp            time.Time `json:"timestamp"`
}

// PopulationSummary holds descriptive statistics of one population.
type PopulationSummary struct {
	TotalTasks      int     `json:"total_tasks"`
	SuccessfulTasks int     `json:"successful_tasks"`
	AvgDuration     float64 `json:"avg_duration"`
	AvgIterations   float64 `json:"avg_iterations"`
	AvgTokens       float64 `json:"avg_tokens"`
	TotalErrors     int     `json:"total_errors"`
}

// Improvements holds raw (non-percentage) baseline minus enhanced deltas.
// SuccessRateIncrease is expressed in percentage points.
type Improvements struct {
	TimeSavedPerTask    float64 `json:"time_saved_per_task"`
	SuccessRateIncrease float64 `json:"success_rate_increase"`
	IterationReduction  float64 `json:"iteration_reduction"`
	TokenSavings        float64 `json:"token_savings"`
	ErrorReduction      int     `json:"error_reduction"`
}

// TaskTypeAnalysis is the per-task-type slice of the comparison.
type TaskTypeAnalysis struct {
	TimeImprovementPercent        float64 `json:"time_improvement_percent"`
	TokenImprovementPercent       float64 `json:"token_improvement_percent"`
	SuccessRateImprovementPercent float64 `json:"success_rate_improvement_percent"`
	IterationImprovementPercent   float64 `json:"iteration_improvement_percent"`
	ErrorReduction                int     `json:"error_reduction"`
	BaselineTasks                 int     `json:"baseline_tasks"`
	EnhancedTasks                 int     `json:"enhanced_tasks"`
}

// ROIMetrics converts the time difference into hours and money.
type ROIMetrics struct {
	TotalTimeSavedHours  float64 `json:"total_time_saved_hours"`
	EstimatedCostSavings float64 `json:"estimated_cost_savings"`
	ProductivityIncrease float64 `json:"productivity_increase"`
	QualityIncrease      float64 `json:"quality_increase"`
}

// DurationInterval is a descriptive interval around a mean duration.
type DurationInterval struct {
	Lower           float64 `json:"lower"`
	Upper           float64 `json:"upper"`
	Mean            float64 `json:"mean"`
	ConfidenceLevel float64 `json:"confidence_level"`
	NumBootstraps   int     `json:"num_bootstraps"`
}

// StatisticalSummary holds descriptive (not hypothesis-tested) statistics.
type StatisticalSummary struct {
	EffectSize            float64          `json:"effect_size"`
	EffectMagnitude       string           `json:"effect_magnitude"`
	BaselineDurationCI    DurationInterval `json:"baseline_duration_ci"`
	EnhancedDurationCI    DurationInterval `json:"enhanced_duration_ci"`
	NormalizedSuccessGain float64          `json:"normalized_success_gain"`
}
