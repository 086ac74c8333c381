package reporting

import (
	"time"

	"github.com/spboyer/promptlift/internal/models"
)

func newTestReport() *models.ComparisonReport {
	return &models.ComparisonReport{
		Summary: models.ScoreSummary{
			EfficiencyScore:      40,
			QualityScore:         41.67,
			TokenEfficiency:      25,
			IterationImprovement: 37.5,
			OverallScore:         38.42,
			Timestamp:            time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		Baseline: models.PopulationSummary{TotalTasks: 3, SuccessfulTasks: 2, AvgDuration: 266.67, AvgIterations: 4, AvgTokens: 1000, TotalErrors: 3},
		Enhanced: models.PopulationSummary{TotalTasks: 2, SuccessfulTasks: 2, AvgDuration: 180, AvgIterations: 2.5, AvgTokens: 800, TotalErrors: 1},
		Improvements: models.Improvements{
			TimeSavedPerTask:    86.67,
			SuccessRateIncrease: 33.33,
			IterationReduction:  1.5,
			TokenSavings:        200,
			ErrorReduction:      2,
		},
		TaskTypeAnalysis: map[string]models.TaskTypeAnalysis{
			"code": {
				TimeImprovementPercent:        40,
				TokenImprovementPercent:       20,
				SuccessRateImprovementPercent: 50,
				IterationImprovementPercent:   50,
				ErrorReduction:                1,
				BaselineTasks:                 2,
				EnhancedTasks:                 2,
			},
			"review|diff": {
				SuccessRateImprovementPercent: -10,
				ErrorReduction:                -1,
				BaselineTasks:                 1,
				EnhancedTasks:                 1,
			},
		},
		ROI: models.ROIMetrics{
			TotalTimeSavedHours:  0.1222,
			EstimatedCostSavings: 6.11,
			ProductivityIncrease: 40,
			QualityIncrease:      41.67,
		},
		Statistics: &models.StatisticalSummary{
			EffectSize:      1.4142,
			EffectMagnitude: "large",
			BaselineDurationCI: models.DurationInterval{
				Lower: 200, Upper: 300, Mean: 266.67, ConfidenceLevel: 0.95, NumBootstraps: 1000,
			},
			EnhancedDurationCI: models.DurationInterval{
				Lower: 180, Upper: 180, Mean: 180, ConfidenceLevel: 0.95, NumBootstraps: 1000,
			},
			NormalizedSuccessGain: 1,
		},
	}
}
