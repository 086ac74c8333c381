package reporting

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spboyer/promptlift/internal/models"
)

// Registry returns a Prometheus registry holding the report as gauges, ready
// for the node_exporter textfile collector or a push gateway.
func Registry(r *models.ComparisonReport) (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()

	score := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "promptlift_score",
		Help: "Comparison scores by component (0-100)",
	}, []string{"component"})
	tasks := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "promptlift_population_tasks",
		Help: "Number of tasks by population and outcome",
	}, []string{"population", "outcome"})
	avgDuration := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "promptlift_population_avg_duration_seconds",
		Help: "Mean task duration by population",
	}, []string{"population"})
	timeSaved := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "promptlift_time_saved_hours",
		Help: "Total time saved by the enhanced population",
	})
	costSaved := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "promptlift_cost_savings",
		Help: "Estimated cost savings at the configured hourly rate",
	})
	taskType := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "promptlift_task_type_improvement",
		Help: "Per-task-type improvement by metric",
	}, []string{"task_type", "metric"})

	for _, c := range []prometheus.Collector{score, tasks, avgDuration, timeSaved, costSaved, taskType} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}

	s := r.Summary
	score.WithLabelValues("efficiency").Set(s.EfficiencyScore)
	score.WithLabelValues("quality").Set(s.QualityScore)
	score.WithLabelValues("token_efficiency").Set(s.TokenEfficiency)
	score.WithLabelValues("iteration_improvement").Set(s.IterationImprovement)
	score.WithLabelValues("overall").Set(s.OverallScore)

	for name, p := range map[string]models.PopulationSummary{"baseline": r.Baseline, "enhanced": r.Enhanced} {
		tasks.WithLabelValues(name, "total").Set(float64(p.TotalTasks))
		tasks.WithLabelValues(name, "success").Set(float64(p.SuccessfulTasks))
		avgDuration.WithLabelValues(name).Set(p.AvgDuration)
	}

	timeSaved.Set(r.ROI.TotalTimeSavedHours)
	costSaved.Set(r.ROI.EstimatedCostSavings)

	for name, a := range r.TaskTypeAnalysis {
		taskType.WithLabelValues(name, "time_percent").Set(a.TimeImprovementPercent)
		taskType.WithLabelValues(name, "token_percent").Set(a.TokenImprovementPercent)
		taskType.WithLabelValues(name, "success_pp").Set(a.SuccessRateImprovementPercent)
		taskType.WithLabelValues(name, "iteration_percent").Set(a.IterationImprovementPercent)
		taskType.WithLabelValues(name, "error_reduction").Set(float64(a.ErrorReduction))
	}

	return reg, nil
}

// WriteTextfile writes the report gauges in the Prometheus text format.
func WriteTextfile(r *models.ComparisonReport, path string) error {
	reg, err := Registry(r)
	if err != nil {
		return err
	}
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
