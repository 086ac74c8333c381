// Package report assembles a ComparisonReport from a baseline and an
// enhanced population. Building is a pure function of the population at call
// time; nothing is cached between calls.
package report

import (
	"log/slog"
	"time"

	"github.com/spboyer/promptlift/internal/breakdown"
	"github.com/spboyer/promptlift/internal/metrics"
	"github.com/spboyer/promptlift/internal/models"
	"github.com/spboyer/promptlift/internal/scoring"
	"github.com/spboyer/promptlift/internal/statistics"
)

// DefaultHourlyRate is the rate DefaultOptions prices saved hours at.
const DefaultHourlyRate = 50.0

const secondsPerHour = 3600.0

// Options tunes report assembly.
type Options struct {
	// HourlyRate converts saved hours into estimated_cost_savings. Zero is
	// honoured and yields no cost savings.
	HourlyRate float64
	// IncludeTaskTypes adds the per-task-type breakdown.
	IncludeTaskTypes bool
	// IncludeStatistics adds the bootstrap/effect-size block.
	IncludeStatistics bool
	// Seed makes bootstrap intervals reproducible; negative is random.
	Seed int64
	// Calculator overrides the default weighted scorer.
	Calculator *scoring.Calculator
	// Now stamps the summary; defaults to time.Now.
	Now func() time.Time
	// Logger receives warnings about skipped task types; defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns the options used by the CLI when nothing is configured.
func DefaultOptions() Options {
	return Options{
		HourlyRate:        DefaultHourlyRate,
		IncludeTaskTypes:  true,
		IncludeStatistics: true,
		Seed:              -1,
	}
}

// Build assembles the comparison report. It returns models.ErrInsufficientData
// when either population is empty.
func Build(pop *models.Population, opts Options) (*models.ComparisonReport, error) {
	if pop.Empty() {
		return nil, models.ErrInsufficientData
	}
	opts = withDefaults(opts)

	baseline, enhanced := pop.Baseline, pop.Enhanced
	scores := opts.Calculator.Compute(baseline, enhanced)
	rounded := scores.Rounded()

	r := &models.ComparisonReport{
		Summary: models.ScoreSummary{
			EfficiencyScore:      rounded.Efficiency,
			QualityScore:         rounded.Quality,
			TokenEfficiency:      rounded.TokenEfficiency,
			IterationImprovement: rounded.IterationImprovement,
			OverallScore:         rounded.Overall,
			Timestamp:            opts.Now(),
		},
		Baseline:     metrics.Summarize(baseline),
		Enhanced:     metrics.Summarize(enhanced),
		Improvements: ComputeImprovements(baseline, enhanced),
		ROI:          ComputeROI(baseline, enhanced, scores, opts.HourlyRate),
	}

	if opts.IncludeTaskTypes {
		r.TaskTypeAnalysis = breakdown.ToAnalysis(breakdown.ByTaskType(baseline, enhanced))
		if skipped := breakdown.Skipped(baseline, enhanced); len(skipped) > 0 {
			opts.Logger.Warn("task types present in only one population were left out of the breakdown",
				"task_types", skipped)
		}
	}

	if opts.IncludeStatistics {
		r.Statistics = ComputeStatistics(baseline, enhanced, opts.Seed)
	}

	return r, nil
}

// ComputeImprovements returns the baseline-minus-enhanced deltas, rounded to
// two decimals.
func ComputeImprovements(baseline, enhanced []models.TaskRecord) models.Improvements {
	return models.Improvements{
		TimeSavedPerTask:    metrics.Round(metrics.AvgDuration(baseline)-metrics.AvgDuration(enhanced), 2),
		SuccessRateIncrease: metrics.Round((metrics.SuccessRate(enhanced)-metrics.SuccessRate(baseline))*100, 2),
		IterationReduction:  metrics.Round(metrics.AvgIterations(baseline)-metrics.AvgIterations(enhanced), 2),
		TokenSavings:        metrics.Round(metrics.AvgTokens(baseline)-metrics.AvgTokens(enhanced), 2),
		ErrorReduction:      metrics.TotalErrors(baseline) - metrics.TotalErrors(enhanced),
	}
}

// ComputeROI converts the total duration difference into hours and cost.
// Productivity and quality increases mirror the efficiency and quality scores.
// Hours keep four decimals since they are usually fractional; cost is priced
// from the unrounded hours.
func ComputeROI(baseline, enhanced []models.TaskRecord, scores scoring.Scores, hourlyRate float64) models.ROIMetrics {
	hours := TimeSavedHours(baseline, enhanced)
	return models.ROIMetrics{
		TotalTimeSavedHours:  metrics.Round(hours, 4),
		EstimatedCostSavings: metrics.Round(hours*hourlyRate, 2),
		ProductivityIncrease: metrics.Round(scores.Efficiency, 2),
		QualityIncrease:      metrics.Round(scores.Quality, 2),
	}
}

// TimeSavedHours is (total baseline time - total enhanced time) / 3600.
func TimeSavedHours(baseline, enhanced []models.TaskRecord) float64 {
	return (metrics.TotalDuration(baseline) - metrics.TotalDuration(enhanced)) / secondsPerHour
}

// ComputeStatistics derives the descriptive statistics block.
func ComputeStatistics(baseline, enhanced []models.TaskRecord, seed int64) *models.StatisticalSummary {
	baseDur := metrics.Durations(baseline)
	enhDur := metrics.Durations(enhanced)
	effect := metrics.EffectSize(baseDur, enhDur)
	resampler := statistics.NewResampler(seed)

	return &models.StatisticalSummary{
		EffectSize:            metrics.Round(effect, 4),
		EffectMagnitude:       metrics.EffectMagnitude(effect),
		BaselineDurationCI:    resampler.MeanInterval(baseDur),
		EnhancedDurationCI:    resampler.MeanInterval(enhDur),
		NormalizedSuccessGain: metrics.Round(statistics.NormalizedGain(metrics.SuccessRate(baseline), metrics.SuccessRate(enhanced)), 4),
	}
}

func withDefaults(opts Options) Options {
	if opts.Calculator == nil {
		opts.Calculator = defaultCalculator
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return opts
}

var defaultCalculator, _ = scoring.NewCalculator(scoring.DefaultWeights)
