package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spboyer/promptlift/internal/dataset"
	"github.com/spboyer/promptlift/internal/models"
	"github.com/spboyer/promptlift/internal/projectconfig"
	"github.com/spboyer/promptlift/internal/report"
	"github.com/spboyer/promptlift/internal/reporting"
	"github.com/spboyer/promptlift/internal/scoring"
	"github.com/spboyer/promptlift/internal/store"
	"github.com/spf13/cobra"
)

type reportOptions struct {
	records      string
	fromStore    string
	backend      string
	format       string
	outPath      string
	junitPath    string
	metricsFile  string
	interpret    bool
	hourlyRate   float64
	noTaskTypes  bool
	noStatistics bool
	failUnder    float64
	minImpact    string
	seed         int64
}

func newReportCommand() *cobra.Command {
	opts := &reportOptions{}
	cmd := &cobra.Command{
		Use:   "report [<baseline> <enhanced>]",
		Short: "Build a comparison report from task records",
		Long: `Build a comparison report from a baseline and an enhanced population.

Populations are read from two record files (CSV, JSON, JSONL, optionally
gzipped), from a single file holding both methods (--records), or from a
record store written by 'promptlift collect' (--from-store).

Exit code 1 means the overall score is below --fail-under or its impact level
is below --min-impact; exit code 2 means
the report could not be built, for example because a population is empty.`,
		Args: cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return reportCommandE(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.records, "records", "", "Single record file holding both populations, split by method")
	cmd.Flags().StringVar(&opts.fromStore, "from-store", "", "Read populations from a record store directory")
	cmd.Flags().StringVar(&opts.backend, "store", "", "Backend of --from-store: jsonl or badger (default from config)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Output format: json, table, markdown or html (default from config: json)")
	cmd.Flags().StringVarP(&opts.outPath, "out", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().StringVar(&opts.junitPath, "junit", "", "Also write a JUnit XML summary to this path")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "Also write report gauges in Prometheus text format")
	cmd.Flags().BoolVar(&opts.interpret, "interpret", false, "Print a plain-language interpretation to stderr")
	cmd.Flags().Float64Var(&opts.hourlyRate, "hourly-rate", 0, "Hourly rate used for cost savings (default from config: 50)")
	cmd.Flags().BoolVar(&opts.noTaskTypes, "no-task-types", false, "Leave out the per-task-type breakdown")
	cmd.Flags().BoolVar(&opts.noStatistics, "no-statistics", false, "Leave out effect size and confidence intervals")
	cmd.Flags().Float64Var(&opts.failUnder, "fail-under", 0, "Exit with code 1 when the overall score is below this value")
	cmd.Flags().StringVar(&opts.minImpact, "min-impact", "", "Exit with code 1 when the impact level is below none, low, moderate or high")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "Seed for reproducible bootstrap intervals")

	return cmd
}

func reportCommandE(cmd *cobra.Command, args []string, opts *reportOptions) error {
	cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}
	applyReportFlags(cmd, opts, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	format, err := reporting.ParseFormat(cfg.Report.Format)
	if err != nil {
		return err
	}
	minImpact := scoring.ImpactNone
	if opts.minImpact != "" {
		if minImpact, err = scoring.ParseImpactLevel(opts.minImpact); err != nil {
			return err
		}
	}

	pop, err := loadReportPopulation(cmd, args, opts, cfg)
	if err != nil {
		return err
	}

	buildOpts := report.DefaultOptions()
	buildOpts.HourlyRate = cfg.Report.Rate()
	buildOpts.IncludeTaskTypes = cfg.Report.TaskTypes == nil || *cfg.Report.TaskTypes
	buildOpts.IncludeStatistics = cfg.Report.Statistics == nil || *cfg.Report.Statistics
	if cfg.Report.Seed != nil {
		buildOpts.Seed = *cfg.Report.Seed
	}
	buildOpts.Logger = slog.Default()

	r, err := report.Build(pop, buildOpts)
	if err != nil {
		if errors.Is(err, models.ErrInsufficientData) {
			return fmt.Errorf("cannot build report (%d baseline, %d enhanced tasks): %w",
				len(pop.Baseline), len(pop.Enhanced), err)
		}
		return err
	}

	if err := writeReport(cmd.OutOrStdout(), opts.outPath, format, r); err != nil {
		return err
	}

	if opts.junitPath != "" {
		jopts := reporting.JUnitOptions{}
		if cmd.Flags().Changed("fail-under") {
			jopts.MinOverall = opts.failUnder
		}
		if err := reporting.WriteJUnitXML(r, jopts, opts.junitPath); err != nil {
			return err
		}
	}
	if cfg.Metrics.Textfile != "" {
		if err := reporting.WriteTextfile(r, cfg.Metrics.Textfile); err != nil {
			return err
		}
	}
	if opts.interpret {
		fmt.Fprintln(cmd.ErrOrStderr(), reporting.FormatSummaryReport(r))
	}

	overall := r.Summary.OverallScore
	if cmd.Flags().Changed("fail-under") && overall < opts.failUnder {
		return &ThresholdError{Message: fmt.Sprintf("overall score %.2f is below --fail-under %.2f", overall, opts.failUnder)}
	}
	if level := scoring.LevelFor(overall); !level.AtLeast(minImpact) {
		return &ThresholdError{Message: fmt.Sprintf("impact level %s (overall score %.2f) is below --min-impact %s", level, overall, minImpact)}
	}
	return nil
}

func applyReportFlags(cmd *cobra.Command, opts *reportOptions, cfg *projectconfig.ProjectConfig) {
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Report.Format = opts.format
	}
	if flags.Changed("hourly-rate") {
		cfg.Report.HourlyRate = &opts.hourlyRate
	}
	if opts.noTaskTypes {
		cfg.Report.TaskTypes = new(bool)
	}
	if opts.noStatistics {
		cfg.Report.Statistics = new(bool)
	}
	if flags.Changed("seed") {
		cfg.Report.Seed = &opts.seed
	}
	if flags.Changed("store") {
		cfg.Store.Backend = opts.backend
	}
	if flags.Changed("metrics-file") {
		cfg.Metrics.Textfile = opts.metricsFile
	}
}

func loadReportPopulation(cmd *cobra.Command, args []string, opts *reportOptions, cfg *projectconfig.ProjectConfig) (*models.Population, error) {
	sources := 0
	for _, set := range []bool{len(args) > 0, opts.records != "", opts.fromStore != ""} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		return nil, errors.New("give either <baseline> <enhanced>, --records or --from-store")
	}

	switch {
	case opts.records != "":
		return dataset.LoadMixed(opts.records)
	case opts.fromStore != "":
		if _, err := os.Stat(opts.fromStore); err != nil {
			return nil, fmt.Errorf("opening record store: %w", err)
		}
		st, err := store.Open(cfg.Store.Backend, opts.fromStore, store.Options{
			Compress: cfg.Store.Compress != nil && *cfg.Store.Compress,
			Logger:   slog.Default(),
		})
		if err != nil {
			return nil, fmt.Errorf("opening record store: %w", err)
		}
		defer st.Close()
		return st.Population(cmd.Context())
	case len(args) == 2:
		return dataset.LoadPopulation(args[0], args[1])
	}
	return nil, errors.New("report needs both a <baseline> and an <enhanced> record file")
}

func writeReport(stdout io.Writer, path string, format reporting.Format, r *models.ComparisonReport) error {
	if path == "" {
		return reporting.Render(stdout, format, r)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	if err := reporting.Render(f, format, r); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing report file: %w", err)
	}
	fmt.Fprintf(stdout, "Report written to %s\n", path)
	return nil
}
