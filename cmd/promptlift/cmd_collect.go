package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spboyer/promptlift/internal/collector"
	"github.com/spboyer/promptlift/internal/models"
	"github.com/spboyer/promptlift/internal/projectconfig"
	"github.com/spboyer/promptlift/internal/spinner"
	"github.com/spboyer/promptlift/internal/store"
	"github.com/spboyer/promptlift/internal/template"
	"github.com/spboyer/promptlift/internal/tokens"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

type collectOptions struct {
	tasksPerType int
	taskTypes    []string
	outDir       string
	backend      string
	compress     bool
	seed         int64
	workers      int
	maxAttempts  int
	rateLimit    float64
	failureRate  float64
	encoding     string
	metricsFile  string
}

func newCollectCommand() *cobra.Command {
	opts := &collectOptions{}
	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Simulate baseline and enhanced task populations",
		Long: `Simulate task executions for every task type, once with the manual prompt
(baseline) and once with the generated prompt (enhanced), and store the
records.

With the jsonl store, records are written to baseline.jsonl and
enhanced.jsonl (or .jsonl.gz with --compress) in the output directory.
With the badger store, the output directory holds a Badger database.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return collectCommandE(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.tasksPerType, "tasks-per-type", "n", 0, "Tasks per task type and method (default from config: 10)")
	cmd.Flags().StringArrayVar(&opts.taskTypes, "task-type", nil, "Task type to simulate (can be repeated)")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "", "Output directory (default from config: records/)")
	cmd.Flags().StringVar(&opts.backend, "store", "", "Record store: jsonl or badger")
	cmd.Flags().BoolVar(&opts.compress, "compress", false, "Gzip JSONL record files")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "Seed for a reproducible simulation (collects sequentially)")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "Number of concurrent collectors")
	cmd.Flags().IntVar(&opts.maxAttempts, "max-attempts", 0, "Attempts per task, including the first")
	cmd.Flags().Float64Var(&opts.rateLimit, "rate-limit", 0, "Maximum attempts per second (0 = unlimited)")
	cmd.Flags().Float64Var(&opts.failureRate, "failure-rate", 0, "Probability that a simulated attempt fails transiently")
	cmd.Flags().StringVar(&opts.encoding, "encoding", "", "Token counter: estimate, a tiktoken encoding or a model name")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "Write collection metrics in Prometheus text format")

	return cmd
}

// applyCollectFlags overlays explicitly set flags onto the loaded config.
func applyCollectFlags(cmd *cobra.Command, opts *collectOptions, cfg *projectconfig.ProjectConfig) error {
	flags := cmd.Flags()
	if flags.Changed("tasks-per-type") {
		cfg.Collect.TasksPerType = opts.tasksPerType
	}
	if flags.Changed("task-type") {
		cfg.Collect.TaskTypes = opts.taskTypes
	}
	if flags.Changed("out") {
		cfg.Paths.Records = opts.outDir
	}
	if flags.Changed("store") {
		cfg.Store.Backend = opts.backend
	}
	if flags.Changed("compress") {
		cfg.Store.Compress = &opts.compress
	}
	if flags.Changed("seed") {
		cfg.Collect.Seed = &opts.seed
	}
	if flags.Changed("workers") {
		cfg.Collect.Workers = opts.workers
	}
	if flags.Changed("max-attempts") {
		cfg.Collect.MaxAttempts = opts.maxAttempts
	}
	if flags.Changed("rate-limit") {
		cfg.Collect.RateLimit = opts.rateLimit
	}
	if flags.Changed("encoding") {
		cfg.Collect.Encoding = opts.encoding
	}
	if flags.Changed("metrics-file") {
		cfg.Metrics.Textfile = opts.metricsFile
	}
	if opts.failureRate < 0 || opts.failureRate >= 1 {
		return fmt.Errorf("--failure-rate must be in [0, 1), got %v", opts.failureRate)
	}
	return cfg.Validate()
}

func collectCommandE(cmd *cobra.Command, opts *collectOptions) error {
	cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}
	if err := applyCollectFlags(cmd, opts, cfg); err != nil {
		return err
	}

	gen, err := template.NewGenerator(nil, nil)
	if err != nil {
		return err
	}
	plan, err := collector.BuildPlan(gen, cfg.Collect.TaskTypes, cfg.Collect.TasksPerType)
	if err != nil {
		return fmt.Errorf("planning collection: %w", err)
	}

	counter, err := tokens.NewCounter(tokens.Tokenizer(cfg.Collect.Encoding))
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	recorder, err := collector.NewPrometheusRecorder(registry)
	if err != nil {
		return err
	}

	runnerOpts := collector.RunnerOptions{
		Workers:     cfg.Collect.Workers,
		MaxAttempts: cfg.Collect.MaxAttempts,
		RetryDelay:  cfg.Collect.RetryDelay,
		Recorder:    recorder,
		Logger:      slog.Default(),
	}
	if cfg.Collect.Seed != nil {
		// The simulator draws from one shared stream; only a sequential run
		// hands out the draws in request order.
		runnerOpts.Workers = 1
	}
	if cfg.Collect.RateLimit > 0 {
		runnerOpts.Limiter = rate.NewLimiter(rate.Limit(cfg.Collect.RateLimit), 1)
	}
	var sp *spinner.Spinner
	if spinner.Interactive(cmd.ErrOrStderr()) {
		sp = spinner.Start(cmd.ErrOrStderr(), "Collecting tasks")
		runnerOpts.Progress = sp.Progress
	}

	sim := collector.NewSimulator(collector.SimulatorOptions{
		Seed:        cfg.Collect.Seed,
		Counter:     counter,
		FailureRate: opts.failureRate,
	})
	runner := collector.NewRunner(sim, runnerOpts)

	reqs := make([]collector.Request, 0, len(plan.Baseline)+len(plan.Enhanced))
	reqs = append(reqs, plan.Baseline...)
	reqs = append(reqs, plan.Enhanced...)

	ctx := cmd.Context()
	records, err := collectWithProgress(ctx, runner, reqs, sp)
	if err != nil {
		return fmt.Errorf("collecting tasks: %w", err)
	}

	st, err := store.Open(cfg.Store.Backend, cfg.Paths.Records, store.Options{
		Compress: cfg.Store.Compress != nil && *cfg.Store.Compress,
		Logger:   slog.Default(),
	})
	if err != nil {
		return fmt.Errorf("opening record store: %w", err)
	}
	if err := st.Append(ctx, records...); err != nil {
		_ = st.Close()
		return fmt.Errorf("storing records: %w", err)
	}
	if err := st.Close(); err != nil {
		return fmt.Errorf("closing record store: %w", err)
	}

	if cfg.Metrics.Textfile != "" {
		if err := prometheus.WriteToTextfile(cfg.Metrics.Textfile, registry); err != nil {
			return fmt.Errorf("writing metrics textfile: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Collected %d baseline and %d enhanced tasks across %d task type(s)\n",
		len(plan.Baseline), len(plan.Enhanced), len(cfg.Collect.TaskTypes))
	if js, ok := st.(*store.JSONLStore); ok {
		fmt.Fprintf(out, "  baseline: %s\n", js.Path(models.MethodManual))
		fmt.Fprintf(out, "  enhanced: %s\n", js.Path(models.MethodGenerated))
	} else {
		fmt.Fprintf(out, "  store:    %s (%s)\n", cfg.Paths.Records, cfg.Store.Backend)
	}
	return nil
}

// collectWithProgress runs reqs and clears sp before returning, so nothing
// printed afterwards shares a line with the spinner.
func collectWithProgress(ctx context.Context, r *collector.Runner, reqs []collector.Request, sp *spinner.Spinner) ([]models.TaskRecord, error) {
	defer sp.Stop()
	return r.CollectPopulation(ctx, reqs)
}
