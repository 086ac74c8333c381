package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spboyer/promptlift/internal/projectconfig"
	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "promptlift",
		Short: "promptlift - measure the impact of generated prompts",
		Long: `promptlift compares task executions driven by manual prompts (baseline)
with executions driven by generated prompts (enhanced).

It scores efficiency, quality, token usage and iteration count, breaks the
results down per task type and estimates the time and cost saved.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	cmd.AddCommand(newCollectCommand())
	cmd.AddCommand(newReportCommand())
	cmd.AddCommand(newCompareCommand())
	cmd.AddCommand(newValidateCommand())
	cmd.AddCommand(newPromptsCommand())

	return cmd
}

func execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return newRootCommand().ExecuteContext(ctx)
}

// loadProjectConfig reads .promptlift.yaml from the working directory or one
// of its parents, with PROMPTLIFT_* overrides applied.
func loadProjectConfig() (*projectconfig.ProjectConfig, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting current directory: %w", err)
	}
	cfg, err := projectconfig.Load(wd)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	slog.Debug("configuration loaded",
		"records", cfg.Paths.Records, "store", cfg.Store.Backend, "format", cfg.Report.Format)
	return cfg, nil
}
