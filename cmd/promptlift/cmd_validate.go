package main

import (
	"errors"
	"fmt"

	"github.com/spboyer/promptlift/internal/dataset"
	"github.com/spboyer/promptlift/internal/models"
	"github.com/spf13/cobra"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <records> [records...]",
		Short: "Check record files against the record schema and invariants",
		Long: `Check task record files (CSV, JSON, JSONL, optionally gzipped).

JSON and JSONL files are validated against the record schema; every record
is then checked for end_time >= start_time, non-negative iterations and
tokens_used, and a known method. All problems of a file are listed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: validateCommandE,
	}
}

func validateCommandE(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	failed := 0
	for _, path := range args {
		records, err := dataset.Load(path)
		if err != nil {
			failed++
			var invalid *dataset.InvalidRecordsError
			if errors.As(err, &invalid) {
				fmt.Fprintf(out, "✗ %s: %d invalid record(s)\n", path, len(invalid.Problems))
				for _, p := range invalid.Problems {
					fmt.Fprintf(out, "    %s\n", p)
				}
				continue
			}
			fmt.Fprintf(out, "✗ %s: %v\n", path, err)
			continue
		}

		pop := models.PopulationFromRecords(records)
		fmt.Fprintf(out, "✓ %s: %d record(s) (%d baseline, %d enhanced)\n",
			path, len(records), len(pop.Baseline), len(pop.Enhanced))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed validation", failed, len(args))
	}
	return nil
}
