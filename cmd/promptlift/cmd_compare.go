package main

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/spboyer/promptlift/internal/models"
	"github.com/spboyer/promptlift/internal/reporting"
	"github.com/spf13/cobra"
)

var compareOutputFormat string

func newCompareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <report1.json> <report2.json> [report3.json ...]",
		Short: "Compare saved comparison reports",
		Long: `Compare two or more JSON reports written by 'promptlift report' side by side.

Shows every score component per report, the per-task-type time improvement
and the delta between the first and the last report.`,
		Args: cobra.MinimumNArgs(2),
		RunE: compareCommandE,
	}

	cmd.Flags().StringVarP(&compareOutputFormat, "format", "f", "table", "Output format: table or json")

	return cmd
}

// scoreComparison holds one metric across report files.
type scoreComparison struct {
	Metric string    `json:"metric"`
	Values []float64 `json:"values"`
	Delta  float64   `json:"delta"`
}

// taskTypeComparison holds the time improvement of one task type across
// report files. Reports that did not analyse the type hold null.
type taskTypeComparison struct {
	TaskType string     `json:"task_type"`
	Values   []*float64 `json:"time_improvement_percent"`
	Delta    *float64   `json:"delta"`
}

// comparisonReport is the full comparison output.
type comparisonReport struct {
	Files     []string             `json:"files"`
	Scores    []scoreComparison    `json:"scores"`
	TaskTypes []taskTypeComparison `json:"task_types"`
}

func compareCommandE(cmd *cobra.Command, args []string) error {
	if compareOutputFormat != "table" && compareOutputFormat != "json" {
		return fmt.Errorf("unsupported format %q: must be table or json", compareOutputFormat)
	}

	reports := make([]*models.ComparisonReport, 0, len(args))
	for _, path := range args {
		r, err := reporting.ReadJSON(path)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		reports = append(reports, r)
	}

	cmp := buildComparisonReport(args, reports)

	if compareOutputFormat == "json" {
		return printComparisonJSON(cmd.OutOrStdout(), cmp)
	}
	printComparisonTable(cmd.OutOrStdout(), cmp)
	return nil
}

var scoreMetrics = []struct {
	name  string
	value func(*models.ComparisonReport) float64
}{
	{"Overall", func(r *models.ComparisonReport) float64 { return r.Summary.OverallScore }},
	{"Efficiency", func(r *models.ComparisonReport) float64 { return r.Summary.EfficiencyScore }},
	{"Quality", func(r *models.ComparisonReport) float64 { return r.Summary.QualityScore }},
	{"Token efficiency", func(r *models.ComparisonReport) float64 { return r.Summary.TokenEfficiency }},
	{"Iterations", func(r *models.ComparisonReport) float64 { return r.Summary.IterationImprovement }},
	{"Time saved (h)", func(r *models.ComparisonReport) float64 { return r.ROI.TotalTimeSavedHours }},
}

func buildComparisonReport(files []string, reports []*models.ComparisonReport) *comparisonReport {
	cmp := &comparisonReport{Files: files}
	n := len(reports)

	for _, m := range scoreMetrics {
		sc := scoreComparison{Metric: m.name}
		for _, r := range reports {
			sc.Values = append(sc.Values, m.value(r))
		}
		sc.Delta = sc.Values[n-1] - sc.Values[0]
		cmp.Scores = append(cmp.Scores, sc)
	}

	seen := make(map[string]bool)
	for _, r := range reports {
		for name := range r.TaskTypeAnalysis {
			seen[name] = true
		}
	}
	for _, name := range slices.Sorted(maps.Keys(seen)) {
		tc := taskTypeComparison{TaskType: name}
		for _, r := range reports {
			if a, ok := r.TaskTypeAnalysis[name]; ok {
				v := a.TimeImprovementPercent
				tc.Values = append(tc.Values, &v)
			} else {
				tc.Values = append(tc.Values, nil)
			}
		}
		if first, last := tc.Values[0], tc.Values[n-1]; first != nil && last != nil {
			d := *last - *first
			tc.Delta = &d
		}
		cmp.TaskTypes = append(cmp.TaskTypes, tc)
	}

	return cmp
}

func printComparisonTable(w io.Writer, r *comparisonReport) {
	fmt.Fprintln(w, strings.Repeat("=", 70))
	fmt.Fprintln(w, " REPORT COMPARISON")
	fmt.Fprintln(w, strings.Repeat("=", 70))
	fmt.Fprintln(w)

	for i, f := range r.Files {
		fmt.Fprintf(w, "  [%d] %s\n", i+1, f)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, strings.Repeat("-", 70))
	fmt.Fprintln(w, " SCORES")
	fmt.Fprintln(w, strings.Repeat("-", 70))

	fmt.Fprintf(w, "  %-20s", "Metric")
	for i := range r.Files {
		fmt.Fprintf(w, "  %-9s", fmt.Sprintf("[%d]", i+1))
	}
	fmt.Fprintf(w, "  Delta\n")

	for _, sc := range r.Scores {
		fmt.Fprintf(w, "  %-20s", sc.Metric)
		for _, v := range sc.Values {
			fmt.Fprintf(w, "  %-9.2f", v)
		}
		fmt.Fprintf(w, "  %s%+.2f\n", deltaIcon(sc.Delta), sc.Delta)
	}
	fmt.Fprintln(w)

	if len(r.TaskTypes) == 0 {
		return
	}

	fmt.Fprintln(w, strings.Repeat("-", 70))
	fmt.Fprintln(w, " TIME IMPROVEMENT BY TASK TYPE (%)")
	fmt.Fprintln(w, strings.Repeat("-", 70))

	for _, tc := range r.TaskTypes {
		name := tc.TaskType
		if len(name) > 20 {
			name = name[:17] + "..."
		}
		fmt.Fprintf(w, "  %-20s", name)
		for _, v := range tc.Values {
			if v == nil {
				fmt.Fprintf(w, "  %-9s", "n/a")
			} else {
				fmt.Fprintf(w, "  %-9.2f", *v)
			}
		}
		if tc.Delta == nil {
			fmt.Fprintf(w, "  n/a\n")
		} else {
			fmt.Fprintf(w, "  %s%+.2f\n", deltaIcon(*tc.Delta), *tc.Delta)
		}
	}
	fmt.Fprintln(w)
}

func deltaIcon(d float64) string {
	switch {
	case d > 0:
		return "↑"
	case d < 0:
		return "↓"
	}
	return " "
}

func printComparisonJSON(w io.Writer, r *comparisonReport) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal comparison report: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}
