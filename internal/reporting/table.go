package reporting

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spboyer/promptlift/internal/models"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// WriteTable renders the report as aligned plain-text tables for terminals.
func WriteTable(w io.Writer, r *models.ComparisonReport) error {
	p := message.NewPrinter(language.English)
	var b strings.Builder

	s := r.Summary
	writeRows(&b, []string{"SCORE", "VALUE"}, [][]string{
		{"Efficiency", p.Sprintf("%.2f", s.EfficiencyScore)},
		{"Quality", p.Sprintf("%.2f", s.QualityScore)},
		{"Token efficiency", p.Sprintf("%.2f", s.TokenEfficiency)},
		{"Iteration improvement", p.Sprintf("%.2f", s.IterationImprovement)},
		{"Overall", p.Sprintf("%.2f", s.OverallScore)},
		{"Impact", InterpretScore(s.OverallScore)},
	})
	b.WriteString("\n")

	writeRows(&b, []string{"POPULATION", "TASKS", "SUCCESS", "AVG DURATION", "AVG ITER", "AVG TOKENS", "ERRORS"}, [][]string{
		populationRow(p, "baseline", r.Baseline),
		populationRow(p, "enhanced", r.Enhanced),
	})

	if len(r.TaskTypeAnalysis) > 0 {
		b.WriteString("\n")
		var rows [][]string
		for _, name := range sortedTypes(r.TaskTypeAnalysis) {
			a := r.TaskTypeAnalysis[name]
			rows = append(rows, []string{
				name,
				p.Sprintf("%.2f%%", a.TimeImprovementPercent),
				p.Sprintf("%.2f%%", a.TokenImprovementPercent),
				p.Sprintf("%+.2f", a.SuccessRateImprovementPercent),
				p.Sprintf("%.2f%%", a.IterationImprovementPercent),
				p.Sprintf("%d", a.ErrorReduction),
				p.Sprintf("%d/%d", a.BaselineTasks, a.EnhancedTasks),
			})
		}
		writeRows(&b, []string{"TASK TYPE", "TIME", "TOKENS", "SUCCESS PP", "ITERATIONS", "ERR REDUCTION", "TASKS"}, rows)
	}

	b.WriteString("\n")
	writeRows(&b, []string{"ROI", "VALUE"}, [][]string{
		{"Time saved (h)", p.Sprintf("%.2f", r.ROI.TotalTimeSavedHours)},
		{"Cost savings", p.Sprintf("%.2f", r.ROI.EstimatedCostSavings)},
		{"Productivity increase", p.Sprintf("%.2f%%", r.ROI.ProductivityIncrease)},
		{"Quality increase", p.Sprintf("%.2f", r.ROI.QualityIncrease)},
	})

	_, err := io.WriteString(w, b.String())
	return err
}

func populationRow(p *message.Printer, name string, s models.PopulationSummary) []string {
	return []string{
		name,
		p.Sprintf("%d", s.TotalTasks),
		p.Sprintf("%d", s.SuccessfulTasks),
		p.Sprintf("%.2fs", s.AvgDuration),
		p.Sprintf("%.2f", s.AvgIterations),
		p.Sprintf("%.0f", s.AvgTokens),
		p.Sprintf("%d", s.TotalErrors),
	}
}

// writeRows aligns columns by terminal display width, so wide runes in task
// type names do not skew the layout.
func writeRows(b *strings.Builder, header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	line := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				b.WriteString("  ")
			}
			if i == len(cells)-1 {
				b.WriteString(cell)
				continue
			}
			b.WriteString(padRight(cell, widths[i]))
		}
		b.WriteString("\n")
	}

	line(header)
	for _, row := range rows {
		line(row)
	}
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}
