package reporting

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/spboyer/promptlift/internal/models"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// RenderMarkdown writes the report as a GitHub-flavoured Markdown document.
func RenderMarkdown(w io.Writer, r *models.ComparisonReport) error {
	var b strings.Builder
	s := r.Summary

	b.WriteString("# Prompt generation impact report\n\n")
	fmt.Fprintf(&b, "Generated %s. **Overall score: %.2f** (%s).\n\n",
		s.Timestamp.Format("2006-01-02 15:04 MST"), s.OverallScore, InterpretScore(s.OverallScore))

	b.WriteString("## Scores\n\n")
	b.WriteString("| Component | Score |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Efficiency | %.2f |\n", s.EfficiencyScore)
	fmt.Fprintf(&b, "| Quality | %.2f |\n", s.QualityScore)
	fmt.Fprintf(&b, "| Token efficiency | %.2f |\n", s.TokenEfficiency)
	fmt.Fprintf(&b, "| Iteration improvement | %.2f |\n", s.IterationImprovement)
	fmt.Fprintf(&b, "| **Overall** | **%.2f** |\n\n", s.OverallScore)

	b.WriteString("## Populations\n\n")
	b.WriteString("| | Baseline | Enhanced |\n|---|---:|---:|\n")
	fmt.Fprintf(&b, "| Tasks | %d | %d |\n", r.Baseline.TotalTasks, r.Enhanced.TotalTasks)
	fmt.Fprintf(&b, "| Successful | %d | %d |\n", r.Baseline.SuccessfulTasks, r.Enhanced.SuccessfulTasks)
	fmt.Fprintf(&b, "| Avg duration (s) | %.2f | %.2f |\n", r.Baseline.AvgDuration, r.Enhanced.AvgDuration)
	fmt.Fprintf(&b, "| Avg iterations | %.2f | %.2f |\n", r.Baseline.AvgIterations, r.Enhanced.AvgIterations)
	fmt.Fprintf(&b, "| Avg tokens | %.0f | %.0f |\n", r.Baseline.AvgTokens, r.Enhanced.AvgTokens)
	fmt.Fprintf(&b, "| Total errors | %d | %d |\n\n", r.Baseline.TotalErrors, r.Enhanced.TotalErrors)

	if len(r.TaskTypeAnalysis) > 0 {
		b.WriteString("## Task types\n\n")
		b.WriteString("| Task type | Time % | Tokens % | Success pp | Iterations % | Error reduction | Tasks (b/e) |\n")
		b.WriteString("|---|---:|---:|---:|---:|---:|---:|\n")
		for _, name := range sortedTypes(r.TaskTypeAnalysis) {
			a := r.TaskTypeAnalysis[name]
			fmt.Fprintf(&b, "| %s | %.2f | %.2f | %.2f | %.2f | %d | %d/%d |\n",
				escapeCell(name), a.TimeImprovementPercent, a.TokenImprovementPercent, a.SuccessRateImprovementPercent,
				a.IterationImprovementPercent, a.ErrorReduction, a.BaselineTasks, a.EnhancedTasks)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Return on investment\n\n")
	fmt.Fprintf(&b, "- Time saved: %.2f hours\n", r.ROI.TotalTimeSavedHours)
	fmt.Fprintf(&b, "- Estimated cost savings: %.2f\n", r.ROI.EstimatedCostSavings)
	fmt.Fprintf(&b, "- Productivity increase: %.2f%%\n", r.ROI.ProductivityIncrease)
	fmt.Fprintf(&b, "- Quality increase: %.2f\n", r.ROI.QualityIncrease)

	if st := r.Statistics; st != nil {
		b.WriteString("\n## Statistics\n\n")
		fmt.Fprintf(&b, "- Effect size: %.4f (%s)\n", st.EffectSize, st.EffectMagnitude)
		fmt.Fprintf(&b, "- Baseline mean duration: %.2f s [%.2f, %.2f] at %.0f%%\n",
			st.BaselineDurationCI.Mean, st.BaselineDurationCI.Lower, st.BaselineDurationCI.Upper, st.BaselineDurationCI.ConfidenceLevel*100)
		fmt.Fprintf(&b, "- Enhanced mean duration: %.2f s [%.2f, %.2f] at %.0f%%\n",
			st.EnhancedDurationCI.Mean, st.EnhancedDurationCI.Lower, st.EnhancedDurationCI.Upper, st.EnhancedDurationCI.ConfidenceLevel*100)
		fmt.Fprintf(&b, "- Normalized success gain: %.4f\n", st.NormalizedSuccessGain)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderHTML converts the Markdown rendering into a standalone HTML page.
func RenderHTML(w io.Writer, r *models.ComparisonReport) error {
	var md bytes.Buffer
	if err := RenderMarkdown(&md, r); err != nil {
		return err
	}

	gm := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var body bytes.Buffer
	if err := gm.Convert(md.Bytes(), &body); err != nil {
		return fmt.Errorf("rendering HTML: %w", err)
	}

	_, err := fmt.Fprintf(w, htmlPage, body.String())
	return err
}

const htmlPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Prompt generation impact report</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 60rem; margin: 2rem auto; padding: 0 1rem; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.3rem 0.6rem; }
</style>
</head>
<body>
%s</body>
</html>
`

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
