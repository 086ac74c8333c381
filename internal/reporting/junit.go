package reporting

import (
	"encoding/xml"
	"fmt"
	"os"
	"time"

	"github.com/spboyer/promptlift/internal/models"
)

// JUnit XML schema types

// JUnitTestSuites is the top-level container.
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Time       float64          `xml:"time,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite maps to one comparison report.
type JUnitTestSuite struct {
	XMLName    xml.Name        `xml:"testsuite"`
	Name       string          `xml:"name,attr"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Errors     int             `xml:"errors,attr"`
	Skipped    int             `xml:"skipped,attr"`
	Time       float64         `xml:"time,attr"`
	Timestamp  string          `xml:"timestamp,attr"`
	Properties []JUnitProperty `xml:"properties>property,omitempty"`
	TestCases  []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase maps to the overall score or one task type.
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
}

// JUnitFailure represents a missed improvement.
type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// JUnitProperty is a key-value metadata entry.
type JUnitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// JUnitOptions controls which cases fail.
type JUnitOptions struct {
	// SuiteName defaults to "promptlift".
	SuiteName string
	// MinOverall fails the overall case when the score is below it.
	MinOverall float64
}

// ConvertToJUnit converts a ComparisonReport to JUnit XML. The overall score
// is one test case; every analysed task type is another, failing when none of
// its dimensions improved.
func ConvertToJUnit(r *models.ComparisonReport, opts JUnitOptions) *JUnitTestSuites {
	name := opts.SuiteName
	if name == "" {
		name = "promptlift"
	}

	suite := JUnitTestSuite{
		Name:      name,
		Time:      r.Enhanced.AvgDuration * float64(r.Enhanced.TotalTasks),
		Timestamp: r.Summary.Timestamp.Format(time.RFC3339),
		Properties: []JUnitProperty{
			{Name: "overall_score", Value: fmt.Sprintf("%.2f", r.Summary.OverallScore)},
			{Name: "baseline_tasks", Value: fmt.Sprintf("%d", r.Baseline.TotalTasks)},
			{Name: "enhanced_tasks", Value: fmt.Sprintf("%d", r.Enhanced.TotalTasks)},
			{Name: "time_saved_hours", Value: fmt.Sprintf("%.4f", r.ROI.TotalTimeSavedHours)},
		},
	}
	if r.Statistics != nil {
		suite.Properties = append(suite.Properties, JUnitProperty{Name: "effect_size", Value: fmt.Sprintf("%.4f", r.Statistics.EffectSize)})
	}

	overall := JUnitTestCase{
		Name:      "overall",
		Classname: name,
		Time:      r.Enhanced.AvgDuration,
	}
	if r.Summary.OverallScore < opts.MinOverall {
		overall.Failure = &JUnitFailure{
			Message: fmt.Sprintf("overall score %.2f is below %.2f", r.Summary.OverallScore, opts.MinOverall),
			Type:    "ThresholdFailure",
			Body: fmt.Sprintf("efficiency=%.2f quality=%.2f tokens=%.2f iterations=%.2f",
				r.Summary.EfficiencyScore, r.Summary.QualityScore, r.Summary.TokenEfficiency, r.Summary.IterationImprovement),
		}
	}
	suite.TestCases = append(suite.TestCases, overall)

	for _, taskType := range sortedTypes(r.TaskTypeAnalysis) {
		a := r.TaskTypeAnalysis[taskType]
		tc := JUnitTestCase{Name: taskType, Classname: name + ".task_type"}
		if !improved(a) {
			tc.Failure = &JUnitFailure{
				Message: fmt.Sprintf("%s: no improvement", taskType),
				Type:    "NoImprovement",
				Body: fmt.Sprintf("time=%.2f%% tokens=%.2f%% iterations=%.2f%% success=%.2fpp errors=%d",
					a.TimeImprovementPercent, a.TokenImprovementPercent, a.IterationImprovementPercent,
					a.SuccessRateImprovementPercent, a.ErrorReduction),
			}
		}
		suite.TestCases = append(suite.TestCases, tc)
	}

	for _, tc := range suite.TestCases {
		if tc.Failure != nil {
			suite.Failures++
		}
	}
	suite.Tests = len(suite.TestCases)

	return &JUnitTestSuites{
		Tests:      suite.Tests,
		Failures:   suite.Failures,
		Time:       suite.Time,
		TestSuites: []JUnitTestSuite{suite},
	}
}

// WriteJUnitXML writes JUnit XML to the specified file path.
func WriteJUnitXML(r *models.ComparisonReport, opts JUnitOptions, path string) error {
	suites := ConvertToJUnit(r, opts)

	data, err := xml.MarshalIndent(suites, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JUnit XML: %w", err)
	}

	output := append([]byte(xml.Header), data...)
	return os.WriteFile(path, output, 0644)
}
