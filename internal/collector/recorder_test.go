package collector

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/spboyer/promptlift/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPrometheusRecorder(reg)
	require.NoError(t, err)

	rec.ObserveTask("docs", models.MethodManual, StatusSuccess, 10*time.Millisecond)
	rec.ObserveTask("docs", models.MethodManual, StatusSuccess, 20*time.Millisecond)
	rec.ObserveTask("docs", models.MethodGenerated, StatusFailure, 5*time.Millisecond)
	rec.ObserveRetry("docs", models.MethodManual)

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.tasks.WithLabelValues("docs", "manual", StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.tasks.WithLabelValues("docs", "generated", StatusFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.retries.WithLabelValues("docs", "manual")))

	expected := `
# HELP promptlift_collect_retries_total Total retry attempts by task type and method
# TYPE promptlift_collect_retries_total counter
promptlift_collect_retries_total{method="manual",task_type="docs"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "promptlift_collect_retries_total"))
}

func TestNewPrometheusRecorder_NilRegistry(t *testing.T) {
	_, err := NewPrometheusRecorder(nil)
	require.Error(t, err)
}

func TestNewPrometheusRecorder_DoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheusRecorder(reg)
	require.NoError(t, err)
	_, err = NewPrometheusRecorder(reg)
	require.Error(t, err)
}
