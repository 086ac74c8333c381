package breakdown

import (
	"testing"

	"github.com/spboyer/promptlift/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(id, taskType string, duration float64, success bool, iterations, tokens int, errs ...string) models.TaskRecord {
	return models.TaskRecord{
		TaskID:     id,
		TaskType:   taskType,
		StartTime:  0,
		EndTime:    duration,
		Success:    success,
		Iterations: iterations,
		TokensUsed: tokens,
		Errors:     errs,
	}
}

func TestByTaskType_OnlySharedTypes(t *testing.T) {
	baseline := []models.TaskRecord{
		rec("b1", "A", 100, true, 2, 100),
		rec("b2", "B", 100, true, 2, 100),
	}
	enhanced := []models.TaskRecord{
		rec("e1", "A", 50, true, 1, 50),
	}

	results := ByTaskType(baseline, enhanced)
	require.Len(t, results, 1)
	_, ok := results["A"]
	assert.True(t, ok)
	_, ok = results["B"]
	assert.False(t, ok)
}

func TestByTaskType_EnhancedOnlyTypeIsSkipped(t *testing.T) {
	baseline := []models.TaskRecord{rec("b1", "A", 100, true, 1, 10)}
	enhanced := []models.TaskRecord{rec("e1", "A", 80, true, 1, 10), rec("e2", "C", 10, true, 1, 10)}

	results := ByTaskType(baseline, enhanced)
	assert.Equal(t, []string{"A"}, TaskTypes(results))
	assert.Equal(t, []string{"C"}, Skipped(baseline, enhanced))
}

func TestByTaskType_Values(t *testing.T) {
	baseline := []models.TaskRecord{
		rec("b1", "review", 200, true, 4, 1000, "lint", "timeout"),
		rec("b2", "review", 400, false, 6, 3000, "lint"),
	}
	enhanced := []models.TaskRecord{
		rec("e1", "review", 150, true, 2, 600),
		rec("e2", "review", 150, true, 3, 600, "lint"),
	}

	r := ByTaskType(baseline, enhanced)["review"]

	// avg 300 -> 150
	assert.InDelta(t, 50.0, r.TimeReduction, 1e-9)
	// 50% -> 100%
	assert.InDelta(t, 50.0, r.SuccessRateIncrease, 1e-9)
	// avg 5 -> 2.5
	assert.InDelta(t, 50.0, r.IterationReduction, 1e-9)
	// tokens per success 1000 -> 600
	assert.InDelta(t, 40.0, r.TokenEfficiency, 1e-9)
	// distinct {lint, timeout} -> {lint}
	assert.Equal(t, 1, r.ErrorReduction)
	assert.Equal(t, 2, r.BaselineTasks)
	assert.Equal(t, 2, r.EnhancedTasks)
}

func TestByTaskType_RegressionsAreVisible(t *testing.T) {
	baseline := []models.TaskRecord{rec("b1", "A", 100, true, 1, 100)}
	enhanced := []models.TaskRecord{rec("e1", "A", 200, false, 3, 100, "x", "y")}

	r := ByTaskType(baseline, enhanced)["A"]
	assert.Equal(t, 0.0, r.TimeReduction)
	assert.InDelta(t, -100.0, r.SuccessRateIncrease, 1e-9, "percentage points are not floored")
	assert.Equal(t, -2, r.ErrorReduction)
	assert.Equal(t, 100.0, r.TokenEfficiency, "no enhanced successes means zero tokens per success")
}

func TestByTaskType_Empty(t *testing.T) {
	assert.Empty(t, ByTaskType(nil, nil))
	assert.Empty(t, ByTaskType([]models.TaskRecord{rec("b", "A", 1, true, 1, 1)}, nil))
	assert.Empty(t, Skipped(nil, nil))
}

func TestToAnalysis_Rounds(t *testing.T) {
	in := map[string]TaskTypeResult{
		"A": {
			TaskType:            "A",
			TimeReduction:       33.33333,
			SuccessRateIncrease: -16.666666,
			IterationReduction:  12.5,
			TokenEfficiency:     0.004,
			ErrorReduction:      3,
			BaselineTasks:       4,
			EnhancedTasks:       5,
		},
	}
	out := ToAnalysis(in)
	require.Contains(t, out, "A")
	a := out["A"]
	assert.Equal(t, 33.33, a.TimeImprovementPercent)
	assert.Equal(t, -16.67, a.SuccessRateImprovementPercent)
	assert.Equal(t, 12.5, a.IterationImprovementPercent)
	assert.Equal(t, 0.0, a.TokenImprovementPercent)
	assert.Equal(t, 3, a.ErrorReduction)
	assert.Equal(t, 4, a.BaselineTasks)
	assert.Equal(t, 5, a.EnhancedTasks)
}
