package collector

import (
	"fmt"

	"github.com/spboyer/promptlift/internal/models"
	"github.com/spboyer/promptlift/internal/template"
)

// Plan lists the requests of one experiment.
type Plan struct {
	Baseline []Request
	Enhanced []Request
}

// BuildPlan creates perType baseline and perType enhanced requests for each
// task type. Baseline requests carry the manual prompt, enhanced requests the
// generated one. Task IDs are deterministic: <method>-<task type>-<n>.
func BuildPlan(gen *template.Generator, taskTypes []string, perType int) (*Plan, error) {
	if perType <= 0 {
		return nil, fmt.Errorf("tasks per type must be positive, got %d", perType)
	}
	if len(taskTypes) == 0 {
		return nil, fmt.Errorf("no task types to collect")
	}

	plan := &Plan{
		Baseline: make([]Request, 0, len(taskTypes)*perType),
		Enhanced: make([]Request, 0, len(taskTypes)*perType),
	}
	for _, taskType := range taskTypes {
		for n := 1; n <= perType; n++ {
			for _, method := range []models.Method{models.MethodManual, models.MethodGenerated} {
				task := template.Task{
					ID:     fmt.Sprintf("%s-%s-%d", method, taskType, n),
					Type:   taskType,
					Method: string(method),
				}
				render := gen.Generate
				if method == models.MethodManual {
					render = gen.Manual
				}
				prompt, err := render(task)
				if err != nil {
					return nil, err
				}
				req := Request{TaskID: task.ID, TaskType: taskType, Prompt: prompt, Method: method}
				if method == models.MethodManual {
					plan.Baseline = append(plan.Baseline, req)
				} else {
					plan.Enhanced = append(plan.Enhanced, req)
				}
			}
		}
	}
	return plan, nil
}
