package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Manual(t *testing.T) {
	g, err := NewGenerator(nil, nil)
	require.NoError(t, err)

	got, err := g.Manual(Task{ID: "m-1", Type: "debugging", Method: "manual"})
	require.NoError(t, err)
	assert.Equal(t, "Please complete this debugging task.", got)
}

func TestGenerator_Generate(t *testing.T) {
	g, err := NewGenerator(map[string]string{
		"translate": "Translate {{.ID}} into {{.Vars.lang}}.",
		"echo":      `{{if eq .Method "generated"}}gen{{else}}other{{end}} {{.Type}}`,
		"plain":     "no placeholders here",
	}, map[string]string{"lang": "French"})
	require.NoError(t, err)

	tests := []struct {
		name string
		task Task
		want string
	}{
		{
			name: "dedicated template",
			task: Task{ID: "t-1", Type: "code_review"},
			want: "Review the change for task t-1. List correctness bugs first, then concurrency and " +
				"error-handling issues, then style. Quote the offending lines.",
		},
		{
			name: "override with generator var",
			task: Task{ID: "t-2", Type: "translate"},
			want: "Translate t-2 into French.",
		},
		{
			name: "task var wins",
			task: Task{ID: "t-3", Type: "translate", Vars: map[string]string{"lang": "Dutch"}},
			want: "Translate t-3 into Dutch.",
		},
		{
			name: "method is visible",
			task: Task{ID: "t-4", Type: "echo", Method: "generated"},
			want: "gen echo",
		},
		{
			name: "template without placeholders",
			task: Task{ID: "t-5", Type: "plain"},
			want: "no placeholders here",
		},
		{
			name: "fallback template",
			task: Task{ID: "t-6", Type: "planning"},
			want: "Complete the planning task t-6. Break the work into steps, " +
				"verify each step and report the final result.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := g.Generate(tt.task)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerator_MissingVarIsAnError(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
		task Task
	}{
		{name: "no vars at all", task: Task{ID: "x", Type: "needs-var"}},
		{name: "other key only", vars: map[string]string{"other": "1"}, task: Task{ID: "x", Type: "needs-var"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGenerator(map[string]string{"needs-var": "{{.Vars.lang}}"}, tt.vars)
			require.NoError(t, err)

			_, err = g.Generate(tt.task)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "rendering needs-var prompt for x")
		})
	}
}

func TestGenerator_DoesNotMutateTaskVars(t *testing.T) {
	g, err := NewGenerator(nil, map[string]string{"a": "1"})
	require.NoError(t, err)

	task := Task{Type: "debugging", Vars: map[string]string{"b": "2"}}
	_, err = g.Generate(task)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"b": "2"}, task.Vars)
}

func TestNewGenerator_Errors(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]string
		wantErr   string
	}{
		{name: "empty task type", overrides: map[string]string{"": "x"}, wantErr: "has no task type"},
		{name: "unparseable override", overrides: map[string]string{"broken": "bad {{.Unclosed"}, wantErr: "parsing broken prompt"},
		{name: "unknown field", overrides: map[string]string{"typo": "{{.TaskType}}"}, wantErr: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGenerator(tt.overrides, nil)
			if tt.wantErr == "" {
				// unknown fields parse but fail to render
				require.NoError(t, err)
				_, err = g.Generate(Task{ID: "x", Type: "typo"})
				require.Error(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGenerator_TaskTypes(t *testing.T) {
	g, err := NewGenerator(map[string]string{"alpha": "a"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "code_generation", "code_review", "debugging", "documentation"}, g.TaskTypes())
}
