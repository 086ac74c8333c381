// Package template renders the prompts a task is run with: the fixed manual
// prompt for the baseline and a per-task-type generated prompt for the
// enhanced population.
package template

import (
	"fmt"
	"maps"
	"strings"
	"text/template"
)

// Task is what a prompt template sees: {{.ID}}, {{.Type}}, {{.Method}} and
// {{.Vars.name}}.
type Task struct {
	ID     string
	Type   string
	Method string
	Vars   map[string]string
}

// compile parses tmpl under name. A Vars key the task does not carry is a
// render error rather than "<no value>".
func compile(name, tmpl string) (*template.Template, error) {
	t, err := template.New(name).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("parsing %s prompt: %w", name, err)
	}
	return t, nil
}

func execute(t *template.Template, task Task) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, task); err != nil {
		return "", fmt.Errorf("rendering %s prompt for %s: %w", t.Name(), task.ID, err)
	}
	return b.String(), nil
}

// withVars layers the task's own vars over base without touching either map.
func withVars(task Task, base map[string]string) Task {
	if len(base) == 0 {
		return task
	}
	vars := maps.Clone(base)
	maps.Copy(vars, task.Vars)
	task.Vars = vars
	return task
}
