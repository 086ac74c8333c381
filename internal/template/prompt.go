package template

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"text/template"
)

// ManualPrompt is the hand-written prompt every baseline task receives.
const ManualPrompt = "Please complete this {{.Type}} task."

// DefaultPrompts are the generated prompt templates, keyed by task type.
var DefaultPrompts = map[string]string{
	"code_generation": "You are a senior engineer. Write idiomatic, tested code for the {{.Type}} task {{.ID}}. " +
		"State assumptions, handle errors explicitly and return only the final code.",
	"code_review": "Review the change for task {{.ID}}. List correctness bugs first, then concurrency and " +
		"error-handling issues, then style. Quote the offending lines.",
	"documentation": "Write reference documentation for task {{.ID}}: a one-line summary, parameters, " +
		"return values, errors and one runnable example.",
	"debugging": "Debug task {{.ID}}. Reproduce the failure, state the root cause in one sentence, " +
		"propose the smallest fix and a regression test.",
}

// FallbackPrompt is used for task types without a dedicated template.
const FallbackPrompt = "Complete the {{.Type}} task {{.ID}}. Break the work into steps, " +
	"verify each step and report the final result."

// Generator holds the compiled prompt templates. It is safe for concurrent use.
type Generator struct {
	manual   *template.Template
	fallback *template.Template
	byType   map[string]*template.Template
	vars     map[string]string
}

// NewGenerator compiles ManualPrompt, FallbackPrompt and DefaultPrompts with
// overrides applied per task type. vars are visible to every template as
// {{.Vars.name}}. Templates that do not parse are reported here, not at
// render time.
func NewGenerator(overrides map[string]string, vars map[string]string) (*Generator, error) {
	g := &Generator{byType: make(map[string]*template.Template), vars: vars}

	var err error
	if g.manual, err = compile("manual", ManualPrompt); err != nil {
		return nil, err
	}
	if g.fallback, err = compile("fallback", FallbackPrompt); err != nil {
		return nil, err
	}

	sources := make(map[string]string, len(DefaultPrompts)+len(overrides))
	for taskType, tmpl := range DefaultPrompts {
		sources[taskType] = tmpl
	}
	for taskType, tmpl := range overrides {
		if taskType == "" {
			return nil, fmt.Errorf("prompt override %q has no task type", tmpl)
		}
		sources[taskType] = tmpl
	}
	for taskType, tmpl := range sources {
		if g.byType[taskType], err = compile(taskType, tmpl); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// TaskTypes lists the task types with a dedicated template, sorted.
func (g *Generator) TaskTypes() []string {
	types := slices.Collect(maps.Keys(g.byType))
	sort.Strings(types)
	return types
}

// Manual renders the baseline prompt.
func (g *Generator) Manual(task Task) (string, error) {
	return execute(g.manual, withVars(task, g.vars))
}

// Generate renders the generated prompt for task.Type.
func (g *Generator) Generate(task Task) (string, error) {
	t, ok := g.byType[task.Type]
	if !ok {
		t = g.fallback
	}
	return execute(t, withVars(task, g.vars))
}
