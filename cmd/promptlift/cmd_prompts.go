package main

import (
	"fmt"

	"github.com/spboyer/promptlift/internal/models"
	"github.com/spboyer/promptlift/internal/template"
	"github.com/spboyer/promptlift/internal/tokens"
	"github.com/spf13/cobra"
)

func newPromptsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompts [task-type...]",
		Short: "Show the manual and generated prompt of each task type",
		Long: `Render the manual (baseline) and generated (enhanced) prompt for each task
type together with its token count. Without arguments every built-in task
type is shown.`,
		Args: cobra.ArbitraryArgs,
		RunE: promptsCommandE,
	}
	cmd.Flags().String("encoding", "", "Token counter: estimate, a tiktoken encoding or a model name (default from config)")
	return cmd
}

func promptsCommandE(cmd *cobra.Command, args []string) error {
	cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}
	encoding, err := cmd.Flags().GetString("encoding")
	if err != nil {
		return err
	}
	if encoding == "" {
		encoding = cfg.Collect.Encoding
	}
	counter, err := tokens.NewCounter(tokens.Tokenizer(encoding))
	if err != nil {
		return err
	}

	gen, err := template.NewGenerator(nil, nil)
	if err != nil {
		return err
	}
	taskTypes := args
	if len(taskTypes) == 0 {
		taskTypes = gen.TaskTypes()
	}

	out := cmd.OutOrStdout()
	for i, taskType := range taskTypes {
		task := template.Task{ID: taskType + "-example", Type: taskType}

		task.Method = string(models.MethodManual)
		manual, err := gen.Manual(task)
		if err != nil {
			return err
		}
		task.Method = string(models.MethodGenerated)
		generated, err := gen.Generate(task)
		if err != nil {
			return err
		}

		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "== %s ==\n", taskType)
		fmt.Fprintf(out, "manual (%d tokens):\n  %s\n", counter.Count(manual), manual)
		fmt.Fprintf(out, "generated (%d tokens):\n  %s\n", counter.Count(generated), generated)
	}
	return nil
}
