package main

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/clawquant/internal/app"
	"github.com/felixgeelhaar/clawquant/internal/domain/task"
	"github.com/felixgeelhaar/clawquant/internal/ports"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Run task handlers",
}

var taskRunCmd = &cobra.Command{
	Use:   "run <handler>",
	Short: "Run one task handler against the configured plugins",
	Long: `Start every enabled plugin, then run the named task handler once.
Parameters are passed as key=value pairs; a later pair overrides an
earlier one with the same key.

Examples:
  clawquant task run notifications.send --param message="AAPL crossed 200"
  clawquant task run notifications.send --param message=hello --param channel_id=42`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTask(cmd, args[0])
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the task handlers of the enabled plugins",
	RunE:  runTaskList,
}

var taskParams []string

func init() {
	rootCmd.AddCommand(taskCmd)
	taskCmd.AddCommand(taskRunCmd)
	taskCmd.AddCommand(taskListCmd)

	taskRunCmd.Flags().StringArrayVarP(&taskParams, "param", "p", nil, "task parameter as key=value (repeatable)")
}

// startRuntime loads the configured plugins. Plugins that fail to start
// are logged and left out.
func startRuntime(ctx context.Context, cmd *cobra.Command) (*app.Runtime, error) {
	home, err := resolveHomeOrDefault()
	if err != nil {
		return nil, err
	}
	cq := newApp(cmd.OutOrStdout())
	rt, failed, err := cq.Runtime(ctx, home)
	if err != nil {
		return nil, err
	}
	for _, ferr := range failed {
		cq.Logger().Warn(ctx, "plugin not started", ports.Err(ferr))
	}
	if len(rt.Registry().Entries()) == 0 {
		return nil, &UserError{
			Code:       ErrCodeConfigNotFound,
			Message:    "No plugins are enabled",
			Context:    home,
			Suggestion: "Run 'clawquant setup' first",
		}
	}
	return rt, nil
}

func runTask(cmd *cobra.Command, handler string) error {
	params, err := task.ParseParams(taskParams)
	if err != nil {
		return &UserError{
			Code:       ErrCodeInvalidArgument,
			Message:    "Invalid task parameter",
			Suggestion: "Pass parameters as --param key=value",
			Underlying: err,
		}
	}

	ctx := runContext(cmd)
	rt, err := startRuntime(ctx, cmd)
	if err != nil {
		return err
	}

	result := rt.RunTask(ctx, handler, params)
	printResult(cmd.OutOrStdout(), result)
	if !result.OK() {
		return &ExitError{Code: 1}
	}
	return nil
}

func printResult(w io.Writer, r task.Result) {
	if r.Message == "" {
		_, _ = fmt.Fprintf(w, "%s\n", r.Status)
		return
	}
	_, _ = fmt.Fprintf(w, "%s: %s\n", r.Status, r.Message)
}

func runTaskList(cmd *cobra.Command, _ []string) error {
	ctx := runContext(cmd)
	rt, err := startRuntime(ctx, cmd)
	if err != nil {
		return err
	}
	handlers := rt.Registry().Handlers()
	names := make([]string, 0, len(handlers))
	for name := range handlers {
		names = append(names, name)
	}
	sort.Strings(names)

	out := cmd.OutOrStdout()
	for _, name := range names {
		_, _ = fmt.Fprintf(out, "  • %s\n", name)
	}
	return nil
}
