package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/clawquant/internal/domain/registry"
	"github.com/felixgeelhaar/clawquant/internal/domain/task"
)

var toolCmd = &cobra.Command{
	Use:   "tool",
	Short: "List and call the tools offered by plugins",
}

var toolListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the tools of the enabled plugins",
	RunE:  runToolList,
}

var toolCallCmd = &cobra.Command{
	Use:   "call <tool>",
	Short: "Call one tool and print its text result",
	Long: `Call a tool the way an AI provider would and print the text it returns.

Examples:
  clawquant tool call web_search --arg query="NVDA earnings" --arg limit=3
  clawquant tool call web_search --arg query="Fed minutes" --arg as_of=2024-01-15`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToolCall(cmd, args[0])
	},
}

var toolArgs []string

func init() {
	rootCmd.AddCommand(toolCmd)
	toolCmd.AddCommand(toolListCmd)
	toolCmd.AddCommand(toolCallCmd)

	toolCallCmd.Flags().StringArrayVarP(&toolArgs, "arg", "a", nil, "tool argument as key=value (repeatable)")
}

func runToolList(cmd *cobra.Command, _ []string) error {
	rt, err := startRuntime(runContext(cmd), cmd)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TOOL\tDESCRIPTION")
	for _, t := range rt.Tools() {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", t.Name, t.Description)
	}
	return w.Flush()
}

func runToolCall(cmd *cobra.Command, name string) error {
	args, err := task.ParseParams(toolArgs)
	if err != nil {
		return &UserError{
			Code:       ErrCodeInvalidArgument,
			Message:    "Invalid tool argument",
			Suggestion: "Pass arguments as --arg key=value",
			Underlying: err,
		}
	}

	ctx := runContext(cmd)
	rt, err := startRuntime(ctx, cmd)
	if err != nil {
		return err
	}

	text, err := rt.CallTool(ctx, name, args)
	if errors.Is(err, registry.ErrNotApplicable) {
		return &UserError{
			Code:       ErrCodeInvalidArgument,
			Message:    fmt.Sprintf("No enabled plugin offers the tool %q", name),
			Suggestion: "Run 'clawquant tool list' to see available tools",
			Underlying: err,
		}
	}
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}
