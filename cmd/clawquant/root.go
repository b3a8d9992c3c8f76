package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/clawquant/internal/adapters/logging"
	"github.com/felixgeelhaar/clawquant/internal/adapters/secrets"
	"github.com/felixgeelhaar/clawquant/internal/app"
	"github.com/felixgeelhaar/clawquant/internal/domain/wizard"
	"github.com/felixgeelhaar/clawquant/internal/ports"
	"github.com/felixgeelhaar/clawquant/internal/validation"
)

// HomeEnvVar overrides the default home directory.
const HomeEnvVar = "CLAWQUANT_HOME"

var (
	// Global flags
	homeDir        string
	verbose        bool
	quiet          bool
	logLevel       string
	logJSON        bool
	secretsBackend string
)

var rootCmd = &cobra.Command{
	Use:   "clawquant",
	Short: "Lightweight event-driven trading advisory system",
	Long: `ClawQuant combines pluggable AI providers, market data sources and
integrations into an event-driven trading advisor.

Get started with:
  clawquant setup`,
	SilenceErrors: true, // We handle error formatting ourselves
	SilenceUsage:  true, // Don't show usage on error
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "ClawQuant home directory (default: $"+HomeEnvVar+" or ~/.clawquant)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "disable logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "minimum log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "write logs as JSON")
	rootCmd.PersistentFlags().StringVar(&secretsBackend, "secrets-backend", secrets.BackendDotenv, "where secrets are stored (dotenv, keyring)")

	_ = rootCmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("secrets-backend", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{
			"dotenv\t.env file in the home directory",
			"keyring\tOS keychain",
		}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(versionCmd)
}

// newLogger builds the process logger on stderr from the global flags.
func newLogger() ports.Logger {
	return logging.New(logging.Options{
		Verbose: verbose,
		Quiet:   quiet,
		Level:   logLevel,
		JSON:    logJSON,
		Output:  os.Stderr,
	})
}

// newApp wires the application from the global flags.
func newApp(out io.Writer) *app.ClawQuant {
	return app.New(out).
		WithLogger(newLogger()).
		WithSecretsBackend(secretsBackend)
}

// resolveHome returns the home directory from --home, then the
// environment. It returns "" when neither is set.
func resolveHome() (string, error) {
	home := strings.TrimSpace(homeDir)
	if home == "" {
		home = strings.TrimSpace(os.Getenv(HomeEnvVar))
	}
	if home == "" {
		return "", nil
	}
	if err := validation.ValidatePath(home); err != nil {
		return "", &UserError{
			Code:       ErrCodeInvalidHome,
			Message:    "Invalid home directory",
			Context:    home,
			Suggestion: "Pass an absolute path or one starting with ~/",
			Underlying: err,
		}
	}
	return ports.ExpandPath(home), nil
}

// resolveHomeOrDefault is resolveHome with the default home as fallback.
func resolveHomeOrDefault() (string, error) {
	home, err := resolveHome()
	if err != nil || home != "" {
		return home, err
	}
	return ports.ExpandPath(wizard.DefaultHome), nil
}

// formatError returns a user-friendly error message.
// With verbose=false: shows only the user message and suggestion.
// With verbose=true: also shows the underlying technical error.
func formatError(err error) string {
	var userErr *UserError
	if errors.As(err, &userErr) {
		msg := userErr.Message
		if userErr.Context != "" {
			msg += fmt.Sprintf(" (at %s)", userErr.Context)
		}
		if userErr.Suggestion != "" {
			msg += fmt.Sprintf("\n\nSuggestion: %s", userErr.Suggestion)
		}
		if verbose && userErr.Underlying != nil {
			msg += fmt.Sprintf("\n\nTechnical details: %v", userErr.Underlying)
		}
		return msg
	}
	return err.Error()
}

// printError prints an error message to stderr with proper formatting.
func printError(err error) {
	printErrorTo(os.Stderr, err)
}

// printErrorTo prints an error message to the given writer. Exit errors
// have already reported themselves.
func printErrorTo(w io.Writer, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	_, _ = fmt.Fprintf(w, "Error: %s\n", formatError(err))
}
