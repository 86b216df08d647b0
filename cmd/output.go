package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/expense-tracker/internal"
)

type runFunc func(ctx context.Context, cmd *cobra.Command, deps *Dependencies, args []string) error

// withDependencies wires the application for a single CLI invocation.
func withDependencies(run runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logOutput = cmd.ErrOrStderr()
		deps, err := initializeDependencies(ctx)
		if err != nil {
			return err
		}
		defer deps.Close()

		cmd.SilenceUsage = true
		return run(ctx, cmd, deps, args)
	}
}

// describeError flattens field errors into one line per field.
func describeError(err error) error {
	appErr, ok := internal.IsAppError(err)
	if !ok {
		return err
	}

	details, ok := appErr.Details.(internal.ValidationErrors)
	if !ok || len(details.Errors) == 0 {
		return errors.New(appErr.Message)
	}

	lines := make([]string, 0, len(details.Errors)+1)
	lines = append(lines, appErr.Message+":")
	for _, fe := range details.Errors {
		lines = append(lines, fmt.Sprintf("  %s: %s", fe.Field, fe.Message))
	}
	return errors.New(strings.Join(lines, "\n"))
}

func printToasts(w io.Writer, deps *Dependencies) {
	for _, toast := range deps.Toaster.Active() {
		fmt.Fprintln(w, toast.Message)
	}
}
