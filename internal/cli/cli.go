// Package cli holds the cobra commands of the planner binary.
package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

// New returns the root command with every subcommand attached.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "planner",
		Short: "Voyager trip planner session core.",
		Long: `Runs the Voyager planning session API and inspects cached trip drafts.

Configuration is read from the environment. A .env file in the working
directory is loaded first when present.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

// AddCommands attaches the subcommands to topLevel.
func AddCommands(topLevel *cobra.Command) {
	addServe(topLevel)
	addDraft(topLevel)
	addVersion(topLevel)
}

// newLogger builds the process JSON logger. An unknown level means info.
func newLogger(level string, w io.Writer) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// contextOf returns the command context, which is nil unless the command was
// run with ExecuteContext.
func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
