// Package cli exposes the cobra command tree for the assistant.
package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/akhellaf/deskpilot/internal/app"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(ctx, opts.Verbose, NewPrompter(nil, nil))
	if err != nil {
		return nil, err
	}

	askCmd := newAskCommand(container)

	root := &cobra.Command{
		Use:   "deskpilot [request]",
		Short: "DeskPilot - desktop AI assistant",
		Long:  "DeskPilot turns natural language into desktop actions: launching apps, managing files and tasks, and inspecting the system.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			askCmd.SetArgs(args)
			return askCmd.ExecuteContext(cmd.Context())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentPostRunE = func(*cobra.Command, []string) error {
		return container.Close()
	}

	root.AddCommand(askCmd)
	root.AddCommand(newReplCommand(container))
	root.AddCommand(newStatusCommand(container))
	root.AddCommand(newTasksCommand(container))
	root.AddCommand(newHistoryCommand(container))
	root.AddCommand(newCacheCommand(container))
	root.AddCommand(newConfigCommand(container))
	return root, nil
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
