package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Execute runs the chatdeskctl command tree.
func Execute() error {
	root, cleanup := newRootCmd()
	defer cleanup()
	return root.Execute()
}

func newRootCmd() (*cobra.Command, func()) {
	rootCmd := &cobra.Command{
		Use:           "chatdeskctl",
		Short:         "Terminal client for the ChatDesk customer-service backend",
		Long:          "chatdeskctl talks to a ChatDesk backend over REST and websocket: list and mutate conversations, sessions, tickets, labels and groups, and watch real-time events. Set CHATDESK_MODE=mock to run against a built-in seeded backend.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd, func() {}
	}

	rootCmd.AddCommand(
		newVersionCmd(app),
		newConversationsCmd(app),
		newSessionsCmd(app),
		newTicketsCmd(app),
		newLabelsCmd(app),
		newAgentsCmd(app),
		newGroupsCmd(app),
		newWatchCmd(app),
	)

	return rootCmd, app.close
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", a.cfg.App.Name, a.cfg.App.Version)
			return err
		},
	}
}
