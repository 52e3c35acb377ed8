package cli

import (
	"github.com/spf13/cobra"

	"github.com/lorrc/chatdesk-client/internal/core/ports"
)

func newConversationsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "conversations",
		Aliases: []string{"convs"},
		Short:   "Browse and manage conversations",
	}
	cmd.AddCommand(
		newConversationsListCmd(a),
		newConversationsBlockCmd(a, true),
		newConversationsBlockCmd(a, false),
		newConversationsLabelCmd(a, true),
		newConversationsLabelCmd(a, false),
	)
	return cmd
}

func newConversationsListCmd(a *app) *cobra.Command {
	var asJSON bool
	var status, sessionID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List conversations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			filters := map[string]string{}
			if status != "" {
				filters["status"] = status
			}
			if sessionID != "" {
				filters["session_id"] = sessionID
			}
			page, err := a.rest.Conversations().List(cmd.Context(), ports.ListOptions{Filters: filters})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, page.Items)
			}
			rows := make([][]string, 0, len(page.Items))
			for _, c := range page.Items {
				blocked := ""
				if c.Blocked {
					blocked = "blocked"
				}
				rows = append(rows, []string{c.ID, c.ContactName, c.Phone, string(c.Status), c.LastMessage, blocked})
			}
			return table(cmd, []string{"ID", "CONTACT", "PHONE", "STATUS", "LAST MESSAGE", ""}, rows)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	cmd.Flags().StringVar(&sessionID, "session", "", "filter by session")
	return cmd
}

func newConversationsBlockCmd(a *app, block bool) *cobra.Command {
	use, short := "block <id>", "Block a contact"
	if !block {
		use, short = "unblock <id>", "Unblock a contact"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if block {
				return a.rest.Conversations().Block(cmd.Context(), args[0])
			}
			return a.rest.Conversations().Unblock(cmd.Context(), args[0])
		},
	}
}

func newConversationsLabelCmd(a *app, add bool) *cobra.Command {
	use, short := "label <conversation-id> <label-id>", "Attach a label to a conversation"
	if !add {
		use, short = "unlabel <conversation-id> <label-id>", "Detach a label from a conversation"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if add {
				return a.rest.Conversations().AddLabel(cmd.Context(), args[0], args[1])
			}
			return a.rest.Conversations().RemoveLabel(cmd.Context(), args[0], args[1])
		},
	}
}
