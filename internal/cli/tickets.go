package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lorrc/chatdesk-client/internal/core/domain"
	"github.com/lorrc/chatdesk-client/internal/core/ports"
)

func newTicketsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tickets",
		Short: "Manage support tickets",
	}
	cmd.AddCommand(
		newTicketsListCmd(a),
		newTicketsCreateCmd(a),
		newTicketsAssignCmd(a),
		newTicketsStatusCmd(a),
		newTicketsDeleteCmd(a),
	)
	return cmd
}

func newTicketsListCmd(a *app) *cobra.Command {
	var asJSON bool
	var status, agentID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tickets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			filters := map[string]string{}
			if status != "" {
				filters["status"] = status
			}
			if agentID != "" {
				filters["assigned_agent_id"] = agentID
			}
			page, err := a.rest.Tickets().List(cmd.Context(), ports.ListOptions{Filters: filters})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, page.Items)
			}
			rows := make([][]string, 0, len(page.Items))
			for _, t := range page.Items {
				rows = append(rows, []string{t.ID, t.Subject, string(t.Status), string(t.Priority), t.AssignedAgentID})
			}
			return table(cmd, []string{"ID", "SUBJECT", "STATUS", "PRIORITY", "ASSIGNEE"}, rows)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	cmd.Flags().StringVar(&agentID, "agent", "", "filter by assigned agent")
	return cmd
}

func newTicketsCreateCmd(a *app) *cobra.Command {
	var conversationID, subject, priority string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a ticket from a conversation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ticket, err := a.rest.Tickets().Create(cmd.Context(), ports.CreateTicketParams{
				ConversationID: conversationID,
				Subject:        subject,
				Priority:       domain.TicketPriority(priority),
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), ticket.ID)
			return err
		},
	}
	cmd.Flags().StringVar(&conversationID, "conversation", "", "conversation id")
	cmd.Flags().StringVar(&subject, "subject", "", "ticket subject")
	cmd.Flags().StringVar(&priority, "priority", "medium", "low, medium or high")
	_ = cmd.MarkFlagRequired("conversation")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

func newTicketsAssignCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "assign <ticket-id> <agent-id>",
		Short: "Assign a ticket to an agent",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.rest.Tickets().Assign(cmd.Context(), args[0], args[1])
		},
	}
}

func newTicketsStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status <ticket-id> <status>",
		Short: "Move a ticket through its workflow",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.rest.Tickets().SetStatus(cmd.Context(), args[0], domain.TicketStatus(args[1]))
			return err
		},
	}
}

func newTicketsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.rest.Tickets().Delete(cmd.Context(), args[0])
		},
	}
}
