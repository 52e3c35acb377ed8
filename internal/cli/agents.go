package cli

import (
	"github.com/spf13/cobra"

	"github.com/lorrc/chatdesk-client/internal/core/ports"
)

func newAgentsCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "agents",
		Short: "List agents and their presence",
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := a.rest.Agents().List(cmd.Context(), ports.ListOptions{})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, page.Items)
			}
			rows := make([][]string, 0, len(page.Items))
			for _, agent := range page.Items {
				presence := "offline"
				if agent.Online {
					presence = "online"
				}
				rows = append(rows, []string{agent.ID, agent.Name, agent.Email, string(agent.Role), presence})
			}
			return table(cmd, []string{"ID", "NAME", "EMAIL", "ROLE", "PRESENCE"}, rows)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}
