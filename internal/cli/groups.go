package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lorrc/chatdesk-client/internal/core/ports"
)

func newGroupsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Manage agent groups",
	}
	cmd.AddCommand(
		newGroupsListCmd(a),
		newGroupsCreateCmd(a),
		newGroupsDeleteCmd(a),
		newGroupsMemberCmd(a, true),
		newGroupsMemberCmd(a, false),
	)
	return cmd
}

func newGroupsListCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List agent groups",
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := a.rest.Groups().List(cmd.Context(), ports.ListOptions{})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, page.Items)
			}
			rows := make([][]string, 0, len(page.Items))
			for _, g := range page.Items {
				rows = append(rows, []string{g.ID, g.Name, strings.Join(g.Members, ",")})
			}
			return table(cmd, []string{"ID", "NAME", "MEMBERS"}, rows)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func newGroupsCreateCmd(a *app) *cobra.Command {
	var name, color, description string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an agent group",
		RunE: func(cmd *cobra.Command, _ []string) error {
			group, err := a.rest.Groups().Create(cmd.Context(), ports.GroupParams{
				Name:        name,
				Color:       color,
				Description: description,
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), group.ID)
			return err
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "group name")
	cmd.Flags().StringVar(&color, "color", "#999999", "group color")
	cmd.Flags().StringVar(&description, "description", "", "group description")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newGroupsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an agent group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.rest.Groups().Delete(cmd.Context(), args[0])
		},
	}
}

func newGroupsMemberCmd(a *app, add bool) *cobra.Command {
	use, short := "add-member <group-id> <agent-id>", "Add an agent to a group"
	if !add {
		use, short = "remove-member <group-id> <agent-id>", "Remove an agent from a group"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if add {
				return a.rest.Groups().AddMember(cmd.Context(), args[0], args[1])
			}
			return a.rest.Groups().RemoveMember(cmd.Context(), args[0], args[1])
		},
	}
}
