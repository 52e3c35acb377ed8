package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lorrc/chatdesk-client/internal/core/ports"
)

func newLabelsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "labels",
		Short: "Manage conversation labels",
	}
	cmd.AddCommand(
		newLabelsListCmd(a),
		newLabelsCreateCmd(a),
		newLabelsDeleteCmd(a),
	)
	return cmd
}

func newLabelsListCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List labels",
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := a.rest.Labels().List(cmd.Context(), ports.ListOptions{})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, page.Items)
			}
			rows := make([][]string, 0, len(page.Items))
			for _, l := range page.Items {
				rows = append(rows, []string{l.ID, l.Name, l.Color, strconv.Itoa(l.ConversationCount)})
			}
			return table(cmd, []string{"ID", "NAME", "COLOR", "CONVERSATIONS"}, rows)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func newLabelsCreateCmd(a *app) *cobra.Command {
	var name, color, description string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a label",
		RunE: func(cmd *cobra.Command, _ []string) error {
			label, err := a.rest.Labels().Create(cmd.Context(), ports.LabelParams{
				Name:        name,
				Color:       color,
				Description: description,
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), label.ID)
			return err
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "label name")
	cmd.Flags().StringVar(&color, "color", "#999999", "label color")
	cmd.Flags().StringVar(&description, "description", "", "label description")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newLabelsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.rest.Labels().Delete(cmd.Context(), args[0])
		},
	}
}
