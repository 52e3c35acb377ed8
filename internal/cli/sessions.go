package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lorrc/chatdesk-client/internal/core/ports"
)

func newSessionsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage WhatsApp sessions",
	}
	cmd.AddCommand(
		newSessionsListCmd(a),
		newSessionsCreateCmd(a),
		newSessionsDeleteCmd(a),
		newSessionsActionCmd(a, "start", "Start a session"),
		newSessionsActionCmd(a, "stop", "Stop a session"),
		newSessionsActionCmd(a, "restart", "Restart a session"),
		newSessionsQRCmd(a),
	)
	return cmd
}

func newSessionsListCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := a.rest.Sessions().List(cmd.Context(), ports.ListOptions{})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, page.Items)
			}
			rows := make([][]string, 0, len(page.Items))
			for _, s := range page.Items {
				rows = append(rows, []string{s.ID, s.Name, s.Phone, string(s.Status)})
			}
			return table(cmd, []string{"ID", "NAME", "PHONE", "STATUS"}, rows)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func newSessionsCreateCmd(a *app) *cobra.Command {
	var name, phone string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a new session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := a.rest.Sessions().Create(cmd.Context(), ports.CreateSessionParams{
				Name:  name,
				Phone: phone,
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), session.ID)
			return err
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "session display name")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newSessionsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.rest.Sessions().Delete(cmd.Context(), args[0])
		},
	}
}

func newSessionsActionCmd(a *app, action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			switch action {
			case "start":
				_, err = a.rest.Sessions().Start(cmd.Context(), args[0])
			case "stop":
				_, err = a.rest.Sessions().Stop(cmd.Context(), args[0])
			case "restart":
				_, err = a.rest.Sessions().Restart(cmd.Context(), args[0])
			}
			return err
		},
	}
}

// newSessionsQRCmd starts a session and waits on the realtime channel for
// the pairing QR code.
func newSessionsQRCmd(a *app) *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "qr <id>",
		Short: "Start a session and print its pairing QR code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			live, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer live.close()

			live.rooms.JoinSessionRoom(id)
			if err := live.sessions.Fetch(cmd.Context()); err != nil {
				return err
			}

			qr := make(chan string, 1)
			unsub := live.sessions.Subscribe(func() {
				if session, ok := live.sessions.Get(id); ok && session.QRCode != "" {
					select {
					case qr <- session.QRCode:
					default:
					}
				}
			})
			defer unsub()

			if err := live.sessions.Start(cmd.Context(), id); err != nil {
				return err
			}

			select {
			case code := <-qr:
				_, err := fmt.Fprintln(cmd.OutOrStdout(), code)
				return err
			case <-time.After(timeout):
				return fmt.Errorf("no QR code received within %s", timeout)
			case <-cmd.Context().Done():
				return cmd.Context().Err()
			}
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "how long to wait for the QR code")
	return cmd
}
