package cli

import (
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lorrc/chatdesk-client/internal/core/domain"
)

// watchedEvents is every server-pushed event type plus the local connection
// lifecycle, so a watch session shows reconnects too.
var watchedEvents = []domain.EventType{
	domain.EventConnectionEstablished,
	domain.EventConnectionError,
	domain.EventConnectionLost,
	domain.EventConversationUpdated,
	domain.EventMessageReceived,
	domain.EventSessionUpdated,
	domain.EventSessionQR,
	domain.EventTicketCreated,
	domain.EventTicketUpdated,
	domain.EventTicketDeleted,
	domain.EventLabelCreated,
	domain.EventLabelUpdated,
	domain.EventLabelDeleted,
	domain.EventGroupCreated,
	domain.EventGroupUpdated,
	domain.EventGroupDeleted,
	domain.EventGroupMemberAdded,
	domain.EventGroupMemberRemoved,
	domain.EventAgentOnline,
	domain.EventAgentOffline,
}

func newWatchCmd(a *app) *cobra.Command {
	var rooms []string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream real-time events to stdout",
		Long:  "watch connects to the websocket endpoint, joins the global and all_groups rooms (plus any --room), announces presence, and prints every event as a JSON line until interrupted.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			live, err := a.connect(ctx)
			if err != nil {
				return err
			}
			defer live.close()

			live.rooms.JoinAllGroups()
			for _, room := range rooms {
				live.rooms.JoinRoom(room)
			}

			out := cmd.OutOrStdout()
			for _, eventType := range watchedEvents {
				et := eventType
				live.conn.On(et, func(data json.RawMessage) {
					line, err := json.Marshal(domain.Event{Type: et, Data: data})
					if err != nil {
						return
					}
					fmt.Fprintln(out, string(line))
				})
			}

			live.agents.Announce(true)
			defer live.agents.Announce(false)

			<-ctx.Done()
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&rooms, "room", nil, "extra room to join (repeatable)")
	return cmd
}
