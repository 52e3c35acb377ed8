package mock

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lorrc/chatdesk-client/internal/core/domain"
	"github.com/lorrc/chatdesk-client/internal/core/ports"
)

// listOptions reads pagination and the known filter keys from the query.
func listOptions(r *http.Request) ports.ListOptions {
	q := r.URL.Query()
	opts := ports.ListOptions{Filters: make(map[string]string)}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		opts.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		opts.Limit = limit
	}
	for _, key := range []string{"status", "session_id", "assigned_agent_id"} {
		if v := q.Get(key); v != "" {
			opts.Filters[key] = v
		}
	}
	return opts
}

// writeStateError maps dataset errors onto HTTP statuses.
func writeStateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errNotFound):
		writeError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, errInvalid):
		writeError(w, http.StatusBadRequest, "invalid request")
	case errors.Is(err, domain.ErrInvalidStatusTransition),
		errors.Is(err, domain.ErrInvalidSessionAction):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}

// --- conversations ---

func (s *Server) listConversations(w http.ResponseWriter, r *http.Request) {
	opts := listOptions(r)
	items, total := s.state.Conversations(opts)
	writeList(w, items, total, opts.Page, opts.Limit)
}

func (s *Server) blockConversation(blocked bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.state.SetConversationBlocked(chi.URLParam(r, "id"), blocked); err != nil {
			writeStateError(w, err)
			return
		}
		writeData(w, http.StatusOK, nil)
	}
}

func (s *Server) conversationLabel(attached bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := s.state.SetConversationLabel(chi.URLParam(r, "id"), chi.URLParam(r, "labelID"), attached)
		if err != nil {
			writeStateError(w, err)
			return
		}
		writeData(w, http.StatusOK, nil)
	}
}

// --- sessions ---

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	opts := listOptions(r)
	items, total := s.state.Sessions(opts)
	writeList(w, items, total, opts.Page, opts.Limit)
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var params ports.CreateSessionParams
	if !decodeBody(w, r, &params) {
		return
	}
	session, err := s.state.CreateSession(params)
	if err != nil {
		writeStateError(w, err)
		return
	}
	writeData(w, http.StatusCreated, session)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.state.DeleteSession(chi.URLParam(r, "id")); err != nil {
		writeStateError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) sessionAction(action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := s.state.TransitionSession(chi.URLParam(r, "id"), action)
		if err != nil {
			writeStateError(w, err)
			return
		}
		writeData(w, http.StatusOK, session)
	}
}

// --- tickets ---

func (s *Server) listTickets(w http.ResponseWriter, r *http.Request) {
	opts := listOptions(r)
	items, total := s.state.Tickets(opts)
	writeList(w, items, total, opts.Page, opts.Limit)
}

func (s *Server) createTicket(w http.ResponseWriter, r *http.Request) {
	var params ports.CreateTicketParams
	if !decodeBody(w, r, &params) {
		return
	}
	ticket, err := s.state.CreateTicket(params)
	if err != nil {
		writeStateError(w, err)
		return
	}
	writeData(w, http.StatusCreated, ticket)
}

func (s *Server) updateTicket(w http.ResponseWriter, r *http.Request) {
	var params ports.UpdateTicketParams
	if !decodeBody(w, r, &params) {
		return
	}
	ticket, err := s.state.UpdateTicket(chi.URLParam(r, "id"), params)
	if err != nil {
		writeStateError(w, err)
		return
	}
	writeData(w, http.StatusOK, ticket)
}

func (s *Server) deleteTicket(w http.ResponseWriter, r *http.Request) {
	if err := s.state.DeleteTicket(chi.URLParam(r, "id")); err != nil {
		writeStateError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) assignTicket(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AgentID string `json:"agent_id"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if err := s.state.AssignTicket(chi.URLParam(r, "id"), body.AgentID); err != nil {
		writeStateError(w, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

func (s *Server) setTicketStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status domain.TicketStatus `json:"status"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	ticket, err := s.state.SetTicketStatus(chi.URLParam(r, "id"), body.Status)
	if err != nil {
		writeStateError(w, err)
		return
	}
	writeData(w, http.StatusOK, ticket)
}

// --- labels ---

func (s *Server) listLabels(w http.ResponseWriter, r *http.Request) {
	opts := listOptions(r)
	items, total := s.state.Labels(opts)
	writeList(w, items, total, opts.Page, opts.Limit)
}

func (s *Server) createLabel(w http.ResponseWriter, r *http.Request) {
	var params ports.LabelParams
	if !decodeBody(w, r, &params) {
		return
	}
	label, err := s.state.CreateLabel(params)
	if err != nil {
		writeStateError(w, err)
		return
	}
	writeData(w, http.StatusCreated, label)
}

func (s *Server) updateLabel(w http.ResponseWriter, r *http.Request) {
	var params ports.LabelParams
	if !decodeBody(w, r, &params) {
		return
	}
	label, err := s.state.UpdateLabel(chi.URLParam(r, "id"), params)
	if err != nil {
		writeStateError(w, err)
		return
	}
	writeData(w, http.StatusOK, label)
}

func (s *Server) deleteLabel(w http.ResponseWriter, r *http.Request) {
	if err := s.state.DeleteLabel(chi.URLParam(r, "id")); err != nil {
		writeStateError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- agents ---

func (s *Server) listAgents(w http.ResponseWriter, r *http.Request) {
	opts := listOptions(r)
	items, total := s.state.Agents(opts)
	writeList(w, items, total, opts.Page, opts.Limit)
}

// --- groups ---

func (s *Server) listGroups(w http.ResponseWriter, r *http.Request) {
	opts := listOptions(r)
	items, total := s.state.Groups(opts)
	writeList(w, items, total, opts.Page, opts.Limit)
}

func (s *Server) createGroup(w http.ResponseWriter, r *http.Request) {
	var params ports.GroupParams
	if !decodeBody(w, r, &params) {
		return
	}
	group, err := s.state.CreateGroup(params)
	if err != nil {
		writeStateError(w, err)
		return
	}
	writeData(w, http.StatusCreated, group)
}

func (s *Server) updateGroup(w http.ResponseWriter, r *http.Request) {
	var params ports.GroupParams
	if !decodeBody(w, r, &params) {
		return
	}
	group, err := s.state.UpdateGroup(chi.URLParam(r, "id"), params)
	if err != nil {
		writeStateError(w, err)
		return
	}
	writeData(w, http.StatusOK, group)
}

func (s *Server) deleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := s.state.DeleteGroup(chi.URLParam(r, "id")); err != nil {
		writeStateError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) groupMember(member bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := s.state.SetGroupMember(chi.URLParam(r, "groupID"), chi.URLParam(r, "agentID"), member)
		if err != nil {
			writeStateError(w, err)
			return
		}
		writeData(w, http.StatusOK, nil)
	}
}
