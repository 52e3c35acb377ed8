package mock

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// Server is a self-contained in-process backend: the full REST surface plus
// the room-aware websocket endpoint, backed by seeded in-memory data. It
// exists so the CLI's mock mode and the integration tests can run without a
// real backend.
type Server struct {
	hub    *Hub
	state  *State
	http   *httptest.Server
	logger *slog.Logger
}

// NewServer starts the mock backend on an ephemeral port.
func NewServer(logger *slog.Logger) *Server {
	logger = logger.With("component", "mock_server")
	hub := NewHub(logger)
	go hub.Run()

	s := &Server{
		hub:    hub,
		state:  NewState(hub),
		logger: logger,
	}
	s.http = httptest.NewServer(s.router())
	return s
}

// URL returns the REST base URL.
func (s *Server) URL() string { return s.http.URL }

// WSURL returns the websocket endpoint URL.
func (s *Server) WSURL() string {
	return "ws" + strings.TrimPrefix(s.http.URL, "http") + "/ws"
}

// State exposes the dataset so tests can mutate it directly.
func (s *Server) State() *State { return s.state }

// Hub exposes the hub so tests can inspect room membership.
func (s *Server) Hub() *Hub { return s.hub }

// Close shuts the backend down.
func (s *Server) Close() {
	s.http.Close()
	s.hub.Stop()
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(requestID)
	r.Use(s.requestLogger)
	r.Use(rateLimit(rate.Limit(100), 200))

	r.Get("/ws", s.handleWS)

	r.Route("/conversations", func(r chi.Router) {
		r.Get("/", s.listConversations)
		r.Post("/{id}/block", s.blockConversation(true))
		r.Post("/{id}/unblock", s.blockConversation(false))
		r.Post("/{id}/labels/{labelID}", s.conversationLabel(true))
		r.Delete("/{id}/labels/{labelID}", s.conversationLabel(false))
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.listSessions)
		r.Post("/", s.createSession)
		r.Delete("/{id}", s.deleteSession)
		r.Post("/{id}/start", s.sessionAction("start"))
		r.Post("/{id}/stop", s.sessionAction("stop"))
		r.Post("/{id}/restart", s.sessionAction("restart"))
	})

	r.Route("/tickets", func(r chi.Router) {
		r.Get("/", s.listTickets)
		r.Post("/", s.createTicket)
		r.Patch("/{id}", s.updateTicket)
		r.Delete("/{id}", s.deleteTicket)
		r.Post("/{id}/assign", s.assignTicket)
		r.Patch("/{id}/status", s.setTicketStatus)
	})

	r.Route("/labels", func(r chi.Router) {
		r.Get("/", s.listLabels)
		r.Post("/", s.createLabel)
		r.Patch("/{id}", s.updateLabel)
		r.Delete("/{id}", s.deleteLabel)
	})

	r.Get("/agents", s.listAgents)

	r.Route("/groups", func(r chi.Router) {
		r.Get("/", s.listGroups)
		r.Post("/", s.createGroup)
		r.Patch("/{id}", s.updateGroup)
		r.Delete("/{id}", s.deleteGroup)
		r.Post("/{groupID}/members/{agentID}", s.groupMember(true))
		r.Delete("/{groupID}/members/{agentID}", s.groupMember(false))
	})

	return r
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	agentID := "agent-1"
	if token := r.URL.Query().Get("token"); token != "" {
		id, err := verifyToken(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		agentID = id
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := newClient(s.hub, conn, agentID, s.state, s.logger)
	s.hub.register <- c

	go c.writePump()
	go c.readPump()
}

// --- middleware ---

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}

// rateLimit is a single shared limiter; the mock serves one local client,
// so per-IP buckets are not worth carrying.
func rateLimit(limit rate.Limit, burst int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(limit, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Retry-After", "1")
				writeError(w, http.StatusTooManyRequests, "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// --- envelope helpers ---

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Meta    *meta  `json:"meta,omitempty"`
}

type meta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeList[T any](w http.ResponseWriter, items []T, total int64, page, limit int) {
	if items == nil {
		items = []T{}
	}
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Data:    items,
		Meta:    &meta{Total: total, Page: page, Limit: limit},
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Message: message})
}
