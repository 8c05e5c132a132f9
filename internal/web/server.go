// Package web exposes the helpdesk over JSON HTTP: session login,
// ticket creation through the triage engine, and the dashboard views.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/cognicore/helpdesk/internal/auth"
	"github.com/cognicore/helpdesk/pkg/triage"
	"github.com/cognicore/helpdesk/pkg/triage/internalerr"
	"github.com/cognicore/helpdesk/pkg/triage/store"
	"github.com/cognicore/helpdesk/pkg/triage/ticket"
)

const sessionCookie = "helpdesk_session"

// Server wires the triage engine, store, and auth service behind HTTP
// handlers.
type Server struct {
	engine   *triage.Engine
	store    store.Store
	auth     *auth.Service
	sessions *sessionStore
}

// NewServer creates a Server with a 12-hour session lifetime.
func NewServer(engine *triage.Engine, st store.Store) *Server {
	return &Server{
		engine:   engine,
		store:    st,
		auth:     auth.New(st),
		sessions: newSessionStore(12 * time.Hour),
	}
}

// Handler returns the route table. Everything under /api/tickets and
// /api/summary requires a session.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("POST /api/logout", s.handleLogout)

	mux.HandleFunc("POST /api/tickets", s.withSession(s.handleCreateTicket))
	mux.HandleFunc("GET /api/tickets/active", s.withSession(s.handleActive))
	mux.HandleFunc("GET /api/tickets/closed", s.withSession(s.handleClosed))
	mux.HandleFunc("POST /api/tickets/{id}/status", s.withSession(s.handleUpdateStatus))
	mux.HandleFunc("GET /api/tickets/{id}/download", s.withSession(s.handleDownload))
	mux.HandleFunc("GET /api/summary", s.withSession(s.handleSummary))

	return mux
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := s.auth.Register(r.Context(), req.Username, req.Password, "")
	if errors.Is(err, internalerr.ErrDuplicateUsername) {
		writeError(w, http.StatusConflict, "username already exists")
		return
	}
	if errors.Is(err, internalerr.ErrInvalidCredentials) {
		writeError(w, http.StatusBadRequest, "username and password required")
		return
	}
	if err != nil {
		s.internalError(w, "register", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"user_id": id})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if errors.Is(err, internalerr.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}
	if err != nil {
		s.internalError(w, "login", err)
		return
	}

	token := s.sessions.create(u.ID, u.Username, u.Role)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"username": u.Username,
		"role":     u.Role,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		s.sessions.drop(c.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:   sessionCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	w.WriteHeader(http.StatusNoContent)
}

// withSession rejects requests without a valid session cookie.
func (s *Server) withSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(sessionCookie)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "login required")
			return
		}
		if _, ok := s.sessions.get(c.Value); !ok {
			writeError(w, http.StatusUnauthorized, "session expired")
			return
		}
		next(w, r)
	}
}

type createTicketRequest struct {
	Description string `json:"description"`
}

func (s *Server) handleCreateTicket(w http.ResponseWriter, r *http.Request) {
	var req createTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := s.engine.Assemble(req.Description)
	if errors.Is(err, internalerr.ErrEmptyDescription) ||
		errors.Is(err, internalerr.ErrDescriptionTooShort) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.internalError(w, "assemble", err)
		return
	}

	if err := s.store.InsertTicket(r.Context(), t); err != nil {
		s.internalError(w, "insert ticket", err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleActive(w http.ResponseWriter, r *http.Request) {
	tickets, err := s.store.FetchActive(r.Context())
	if err != nil {
		s.internalError(w, "fetch active", err)
		return
	}
	writeJSON(w, http.StatusOK, ticketList(tickets))
}

func (s *Server) handleClosed(w http.ResponseWriter, r *http.Request) {
	tickets, err := s.store.FetchClosed(r.Context())
	if err != nil {
		s.internalError(w, "fetch closed", err)
		return
	}
	writeJSON(w, http.StatusOK, ticketList(tickets))
}

type statusRequest struct {
	Status string `json:"status"`
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := s.store.UpdateStatus(r.Context(), id, canonicalStatus(req.Status))
	if errors.Is(err, internalerr.ErrUnknownStatus) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", req.Status))
		return
	}
	if errors.Is(err, internalerr.ErrNotFound) {
		writeError(w, http.StatusNotFound, "ticket not found")
		return
	}
	if err != nil {
		s.internalError(w, "update status", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	t, err := s.store.GetTicket(r.Context(), id)
	if errors.Is(err, internalerr.ErrNotFound) {
		writeError(w, http.StatusNotFound, "ticket not found")
		return
	}
	if err != nil {
		s.internalError(w, "get ticket", err)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "ticket_"+t.ID+".json"))
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	counts, err := s.store.Counts(r.Context())
	if err != nil {
		s.internalError(w, "counts", err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	log.Printf("web: %s: %v", op, err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

// canonicalStatus accepts lifecycle states case-insensitively.
func canonicalStatus(raw string) ticket.Status {
	trimmed := strings.TrimSpace(raw)
	for _, st := range []ticket.Status{
		ticket.StatusOpen, ticket.StatusInProgress, ticket.StatusResolved, ticket.StatusClosed,
	} {
		if strings.EqualFold(trimmed, string(st)) {
			return st
		}
	}
	return ticket.Status(trimmed)
}

// ticketList guarantees a JSON array even when there are no tickets.
func ticketList(tickets []ticket.Ticket) []ticket.Ticket {
	if tickets == nil {
		return []ticket.Ticket{}
	}
	return tickets
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("web: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
