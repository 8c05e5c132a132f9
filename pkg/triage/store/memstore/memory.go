package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cognicore/helpdesk/pkg/triage/internalerr"
	"github.com/cognicore/helpdesk/pkg/triage/store"
	"github.com/cognicore/helpdesk/pkg/triage/ticket"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu       sync.RWMutex
	tickets  map[string]ticket.Ticket
	order    []string
	users    map[string]store.User
	nextUser int64
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		tickets:  make(map[string]ticket.Ticket),
		users:    make(map[string]store.User),
		nextUser: 1,
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// InsertTicket stores a ticket keyed by ID.
func (s *Store) InsertTicket(ctx context.Context, t ticket.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID == "" {
		return fmt.Errorf("ticket has no id")
	}
	if _, exists := s.tickets[t.ID]; !exists {
		s.order = append(s.order, t.ID)
	}
	s.tickets[t.ID] = t
	return nil
}

// GetTicket returns a ticket by ID.
func (s *Store) GetTicket(ctx context.Context, id string) (ticket.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if t, ok := s.tickets[id]; ok {
		return t, nil
	}
	return ticket.Ticket{}, internalerr.ErrNotFound
}

// FetchActive returns all non-closed tickets, newest first.
func (s *Store) FetchActive(ctx context.Context) ([]ticket.Ticket, error) {
	return s.filter(func(t ticket.Ticket) bool { return t.Status != ticket.StatusClosed }), nil
}

// FetchClosed returns closed tickets, newest first.
func (s *Store) FetchClosed(ctx context.Context) ([]ticket.Ticket, error) {
	return s.filter(func(t ticket.Ticket) bool { return t.Status == ticket.StatusClosed }), nil
}

// UpdateStatus moves a ticket through its lifecycle.
func (s *Store) UpdateStatus(ctx context.Context, id string, status ticket.Status) error {
	if !ticket.ValidStatus(status) {
		return fmt.Errorf("%w: %q", internalerr.ErrUnknownStatus, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tickets[id]
	if !ok {
		return internalerr.ErrNotFound
	}
	now := time.Now().UTC()
	t.Status = status
	t.UpdatedAt = &now
	s.tickets[id] = t
	return nil
}

// Counts returns the dashboard summary.
func (s *Store) Counts(ctx context.Context) (store.Counts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var c store.Counts
	for _, t := range s.tickets {
		c.Total++
		if t.Status == ticket.StatusOpen {
			c.Open++
		}
		if t.Status == ticket.StatusClosed {
			c.Closed++
		}
		if t.Priority == ticket.PriorityHigh {
			c.High++
		}
	}
	return c, nil
}

// RegisterUser creates an account.
func (s *Store) RegisterUser(ctx context.Context, username, passwordHash, role string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[username]; exists {
		return 0, internalerr.ErrDuplicateUsername
	}
	u := store.User{
		ID:           s.nextUser,
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
	}
	s.nextUser++
	s.users[username] = u
	return u.ID, nil
}

// LookupUser fetches an account by username.
func (s *Store) LookupUser(ctx context.Context, username string) (store.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if u, ok := s.users[username]; ok {
		return u, nil
	}
	return store.User{}, internalerr.ErrNotFound
}

func (s *Store) filter(keep func(ticket.Ticket) bool) []ticket.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []ticket.Ticket
	for _, id := range s.order {
		if t, ok := s.tickets[id]; ok && keep(t) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
