package store

import (
	"context"

	"github.com/cognicore/helpdesk/pkg/triage/ticket"
)

// TicketStore persists triage results and owns their lifecycle after
// creation. The triage engine calls only InsertTicket; the remaining
// methods serve the dashboard.
type TicketStore interface {
	InsertTicket(ctx context.Context, t ticket.Ticket) error
	GetTicket(ctx context.Context, id string) (ticket.Ticket, error)
	FetchActive(ctx context.Context) ([]ticket.Ticket, error)
	FetchClosed(ctx context.Context) ([]ticket.Ticket, error)
	UpdateStatus(ctx context.Context, id string, status ticket.Status) error
	Counts(ctx context.Context) (Counts, error)
}

// Counts is the dashboard summary.
type Counts struct {
	Total  int64 `json:"total"`
	Open   int64 `json:"open"`
	High   int64 `json:"high"`
	Closed int64 `json:"closed"`
}

// User is a registered account. PasswordHash is a bcrypt hash; the
// store never sees a plaintext password.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         string
}

// CredentialStore persists accounts for session login.
type CredentialStore interface {
	RegisterUser(ctx context.Context, username, passwordHash, role string) (int64, error)
	LookupUser(ctx context.Context, username string) (User, error)
}

// Store is the full persistence surface of the application.
type Store interface {
	TicketStore
	CredentialStore
	Close() error
}
