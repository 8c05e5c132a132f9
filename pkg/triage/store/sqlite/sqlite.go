package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/helpdesk/pkg/triage/internalerr"
	"github.com/cognicore/helpdesk/pkg/triage/store"
	"github.com/cognicore/helpdesk/pkg/triage/ticket"
)

// sqliteStore implements store.Store using SQLite.
type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite database with WAL mode enabled and creates the
// schema if absent.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection.
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS tickets (
	ticket_id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	cleaned_description TEXT,
	category TEXT,
	priority TEXT,
	confidence REAL DEFAULT 0,
	entities TEXT,
	status TEXT DEFAULT 'Open',
	created_at TEXT NOT NULL,
	updated_at TEXT
);

CREATE INDEX IF NOT EXISTS idx_tickets_status ON tickets(status);

CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT UNIQUE NOT NULL,
	password TEXT NOT NULL,
	role TEXT DEFAULT 'user'
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// InsertTicket stores a new triage result.
func (s *sqliteStore) InsertTicket(ctx context.Context, t ticket.Ticket) error {
	entitiesJSON, err := json.Marshal(t.Entities)
	if err != nil {
		return err
	}

	var updated interface{}
	if t.UpdatedAt != nil {
		updated = t.UpdatedAt.UTC().Format(time.RFC3339)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO tickets (ticket_id, title, description, cleaned_description,
	category, priority, confidence, entities, status, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`,
		t.ID, t.Title, t.Description, t.Cleaned,
		string(t.Category), string(t.Priority), t.Confidence,
		string(entitiesJSON), string(t.Status),
		t.CreatedAt.UTC().Format(time.RFC3339), updated,
	)
	return err
}

// GetTicket retrieves one ticket by ID.
func (s *sqliteStore) GetTicket(ctx context.Context, id string) (ticket.Ticket, error) {
	row := s.db.QueryRowContext(ctx, selectTickets+` WHERE ticket_id = ?`, id)
	t, err := scanTicket(row)
	if err == sql.ErrNoRows {
		return ticket.Ticket{}, internalerr.ErrNotFound
	}
	return t, err
}

// FetchActive returns every ticket not yet closed, newest first.
func (s *sqliteStore) FetchActive(ctx context.Context) ([]ticket.Ticket, error) {
	return s.fetch(ctx, selectTickets+` WHERE status != ? ORDER BY created_at DESC`, string(ticket.StatusClosed))
}

// FetchClosed returns closed tickets, newest first.
func (s *sqliteStore) FetchClosed(ctx context.Context) ([]ticket.Ticket, error) {
	return s.fetch(ctx, selectTickets+` WHERE status = ? ORDER BY created_at DESC`, string(ticket.StatusClosed))
}

// UpdateStatus moves a ticket through its lifecycle and stamps updated_at.
func (s *sqliteStore) UpdateStatus(ctx context.Context, id string, status ticket.Status) error {
	if !ticket.ValidStatus(status) {
		return fmt.Errorf("%w: %q", internalerr.ErrUnknownStatus, status)
	}
	res, err := s.db.ExecContext(ctx, `
UPDATE tickets SET status = ?, updated_at = ? WHERE ticket_id = ?;
`, string(status), time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return internalerr.ErrNotFound
	}
	return nil
}

// Counts returns the dashboard summary in one round of aggregate queries.
func (s *sqliteStore) Counts(ctx context.Context) (store.Counts, error) {
	var c store.Counts
	err := s.db.QueryRowContext(ctx, `
SELECT
	COUNT(*),
	COUNT(CASE WHEN status = ? THEN 1 END),
	COUNT(CASE WHEN priority = ? THEN 1 END),
	COUNT(CASE WHEN status = ? THEN 1 END)
FROM tickets;
`, string(ticket.StatusOpen), string(ticket.PriorityHigh), string(ticket.StatusClosed)).
		Scan(&c.Total, &c.Open, &c.High, &c.Closed)
	return c, err
}

// RegisterUser creates an account, reporting a duplicate username as
// internalerr.ErrDuplicateUsername.
func (s *sqliteStore) RegisterUser(ctx context.Context, username, passwordHash, role string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
INSERT INTO users (username, password, role) VALUES (?, ?, ?);
`, username, passwordHash, role)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return 0, internalerr.ErrDuplicateUsername
		}
		return 0, err
	}
	return res.LastInsertId()
}

// LookupUser fetches an account by username.
func (s *sqliteStore) LookupUser(ctx context.Context, username string) (store.User, error) {
	var u store.User
	err := s.db.QueryRowContext(ctx, `
SELECT id, username, password, role FROM users WHERE username = ?;
`, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role)
	if err == sql.ErrNoRows {
		return store.User{}, internalerr.ErrNotFound
	}
	if err != nil {
		return store.User{}, err
	}
	return u, nil
}

const selectTickets = `
SELECT ticket_id, title, description, cleaned_description, category,
	priority, confidence, entities, status, created_at, updated_at
FROM tickets`

func (s *sqliteStore) fetch(ctx context.Context, query string, args ...interface{}) ([]ticket.Ticket, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []ticket.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTicket(row rowScanner) (ticket.Ticket, error) {
	var (
		t            ticket.Ticket
		cat, pri, st string
		entitiesJSON string
		created      string
		updated      sql.NullString
	)
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Cleaned, &cat,
		&pri, &t.Confidence, &entitiesJSON, &st, &created, &updated)
	if err != nil {
		return ticket.Ticket{}, err
	}

	t.Category = ticket.Category(cat)
	t.Priority = ticket.Priority(pri)
	t.Status = ticket.Status(st)

	if entitiesJSON != "" {
		if err := json.Unmarshal([]byte(entitiesJSON), &t.Entities); err != nil {
			return ticket.Ticket{}, err
		}
	}
	if parsed, perr := time.Parse(time.RFC3339, created); perr == nil {
		t.CreatedAt = parsed
	}
	if updated.Valid && updated.String != "" {
		if parsed, perr := time.Parse(time.RFC3339, updated.String); perr == nil {
			t.UpdatedAt = &parsed
		}
	}
	return t, nil
}
