// Package auth handles account registration and credential checks on
// top of the credential store. Passwords are bcrypt-hashed; plaintext
// never reaches storage.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/cognicore/helpdesk/pkg/triage/internalerr"
	"github.com/cognicore/helpdesk/pkg/triage/store"
)

// DefaultRole is assigned to accounts registered without an explicit role.
const DefaultRole = "user"

// Service wraps a credential store with hashing and normalization.
type Service struct {
	creds store.CredentialStore
}

// New creates an auth service.
func New(creds store.CredentialStore) *Service {
	return &Service{creds: creds}
}

// Register creates an account. Usernames are trimmed and lowercased so
// logins are case-insensitive. A taken username surfaces as
// internalerr.ErrDuplicateUsername.
func (s *Service) Register(ctx context.Context, username, password, role string) (int64, error) {
	username = normalizeUsername(username)
	if username == "" || password == "" {
		return 0, fmt.Errorf("%w: username and password required", internalerr.ErrInvalidCredentials)
	}
	if role == "" {
		role = DefaultRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	return s.creds.RegisterUser(ctx, username, string(hash), role)
}

// Login verifies credentials and returns the account. Both an unknown
// username and a wrong password come back as ErrInvalidCredentials so
// the response does not reveal which part failed.
func (s *Service) Login(ctx context.Context, username, password string) (store.User, error) {
	username = normalizeUsername(username)

	u, err := s.creds.LookupUser(ctx, username)
	if errors.Is(err, internalerr.ErrNotFound) {
		return store.User{}, internalerr.ErrInvalidCredentials
	}
	if err != nil {
		return store.User{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return store.User{}, internalerr.ErrInvalidCredentials
	}
	return u, nil
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
