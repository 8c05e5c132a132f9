package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrEmptyDescription    = errors.New("ticket description cannot be empty")
	ErrDescriptionTooShort = errors.New("ticket description too short to classify")
	ErrArtifactMissing     = errors.New("pretrained artifact missing")
	ErrArtifactCorrupt     = errors.New("pretrained artifact corrupt")
	ErrDuplicateUsername   = errors.New("username already exists")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrUnknownStatus       = errors.New("unknown ticket status")
	ErrNotFound            = errors.New("not found")
	ErrInvalidConfig       = errors.New("invalid configuration")
)
