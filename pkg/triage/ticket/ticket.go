package ticket

import (
	"math"
	"strings"
	"time"
)

// Category labels a ticket with the support team that owns it.
// The set is closed: anything the classifier produces outside of it
// is coerced to CategoryOther.
type Category string

const (
	CategoryNetwork   Category = "Network"
	CategoryHardware  Category = "Hardware"
	CategorySoftware  Category = "Software"
	CategoryAccess    Category = "Access"
	CategoryPurchase  Category = "Purchase"
	CategoryHRSupport Category = "HR Support"
	CategorySecurity  Category = "Security"
	CategoryOther     Category = "Other"

	// CategoryUnknown marks degraded tickets whose description carried
	// no usable signal after normalization.
	CategoryUnknown Category = "unknown"
)

var validCategories = map[Category]struct{}{
	CategoryNetwork:   {},
	CategoryHardware:  {},
	CategorySoftware:  {},
	CategoryAccess:    {},
	CategoryPurchase:  {},
	CategoryHRSupport: {},
	CategorySecurity:  {},
	CategoryOther:     {},
	CategoryUnknown:   {},
}

// CanonicalCategory maps an arbitrary label onto the closed category set.
// Matching is case-insensitive; unrecognized labels become CategoryOther.
func CanonicalCategory(label string) Category {
	trimmed := strings.TrimSpace(label)
	for cat := range validCategories {
		if strings.EqualFold(trimmed, string(cat)) {
			return cat
		}
	}
	// Training data used "miscellaneous" for the fallback class.
	if strings.EqualFold(trimmed, "miscellaneous") {
		return CategoryOther
	}
	return CategoryOther
}

// Priority is the ordinal urgency of a ticket: Low < Medium < High.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// CanonicalPriority maps an arbitrary label onto the priority set.
// "normal" is accepted as a synonym for Medium; anything unrecognized
// defaults to Medium rather than guessing high or low.
func CanonicalPriority(label string) Priority {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "low":
		return PriorityLow
	case "medium", "normal":
		return PriorityMedium
	case "high":
		return PriorityHigh
	default:
		return PriorityMedium
	}
}

// Status tracks the ticket lifecycle after creation. The triage engine
// only ever produces StatusOpen; later transitions belong to the store.
type Status string

const (
	StatusOpen       Status = "Open"
	StatusInProgress Status = "In Progress"
	StatusResolved   Status = "Resolved"
	StatusClosed     Status = "Closed"
)

// ValidStatus reports whether s is a recognized lifecycle state.
func ValidStatus(s Status) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// Entities holds best-effort substructures pulled from the raw
// description. Extraction is lossy and never authoritative.
type Entities struct {
	Usernames  []string `json:"usernames"`
	Devices    []string `json:"devices"`
	ErrorCodes []string `json:"error_codes"`
}

// Ticket is the immutable triage result handed to the store. Field names
// are part of the export format consumed by dashboards and downloads.
type Ticket struct {
	ID          string     `json:"ticket_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Cleaned     string     `json:"cleaned_description"`
	Category    Category   `json:"category"`
	Priority    Priority   `json:"priority"`
	Confidence  float64    `json:"confidence_score"`
	Entities    Entities   `json:"entities"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// Title builds the display title for a category, e.g. "Hardware Issue".
// The first letter is upper-cased so degraded categories ("unknown")
// render consistently with classified ones.
func Title(cat Category) string {
	s := string(cat)
	if s == "" {
		return "Issue"
	}
	return strings.ToUpper(s[:1]) + s[1:] + " Issue"
}

// RoundConfidence clamps a confidence score to [0, 1] and rounds it to
// the three decimal places the export format guarantees.
func RoundConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return math.Round(c*1000) / 1000
}
