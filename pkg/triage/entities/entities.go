package entities

import (
	"regexp"
	"sort"
	"strings"

	"github.com/cognicore/helpdesk/pkg/triage/ticket"
)

// Lightweight pattern extraction over the raw description. Results are
// auxiliary metadata, never inputs to classification.
var (
	usernameRe  = regexp.MustCompile(`\buser[_-]?\w+\b`)
	deviceRe    = regexp.MustCompile(`\b(laptop|desktop|mouse|keyboard|printer|monitor|router)\b`)
	errorCodeRe = regexp.MustCompile(`\b(?:error|err|code)\s?\d+\b`)
)

// Extract pulls usernames, device names, and error codes out of the raw
// text. Results are de-duplicated and sorted; slices are always non-nil
// so the JSON payload renders empty arrays rather than null.
func Extract(raw string) ticket.Entities {
	text := strings.ToLower(raw)
	return ticket.Entities{
		Usernames:  uniqueSorted(usernameRe.FindAllString(text, -1)),
		Devices:    uniqueSorted(deviceRe.FindAllString(text, -1)),
		ErrorCodes: uniqueSorted(errorCodeRe.FindAllString(text, -1)),
	}
}

func uniqueSorted(matches []string) []string {
	set := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		set[m] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for m := range set {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}
