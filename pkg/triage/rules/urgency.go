package rules

import "strings"

// UrgencyDetector scans the original, unnormalized text for phrases that
// signal an escalation. It runs on raw text because several urgency
// phrases ("not working", "system down") are built from stopwords the
// normalizer removes.
type UrgencyDetector struct {
	keywords []string
}

// NewUrgencyDetector creates a detector with the given phrase list.
func NewUrgencyDetector(keywords []string) *UrgencyDetector {
	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			lowered = append(lowered, kw)
		}
	}
	return &UrgencyDetector{keywords: lowered}
}

// IsUrgent reports whether any urgency phrase occurs in the text. A true
// result overrides the predicted priority to High unconditionally.
func (d *UrgencyDetector) IsUrgent(raw string) bool {
	text := strings.ToLower(raw)
	for _, kw := range d.keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// DefaultUrgencyKeywords returns the baseline escalation phrase list.
func DefaultUrgencyKeywords() []string {
	return []string{
		"urgent", "immediately", "asap", "critical",
		"not working", "system down", "blocked", "unable to access",
	}
}
