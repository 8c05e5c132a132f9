package rules

import (
	"strings"

	"github.com/cognicore/helpdesk/pkg/triage/ticket"
)

// Rule binds a category to the keywords that trigger it. Keywords are
// matched against the token set of normalized text, so they should be in
// lemma form ("keyboard", not "keyboards").
type Rule struct {
	Category ticket.Category
	Keywords []string
}

// Engine evaluates an ordered rule list top to bottom; the first rule
// with any keyword present in the text wins. Ordering is the precedence
// policy: intent categories (Purchase, HR Support) come before the
// generic infrastructure ones whose keywords show up inside broader
// phrases. There is no scoring and no partial credit.
type Engine struct {
	rules    []Rule
	keywords []map[string]struct{}
}

// NewEngine builds an engine from an ordered rule list.
func NewEngine(rules []Rule) *Engine {
	e := &Engine{
		rules:    rules,
		keywords: make([]map[string]struct{}, len(rules)),
	}
	for i, r := range rules {
		set := make(map[string]struct{}, len(r.Keywords))
		for _, kw := range r.Keywords {
			set[strings.ToLower(kw)] = struct{}{}
		}
		e.keywords[i] = set
	}
	return e
}

// MatchCategory returns the first category whose keyword set intersects
// the tokens of the normalized text, or false when no rule fires and the
// statistical classifier should decide.
func (e *Engine) MatchCategory(normalized string) (ticket.Category, bool) {
	tokens := strings.Fields(normalized)
	if len(tokens) == 0 {
		return "", false
	}
	present := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		present[tok] = struct{}{}
	}

	for i, r := range e.rules {
		for kw := range e.keywords[i] {
			if _, ok := present[kw]; ok {
				return r.Category, true
			}
		}
	}
	return "", false
}

// DefaultRules is the canonical ordered rule table. Intent-style
// categories are checked before infrastructure ones so that, e.g.,
// "order a new laptop" routes to Purchase rather than Hardware.
func DefaultRules() []Rule {
	return []Rule{
		{Category: ticket.CategoryPurchase, Keywords: []string{
			"purchase", "buy", "order", "procure", "procurement", "quote", "vendor",
		}},
		{Category: ticket.CategoryHRSupport, Keywords: []string{
			"leave", "salary", "payroll", "onboarding", "resignation", "appraisal",
		}},
		{Category: ticket.CategoryAccess, Keywords: []string{
			"login", "password", "otp", "account", "locked", "permission", "credential",
		}},
		{Category: ticket.CategorySecurity, Keywords: []string{
			"phishing", "virus", "malware", "breach", "suspicious", "ransomware",
		}},
		{Category: ticket.CategoryNetwork, Keywords: []string{
			"vpn", "wifi", "network", "internet", "ethernet", "firewall", "dns",
		}},
		{Category: ticket.CategoryHardware, Keywords: []string{
			"laptop", "printer", "keyboard", "monitor", "mouse", "desktop", "battery", "charger",
		}},
		{Category: ticket.CategorySoftware, Keywords: []string{
			"install", "installation", "software", "application", "update", "license", "crash",
		}},
	}
}
