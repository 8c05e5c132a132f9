package rules

import (
	"testing"

	"github.com/cognicore/helpdesk/pkg/triage/ticket"
)

func TestMatchCategoryFirstMatchWins(t *testing.T) {
	e := NewEngine(DefaultRules())

	// Contains both a Purchase keyword ("order") and a Hardware keyword
	// ("laptop"); Purchase is earlier in the table and must win.
	cat, ok := e.MatchCategory("need order new laptop design team")
	if !ok {
		t.Fatal("expected a rule match")
	}
	if cat != ticket.CategoryPurchase {
		t.Errorf("category = %s, want %s (rule precedence)", cat, ticket.CategoryPurchase)
	}
}

func TestMatchCategoryPerRule(t *testing.T) {
	e := NewEngine(DefaultRules())

	tests := []struct {
		text string
		want ticket.Category
	}{
		{"laptop keyboard broken", ticket.CategoryHardware},
		{"vpn keeps disconnecting", ticket.CategoryNetwork},
		{"forgot password account locked", ticket.CategoryAccess},
		{"received phishing email", ticket.CategorySecurity},
		{"salary credited wrong amount", ticket.CategoryHRSupport},
		{"software update fails", ticket.CategorySoftware},
	}
	for _, tt := range tests {
		cat, ok := e.MatchCategory(tt.text)
		if !ok {
			t.Errorf("MatchCategory(%q): no match, want %s", tt.text, tt.want)
			continue
		}
		if cat != tt.want {
			t.Errorf("MatchCategory(%q) = %s, want %s", tt.text, cat, tt.want)
		}
	}
}

func TestMatchCategoryNoMatch(t *testing.T) {
	e := NewEngine(DefaultRules())

	if cat, ok := e.MatchCategory("coffee machine third floor empty"); ok {
		t.Errorf("expected no match, got %s", cat)
	}
	if cat, ok := e.MatchCategory(""); ok {
		t.Errorf("expected no match on empty text, got %s", cat)
	}
}

func TestMatchCategoryWholeTokensOnly(t *testing.T) {
	e := NewEngine([]Rule{
		{Category: ticket.CategoryNetwork, Keywords: []string{"net"}},
	})

	// "network" contains "net" as a substring but is a different token.
	if cat, ok := e.MatchCategory("internetworking question"); ok {
		t.Errorf("substring should not match, got %s", cat)
	}
}

func TestMatchCategoryDeterministic(t *testing.T) {
	e := NewEngine(DefaultRules())

	text := "order laptop printer login vpn"
	first, ok := e.MatchCategory(text)
	if !ok {
		t.Fatal("expected a match")
	}
	for i := 0; i < 50; i++ {
		got, _ := e.MatchCategory(text)
		if got != first {
			t.Fatalf("run %d: got %s, earlier got %s", i, got, first)
		}
	}
}

func TestIsUrgent(t *testing.T) {
	d := NewUrgencyDetector(DefaultUrgencyKeywords())

	urgent := []string{
		"Printer not working since morning",
		"URGENT: demo in one hour",
		"the whole system DOWN right now",
		"please fix asap",
		"I am unable to access my mailbox",
	}
	for _, text := range urgent {
		if !d.IsUrgent(text) {
			t.Errorf("IsUrgent(%q) = false, want true", text)
		}
	}

	calm := []string{
		"requesting a second monitor",
		"how do I change my desktop wallpaper",
		"",
	}
	for _, text := range calm {
		if d.IsUrgent(text) {
			t.Errorf("IsUrgent(%q) = true, want false", text)
		}
	}
}

func TestUrgencyDetectorIgnoresBlankKeywords(t *testing.T) {
	d := NewUrgencyDetector([]string{"", "  ", "urgent"})

	if d.IsUrgent("all quiet here") {
		t.Error("blank keywords must not match everything")
	}
	if !d.IsUrgent("this is urgent") {
		t.Error("real keyword should still match")
	}
}
