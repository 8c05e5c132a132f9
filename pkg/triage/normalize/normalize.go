package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Mode selects which characters survive the charset filter. Deployments
// that rely on numeric signal (error codes, versions) keep digits;
// others strip them so the vocabulary stays purely alphabetic.
type Mode int

const (
	// ModeAlphanumeric keeps [a-z0-9 ].
	ModeAlphanumeric Mode = iota
	// ModeAlphabetic keeps [a-z ] only.
	ModeAlphabetic
)

// ParseMode maps a configuration string to a Mode.
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "alphanumeric":
		return ModeAlphanumeric, true
	case "alphabetic":
		return ModeAlphabetic, true
	}
	return ModeAlphanumeric, false
}

// PII patterns, masked before any other filtering so fragments of an
// address never leak into tokens.
var (
	emailRe = regexp.MustCompile(`[\w.+-]+@[\w.-]+\.[a-z]{2,}`)
	phoneRe = regexp.MustCompile(`\b\d{10}\b`)
	ipRe    = regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`)
)

// Normalizer turns raw issue text into the cleaned, de-duplicated token
// string the rule engine and vectorizer operate on. It is pure: the same
// input always yields the same output and nothing is mutated.
type Normalizer struct {
	mode      Mode
	stopwords map[string]struct{}
}

// New creates a normalizer with the given charset mode and stopword list.
func New(mode Mode, stopwords []string) *Normalizer {
	stops := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		stops[strings.ToLower(w)] = struct{}{}
	}
	return &Normalizer{mode: mode, stopwords: stops}
}

// Normalize runs the full cleaning sequence: markup stripping and entity
// decoding, lowercasing, PII masking, charset filtering, stopword and
// short-token removal before and after lemmatization, and
// first-occurrence de-duplication. Empty or whitespace-only input yields
// "" and is never an error. Normalize is idempotent on its own output.
func (n *Normalizer) Normalize(raw string) string {
	text := stripMarkup(raw)
	text = strings.ToLower(text)

	text = emailRe.ReplaceAllString(text, " ")
	text = phoneRe.ReplaceAllString(text, " ")
	text = ipRe.ReplaceAllString(text, " ")

	text = n.filterCharset(text)

	seen := make(map[string]struct{})
	var out []string
	for _, tok := range strings.Fields(text) {
		if n.dropToken(tok) {
			continue
		}
		tok = Lemma(tok)
		// A lemma can land on a stopword ("gets" -> "get") or shrink
		// under the length floor ("axes" -> "ax"), so the filters run
		// again on the lemmatized form.
		if n.dropToken(tok) {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return strings.Join(out, " ")
}

// dropToken reports whether a token carries no signal: too short or a
// stopword.
func (n *Normalizer) dropToken(tok string) bool {
	if len(tok) <= 2 {
		return true
	}
	_, stop := n.stopwords[tok]
	return stop
}

// filterCharset replaces everything outside the configured character set
// with a space so punctuation acts as a token boundary.
func (n *Normalizer) filterCharset(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= '0' && r <= '9' && n.mode == ModeAlphanumeric:
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// stripMarkup drops HTML tags and decodes entities, keeping only the text
// content. Plain text passes through unchanged; the tokenizer treats a
// bare "<" followed by a non-letter as text, so prose survives intact.
func stripMarkup(raw string) string {
	if !strings.ContainsAny(raw, "<&") {
		return raw
	}
	z := html.NewTokenizer(strings.NewReader(raw))
	var b strings.Builder
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken {
			b.Write(z.Text())
			b.WriteByte(' ')
		}
	}
	return b.String()
}
