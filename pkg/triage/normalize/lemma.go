package normalize

import "strings"

// Irregular plural forms that suffix rules cannot reach.
var irregular = map[string]string{
	"mice":     "mouse",
	"men":      "man",
	"women":    "woman",
	"children": "child",
	"people":   "person",
	"feet":     "foot",
	"teeth":    "tooth",
}

// Lemma reduces a token to its base form with plural-stripping suffix
// rules. The rules are fixed points: applying Lemma to its own output
// returns the same token, which keeps normalization idempotent.
func Lemma(token string) string {
	if base, ok := irregular[token]; ok {
		return base
	}

	switch {
	case strings.HasSuffix(token, "sses"):
		return token[:len(token)-2]
	case strings.HasSuffix(token, "ies") && len(token) > 4:
		return token[:len(token)-3] + "y"
	case strings.HasSuffix(token, "xes"),
		strings.HasSuffix(token, "ches"),
		strings.HasSuffix(token, "shes"),
		strings.HasSuffix(token, "zes"):
		return token[:len(token)-2]
	case strings.HasSuffix(token, "s") &&
		!strings.HasSuffix(token, "ss") &&
		!strings.HasSuffix(token, "us") &&
		!strings.HasSuffix(token, "is") &&
		len(token) > 3:
		return token[:len(token)-1]
	}
	return token
}

// DefaultStopwords is the baseline English stopword list used when the
// configuration does not supply one. Short function words below the
// three-character token floor are omitted since the length filter
// already removes them.
func DefaultStopwords() []string {
	return []string{
		"the", "and", "for", "are", "but", "not", "you", "all", "any",
		"can", "had", "her", "was", "one", "our", "out", "day", "get",
		"has", "him", "his", "how", "man", "new", "now", "old", "see",
		"two", "way", "who", "did", "its", "let", "put", "say", "she",
		"too", "use", "that", "with", "have", "this", "will", "your",
		"from", "they", "know", "want", "been", "good", "much", "some",
		"time", "very", "when", "come", "here", "just", "like", "long",
		"make", "many", "more", "only", "over", "such", "take", "than",
		"them", "well", "were", "what", "would", "there", "their",
		"which", "about", "could", "after", "also", "into", "then",
		"please", "hello", "thanks", "thank", "regards", "team",
	}
}
