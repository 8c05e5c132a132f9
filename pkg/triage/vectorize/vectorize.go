package vectorize

import (
	"math"
	"strings"
)

// Vectorizer maps normalized text onto a fixed TF-IDF feature space. The
// vocabulary and IDF weights come from a pretrained artifact and are
// read-only after loading, so a single instance serves concurrent
// requests without locking.
type Vectorizer struct {
	vocabulary map[string]int
	idf        []float64
}

// New creates a vectorizer from a vocabulary (term to column index) and
// matching IDF weights. Callers are expected to have validated that every
// index is within range of the IDF slice; the artifact loader does this.
func New(vocabulary map[string]int, idf []float64) *Vectorizer {
	return &Vectorizer{vocabulary: vocabulary, idf: idf}
}

// Dim returns the feature-space dimensionality.
func (v *Vectorizer) Dim() int {
	return len(v.idf)
}

// Transform converts normalized text to an L2-normalized TF-IDF vector.
// Tokens outside the vocabulary contribute nothing; text with no known
// tokens yields the zero vector.
func (v *Vectorizer) Transform(text string) []float64 {
	features := make([]float64, len(v.idf))

	for _, tok := range strings.Fields(text) {
		if idx, ok := v.vocabulary[tok]; ok {
			features[idx] += v.idf[idx]
		}
	}

	var norm float64
	for _, f := range features {
		norm += f * f
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range features {
			features[i] /= norm
		}
	}
	return features
}
