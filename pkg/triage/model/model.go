package model

import "math"

// LinearModel is a one-vs-rest linear classifier: one weight row and
// intercept per class, scored as w·x + b. Both margin classifiers
// (linear SVM) and probabilistic ones (logistic regression) export to
// this shape and share the same softmax confidence calibration.
type LinearModel struct {
	Weights    [][]float64
	Intercepts []float64
}

// NumClasses returns the number of output classes.
func (m *LinearModel) NumClasses() int {
	return len(m.Weights)
}

// NumFeatures returns the expected feature-vector length.
func (m *LinearModel) NumFeatures() int {
	if len(m.Weights) == 0 {
		return 0
	}
	return len(m.Weights[0])
}

// DecisionFunction computes the raw per-class scores for a feature
// vector. Extra features beyond the trained width are ignored.
func (m *LinearModel) DecisionFunction(features []float64) []float64 {
	scores := make([]float64, len(m.Weights))
	for c, row := range m.Weights {
		n := len(row)
		if len(features) < n {
			n = len(features)
		}
		s := m.Intercepts[c]
		for i := 0; i < n; i++ {
			s += row[i] * features[i]
		}
		scores[c] = s
	}
	return scores
}

// Predict returns the winning class index and a confidence in [0, 1].
// Confidence is the softmax mass of the winning class: for logistic
// models this is the predicted probability, for margin models it is a
// calibration of the margin gap onto the same scale.
func (m *LinearModel) Predict(features []float64) (int, float64) {
	scores := m.DecisionFunction(features)
	if len(scores) == 0 {
		return 0, 0
	}

	best := 0
	for c, s := range scores {
		if s > scores[best] {
			best = c
		}
	}

	// Softmax with the max subtracted for numeric stability.
	var sum float64
	for _, s := range scores {
		sum += math.Exp(s - scores[best])
	}
	confidence := 1 / sum

	// A single-class model is degenerate but should not report certainty.
	if len(scores) == 1 {
		confidence = sigmoid(scores[0])
	}

	return best, confidence
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// LabelDecoder maps class indices back to the string labels the model
// was trained against, mirroring the training-side label encoder.
type LabelDecoder struct {
	Classes []string
}

// Decode returns the label for a class index, or false when the index is
// out of range (a model/decoder mismatch the caller coerces to fallback).
func (d *LabelDecoder) Decode(index int) (string, bool) {
	if index < 0 || index >= len(d.Classes) {
		return "", false
	}
	return d.Classes[index], true
}
