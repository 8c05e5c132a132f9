package model

import (
	"github.com/cognicore/helpdesk/pkg/triage/ticket"
)

// CategoryClassifier wraps the category model with its label decoder and
// the confidence floor below which a prediction is discarded in favor of
// the fallback category.
type CategoryClassifier struct {
	Model   *LinearModel
	Decoder *LabelDecoder
	Floor   float64
}

// Predict classifies a feature vector into a category. Predictions whose
// confidence falls under the floor, and labels outside the known set,
// both land on CategoryOther rather than surfacing a bad guess.
func (c *CategoryClassifier) Predict(features []float64) (ticket.Category, float64) {
	class, confidence := c.Model.Predict(features)
	if confidence < c.Floor {
		return ticket.CategoryOther, confidence
	}
	label, ok := c.Decoder.Decode(class)
	if !ok {
		return ticket.CategoryOther, confidence
	}
	return ticket.CanonicalCategory(label), confidence
}

// PriorityClassifier wraps the priority model with its label decoder.
// There is no confidence floor: every ticket gets a priority, and
// unrecognized labels settle on Medium.
type PriorityClassifier struct {
	Model   *LinearModel
	Decoder *LabelDecoder
}

// Predict classifies a feature vector into a priority.
func (c *PriorityClassifier) Predict(features []float64) ticket.Priority {
	class, _ := c.Model.Predict(features)
	label, ok := c.Decoder.Decode(class)
	if !ok {
		return ticket.PriorityMedium
	}
	return ticket.CanonicalPriority(label)
}
