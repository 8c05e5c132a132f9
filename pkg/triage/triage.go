// Package triage implements the ticket triage pipeline: raw issue text
// is normalized, vectorized, classified by an ordered keyword rule table
// with a statistical fallback, priority-checked against urgency phrases,
// and assembled into an immutable ticket record.
package triage

import (
	"log"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/helpdesk/pkg/triage/artifact"
	"github.com/cognicore/helpdesk/pkg/triage/config"
	"github.com/cognicore/helpdesk/pkg/triage/entities"
	"github.com/cognicore/helpdesk/pkg/triage/internalerr"
	"github.com/cognicore/helpdesk/pkg/triage/model"
	"github.com/cognicore/helpdesk/pkg/triage/normalize"
	"github.com/cognicore/helpdesk/pkg/triage/rules"
	"github.com/cognicore/helpdesk/pkg/triage/ticket"
	"github.com/cognicore/helpdesk/pkg/triage/vectorize"
)

// Engine is the triage pipeline. All fields are read-only after New, so
// one Engine serves concurrent requests without coordination.
type Engine struct {
	normalizer *normalize.Normalizer
	vectorizer *vectorize.Vectorizer
	ruleEngine *rules.Engine
	urgency    *rules.UrgencyDetector
	category   *model.CategoryClassifier
	priority   *model.PriorityClassifier
	minWords   int
	strict     bool
}

// Options configures an Engine. Artifacts must be fully loaded; the
// zero values of the remaining fields fall back to package defaults.
type Options struct {
	Artifacts       *artifact.Set
	Mode            normalize.Mode
	Stopwords       []string
	Rules           []rules.Rule
	UrgencyKeywords []string
	ConfidenceFloor float64
	MinWords        int
	Strict          bool
}

// New creates an Engine from explicit options.
func New(opts Options) *Engine {
	if opts.Stopwords == nil {
		opts.Stopwords = normalize.DefaultStopwords()
	}
	if opts.Rules == nil {
		opts.Rules = rules.DefaultRules()
	}
	if opts.UrgencyKeywords == nil {
		opts.UrgencyKeywords = rules.DefaultUrgencyKeywords()
	}
	if opts.MinWords < 1 {
		opts.MinWords = 4
	}

	return &Engine{
		normalizer: normalize.New(opts.Mode, opts.Stopwords),
		vectorizer: opts.Artifacts.Vectorizer,
		ruleEngine: rules.NewEngine(opts.Rules),
		urgency:    rules.NewUrgencyDetector(opts.UrgencyKeywords),
		category: &model.CategoryClassifier{
			Model:   opts.Artifacts.CategoryModel,
			Decoder: opts.Artifacts.CategoryDecoder,
			Floor:   opts.ConfidenceFloor,
		},
		priority: &model.PriorityClassifier{
			Model:   opts.Artifacts.PriorityModel,
			Decoder: opts.Artifacts.PriorityDecoder,
		},
		minWords: opts.MinWords,
		strict:   opts.Strict,
	}
}

// NewFromConfig wires an Engine from a validated configuration and a
// loaded artifact set.
func NewFromConfig(cfg config.Config, set *artifact.Set) *Engine {
	return New(Options{
		Artifacts:       set,
		Mode:            cfg.Mode(),
		Stopwords:       cfg.Normalizer.Stopwords,
		Rules:           cfg.RuleTable(),
		UrgencyKeywords: cfg.UrgencyKeywords,
		ConfidenceFloor: cfg.Triage.ConfidenceFloor,
		MinWords:        cfg.Triage.MinWords,
		Strict:          cfg.Triage.Strict,
	})
}

// Assemble runs the full pipeline on a raw description and returns the
// ticket payload. Validation failures return an error and no ticket;
// every other path yields a complete ticket. Assemble performs no I/O —
// persistence belongs to the caller.
func (e *Engine) Assemble(raw string) (ticket.Ticket, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ticket.Ticket{}, internalerr.ErrEmptyDescription
	}
	if e.strict && len(strings.Fields(trimmed)) < e.minWords {
		return ticket.Ticket{}, internalerr.ErrDescriptionTooShort
	}

	cleaned := e.normalizer.Normalize(raw)
	if cleaned == "" {
		// Nothing classifiable survived normalization: emit a degraded
		// ticket instead of running the model on empty features.
		return e.build(raw, cleaned, ticket.CategoryUnknown, ticket.PriorityLow, 0), nil
	}

	features := e.vectorizer.Transform(cleaned)

	category, confidence := e.resolveCategory(cleaned, features)

	priority := e.priority.Predict(features)
	if e.urgency.IsUrgent(raw) {
		priority = ticket.PriorityHigh
	}

	return e.build(raw, cleaned, category, priority, confidence), nil
}

// resolveCategory applies the rule table first; a hit is definitive and
// the model is never consulted. Otherwise the statistical classifier
// decides, with its confidence floor.
func (e *Engine) resolveCategory(cleaned string, features []float64) (ticket.Category, float64) {
	if cat, ok := e.ruleEngine.MatchCategory(cleaned); ok {
		return cat, 1.0
	}
	cat, confidence := e.category.Predict(features)
	if cat == ticket.CategoryOther && confidence < e.category.Floor {
		log.Printf("triage: low confidence %.3f, falling back to %s", confidence, cat)
	}
	return cat, confidence
}

func (e *Engine) build(raw, cleaned string, cat ticket.Category, pri ticket.Priority, confidence float64) ticket.Ticket {
	return ticket.Ticket{
		ID:          ulid.Make().String(),
		Title:       ticket.Title(cat),
		Description: raw,
		Cleaned:     cleaned,
		Category:    cat,
		Priority:    pri,
		Confidence:  ticket.RoundConfidence(confidence),
		Entities:    entities.Extract(raw),
		Status:      ticket.StatusOpen,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
}
