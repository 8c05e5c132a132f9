package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/helpdesk/pkg/triage/internalerr"
	"github.com/cognicore/helpdesk/pkg/triage/normalize"
	"github.com/cognicore/helpdesk/pkg/triage/rules"
	"github.com/cognicore/helpdesk/pkg/triage/ticket"
)

// Config is the single settings file for the service. Keyword lists are
// configuration data so triage behavior can be tuned without a rebuild.
type Config struct {
	ListenAddr  string `yaml:"listen_addr"`
	DBPath      string `yaml:"db_path"`
	ArtifactDir string `yaml:"artifact_dir"`

	Normalizer NormalizerConfig `yaml:"normalizer"`
	Triage     TriageConfig     `yaml:"triage"`

	UrgencyKeywords []string     `yaml:"urgency_keywords"`
	Rules           []RuleConfig `yaml:"rules"`
}

// NormalizerConfig controls text cleaning.
type NormalizerConfig struct {
	Mode      string   `yaml:"mode"` // "alphanumeric" or "alphabetic"
	Stopwords []string `yaml:"stopwords"`
}

// TriageConfig controls classification thresholds.
type TriageConfig struct {
	ConfidenceFloor float64 `yaml:"confidence_floor"`
	MinWords        int     `yaml:"min_words"`
	Strict          bool    `yaml:"strict"`
}

// RuleConfig is one entry of the ordered category rule table.
type RuleConfig struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	cfg := Config{
		ListenAddr:  ":8080",
		DBPath:      "helpdesk.db",
		ArtifactDir: "models",
		Normalizer: NormalizerConfig{
			Mode:      "alphanumeric",
			Stopwords: normalize.DefaultStopwords(),
		},
		Triage: TriageConfig{
			ConfidenceFloor: 0.2,
			MinWords:        4,
			Strict:          false,
		},
		UrgencyKeywords: rules.DefaultUrgencyKeywords(),
	}
	for _, r := range rules.DefaultRules() {
		cfg.Rules = append(cfg.Rules, RuleConfig{
			Category: string(r.Category),
			Keywords: r.Keywords,
		})
	}
	return cfg
}

// Load reads a YAML config file over the defaults, then validates it.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the parts that would otherwise fail deep inside the
// pipeline: the charset mode, threshold ranges, and rule categories.
func (c Config) Validate() error {
	if _, ok := normalize.ParseMode(c.Normalizer.Mode); !ok {
		return fmt.Errorf("%w: unknown normalizer mode %q", internalerr.ErrInvalidConfig, c.Normalizer.Mode)
	}
	if c.Triage.ConfidenceFloor < 0 || c.Triage.ConfidenceFloor > 1 {
		return fmt.Errorf("%w: confidence_floor %v outside [0,1]", internalerr.ErrInvalidConfig, c.Triage.ConfidenceFloor)
	}
	if c.Triage.MinWords < 1 {
		return fmt.Errorf("%w: min_words must be at least 1", internalerr.ErrInvalidConfig)
	}
	if len(c.Rules) == 0 {
		return fmt.Errorf("%w: rule table is empty", internalerr.ErrInvalidConfig)
	}
	for i, r := range c.Rules {
		if len(r.Keywords) == 0 {
			return fmt.Errorf("%w: rule %d (%s) has no keywords", internalerr.ErrInvalidConfig, i, r.Category)
		}
		if ticket.CanonicalCategory(r.Category) == ticket.CategoryOther &&
			r.Category != string(ticket.CategoryOther) {
			return fmt.Errorf("%w: rule %d names unknown category %q", internalerr.ErrInvalidConfig, i, r.Category)
		}
	}
	return nil
}

// RuleTable converts the configured rules into the engine's form,
// preserving order.
func (c Config) RuleTable() []rules.Rule {
	table := make([]rules.Rule, len(c.Rules))
	for i, r := range c.Rules {
		table[i] = rules.Rule{
			Category: ticket.CanonicalCategory(r.Category),
			Keywords: r.Keywords,
		}
	}
	return table
}

// Mode returns the parsed normalizer mode. Validate must have passed.
func (c Config) Mode() normalize.Mode {
	mode, _ := normalize.ParseMode(c.Normalizer.Mode)
	return mode
}
