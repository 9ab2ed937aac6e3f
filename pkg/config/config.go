// Package config provides a declarative YAML loader for assembling a
// guard.GuardEngine without writing Go literals. The core guard package
// never imports this one and never touches the filesystem; this is purely
// a convenience for hosts that want to describe rule lists in a file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/streamguard-io/streamguard/pkg/guard"
)

// Config is the declarative shape of a rule list plus engine-level
// settings.
type Config struct {
	ScoreThreshold int              `yaml:"score_threshold"`
	ScoreDecay     int              `yaml:"score_decay"`
	RewriteMode    string           `yaml:"rewrite_mode"` // "chain" (default) or "first_wins"
	Rules          []RuleDefinition `yaml:"rules"`
}

// RuleDefinition describes one rule entry in a declarative config file.
type RuleDefinition struct {
	Name   string `yaml:"name"`
	Type   string `yaml:"type"` // "sequence" or "pattern"
	Reason string `yaml:"reason"`
	Score  int    `yaml:"score"`

	// sequence-only fields
	Tokens    []string `yaml:"tokens,omitempty"`
	Mode      string   `yaml:"mode,omitempty"` // "strict" or "gaps"
	StopWords []string `yaml:"stop_words,omitempty"`

	// pattern-only fields
	Kind        string `yaml:"kind,omitempty"`   // "email", "url", "ipv4", "credit_card"
	Action      string `yaml:"action,omitempty"` // "block" or "rewrite"
	Replacement string `yaml:"replacement,omitempty"`
}

// Load reads a YAML file at path and builds a *guard.GuardEngine from it.
func Load(path string) (*guard.GuardEngine, error) {
	//nolint:gosec // config file path is controlled by the operator embedding this package
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("streamguard: failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("streamguard: failed to parse config file %s: %w", path, err)
	}

	return Build(cfg)
}

// Build assembles a *guard.GuardEngine from an already-parsed Config.
func Build(cfg Config) (*guard.GuardEngine, error) {
	eng := guard.New()
	if cfg.ScoreThreshold > 0 {
		eng.WithScoreThreshold(cfg.ScoreThreshold)
	}
	if cfg.ScoreDecay > 0 {
		eng.WithScoreDecay(cfg.ScoreDecay)
	}
	if cfg.RewriteMode == "first_wins" {
		eng.WithRewriteMode(guard.RewriteFirstWins)
	}

	for _, def := range cfg.Rules {
		rule, err := buildRule(def)
		if err != nil {
			return nil, err
		}
		eng.AddRule(rule)
	}

	return eng, nil
}

func buildRule(def RuleDefinition) (guard.Rule, error) {
	switch def.Type {
	case "sequence":
		return buildSequenceRule(def)
	case "pattern":
		return buildPatternRule(def)
	default:
		return nil, fmt.Errorf("streamguard: rule %q has unknown type %q", def.Name, def.Type)
	}
}

func buildSequenceRule(def RuleDefinition) (guard.Rule, error) {
	if len(def.Tokens) == 0 {
		return nil, fmt.Errorf("streamguard: sequence rule %q requires tokens", def.Name)
	}

	mode := guard.ModeStrict
	if def.Mode == "gaps" {
		mode = guard.ModeGaps
	}

	return guard.NewForbiddenSequenceRule(guard.SequenceConfig{
		Name:      def.Name,
		Tokens:    def.Tokens,
		Mode:      mode,
		StopWords: def.StopWords,
		Reason:    def.Reason,
		Score:     def.Score,
	}), nil
}

func buildPatternRule(def RuleDefinition) (guard.Rule, error) {
	kind, err := parsePatternKind(def.Kind)
	if err != nil {
		return nil, fmt.Errorf("streamguard: pattern rule %q: %w", def.Name, err)
	}

	action, err := parsePatternAction(def.Action)
	if err != nil {
		return nil, fmt.Errorf("streamguard: pattern rule %q: %w", def.Name, err)
	}

	cfg := guard.PatternConfig{
		Name:        def.Name,
		Kind:        kind,
		Reason:      def.Reason,
		Replacement: def.Replacement,
		Score:       def.Score,
	}
	if action == "rewrite" {
		if def.Replacement == "" {
			return nil, fmt.Errorf("streamguard: pattern rule %q has rewrite action with no replacement", def.Name)
		}
	}
	return guard.NewPatternRuleFromStrings(cfg, action)
}

func parsePatternKind(s string) (guard.PatternKind, error) {
	switch s {
	case "email":
		return guard.PatternEmail, nil
	case "url":
		return guard.PatternURL, nil
	case "ipv4":
		return guard.PatternIPv4, nil
	case "credit_card":
		return guard.PatternCreditCard, nil
	default:
		return 0, fmt.Errorf("unknown pattern kind %q", s)
	}
}

func parsePatternAction(s string) (string, error) {
	switch s {
	case "block", "rewrite":
		return s, nil
	default:
		return "", fmt.Errorf("unknown pattern action %q", s)
	}
}
