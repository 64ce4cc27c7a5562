// Package config holds all configuration for the lead ranking pipeline.
// Weight or threshold misconfiguration is the only condition that halts a
// run entirely: silently mis-scoring every lead is worse than refusing to
// start.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Default configuration values.
const (
	defaultServiceName    = "leadrank"
	defaultServiceVersion = "1.0.0"

	defaultNameSimilarityHigh     = 0.85
	defaultNameSimilarityVeryHigh = 0.92

	defaultWeightMultiOEM          = 40
	defaultWeightStatePriority     = 20
	defaultWeightCapabilityBreadth = 15
	defaultWeightGeographic        = 10
	defaultWeightDeadlineUrgency   = 10
	defaultWeightBusinessType      = 5

	defaultTierPlatinum = 80
	defaultTierGold     = 60
	defaultTierSilver   = 40

	defaultLogLevel  = "info"
	defaultLogFormat = "json"

	totalWeight = 100
	maxTier     = 100
)

// Config holds all configuration for the pipeline.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Matching MatchingConfig `yaml:"matching"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// MatchingConfig holds the tunable fuzzy-matching thresholds. These are
// configuration rather than constants: the right values depend on the
// record population and must be validated against real sample data.
type MatchingConfig struct {
	// NameSimilarityHigh gates domain-based links: records sharing a
	// root domain also need this much name similarity (or a shared
	// phone) before they are linked.
	NameSimilarityHigh float64 `yaml:"name_similarity_high"`

	// NameSimilarityVeryHigh gates name-only links between records that
	// share neither phone nor domain.
	NameSimilarityVeryHigh float64 `yaml:"name_similarity_very_high"`
}

// Weights holds per-dimension score weights. They must sum to 100.
type Weights struct {
	MultiOEM          int `yaml:"multi_oem"`
	StatePriority     int `yaml:"state_priority"`
	CapabilityBreadth int `yaml:"capability_breadth"`
	Geographic        int `yaml:"geographic"`
	DeadlineUrgency   int `yaml:"deadline_urgency"`
	BusinessType      int `yaml:"business_type"`
}

// Sum returns the total of all dimension weights.
func (w Weights) Sum() int {
	return w.MultiOEM + w.StatePriority + w.CapabilityBreadth +
		w.Geographic + w.DeadlineUrgency + w.BusinessType
}

// TierThresholds is the ladder mapping total score to priority tier.
// A total >= Platinum is PLATINUM, >= Gold is GOLD, >= Silver is SILVER,
// anything below is BRONZE.
type TierThresholds struct {
	Platinum int `yaml:"platinum"`
	Gold     int `yaml:"gold"`
	Silver   int `yaml:"silver"`
}

// ScoringConfig holds scorer configuration.
type ScoringConfig struct {
	Weights Weights        `yaml:"weights"`
	Tiers   TierThresholds `yaml:"tiers"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:    defaultServiceName,
			Version: defaultServiceVersion,
		},
		Matching: MatchingConfig{
			NameSimilarityHigh:     defaultNameSimilarityHigh,
			NameSimilarityVeryHigh: defaultNameSimilarityVeryHigh,
		},
		Scoring: ScoringConfig{
			Weights: Weights{
				MultiOEM:          defaultWeightMultiOEM,
				StatePriority:     defaultWeightStatePriority,
				CapabilityBreadth: defaultWeightCapabilityBreadth,
				Geographic:        defaultWeightGeographic,
				DeadlineUrgency:   defaultWeightDeadlineUrgency,
				BusinessType:      defaultWeightBusinessType,
			},
			Tiers: TierThresholds{
				Platinum: defaultTierPlatinum,
				Gold:     defaultTierGold,
				Silver:   defaultTierSilver,
			},
		},
		Logging: LoggingConfig{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}

// Load reads YAML configuration from path over the defaults, applies env
// overrides, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}

// Validate fails fast on misconfiguration.
func (c *Config) Validate() error {
	var errs []error

	if sum := c.Scoring.Weights.Sum(); sum != totalWeight {
		errs = append(errs, fmt.Errorf("%w: dimension weights sum to %d, want %d",
			ErrInvalidConfig, sum, totalWeight))
	}
	for name, w := range map[string]int{
		"multi_oem":          c.Scoring.Weights.MultiOEM,
		"state_priority":     c.Scoring.Weights.StatePriority,
		"capability_breadth": c.Scoring.Weights.CapabilityBreadth,
		"geographic":         c.Scoring.Weights.Geographic,
		"deadline_urgency":   c.Scoring.Weights.DeadlineUrgency,
		"business_type":      c.Scoring.Weights.BusinessType,
	} {
		if w < 0 {
			errs = append(errs, fmt.Errorf("%w: weight %s is negative (%d)",
				ErrInvalidConfig, name, w))
		}
	}

	t := c.Scoring.Tiers
	if !(maxTier >= t.Platinum && t.Platinum > t.Gold && t.Gold > t.Silver && t.Silver > 0) {
		errs = append(errs, fmt.Errorf("%w: tier thresholds must satisfy 100 >= platinum > gold > silver > 0, got %d/%d/%d",
			ErrInvalidConfig, t.Platinum, t.Gold, t.Silver))
	}

	m := c.Matching
	if m.NameSimilarityHigh <= 0 || m.NameSimilarityHigh > 1 {
		errs = append(errs, fmt.Errorf("%w: name_similarity_high %.2f outside (0, 1]",
			ErrInvalidConfig, m.NameSimilarityHigh))
	}
	if m.NameSimilarityVeryHigh < m.NameSimilarityHigh || m.NameSimilarityVeryHigh > 1 {
		errs = append(errs, fmt.Errorf("%w: name_similarity_very_high %.2f must be in [name_similarity_high, 1]",
			ErrInvalidConfig, m.NameSimilarityVeryHigh))
	}

	return errors.Join(errs...)
}
