package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidate_WeightsMustSumTo100(t *testing.T) {
	cfg := Default()
	cfg.Scoring.Weights.MultiOEM = 41

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate_NegativeWeight(t *testing.T) {
	cfg := Default()
	cfg.Scoring.Weights.BusinessType = -10
	cfg.Scoring.Weights.MultiOEM = 55 // keep the sum at 100

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidate_TierOrdering(t *testing.T) {
	tests := []struct {
		name                   string
		platinum, gold, silver int
		wantErr                bool
	}{
		{"valid", 80, 60, 40, false},
		{"gold above platinum", 80, 90, 40, true},
		{"silver above gold", 80, 60, 70, true},
		{"silver zero", 80, 60, 0, true},
		{"platinum above 100", 110, 60, 40, true},
		{"equal thresholds", 80, 80, 40, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Scoring.Tiers = TierThresholds{
				Platinum: tt.platinum,
				Gold:     tt.gold,
				Silver:   tt.silver,
			}
			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_SimilarityThresholds(t *testing.T) {
	cfg := Default()
	cfg.Matching.NameSimilarityHigh = 1.2
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = Default()
	cfg.Matching.NameSimilarityVeryHigh = 0.5 // below the high threshold
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
matching:
  name_similarity_high: 0.9
  name_similarity_very_high: 0.95
scoring:
  weights:
    multi_oem: 50
    state_priority: 20
    capability_breadth: 10
    geographic: 0
    deadline_urgency: 10
    business_type: 10
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.InDelta(t, 0.9, cfg.Matching.NameSimilarityHigh, 1e-9)
	assert.Equal(t, 50, cfg.Scoring.Weights.MultiOEM)
	// Untouched sections keep defaults.
	assert.Equal(t, defaultTierPlatinum, cfg.Scoring.Tiers.Platinum)
}

func TestLoad_RejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
scoring:
  weights:
    multi_oem: 90
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}
