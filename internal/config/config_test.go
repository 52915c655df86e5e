package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultRowSplitThreshold, cfg.RowSplitThreshold)
	assert.Equal(t, DefaultColSplitThreshold, cfg.ColSplitThreshold)
	assert.Equal(t, DefaultNullTokens, cfg.DefaultNullSet)
}

func TestDefaultNullTokensNotAliased(t *testing.T) {
	cfg := NewConfig()
	cfg.DefaultNullSet[0] = "mutated"
	assert.Equal(t, "null", DefaultNullTokens[0])
}

func TestValidateRejectsNonPositiveThresholds(t *testing.T) {
	cfg := NewConfig()
	cfg.RowSplitThreshold = 0
	assert.Error(t, cfg.Validate())

	cfg = NewConfig()
	cfg.ColSplitThreshold = -1
	assert.Error(t, cfg.Validate())
}

func TestWithDefaultsFillsZeroFields(t *testing.T) {
	cfg := Config{}
	filled := cfg.WithDefaults()
	assert.Equal(t, DefaultRowSplitThreshold, filled.RowSplitThreshold)
	assert.Equal(t, DefaultColSplitThreshold, filled.ColSplitThreshold)
	assert.NotEmpty(t, filled.DefaultNullSet)
}

func TestGlobalConfigRoundTrip(t *testing.T) {
	original := Global()
	defer SetGlobal(original)

	custom := NewConfig()
	custom.RowSplitThreshold = 42
	SetGlobal(custom)

	assert.Equal(t, 42, Global().RowSplitThreshold)
}

func TestLoadFromJSON(t *testing.T) {
	data := []byte(`{"row_split_threshold": 500, "col_split_threshold": 4}`)
	cfg, err := LoadFromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.RowSplitThreshold)
	assert.Equal(t, 4, cfg.ColSplitThreshold)
	assert.NotEmpty(t, cfg.DefaultNullSet)
}

func TestWorkersFallsBackToNumCPU(t *testing.T) {
	cfg := NewConfig()
	assert.Greater(t, cfg.Workers(), 0)
}

func TestValidatorAutoSetsWorkerPoolSize(t *testing.T) {
	v := NewValidator()
	cfg := NewConfig()
	validated, warnings, err := v.Validate(cfg)
	require.NoError(t, err)
	assert.Greater(t, validated.WorkerPoolSize, 0)
	assert.NotEmpty(t, warnings)
}
