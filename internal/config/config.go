// Package config provides process-wide configuration for the frame engine.
//
// Configuration here has an init-at-startup/no-teardown lifecycle: a single
// global instance is read by the parallel engine and by array.Create (to
// size Sparse arrays) on every call, and is expected to be set once near process start rather than
// mutated mid-operation (see SetGlobal).
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Config is the global configuration for the array/index/frame/parallel
// packages.
type Config struct {
	// RowSplitThreshold is the minimum ordinal-range size below which a
	// row-axis parallel operation runs sequentially instead of forking.
	RowSplitThreshold int `json:"row_split_threshold" yaml:"row_split_threshold"`

	// ColSplitThreshold is the column-axis equivalent of RowSplitThreshold.
	ColSplitThreshold int `json:"col_split_threshold" yaml:"col_split_threshold"`

	// WorkerPoolSize is the number of goroutines the parallel engine uses
	// (0 = runtime.NumCPU()).
	WorkerPoolSize int `json:"worker_pool_size" yaml:"worker_pool_size"`

	// DefaultNullSet is the set of string tokens parsed as "no value"
	// before a typed parse is attempted.
	DefaultNullSet []string `json:"default_null_set" yaml:"default_null_set"`

	// SparseFillFactorHint is the fraction of non-default entries a Sparse
	// array is expected to hold; used to size its backing map up front.
	SparseFillFactorHint float64 `json:"sparse_fill_factor_hint" yaml:"sparse_fill_factor_hint"`

	// VerboseLogging is loaded from JSON, YAML and the environment, but no
	// code in this module reads it; it does not enable a logger, since this module carries no
	// logging dependency (see DESIGN.md).
	VerboseLogging bool `json:"verbose_logging" yaml:"verbose_logging"`
}

// SystemInfo describes the host the configuration is being validated for.
type SystemInfo struct {
	CPUCount     int
	Architecture string
	OSType       string
}

// Validator validates a Config against the host it will run on.
type Validator struct {
	systemInfo SystemInfo
}

var (
	global      Config
	globalMutex sync.RWMutex
)

// Default split thresholds and the canonical null-token set a parser
// treats as "no value" before attempting a typed parse.
const (
	DefaultRowSplitThreshold    = 1000
	DefaultColSplitThreshold    = 8
	DefaultSparseFillFactorHint = 0.2
)

// DefaultNullTokens is the canonical null-token set. It is copied,
// never aliased, into NewConfig so later mutation of a
// Config's slice cannot leak back into this constant.
var DefaultNullTokens = []string{"null", "NULL", "Null", "N/A", "n/a", "-"}

func init() {
	global = NewConfig()
}

// NewConfig returns a Config populated with the package defaults.
func NewConfig() Config {
	return Config{
		RowSplitThreshold:    DefaultRowSplitThreshold,
		ColSplitThreshold:    DefaultColSplitThreshold,
		WorkerPoolSize:       0,
		DefaultNullSet:       append([]string(nil), DefaultNullTokens...),
		SparseFillFactorHint: DefaultSparseFillFactorHint,
	}
}

// Validate reports whether the configuration's invariants hold.
func (c *Config) Validate() error {
	if c.RowSplitThreshold <= 0 {
		return fmt.Errorf("RowSplitThreshold must be positive, got %d", c.RowSplitThreshold)
	}
	if c.ColSplitThreshold <= 0 {
		return fmt.Errorf("ColSplitThreshold must be positive, got %d", c.ColSplitThreshold)
	}
	if c.WorkerPoolSize < 0 {
		return fmt.Errorf("WorkerPoolSize must be non-negative, got %d", c.WorkerPoolSize)
	}
	if c.SparseFillFactorHint <= 0 || c.SparseFillFactorHint > 1 {
		return fmt.Errorf("SparseFillFactorHint must be in (0,1], got %f", c.SparseFillFactorHint)
	}
	return nil
}

// WithDefaults fills zero-valued fields with package defaults.
func (c Config) WithDefaults() Config {
	d := NewConfig()
	if c.RowSplitThreshold == 0 {
		c.RowSplitThreshold = d.RowSplitThreshold
	}
	if c.ColSplitThreshold == 0 {
		c.ColSplitThreshold = d.ColSplitThreshold
	}
	if c.SparseFillFactorHint == 0 {
		c.SparseFillFactorHint = d.SparseFillFactorHint
	}
	if len(c.DefaultNullSet) == 0 {
		c.DefaultNullSet = d.DefaultNullSet
	}
	return c
}

// SetGlobal installs cfg as the process-wide configuration.
//
// Do not call this while a bulk operation is in flight: the parallel
// engine reads RowSplitThreshold/ColSplitThreshold once per call but
// makes no attempt to synchronize a change against operations already
// scheduled.
func SetGlobal(cfg Config) {
	globalMutex.Lock()
	defer globalMutex.Unlock()
	global = cfg
}

// Global returns the current process-wide configuration.
func Global() Config {
	globalMutex.RLock()
	defer globalMutex.RUnlock()
	return global
}

// LoadFromJSON parses cfg from JSON bytes, filling defaults for zero fields.
func LoadFromJSON(data []byte) (Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing JSON configuration: %w", err)
	}
	return cfg.WithDefaults(), nil
}

// LoadFromFile loads a Config from a JSON or YAML file, keyed off its
// extension.
func LoadFromFile(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file %s: %w", filename, err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".json":
		err = json.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		return Config{}, fmt.Errorf("unsupported config file format: %s", ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", filename, err)
	}
	return cfg.WithDefaults(), nil
}

// LoadFromEnv builds a Config from MORPHEUS_-prefixed environment
// variables, falling back to defaults for anything unset.
func LoadFromEnv() Config {
	cfg := NewConfig()

	if v := os.Getenv("MORPHEUS_ROW_SPLIT_THRESHOLD"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.RowSplitThreshold = parsed
		}
	}
	if v := os.Getenv("MORPHEUS_COL_SPLIT_THRESHOLD"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.ColSplitThreshold = parsed
		}
	}
	if v := os.Getenv("MORPHEUS_WORKER_POOL_SIZE"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.WorkerPoolSize = parsed
		}
	}
	if v := os.Getenv("MORPHEUS_SPARSE_FILL_FACTOR_HINT"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.SparseFillFactorHint = parsed
		}
	}
	if v := os.Getenv("MORPHEUS_VERBOSE_LOGGING"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			cfg.VerboseLogging = parsed
		}
	}

	return cfg
}

// Workers resolves WorkerPoolSize to a concrete goroutine count.
func (c Config) Workers() int {
	if c.WorkerPoolSize > 0 {
		return c.WorkerPoolSize
	}
	return runtime.NumCPU()
}

// NewValidator creates a Validator bound to the running host.
func NewValidator() *Validator {
	return &Validator{systemInfo: SystemInfo{
		CPUCount:     runtime.NumCPU(),
		Architecture: runtime.GOARCH,
		OSType:       runtime.GOOS,
	}}
}

// Validate validates cfg and returns tuning warnings alongside it.
func (v *Validator) Validate(cfg Config) (Config, []string, error) {
	if err := cfg.Validate(); err != nil {
		return Config{}, nil, err
	}

	var warnings []string
	validated := cfg

	if cfg.WorkerPoolSize > v.systemInfo.CPUCount*2 {
		warnings = append(warnings, fmt.Sprintf(
			"worker pool size (%d) exceeds 2x CPU count (%d), may cause contention",
			cfg.WorkerPoolSize, v.systemInfo.CPUCount))
	}
	if cfg.WorkerPoolSize == 0 {
		validated.WorkerPoolSize = v.systemInfo.CPUCount
		warnings = append(warnings, fmt.Sprintf(
			"auto-setting worker pool size to %d (CPU count)", validated.WorkerPoolSize))
	}

	return validated, warnings, nil
}
