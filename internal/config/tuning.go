package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// DefaultConfigPath is the path to the canonical kinematics defaults file.
const DefaultConfigPath = "config/kinematics.defaults.json"

// Built-in defaults used by the Get* accessors when a key is absent.
const (
	defaultSmoothingAlpha          = 1.0 // no EMA smoothing
	defaultMinFrameInterval        = 10 * time.Millisecond
	defaultMinConfidence           = 0.0
	defaultSPARCCutoffHz           = 10.0
	defaultSPARCAmplitudeThreshold = 0.05
	defaultSPARCPadLevel           = 4
)

// KinematicsConfig holds the tunable parameters of the feature-extraction
// engine. Every field is optional; omitted keys fall back to the defaults
// returned by the Get* methods, so partial files are safe.
type KinematicsConfig struct {
	// Landmark conditioning
	SmoothingAlpha *float64 `json:"smoothing_alpha,omitempty" toml:"smoothing_alpha"` // EMA weight of the newest sample, 1 disables
	MinConfidence  *float64 `json:"min_confidence,omitempty" toml:"min_confidence"`   // 0 disables confidence gating

	// Timing
	MinFrameInterval *string `json:"min_frame_interval,omitempty" toml:"min_frame_interval"` // duration string like "10ms"

	// Spectral arc length
	SPARCCutoffHz           *float64 `json:"sparc_cutoff_hz,omitempty" toml:"sparc_cutoff_hz"`
	SPARCAmplitudeThreshold *float64 `json:"sparc_amplitude_threshold,omitempty" toml:"sparc_amplitude_threshold"`
	SPARCPadLevel           *int     `json:"sparc_pad_level,omitempty" toml:"sparc_pad_level"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyKinematicsConfig returns a KinematicsConfig with all fields set to nil.
func EmptyKinematicsConfig() *KinematicsConfig {
	return &KinematicsConfig{}
}

// DefaultKinematicsConfig returns a config with every field populated from
// the built-in defaults.
func DefaultKinematicsConfig() *KinematicsConfig {
	return &KinematicsConfig{
		SmoothingAlpha:          ptrFloat64(defaultSmoothingAlpha),
		MinConfidence:           ptrFloat64(defaultMinConfidence),
		MinFrameInterval:        ptrString(defaultMinFrameInterval.String()),
		SPARCCutoffHz:           ptrFloat64(defaultSPARCCutoffHz),
		SPARCAmplitudeThreshold: ptrFloat64(defaultSPARCAmplitudeThreshold),
		SPARCPadLevel:           ptrInt(defaultSPARCPadLevel),
	}
}

// LoadKinematicsConfig loads a KinematicsConfig from a JSON or TOML file,
// chosen by extension. The file must be at most 1MB.
func LoadKinematicsConfig(path string) (*KinematicsConfig, error) {
	cleanPath := filepath.Clean(path)
	ext := filepath.Ext(cleanPath)
	if ext != ".json" && ext != ".toml" {
		return nil, fmt.Errorf("config file must have .json or .toml extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyKinematicsConfig()
	if ext == ".toml" {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config TOML: %w", err)
		}
	} else if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical defaults from DefaultConfigPath,
// searching the current directory and its parents up to the repository root.
// Panics if the file cannot be loaded; intended for test setup.
func MustLoadDefaultConfig() *KinematicsConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadKinematicsConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *KinematicsConfig) Validate() error {
	if c.SmoothingAlpha != nil {
		if v := *c.SmoothingAlpha; math.IsNaN(v) || v <= 0 || v > 1 {
			return fmt.Errorf("smoothing_alpha must be in (0, 1], got %f", v)
		}
	}

	if c.MinConfidence != nil {
		if v := *c.MinConfidence; math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("min_confidence must be between 0 and 1, got %f", v)
		}
	}

	if c.MinFrameInterval != nil && *c.MinFrameInterval != "" {
		d, err := time.ParseDuration(*c.MinFrameInterval)
		if err != nil {
			return fmt.Errorf("invalid min_frame_interval '%s': %w", *c.MinFrameInterval, err)
		}
		if d <= 0 {
			return fmt.Errorf("min_frame_interval must be positive, got %s", d)
		}
	}

	if c.SPARCCutoffHz != nil {
		if v := *c.SPARCCutoffHz; math.IsNaN(v) || v <= 0 {
			return fmt.Errorf("sparc_cutoff_hz must be positive, got %f", v)
		}
	}

	if c.SPARCAmplitudeThreshold != nil {
		if v := *c.SPARCAmplitudeThreshold; math.IsNaN(v) || v < 0 || v >= 1 {
			return fmt.Errorf("sparc_amplitude_threshold must be in [0, 1), got %f", v)
		}
	}

	if c.SPARCPadLevel != nil {
		if v := *c.SPARCPadLevel; v < 0 || v > 8 {
			return fmt.Errorf("sparc_pad_level must be between 0 and 8, got %d", v)
		}
	}

	return nil
}

// GetSmoothingAlpha returns the smoothing_alpha value or the default.
func (c *KinematicsConfig) GetSmoothingAlpha() float64 {
	if c.SmoothingAlpha == nil {
		return defaultSmoothingAlpha
	}
	return *c.SmoothingAlpha
}

// GetMinConfidence returns the min_confidence value or the default.
func (c *KinematicsConfig) GetMinConfidence() float64 {
	if c.MinConfidence == nil {
		return defaultMinConfidence
	}
	return *c.MinConfidence
}

// GetMinFrameInterval parses and returns MinFrameInterval as a time.Duration.
func (c *KinematicsConfig) GetMinFrameInterval() time.Duration {
	if c.MinFrameInterval == nil || *c.MinFrameInterval == "" {
		return defaultMinFrameInterval
	}
	d, err := time.ParseDuration(*c.MinFrameInterval)
	if err != nil || d <= 0 {
		return defaultMinFrameInterval // default on parse error
	}
	return d
}

// GetSPARCCutoffHz returns the sparc_cutoff_hz value or the default.
func (c *KinematicsConfig) GetSPARCCutoffHz() float64 {
	if c.SPARCCutoffHz == nil {
		return defaultSPARCCutoffHz
	}
	return *c.SPARCCutoffHz
}

// GetSPARCAmplitudeThreshold returns the sparc_amplitude_threshold value or the default.
func (c *KinematicsConfig) GetSPARCAmplitudeThreshold() float64 {
	if c.SPARCAmplitudeThreshold == nil {
		return defaultSPARCAmplitudeThreshold
	}
	return *c.SPARCAmplitudeThreshold
}

// GetSPARCPadLevel returns the sparc_pad_level value or the default.
func (c *KinematicsConfig) GetSPARCPadLevel() int {
	if c.SPARCPadLevel == nil {
		return defaultSPARCPadLevel
	}
	return *c.SPARCPadLevel
}
