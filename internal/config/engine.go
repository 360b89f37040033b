package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvEngineConfidenceThreshold = "ARBITER_ENGINE_CONFIDENCE_THRESHOLD"
	EnvEngineDualValidation      = "ARBITER_ENGINE_DUAL_VALIDATION"
	EnvEnginePassOneTemperature  = "ARBITER_ENGINE_PASS_ONE_TEMPERATURE"
	EnvEnginePassTwoTemperature  = "ARBITER_ENGINE_PASS_TWO_TEMPERATURE"
	EnvEnginePolicyDir           = "ARBITER_ENGINE_POLICY_DIR"
	EnvEngineMetricsPath         = "ARBITER_ENGINE_METRICS_PATH"
	EnvEngineBatchWorkers        = "ARBITER_ENGINE_BATCH_WORKERS"
)

// EngineConfig holds decision engine parameters: consensus thresholds,
// pass temperatures, the policy knowledge base location, accuracy
// metrics persistence, and batch concurrency.
type EngineConfig struct {
	ConfidenceThreshold float64 `toml:"confidence_threshold"`
	DualValidation      *bool   `toml:"dual_validation"`
	PassOneTemperature  float64 `toml:"pass_one_temperature"`
	PassTwoTemperature  float64 `toml:"pass_two_temperature"`
	PolicyDir           string  `toml:"policy_dir"`
	MetricsPath         string  `toml:"metrics_path"`
	BatchWorkers        int     `toml:"batch_workers"`
}

// DualValidationEnabled reports whether dual validation is on. Defaults
// to true when unset.
func (c *EngineConfig) DualValidationEnabled() bool {
	return c.DualValidation == nil || *c.DualValidation
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *EngineConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *EngineConfig) Merge(overlay *EngineConfig) {
	if overlay.ConfidenceThreshold != 0 {
		c.ConfidenceThreshold = overlay.ConfidenceThreshold
	}
	if overlay.DualValidation != nil {
		c.DualValidation = overlay.DualValidation
	}
	if overlay.PassOneTemperature != 0 {
		c.PassOneTemperature = overlay.PassOneTemperature
	}
	if overlay.PassTwoTemperature != 0 {
		c.PassTwoTemperature = overlay.PassTwoTemperature
	}
	if overlay.PolicyDir != "" {
		c.PolicyDir = overlay.PolicyDir
	}
	if overlay.MetricsPath != "" {
		c.MetricsPath = overlay.MetricsPath
	}
	if overlay.BatchWorkers != 0 {
		c.BatchWorkers = overlay.BatchWorkers
	}
}

func (c *EngineConfig) loadDefaults() {
	if c.ConfidenceThreshold == 0 {
		c.ConfidenceThreshold = 0.9
	}
	if c.PassOneTemperature == 0 {
		c.PassOneTemperature = 0.1
	}
	if c.PassTwoTemperature == 0 {
		c.PassTwoTemperature = 0.3
	}
	if c.PolicyDir == "" {
		c.PolicyDir = "data/policy"
	}
	if c.MetricsPath == "" {
		c.MetricsPath = "data/accuracy_metrics.json"
	}
	if c.BatchWorkers == 0 {
		c.BatchWorkers = 3
	}
}

func (c *EngineConfig) loadEnv() {
	if v := os.Getenv(EnvEngineConfidenceThreshold); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.ConfidenceThreshold = f
		}
	}
	if v := os.Getenv(EnvEngineDualValidation); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.DualValidation = &b
		}
	}
	if v := os.Getenv(EnvEnginePassOneTemperature); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.PassOneTemperature = f
		}
	}
	if v := os.Getenv(EnvEnginePassTwoTemperature); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.PassTwoTemperature = f
		}
	}
	if v := os.Getenv(EnvEnginePolicyDir); v != "" {
		c.PolicyDir = v
	}
	if v := os.Getenv(EnvEngineMetricsPath); v != "" {
		c.MetricsPath = v
	}
	if v := os.Getenv(EnvEngineBatchWorkers); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.BatchWorkers = n
		}
	}
}

func (c *EngineConfig) validate() error {
	if c.ConfidenceThreshold <= 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("invalid confidence_threshold: %v", c.ConfidenceThreshold)
	}
	if c.PassOneTemperature < 0 || c.PassOneTemperature > 2 {
		return fmt.Errorf("invalid pass_one_temperature: %v", c.PassOneTemperature)
	}
	if c.PassTwoTemperature < 0 || c.PassTwoTemperature > 2 {
		return fmt.Errorf("invalid pass_two_temperature: %v", c.PassTwoTemperature)
	}
	if c.BatchWorkers < 1 {
		return fmt.Errorf("invalid batch_workers: %d", c.BatchWorkers)
	}
	return nil
}
