package config

import (
	"fmt"
	"os"
	"time"

	"github.com/arbiterhq/arbiter/internal/oracle"
)

const (
	EnvOracleModel   = "ARBITER_ORACLE_MODEL"
	EnvOracleAPIKey  = "ARBITER_ORACLE_API_KEY"
	EnvOracleTimeout = "ARBITER_ORACLE_TIMEOUT"
)

// FinalizeOracle applies defaults, environment variable overrides, and
// validation to an oracle config.
func FinalizeOracle(c *oracle.Config) error {
	loadOracleDefaults(c)
	loadOracleEnv(c)
	return validateOracle(c)
}

func loadOracleDefaults(c *oracle.Config) {
	if c.Model == "" {
		c.Model = "gemini-2.0-flash"
	}
	if c.Timeout == "" {
		c.Timeout = "2m"
	}
}

func loadOracleEnv(c *oracle.Config) {
	if v := os.Getenv(EnvOracleModel); v != "" {
		c.Model = v
	}
	if v := os.Getenv(EnvOracleAPIKey); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv(EnvOracleTimeout); v != "" {
		c.Timeout = v
	}
}

func validateOracle(c *oracle.Config) error {
	if c.APIKey == "" {
		return fmt.Errorf("api key required")
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}
