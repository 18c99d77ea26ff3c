// Package config handles configuration for the server component,
// including defaults, JSON overlay, environment variables, and
// command-line flags.
package config

import (
	"errors"
	"time"
)

// Config holds runtime settings for the AuthBridge server.
//
// Fields:
//   - EndpointAddr: bind address for the public HTTP endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Required.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Required.
//   - TokenValidityDuration: session token lifetime; zero means no expiry claim.
//   - BcryptCost: cost factor for password and security-answer hashing.
//   - ThrottleLimit / ThrottleWindow: values handed to an external throttling
//     middleware; no limiter logic lives in this repo.
type Config struct {
	EndpointAddr          string
	DatabaseDSN           string
	SecretKey             string
	TokenValidityDuration time.Duration
	BcryptCost            int
	ThrottleLimit         int
	ThrottleWindow        time.Duration
}

// LoadDefaults populates Config with development defaults. DatabaseDSN and
// SecretKey have no defaults on purpose; startup fails without them.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":8000"
	c.DatabaseDSN = ""
	c.SecretKey = ""
	c.TokenValidityDuration = 0
	c.BcryptCost = 10
	c.ThrottleLimit = 10
	c.ThrottleWindow = time.Minute
}

// Validate checks that the required process configuration is present.
func (c *Config) Validate() error {
	if c.DatabaseDSN == "" {
		return errors.New("database DSN is required")
	}
	if c.SecretKey == "" {
		return errors.New("secret key is required")
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, environment variables, and finally
// command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
