package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays configuration from environment variables. Unset or
// malformed variables leave the current value untouched.
//
// Recognized variables:
//
//	ADDRESS                 HTTP bind address (e.g. ":8000")
//	DATABASE_DSN            PostgreSQL DSN
//	SECRET_KEY              JWT HMAC secret
//	TOKEN_VALIDITY_DURATION token lifetime, Go duration syntax (e.g. "24h")
//	BCRYPT_COST             bcrypt cost factor
//	THROTTLE_LIMIT          requests allowed per throttle window
//	THROTTLE_WINDOW         throttle window, Go duration syntax
func parseEnv(config *Config) {
	if v := os.Getenv("ADDRESS"); v != "" {
		config.EndpointAddr = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv("SECRET_KEY"); v != "" {
		config.SecretKey = v
	}
	if v := os.Getenv("TOKEN_VALIDITY_DURATION"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.TokenValidityDuration = d
		}
	}
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.BcryptCost = n
		}
	}
	if v := os.Getenv("THROTTLE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.ThrottleLimit = n
		}
	}
	if v := os.Getenv("THROTTLE_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.ThrottleWindow = d
		}
	}
}
