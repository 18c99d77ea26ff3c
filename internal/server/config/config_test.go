package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, c.EndpointAddr, ":8000")
	assert.Equal(t, c.DatabaseDSN, "")
	assert.Equal(t, c.SecretKey, "")
	assert.Equal(t, c.TokenValidityDuration, time.Duration(0))
	assert.Equal(t, c.BcryptCost, 10)
	assert.Equal(t, c.ThrottleLimit, 10)
	assert.Equal(t, c.ThrottleWindow, time.Minute)
}

func TestValidate(t *testing.T) {
	var c Config
	c.LoadDefaults()

	require.Error(t, c.Validate(), "missing DSN must fail")

	c.DatabaseDSN = "postgres://localhost/authbridge"
	require.Error(t, c.Validate(), "missing secret must fail")

	c.SecretKey = "k"
	require.NoError(t, c.Validate())
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	c := LoadConfig()

	require.NotNil(t, c, "LoadConfig must not return nil")

	assert.Equal(t, c.EndpointAddr, ":8000")
	assert.Equal(t, c.BcryptCost, 10)
	assert.Equal(t, c.ThrottleLimit, 10)
	assert.Equal(t, c.ThrottleWindow, time.Minute)
}

func TestParseEnv_Overlay(t *testing.T) {
	t.Setenv("ADDRESS", ":9999")
	t.Setenv("DATABASE_DSN", "postgres://env/db")
	t.Setenv("SECRET_KEY", "env-secret")
	t.Setenv("TOKEN_VALIDITY_DURATION", "24h")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("THROTTLE_LIMIT", "100")
	t.Setenv("THROTTLE_WINDOW", "30s")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, ":9999", c.EndpointAddr)
	assert.Equal(t, "postgres://env/db", c.DatabaseDSN)
	assert.Equal(t, "env-secret", c.SecretKey)
	assert.Equal(t, 24*time.Hour, c.TokenValidityDuration)
	assert.Equal(t, 12, c.BcryptCost)
	assert.Equal(t, 100, c.ThrottleLimit)
	assert.Equal(t, 30*time.Second, c.ThrottleWindow)
}

func TestParseEnv_MalformedValuesIgnored(t *testing.T) {
	t.Setenv("TOKEN_VALIDITY_DURATION", "soon")
	t.Setenv("BCRYPT_COST", "high")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, time.Duration(0), c.TokenValidityDuration)
	assert.Equal(t, 10, c.BcryptCost)
}
