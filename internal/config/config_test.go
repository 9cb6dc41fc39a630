package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.APIPort)
	assert.NotEmpty(t, cfg.DatabaseURL)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.NotEmpty(t, cfg.CORSOrigins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("SESSION_TTL_MINUTES", "5")
	t.Setenv("CORS_ORIGINS", "https://dash.example.com, https://other.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.APIPort)
	assert.Equal(t, 5*time.Minute, cfg.SessionTTL)
	assert.Equal(t, []string{"https://dash.example.com", "https://other.example.com"}, cfg.CORSOrigins)
}

func TestValidate_RejectsMissingFields(t *testing.T) {
	cfg := &Config{APIPort: "", DatabaseURL: "x", ModelPath: "y", SessionTTL: time.Minute}
	assert.Error(t, cfg.Validate())

	cfg = &Config{APIPort: "8000", DatabaseURL: "", ModelPath: "y", SessionTTL: time.Minute}
	assert.Error(t, cfg.Validate())

	cfg = &Config{APIPort: "8000", DatabaseURL: "x", ModelPath: "", SessionTTL: time.Minute}
	assert.Error(t, cfg.Validate())

	cfg = &Config{APIPort: "8000", DatabaseURL: "x", ModelPath: "y"}
	assert.Error(t, cfg.Validate())
}
