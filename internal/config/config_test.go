package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "dev")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 50.0, cfg.DiscoveryDefaultRadiusKM)
	assert.Equal(t, EventsDriverNone, cfg.EventsDriver)
	assert.False(t, cfg.AuthClaimsFallback)
	assert.Equal(t, []string{"http://kong:8000"}, cfg.StorageInternalAliases)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("AUTH_CLAIMS_FALLBACK", "yes")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("STORAGE_PUBLIC_BASE_URL", "https://cdn.example/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.True(t, cfg.AuthClaimsFallback)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "https://cdn.example", cfg.StoragePublicBaseURL)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("JWT_TTL", "soon")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ProdRejectsDefaultSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ProdRejectsClaimsFallback(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("JWT_SECRET", "a-real-secret")
	t.Setenv("AUTH_CLAIMS_FALLBACK", "true")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_EventsDriverRequiresTarget(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("EVENTS_DRIVER", "sns")
	t.Setenv("SNS_TOPIC_ARN", "")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("EVENTS_DRIVER", "kafka")
	_, err = Load()
	assert.Error(t, err)
}
