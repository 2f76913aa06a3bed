package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmercier/boutique-api/internal/config"
)

const testSecret = "une-clef-secrete-de-plus-de-32-caracteres"

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("BOUTIQUE_DATABASE_URL", "postgres://localhost:5432/boutique")
	t.Setenv("BOUTIQUE_AUTH_JWT_SECRET", testSecret)
	t.Setenv("BOUTIQUE_SERVER_PORT", "9000")
	t.Setenv("BOUTIQUE_SERVER_LOG_LEVEL", "debug")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "postgres://localhost:5432/boutique", cfg.Database.URL)
	assert.Equal(t, testSecret, cfg.Auth.JWTSecret)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BOUTIQUE_DATABASE_URL", "postgres://localhost:5432/boutique")
	t.Setenv("BOUTIQUE_AUTH_JWT_SECRET", testSecret)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 60, cfg.Auth.TokenLifetimeMinutes)
	assert.Equal(t, 10080, cfg.Auth.RefreshTokenLifetimeMinutes)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "missing jwt secret",
			env: map[string]string{
				"BOUTIQUE_DATABASE_URL": "postgres://localhost:5432/boutique",
			},
		},
		{
			name: "jwt secret too short",
			env: map[string]string{
				"BOUTIQUE_DATABASE_URL":    "postgres://localhost:5432/boutique",
				"BOUTIQUE_AUTH_JWT_SECRET": "trop-court",
			},
		},
		{
			name: "missing database url",
			env: map[string]string{
				"BOUTIQUE_AUTH_JWT_SECRET": testSecret,
			},
		},
		{
			name: "invalid log level",
			env: map[string]string{
				"BOUTIQUE_DATABASE_URL":     "postgres://localhost:5432/boutique",
				"BOUTIQUE_AUTH_JWT_SECRET":  testSecret,
				"BOUTIQUE_SERVER_LOG_LEVEL": "loud",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}
