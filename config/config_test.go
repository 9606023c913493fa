package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("SPOTIFY_CLIENT_ID", "client-id")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "client-secret")
	t.Setenv("SPOTIFY_REDIRECT_URI", "http://localhost:5000/callback")
}

func TestLoadDefaultOrigins(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("FRONTEND_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3000", cfg.FrontendURL)
	assert.Equal(t,
		"http://localhost:3000,http://localhost:5173,https://spotify-playlist-analyzer-ira.vercel.app",
		cfg.AllowedOrigins)
}

func TestLoadDerivesRedirectURIFromBackendURL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SPOTIFY_REDIRECT_URI", "")
	t.Setenv("BACKEND_URL", "http://localhost:5000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000/callback", cfg.RedirectURI)
}

func TestLoadRequiresClientCredentials(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SPOTIFY_CLIENT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadGeneratesEphemeralSecrets(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ENCRYPTION_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.NotEmpty(t, cfg.EncryptionSecret)
}
