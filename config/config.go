package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"soundscope/blueprint"
)

const defaultUpstreamTimeout = 15 * time.Second

// Load builds the immutable process configuration from the environment.
// godotenv has already populated the environment by the time this runs
// (see the init in main).
func Load() (*blueprint.Config, error) {
	cfg := &blueprint.Config{
		SpotifyClientID:     os.Getenv("SPOTIFY_CLIENT_ID"),
		SpotifyClientSecret: os.Getenv("SPOTIFY_CLIENT_SECRET"),
		RedirectURI:         os.Getenv("SPOTIFY_REDIRECT_URI"),
		FrontendURL:         os.Getenv("FRONTEND_URL"),
		AllowedOrigins:      os.Getenv("ALLOWED_ORIGINS"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		EncryptionSecret:    os.Getenv("ENCRYPTION_SECRET"),
		Port:                os.Getenv("PORT"),
		UpstreamTimeout:     defaultUpstreamTimeout,
	}

	if cfg.SpotifyClientID == "" || cfg.SpotifyClientSecret == "" {
		return nil, errors.New("SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET must be set")
	}

	if cfg.RedirectURI == "" {
		backend := os.Getenv("BACKEND_URL")
		if backend == "" {
			return nil, errors.New("SPOTIFY_REDIRECT_URI or BACKEND_URL must be set")
		}
		cfg.RedirectURI = backend + "/callback"
	}

	if cfg.FrontendURL == "" {
		cfg.FrontendURL = "http://localhost:3000"
	}

	if cfg.AllowedOrigins == "" {
		cfg.AllowedOrigins = "http://localhost:3000,http://localhost:5173,https://spotify-playlist-analyzer-ira.vercel.app"
	}

	if cfg.Port == "" {
		cfg.Port = "5000"
	}

	if timeout := os.Getenv("UPSTREAM_TIMEOUT_SECONDS"); timeout != "" {
		secs, err := strconv.Atoi(timeout)
		if err != nil || secs <= 0 {
			return nil, errors.New("UPSTREAM_TIMEOUT_SECONDS must be a positive integer")
		}
		cfg.UpstreamTimeout = time.Duration(secs) * time.Second
	}

	// sessions signed with a generated secret do not survive a restart,
	// which is fine for a stateless relay.
	if cfg.JWTSecret == "" {
		log.Printf("[config][Load] warning - JWT_SECRET not set, generating an ephemeral one")
		cfg.JWTSecret = randomSecret()
	}
	if cfg.EncryptionSecret == "" {
		log.Printf("[config][Load] warning - ENCRYPTION_SECRET not set, generating an ephemeral one")
		cfg.EncryptionSecret = randomSecret()
	}

	return cfg, nil
}

func randomSecret() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}
