package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soundscope/blueprint"
)

func testConfig() *blueprint.Config {
	return &blueprint.Config{
		JWTSecret:        "test-jwt-secret",
		EncryptionSecret: "test-encryption-secret",
		UpstreamTimeout:  time.Second,
	}
}

func TestExtractPlaylistID(t *testing.T) {
	id, err := ExtractPlaylistID("https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M")
	require.NoError(t, err)
	assert.Equal(t, "37i9dQZF1DXcBWIGoYBM5M", id)
}

func TestExtractPlaylistIDStripsTrackingQuery(t *testing.T) {
	id, err := ExtractPlaylistID("https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M?si=abc123&utm_source=share")
	require.NoError(t, err)
	assert.Equal(t, "37i9dQZF1DXcBWIGoYBM5M", id)
}

func TestExtractPlaylistIDTrailingSlash(t *testing.T) {
	id, err := ExtractPlaylistID("https://open.spotify.com/playlist/abc/")
	require.NoError(t, err)
	assert.Equal(t, "abc", id)
}

func TestExtractPlaylistIDRejectsNonPlaylistLinks(t *testing.T) {
	_, err := ExtractPlaylistID("https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC")
	assert.ErrorIs(t, err, blueprint.ErrInvalidPlaylistLink)

	_, err = ExtractPlaylistID("")
	assert.ErrorIs(t, err, blueprint.ErrInvalidPlaylistLink)

	_, err = ExtractPlaylistID("https://open.spotify.com/playlist/")
	assert.ErrorIs(t, err, blueprint.ErrInvalidPlaylistLink)
}

func TestExtractPlaylistIDRejectsForeignHosts(t *testing.T) {
	_, err := ExtractPlaylistID("https://example.com/playlist/abc")
	assert.ErrorIs(t, err, blueprint.ErrInvalidPlaylistLink)

	// a bare path without a host is still fine
	id, err := ExtractPlaylistID("playlist/abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", id)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := DeriveKey("some-secret")

	ciphertext, err := Encrypt([]byte("the access token"), key)
	require.NoError(t, err)
	assert.NotContains(t, string(ciphertext), "access token")

	plain, err := Decrypt(ciphertext, key)
	require.NoError(t, err)
	assert.Equal(t, "the access token", string(plain))
}

func TestDecryptWithWrongKeyFails(t *testing.T) {
	ciphertext, err := Encrypt([]byte("payload"), DeriveKey("right"))
	require.NoError(t, err)

	_, err = Decrypt(ciphertext, DeriveKey("wrong"))
	assert.Error(t, err)
}

func TestSessionRoundTrip(t *testing.T) {
	cfg := testConfig()

	session, err := SignSession("provider-access-token", cfg)
	require.NoError(t, err)

	token, err := ParseSession(session, cfg)
	require.NoError(t, err)
	assert.Equal(t, "provider-access-token", token)
}

func TestParseSessionRejectsWrongSecret(t *testing.T) {
	cfg := testConfig()
	session, err := SignSession("provider-access-token", cfg)
	require.NoError(t, err)

	other := testConfig()
	other.JWTSecret = "a-different-secret"
	_, err = ParseSession(session, other)
	assert.Error(t, err)
}

func TestParseSessionRejectsGarbage(t *testing.T) {
	_, err := ParseSession("not-a-jwt", testConfig())
	assert.Error(t, err)
}
