package util

// The Encrypt/Decrypt helpers are a modified copy/paste of:
// https://github.com/gtank/cryptopasta/blob/master/encrypt.go
import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"soundscope/blueprint"
)

// SessionTTL is how long a session issued at /callback stays valid.
// Provider access tokens expire after an hour; the session matches that.
const SessionTTL = time.Hour

// SuccessResponse sends back a success http response to the client.
func SuccessResponse(ctx *fiber.Ctx, statusCode int, data interface{}) error {
	return ctx.Status(statusCode).JSON(fiber.Map{
		"message": "Request Ok",
		"status":  statusCode,
		"data":    data,
	})
}

// ErrorResponse sends back an error http response to the client.
func ErrorResponse(ctx *fiber.Ctx, statusCode int, err interface{}) error {
	return ctx.Status(statusCode).JSON(fiber.Map{
		"message": "Error with response",
		"status":  statusCode,
		"error":   err,
	})
}

// NeedLoginResponse sends a 401 with the need_login flag the frontend
// keys off to start the auth flow.
func NeedLoginResponse(ctx *fiber.Ctx) error {
	return ctx.Status(http.StatusUnauthorized).JSON(fiber.Map{
		"message":    "Error with response",
		"status":     http.StatusUnauthorized,
		"error":      "Not authenticated",
		"need_login": true,
	})
}

// BearerToken extracts the bearer token from the Authorization header.
// Returns an empty string when no bearer token is present.
func BearerToken(ctx *fiber.Ctx) string {
	header := ctx.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// ExtractPlaylistID returns the playlist ID from a playlist link,
// dropping any tracking query strings attached. The link must carry a
// "playlist/" segment, and an absolute link must point at the
// provider's host.
func ExtractPlaylistID(link string) (string, error) {
	if u, err := url.Parse(link); err == nil && u.Host != "" && u.Host != blueprint.SpotifyHost {
		return "", blueprint.ErrInvalidPlaylistLink
	}
	idx := strings.Index(link, "playlist/")
	if idx == -1 {
		return "", blueprint.ErrInvalidPlaylistLink
	}
	id := link[idx+len("playlist/"):]
	if qIdx := strings.Index(id, "?"); qIdx != -1 {
		id = id[:qIdx]
	}
	id = strings.Trim(id, "/")
	if id == "" {
		return "", blueprint.ErrInvalidPlaylistLink
	}
	return id, nil
}

// DeriveKey stretches a configured secret into a 32-byte AES-256 key.
func DeriveKey(secret string) []byte {
	sum := sha256.Sum256([]byte(secret))
	return sum[:]
}

// Encrypt encrypts data using 256-bit AES-GCM. This both hides the content of
// the data and provides a check that it hasn't been altered. Output takes the
// form nonce|ciphertext|tag where '|' indicates concatenation.
func Encrypt(plaintext []byte, key []byte) (ciphertext []byte, err error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	_, err = io.ReadFull(rand.Reader, nonce)
	if err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt decrypts data using 256-bit AES-GCM. Expects input in the
// form nonce|ciphertext|tag where '|' indicates concatenation.
func Decrypt(ciphertext []byte, key []byte) (plaintext []byte, err error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("malformed ciphertext")
	}

	return gcm.Open(nil,
		ciphertext[:gcm.NonceSize()],
		ciphertext[gcm.NonceSize():],
		nil,
	)
}

// SignSession creates a session JWT wrapping an access token. The token
// is encrypted with AES-GCM before it goes into the claim, so a session
// leaking into a log does not leak the provider token with it.
func SignSession(accessToken string, cfg *blueprint.Config) (string, error) {
	encrypted, err := Encrypt([]byte(accessToken), DeriveKey(cfg.EncryptionSecret))
	if err != nil {
		log.Printf("[util][SignSession] - error encrypting access token %v", err)
		return "", err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &blueprint.SessionClaims{
		Token: hex.EncodeToString(encrypted),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(SessionTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})

	signed, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		log.Printf("[util][SignSession] - error signing session %v", err)
		return "", err
	}
	return signed, nil
}

// ParseSession validates a session JWT and returns the provider access
// token embedded in it.
func ParseSession(session string, cfg *blueprint.Config) (string, error) {
	claims := &blueprint.SessionClaims{}
	token, err := jwt.ParseWithClaims(session, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", blueprint.ErrNotAuthenticated
	}

	encrypted, err := hex.DecodeString(claims.Token)
	if err != nil {
		return "", err
	}
	plain, err := Decrypt(encrypted, DeriveKey(cfg.EncryptionSecret))
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
