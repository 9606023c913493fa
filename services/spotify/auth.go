package spotify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"soundscope/blueprint"
)

// appTokenCacheKey is where the app-level client-credentials token is
// cached. Only this token is cached; playlists and tracks are always
// fetched fresh per request.
const appTokenCacheKey = "spotify:app_token"

func newAuthenticator(cfg *blueprint.Config) *spotifyauth.Authenticator {
	return spotifyauth.New(
		spotifyauth.WithRedirectURL(cfg.RedirectURI),
		spotifyauth.WithClientID(cfg.SpotifyClientID),
		spotifyauth.WithClientSecret(cfg.SpotifyClientSecret),
		spotifyauth.WithScopes(
			spotifyauth.ScopeUserReadPrivate,
			spotifyauth.ScopeUserReadEmail,
			spotifyauth.ScopePlaylistReadPrivate,
			spotifyauth.ScopeUserTopRead,
		),
	)
}

// FetchAuthURL builds the provider authorize URL for the given state.
func FetchAuthURL(cfg *blueprint.Config, state string) string {
	return newAuthenticator(cfg).AuthURL(state, spotifyauth.ShowDialog)
}

// ExchangeCode swaps an authorization code for a token. A token
// response without an access token is blueprint.ErrTokenMissing, which
// is an auth failure rather than a transport one. No retry; a single
// failed attempt is reported to the caller.
func ExchangeCode(ctx context.Context, cfg *blueprint.Config, code string) (*oauth2.Token, error) {
	token, err := newAuthenticator(cfg).Exchange(ctx, code)
	if err != nil {
		log.Printf("\n[services][spotify][auth][ExchangeCode] error - could not exchange code: %v\n", err)
		return nil, mapExchangeError(err)
	}
	if token.AccessToken == "" {
		log.Printf("\n[services][spotify][auth][ExchangeCode] error - token response without access token\n")
		return nil, blueprint.ErrTokenMissing
	}
	return token, nil
}

// mapExchangeError classifies token-exchange failures. oauth2 reports a
// 2xx token response without an access_token as a plain error, not a
// *RetrieveError, and never returns the token itself; that case is an
// auth failure, everything else is upstream.
func mapExchangeError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if !errors.As(err, &retrieveErr) && strings.Contains(err.Error(), "missing access_token") {
		return blueprint.ErrTokenMissing
	}
	return fmt.Errorf("%w: %v", blueprint.ErrUpstreamFailure, err)
}

// ClientCredentialsToken returns an app-level token for public-only
// access. The token is cached in redis until shortly before expiry;
// without redis every call hits the token endpoint.
func (s *Service) ClientCredentialsToken(ctx context.Context) (string, error) {
	if s.Redis != nil {
		cached, err := s.Redis.Get(ctx, appTokenCacheKey).Result()
		if err != nil && err != redis.Nil {
			log.Printf("\n[services][spotify][auth][ClientCredentialsToken] error - could not read token cache: %v\n", err)
		}
		if err == nil && cached != "" {
			return cached, nil
		}
	}

	config := &clientcredentials.Config{
		ClientID:     s.ClientID,
		ClientSecret: s.ClientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}

	token, err := config.Token(ctx)
	if err != nil {
		log.Printf("\n[services][spotify][auth][ClientCredentialsToken] error - could not fetch app token: %v\n", err)
		return "", fmt.Errorf("%w: %v", blueprint.ErrUpstreamFailure, err)
	}
	if token.AccessToken == "" {
		return "", blueprint.ErrTokenMissing
	}

	if s.Redis != nil {
		ttl := time.Until(token.Expiry) - time.Minute
		if ttl > 0 {
			if err := s.Redis.Set(ctx, appTokenCacheKey, token.AccessToken, ttl).Err(); err != nil {
				log.Printf("\n[services][spotify][auth][ClientCredentialsToken] error - could not cache app token: %v\n", err)
			}
		}
	}

	return token.AccessToken, nil
}
