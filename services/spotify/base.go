package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/samber/lo"
	"github.com/vicanso/go-axios"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"

	"soundscope/blueprint"
)

const APIBase = "https://api.spotify.com/v1"

// Caps on the pagination loop so a misbehaving upstream cannot keep us
// looping on fabricated next links.
const (
	maxPlaylistItems = 100000
	maxPlaylistPages = 1000
)

// FeatureBatchLimit is the provider's batch size for the audio-features
// endpoint. Only the first FeatureBatchLimit present tracks of a
// playlist contribute to the feature averages.
const FeatureBatchLimit = 50

// TopItemsLimit is how many top artists/tracks the dashboard pulls.
const TopItemsLimit = 10

type Service struct {
	ClientID     string
	ClientSecret string
	Redis        *redis.Client
	// HTTPClient backs the raw pagination requests. Nil means
	// http.DefaultClient; tests inject their own.
	HTTPClient *http.Client
}

func NewService(cfg *blueprint.Config, redisClient *redis.Client) *Service {
	return &Service{
		ClientID:     cfg.SpotifyClientID,
		ClientSecret: cfg.SpotifyClientSecret,
		Redis:        redisClient,
	}
}

// NewUserClient returns a provider client authenticated with the access
// token that came in on the request.
func (s *Service) NewUserClient(ctx context.Context, accessToken string) *spotify.Client {
	httpClient := spotifyauth.New(
		spotifyauth.WithClientID(s.ClientID),
		spotifyauth.WithClientSecret(s.ClientSecret),
	).Client(ctx, &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	return spotify.New(httpClient)
}

// FetchPlaylistInfo fetches a playlist's metadata. The returned
// ItemsURL is the provider's href for the first page of items and seeds
// the paginated fetch.
func (s *Service) FetchPlaylistInfo(ctx context.Context, accessToken, id string) (*blueprint.PlaylistInfo, error) {
	client := s.NewUserClient(ctx, accessToken)
	info, err := client.GetPlaylist(ctx, spotify.ID(id))
	if err != nil {
		log.Printf("\n[services][spotify][base][FetchPlaylistInfo] error - could not fetch playlist: %v\n", err)
		return nil, mapPlaylistError(err)
	}

	cover := ""
	if len(info.Images) > 0 {
		cover = info.Images[0].URL
	}

	itemsURL := info.Tracks.Endpoint
	if itemsURL == "" {
		itemsURL = fmt.Sprintf("%s/playlists/%s/tracks?limit=100", APIBase, id)
	}

	return &blueprint.PlaylistInfo{
		ID:          id,
		Name:        info.Name,
		Owner:       info.Owner.DisplayName,
		Description: info.Description,
		Cover:       cover,
		Total:       int(info.Tracks.Total),
		ItemsURL:    itemsURL,
	}, nil
}

// FetchAllItems retrieves every item of a paged collection by following
// next links from startURL, in original order. Partial-success
// contract: it returns whatever was fetched before the first failed
// page and never reports an error for mid-stream failures; a failure on
// the very first page yields an empty slice. The loop is capped at
// maxPlaylistItems items / maxPlaylistPages pages.
func (s *Service) FetchAllItems(ctx context.Context, accessToken, startURL string) []blueprint.PlaylistItem {
	instance := axios.NewInstance(&axios.InstanceConfig{
		Headers: map[string][]string{
			"Accept":        {"application/json"},
			"Authorization": {"Bearer " + accessToken},
		},
		Client: s.httpClient(),
	})

	var items []blueprint.PlaylistItem
	next := startURL

	for page := 0; next != "" && page < maxPlaylistPages && len(items) < maxPlaylistItems; page++ {
		if ctx.Err() != nil {
			log.Printf("\n[services][spotify][base][FetchAllItems] - context done after %d items: %v\n", len(items), ctx.Err())
			break
		}

		resp, err := instance.Get(next)
		if err != nil {
			log.Printf("\n[services][spotify][base][FetchAllItems] error - page request failed, returning %d items: %v\n", len(items), err)
			break
		}
		if resp.Status >= 300 {
			log.Printf("\n[services][spotify][base][FetchAllItems] error - page returned status %d, returning %d items\n", resp.Status, len(items))
			break
		}

		out := pagedItemsResponse{}
		if err := json.Unmarshal(resp.Data, &out); err != nil {
			log.Printf("\n[services][spotify][base][FetchAllItems] error - could not deserialize page: %v\n", err)
			break
		}

		for _, item := range out.Items {
			items = append(items, blueprint.PlaylistItem{
				AddedAt: item.AddedAt,
				Track:   mapWireTrack(item.Track),
			})
		}
		next = out.Next
	}

	return items
}

// FetchAudioFeatures looks up batch audio features for the given track
// IDs, keyed by ID. IDs the provider returns nothing for are simply
// absent from the map. A failed lookup degrades to an empty map: the
// stats summary then carries no feature averages instead of failing the
// whole analysis.
func (s *Service) FetchAudioFeatures(ctx context.Context, accessToken string, ids []string) map[string]blueprint.AudioFeatures {
	if len(ids) == 0 {
		return nil
	}
	if len(ids) > FeatureBatchLimit {
		ids = ids[:FeatureBatchLimit]
	}

	client := s.NewUserClient(ctx, accessToken)
	spotifyIDs := lo.Map(ids, func(id string, _ int) spotify.ID { return spotify.ID(id) })

	features, err := client.GetAudioFeatures(ctx, spotifyIDs...)
	if err != nil {
		log.Printf("\n[services][spotify][base][FetchAudioFeatures] error - could not fetch audio features: %v\n", err)
		return nil
	}

	out := make(map[string]blueprint.AudioFeatures, len(features))
	for _, f := range features {
		if f == nil {
			continue
		}
		out[string(f.ID)] = blueprint.AudioFeatures{
			Energy:       float64(f.Energy),
			Danceability: float64(f.Danceability),
			Valence:      float64(f.Valence),
			Tempo:        float64(f.Tempo),
		}
	}
	return out
}

// FetchTopArtists fetches the user's top artists with their genre tags.
func (s *Service) FetchTopArtists(ctx context.Context, accessToken string) ([]blueprint.Artist, error) {
	client := s.NewUserClient(ctx, accessToken)
	page, err := client.CurrentUsersTopArtists(ctx, spotify.Limit(TopItemsLimit))
	if err != nil {
		log.Printf("\n[services][spotify][base][FetchTopArtists] error - could not fetch top artists: %v\n", err)
		return nil, mapUserAPIError(err)
	}

	var artists []blueprint.Artist
	for _, artist := range page.Artists {
		cover := ""
		if len(artist.Images) > 0 {
			cover = artist.Images[0].URL
		}
		artists = append(artists, blueprint.Artist{
			ID:     string(artist.ID),
			Name:   artist.Name,
			Cover:  cover,
			Genres: artist.Genres,
		})
	}
	return artists, nil
}

// FetchTopTracks fetches the user's top tracks.
func (s *Service) FetchTopTracks(ctx context.Context, accessToken string) ([]blueprint.Track, error) {
	client := s.NewUserClient(ctx, accessToken)
	page, err := client.CurrentUsersTopTracks(ctx, spotify.Limit(TopItemsLimit))
	if err != nil {
		log.Printf("\n[services][spotify][base][FetchTopTracks] error - could not fetch top tracks: %v\n", err)
		return nil, mapUserAPIError(err)
	}

	var tracks []blueprint.Track
	for _, track := range page.Tracks {
		artists := lo.Map(track.Artists, func(a spotify.SimpleArtist, _ int) string { return a.Name })

		cover := ""
		if len(track.Album.Images) > 0 {
			cover = track.Album.Images[0].URL
		}

		tracks = append(tracks, blueprint.Track{
			ID:             track.ID.String(),
			Title:          track.Name,
			Artists:        artists,
			Album:          track.Album.Name,
			AlbumID:        string(track.Album.ID),
			Released:       track.Album.ReleaseDate,
			Cover:          cover,
			DurationMillis: int(track.Duration),
			Popularity:     int(track.Popularity),
			Explicit:       track.Explicit,
			Preview:        track.PreviewURL,
			URL:            track.ExternalURLs["spotify"],
		})
	}
	return tracks, nil
}

func (s *Service) httpClient() *http.Client {
	if s.HTTPClient != nil {
		return s.HTTPClient
	}
	return http.DefaultClient
}

func mapWireTrack(t *trackItem) *blueprint.Track {
	if t == nil {
		return nil
	}

	artists := lo.Map(t.Artists, func(a artistItem, _ int) string { return a.Name })

	cover := ""
	if len(t.Album.Images) > 0 {
		cover = t.Album.Images[0].URL
	}

	return &blueprint.Track{
		ID:             t.ID,
		Title:          t.Name,
		Artists:        artists,
		Album:          t.Album.Name,
		AlbumID:        t.Album.ID,
		Released:       t.Album.ReleaseDate,
		Cover:          cover,
		DurationMillis: t.DurationMs,
		Popularity:     t.Popularity,
		Explicit:       t.Explicit,
		Preview:        t.PreviewURL,
		URL:            t.ExternalURLs["spotify"],
	}
}

// mapPlaylistError separates provider API refusals, which the caller
// can act on, from transport failures, which it cannot. A non-API error
// (DNS, timeout, cancelled context) is an upstream failure.
func mapPlaylistError(err error) error {
	var apiErr spotify.Error
	if errors.As(err, &apiErr) {
		if apiErr.Status == http.StatusUnauthorized {
			return blueprint.ErrNotAuthenticated
		}
		return fmt.Errorf("%w: %v", blueprint.ErrPlaylistUnavailable, err)
	}
	return fmt.Errorf("%w: %v", blueprint.ErrUpstreamFailure, err)
}

func mapUserAPIError(err error) error {
	if strings.Contains(err.Error(), "401") {
		return blueprint.ErrNotAuthenticated
	}
	if strings.Contains(err.Error(), "403") {
		return errors.New("forbidden")
	}
	return fmt.Errorf("%w: %v", blueprint.ErrUpstreamFailure, err)
}
