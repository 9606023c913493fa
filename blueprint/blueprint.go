package blueprint

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const SpotifyHost = "open.spotify.com"

var (
	// ErrTokenMissing means the provider returned a 2xx token response
	// without an access_token field. This is an auth failure, not a
	// transport failure, and callers redirect with error=token_failed.
	ErrTokenMissing = errors.New("access token missing from token response")

	ErrInvalidPlaylistLink = errors.New("invalid playlist link")
	ErrNotAuthenticated    = errors.New("not authenticated")

	// ErrPlaylistUnavailable is the provider refusing the playlist
	// itself (not found, private). The caller sent a bad reference, so
	// handlers answer with a 400.
	ErrPlaylistUnavailable = errors.New("playlist unavailable")

	// ErrUpstreamFailure covers transport-level and unexpected provider
	// failures. Nothing the caller did caused these; handlers answer
	// with a 500.
	ErrUpstreamFailure = errors.New("upstream request failed")
)

// Config is the process-wide configuration. It is built once at startup
// and passed by reference everywhere; nothing mutates it afterwards.
type Config struct {
	SpotifyClientID     string
	SpotifyClientSecret string
	RedirectURI         string
	FrontendURL         string
	AllowedOrigins      string
	JWTSecret           string
	EncryptionSecret    string
	Port                string
	UpstreamTimeout     time.Duration
}

// DetailLevel selects how much of the stats summary /analyze computes.
type DetailLevel string

const (
	DetailBasic    DetailLevel = "basic"
	DetailExtended DetailLevel = "extended"
)

// SessionClaims is the JWT issued at /callback. Token holds the
// AES-GCM-encrypted provider access token, hex encoded.
type SessionClaims struct {
	jwt.RegisteredClaims
	Token string `json:"token"`
}

// Track is a single provider track, immutable once fetched.
type Track struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Artists        []string `json:"artists"`
	Album          string   `json:"album,omitempty"`
	AlbumID        string   `json:"album_id,omitempty"`
	Released       string   `json:"released,omitempty"`
	Cover          string   `json:"cover,omitempty"`
	DurationMillis int      `json:"duration_ms"`
	Popularity     int      `json:"popularity"`
	Explicit       bool     `json:"explicit"`
	Preview        string   `json:"preview,omitempty"`
	URL            string   `json:"url,omitempty"`
}

// PlaylistItem is one slot in a playlist. Track is nil when the
// underlying track has been removed by the provider; aggregation must
// skip such slots, never crash on them.
type PlaylistItem struct {
	AddedAt string `json:"added_at,omitempty"`
	Track   *Track `json:"track"`
}

// PlaylistInfo is the playlist metadata, without items.
type PlaylistInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Owner       string `json:"owner"`
	Description string `json:"description,omitempty"`
	Cover       string `json:"cover,omitempty"`
	Total       int    `json:"total"`
	ItemsURL    string `json:"-"`
}

// AudioFeatures are the provider-computed numeric descriptors of a
// track, correlated to tracks by ID.
type AudioFeatures struct {
	Energy       float64 `json:"energy"`
	Danceability float64 `json:"danceability"`
	Valence      float64 `json:"valence"`
	Tempo        float64 `json:"tempo"`
}

// FeatureAverages holds the audio feature means. Energy, danceability
// and valence are scaled to 0-100.
type FeatureAverages struct {
	Energy       int `json:"energy"`
	Danceability int `json:"danceability"`
	Valence      int `json:"valence"`
	Tempo        int `json:"tempo"`
}

// StatsSummary is the computed playlist aggregate. It has no identity
// of its own and is recomputed from scratch on every request.
// The extended fields carry omitempty so the basic detail level leaves
// them out entirely.
type StatsSummary struct {
	TotalTracks        int     `json:"total_tracks"`
	AvgPopularity      int     `json:"avg_popularity"`
	TotalDurationHours float64 `json:"total_duration_hours"`
	MostPopularTrack   string  `json:"most_popular_track"`
	MostPopularArtist  string  `json:"most_popular_artist"`
	MostCommonArtist   string  `json:"most_common_artist"`
	ArtistCount        int     `json:"artist_count"`
	ExplicitPercent    int     `json:"explicit_percent"`

	AlbumCovers    []string         `json:"album_covers,omitempty"`
	Decades        map[string]int   `json:"decades,omitempty"`
	ReleaseYearMin int              `json:"release_year_min,omitempty"`
	ReleaseYearMax int              `json:"release_year_max,omitempty"`
	Features       *FeatureAverages `json:"audio_features,omitempty"`
}

// AnalyzeRequest is the body of POST /analyze.
type AnalyzeRequest struct {
	PlaylistURL string      `json:"playlist_url"`
	Detail      DetailLevel `json:"detail,omitempty"`
}

// AnalysisResult is the /analyze response payload.
type AnalysisResult struct {
	PlaylistName  string       `json:"playlist_name"`
	PlaylistOwner string       `json:"playlist_owner"`
	Description   string       `json:"description,omitempty"`
	Cover         string       `json:"cover,omitempty"`
	Stats         StatsSummary `json:"stats"`
}

// Artist is a top-artist entry, including the genre tags the profile
// aggregation counts.
type Artist struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Cover  string   `json:"cover,omitempty"`
	Genres []string `json:"genres,omitempty"`
}

// TopArtist is the trimmed artist shape returned on the dashboard.
type TopArtist struct {
	Name  string `json:"name"`
	Cover string `json:"cover,omitempty"`
}

// TopTrack is the trimmed track shape returned on the dashboard.
type TopTrack struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Cover  string `json:"cover,omitempty"`
}

// GenreCount is a genre tag with how many top artists carry it.
type GenreCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ProfileSummary is the computed listening-profile aggregate. Each
// section fills independently; a failed upstream fetch leaves its
// section at the empty default.
type ProfileSummary struct {
	TopArtists []TopArtist  `json:"top_artists"`
	TopTracks  []TopTrack   `json:"top_tracks"`
	TopGenres  []GenreCount `json:"top_genres"`
}

// DashboardResult is the /user_dashboard response payload.
type DashboardResult struct {
	UserStats ProfileSummary `json:"user_stats"`
	Insights  []string       `json:"personalized_insights"`
}
