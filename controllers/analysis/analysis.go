package analysis

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"soundscope/analyzer"
	"soundscope/blueprint"
	"soundscope/services/spotify"
	"soundscope/util"
)

// StreamingService is what the analysis endpoints need from the
// provider client. *spotify.Service satisfies it; tests stub it.
type StreamingService interface {
	ClientCredentialsToken(ctx context.Context) (string, error)
	FetchPlaylistInfo(ctx context.Context, accessToken, id string) (*blueprint.PlaylistInfo, error)
	FetchAllItems(ctx context.Context, accessToken, startURL string) []blueprint.PlaylistItem
	FetchAudioFeatures(ctx context.Context, accessToken string, ids []string) map[string]blueprint.AudioFeatures
	FetchTopArtists(ctx context.Context, accessToken string) ([]blueprint.Artist, error)
	FetchTopTracks(ctx context.Context, accessToken string) ([]blueprint.Track, error)
}

var _ StreamingService = (*spotify.Service)(nil)

type Controller struct {
	Service StreamingService
	Config  *blueprint.Config
	Logger  *zap.Logger
}

func NewController(service StreamingService, cfg *blueprint.Config, zlog *zap.Logger) *Controller {
	return &Controller{Service: service, Config: cfg, Logger: zlog}
}

// AnalyzePlaylist computes the stats summary for the playlist in the
// request body. Without a bearer token it falls back to an app-level
// client-credentials token, which covers public playlists; only when
// that fallback fails does the caller get a 401 with need_login.
func (c *Controller) AnalyzePlaylist(ctx *fiber.Ctx) error {
	reqCtx, cancel := context.WithTimeout(ctx.Context(), c.Config.UpstreamTimeout)
	defer cancel()

	token, _ := ctx.Locals("accessToken").(string)
	if token == "" {
		appToken, err := c.Service.ClientCredentialsToken(reqCtx)
		if err != nil {
			log.Printf("\n[controllers][analysis][AnalyzePlaylist] error - no bearer token and client-credentials fallback failed: %v\n", err)
			return util.NeedLoginResponse(ctx)
		}
		token = appToken
	}

	body := blueprint.AnalyzeRequest{}
	if err := ctx.BodyParser(&body); err != nil {
		log.Printf("\n[controllers][analysis][AnalyzePlaylist] error - could not parse request body: %v\n", err)
		return util.ErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
	}

	playlistID, err := util.ExtractPlaylistID(body.PlaylistURL)
	if err != nil {
		log.Printf("\n[controllers][analysis][AnalyzePlaylist] error - invalid playlist url %s\n", body.PlaylistURL)
		return util.ErrorResponse(ctx, http.StatusBadRequest, "Invalid playlist URL")
	}

	level := body.Detail
	if level == "" {
		level = blueprint.DetailExtended
	}

	info, err := c.Service.FetchPlaylistInfo(reqCtx, token, playlistID)
	if err != nil {
		if errors.Is(err, blueprint.ErrNotAuthenticated) {
			return util.NeedLoginResponse(ctx)
		}
		if errors.Is(err, blueprint.ErrPlaylistUnavailable) {
			c.Logger.Warn("playlist unavailable", zap.String("playlist_id", playlistID), zap.Error(err))
			return util.ErrorResponse(ctx, http.StatusBadRequest, "Failed to fetch playlist")
		}
		c.Logger.Error("playlist fetch failed upstream", zap.String("playlist_id", playlistID), zap.Error(err))
		return util.ErrorResponse(ctx, http.StatusInternalServerError, "Failed to fetch playlist")
	}

	items := c.Service.FetchAllItems(reqCtx, token, info.ItemsURL)

	ids := analyzer.PresentTrackIDs(items, spotify.FeatureBatchLimit)
	features := c.Service.FetchAudioFeatures(reqCtx, token, ids)

	stats := analyzer.Aggregate(items, features, level)

	return util.SuccessResponse(ctx, http.StatusOK, blueprint.AnalysisResult{
		PlaylistName:  info.Name,
		PlaylistOwner: info.Owner,
		Description:   info.Description,
		Cover:         info.Cover,
		Stats:         stats,
	})
}

// UserDashboard returns the listening-profile summary plus insights.
// The top-artists and top-tracks fetches are independent: either one
// failing leaves its section empty while the other still populates, and
// the response stays a 200.
func (c *Controller) UserDashboard(ctx *fiber.Ctx) error {
	token, _ := ctx.Locals("accessToken").(string)
	if token == "" {
		return util.NeedLoginResponse(ctx)
	}

	reqCtx, cancel := context.WithTimeout(ctx.Context(), c.Config.UpstreamTimeout)
	defer cancel()

	artists, artistsErr := c.Service.FetchTopArtists(reqCtx, token)
	if artistsErr != nil {
		log.Printf("\n[controllers][analysis][UserDashboard] - top artists unavailable, degrading: %v\n", artistsErr)
		c.Logger.Warn("top artists fetch failed", zap.Error(artistsErr))
		artists = nil
	}

	tracks, tracksErr := c.Service.FetchTopTracks(reqCtx, token)
	if tracksErr != nil {
		log.Printf("\n[controllers][analysis][UserDashboard] - top tracks unavailable, degrading: %v\n", tracksErr)
		c.Logger.Warn("top tracks fetch failed", zap.Error(tracksErr))
		tracks = nil
	}

	summary := analyzer.AggregateProfile(artists, tracks)

	return util.SuccessResponse(ctx, http.StatusOK, blueprint.DashboardResult{
		UserStats: summary,
		Insights:  analyzer.Insights(summary),
	})
}
