package account

import (
	"context"
	"errors"
	"log"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"soundscope/blueprint"
	"soundscope/services/spotify"
	"soundscope/util"
)

type UserController struct {
	Config *blueprint.Config
}

func NewUserController(cfg *blueprint.Config) *UserController {
	return &UserController{Config: cfg}
}

// Login redirects the user to the provider authorize URL.
func (c *UserController) Login(ctx *fiber.Ctx) error {
	state, _ := uuid.NewUUID()
	authURL := spotify.FetchAuthURL(c.Config, state.String())
	log.Printf("[controllers][account][Login] - redirecting to provider authorize URL")
	return ctx.Redirect(authURL, fiber.StatusFound)
}

// Callback finishes the authorization-code flow. On success it
// redirects to the frontend carrying the raw access token (kept for
// frontend compatibility) plus a signed session wrapping the encrypted
// token; on failure it redirects with an error flag instead. No token
// is stored server-side.
func (c *UserController) Callback(ctx *fiber.Ctx) error {
	if provErr := ctx.Query("error"); provErr != "" {
		log.Printf("[controllers][account][Callback] - provider returned error %s", provErr)
		return c.redirectWithParams(ctx, url.Values{"error": {provErr}})
	}

	code := ctx.Query("code")
	if code == "" {
		return ctx.Redirect(c.Config.FrontendURL, fiber.StatusFound)
	}

	reqCtx, cancel := context.WithTimeout(ctx.Context(), c.Config.UpstreamTimeout)
	defer cancel()

	token, err := spotify.ExchangeCode(reqCtx, c.Config, code)
	if err != nil {
		if errors.Is(err, blueprint.ErrTokenMissing) {
			return c.redirectWithParams(ctx, url.Values{"error": {"token_failed"}})
		}
		log.Printf("[controllers][account][Callback] error - code exchange failed: %v", err)
		return c.redirectWithParams(ctx, url.Values{"error": {"callback_failed"}})
	}

	params := url.Values{"access_token": {token.AccessToken}}

	session, err := util.SignSession(token.AccessToken, c.Config)
	if err != nil {
		// the raw token still works, so a session failure only costs
		// the nicer bearer format
		log.Printf("[controllers][account][Callback] error - could not sign session: %v", err)
	} else {
		params.Set("session", session)
	}

	return c.redirectWithParams(ctx, params)
}

func (c *UserController) redirectWithParams(ctx *fiber.Ctx, params url.Values) error {
	return ctx.Redirect(c.Config.FrontendURL+"?"+params.Encode(), fiber.StatusFound)
}
