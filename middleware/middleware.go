package middleware

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"soundscope/blueprint"
	"soundscope/util"
)

type AuthMiddleware struct {
	Config *blueprint.Config
}

func NewAuthMiddleware(cfg *blueprint.Config) *AuthMiddleware {
	return &AuthMiddleware{Config: cfg}
}

// LogIncomingRequest logs every request hitting the server.
func (a *AuthMiddleware) LogIncomingRequest(ctx *fiber.Ctx) error {
	log.Printf("[middleware][LogIncomingRequest] incoming request: %s  %s: %s\n", ctx.IP(), ctx.Method(), ctx.Path())
	return ctx.Next()
}

// ResolveAccessToken extracts the provider access token for the request
// and stores it in the "accessToken" local. The bearer value may be a
// session JWT issued at /callback or a raw provider token passed
// through by the frontend; both are accepted. An empty local means the
// request is unauthenticated, and the handler decides whether that is a
// 401 or a client-credentials fallback.
func (a *AuthMiddleware) ResolveAccessToken(ctx *fiber.Ctx) error {
	bearer := util.BearerToken(ctx)
	if bearer == "" {
		ctx.Locals("accessToken", "")
		return ctx.Next()
	}

	if token, err := util.ParseSession(bearer, a.Config); err == nil {
		log.Printf("[middleware][ResolveAccessToken] - resolved session token")
		ctx.Locals("accessToken", token)
		return ctx.Next()
	}

	// not one of our sessions, treat it as a raw provider token
	ctx.Locals("accessToken", bearer)
	return ctx.Next()
}
