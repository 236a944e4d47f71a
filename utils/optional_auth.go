package utils

import (
	"os"
	"strings"

	"brainhr-server/models"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// OptionalTokenMiddleware verifies a bearer token when one is present but
// lets the request through either way. Used on endpoints that behave
// differently for authenticated callers (message create defaults the
// sender, unread-count returns 0 for anonymous callers) without requiring
// a session.
func OptionalTokenMiddleware(ctx iris.Context) {
	raw := ctx.GetHeader("Authorization")
	if after, ok := strings.CutPrefix(raw, "Bearer "); ok && after != "" {
		verifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
		if tok, err := verifier.VerifyToken([]byte(after)); err == nil {
			var claims AccessToken
			if err := tok.Claims(&claims); err == nil && models.ValidRole(claims.Role) {
				ctx.Values().Set("caller", models.Identity{Role: claims.Role, ID: claims.ID})
			}
		}
	}
	ctx.Next()
}
