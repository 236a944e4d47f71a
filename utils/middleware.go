package utils

import (
	"brainhr-server/models"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// CallerIdentity extracts the caller from the verified token, or from the
// optional-auth context value when the route allows anonymous access. The
// boolean is false when no caller is present or its role is unrecognized.
func CallerIdentity(ctx iris.Context) (models.Identity, bool) {
	if v := ctx.Values().Get("caller"); v != nil {
		if id, ok := v.(models.Identity); ok {
			return id, true
		}
	}
	tok := jwt.Get(ctx)
	if tok == nil {
		return models.Identity{}, false
	}
	claims, ok := tok.(*AccessToken)
	if !ok || !models.ValidRole(claims.Role) {
		return models.Identity{}, false
	}
	return models.Identity{Role: claims.Role, ID: claims.ID}, true
}

// EmployeeOnlyMiddleware admits employee tokens only.
func EmployeeOnlyMiddleware(ctx iris.Context) {
	requireRole(ctx, models.RoleEmployee)
}

// ManagerOnlyMiddleware admits manager tokens only.
func ManagerOnlyMiddleware(ctx iris.Context) {
	requireRole(ctx, models.RoleManager)
}

// AdminOnlyMiddleware admits admin tokens only.
func AdminOnlyMiddleware(ctx iris.Context) {
	requireRole(ctx, models.RoleAdmin)
}

// StaffOnlyMiddleware admits admin and manager tokens. Mirrors the portal
// rule that managers share most of the admin read surface.
func StaffOnlyMiddleware(ctx iris.Context) {
	id, ok := CallerIdentity(ctx)
	if !ok || (id.Role != models.RoleAdmin && id.Role != models.RoleManager) {
		ctx.StatusCode(iris.StatusForbidden)
		ctx.JSON(iris.Map{"error": "forbidden", "message": "staff access required"})
		return
	}
	ctx.Next()
}

func requireRole(ctx iris.Context, role string) {
	id, ok := CallerIdentity(ctx)
	if !ok || id.Role != role {
		ctx.StatusCode(iris.StatusForbidden)
		ctx.JSON(iris.Map{"error": "forbidden", "message": role + " access required"})
		return
	}
	ctx.Next()
}
