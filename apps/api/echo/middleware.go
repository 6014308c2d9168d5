package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/trezcool/coursedesk/core/admin"
	"github.com/trezcool/coursedesk/core/auth"
)

// authMiddleware lets the request through only when its token cookie grants `capability`.
func authMiddleware(gate *auth.Gate, capability admin.Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := gate.Authorize(getCookieToken(ctx), capability)
			switch err {
			case nil:
				ctx.Set(contextClaimsKey, claims)
				return next(ctx)
			case auth.ErrForbidden:
				return errForbidden
			default:
				return errUnauthorized
			}
		}
	}
}

// optionalAuthMiddleware stores the claims of a valid token cookie, if any, and never rejects.
func optionalAuthMiddleware(gate *auth.Gate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if claims, err := gate.Verify(getCookieToken(ctx)); err == nil {
				ctx.Set(contextClaimsKey, claims)
			}
			return next(ctx)
		}
	}
}
