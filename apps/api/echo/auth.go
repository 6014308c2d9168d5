package echoapi

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/coursedesk/core"
	"github.com/trezcool/coursedesk/core/admin"
	"github.com/trezcool/coursedesk/core/auth"
)

const (
	TokenCookieName  = "token"
	contextClaimsKey = "claims"
)

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	SuccessResponse struct {
		Success bool   `json:"success"`
		Message string `json:"message,omitempty"`
	}

	AuthCheckResponse struct {
		IsAuthenticated bool       `json:"isAuthenticated"`
		Role            admin.Role `json:"role,omitempty"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.Username = core.CleanString(lr.Username, true /* lower */)
	return validate.Struct(lr)
}

type authApi struct {
	gate          *auth.Gate
	secureCookies bool
	validate      *validator.Validate
}

func registerAuthAPI(g *echo.Group, gate *auth.Gate, secureCookies bool, validate *validator.Validate) {
	api := authApi{
		gate:          gate,
		secureCookies: secureCookies,
		validate:      validate,
	}

	g.POST("/admin/login", api.login)
	g.POST("/logout", api.logout)
	g.GET("/auth-check", api.check)
}

// Handlers

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	token, _, err := api.gate.Login(ctx.Request().Context(), data.Username, data.Password)
	if err != nil {
		if errors.Cause(err) == auth.ErrInvalidCredentials {
			return errInvalidCredentials
		}
		return errors.Wrap(err, "logging in")
	}

	ctx.SetCookie(api.newTokenCookie(token, api.gate.ExpiresIn()))
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "Admin login successful"})
}

func (api *authApi) logout(ctx echo.Context) error {
	ctx.SetCookie(api.newTokenCookie("", -1))
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "Logout successful"})
}

func (api *authApi) check(ctx echo.Context) error {
	claims, err := api.gate.Verify(getCookieToken(ctx))
	if err != nil {
		return ctx.JSON(http.StatusOK, AuthCheckResponse{IsAuthenticated: false})
	}
	return ctx.JSON(http.StatusOK, AuthCheckResponse{IsAuthenticated: true, Role: claims.Role})
}

// Helpers

// newTokenCookie returns the credential cookie; a negative maxAge deletes it.
func (api *authApi) newTokenCookie(token string, maxAge time.Duration) *http.Cookie {
	cookie := &http.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   api.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
	if maxAge < 0 {
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0)
	} else {
		cookie.MaxAge = int(maxAge.Seconds())
		cookie.Expires = time.Now().Add(maxAge)
	}
	return cookie
}

func getCookieToken(ctx echo.Context) string {
	cookie, err := ctx.Cookie(TokenCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func getContextClaims(ctx echo.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Get(contextClaimsKey).(*auth.Claims)
	return claims, ok && claims != nil
}
