package handler

import (
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"bruinplace/internal/auth"
	"bruinplace/internal/errors"
	"bruinplace/internal/service"
)

// SessionCookieName is the HttpOnly cookie carrying the session token for web
// clients; API clients send a Bearer header instead.
const SessionCookieName = "bp_session"

// Session is the authenticated caller attached to the request context.
type Session struct {
	Claims *auth.Claims
	// Token is the raw JWT, kept so logout can revoke it.
	Token string
}

// SessionMiddleware authenticates requests from the Authorization header or
// the session cookie, rejecting expired, malformed, and revoked tokens.
func SessionMiddleware(authService service.AuthService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ,cookie:" + SessionCookieName,
		ParseTokenFunc: func(c echo.Context, tokenString string) (interface{}, error) {
			claims, err := authService.ValidateSession(c.Request().Context(), tokenString)
			if err != nil {
				return nil, err
			}
			return &Session{Claims: claims, Token: tokenString}, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			httpErr := errors.MapErrorToHTTP(errors.ErrUnauthorized)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		},
	})
}

// CurrentSession extracts the authenticated session from echo context.
func CurrentSession(c echo.Context) (*Session, bool) {
	session, ok := c.Get("user").(*Session)
	return session, ok
}

// requireSession returns the session or an unauthorized HTTP error.
func requireSession(c echo.Context) (*Session, error) {
	session, ok := CurrentSession(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: errors.ErrUnauthorized.Error(),
			Code:  "UNAUTHORIZED",
		})
	}
	return session, nil
}

// optionalOwnerID returns the caller's user id when a session is present.
// Property mutations may run unauthenticated when the owner check is off.
func optionalOwnerID(c echo.Context) string {
	if session, ok := CurrentSession(c); ok {
		return session.Claims.Subject
	}
	return ""
}
