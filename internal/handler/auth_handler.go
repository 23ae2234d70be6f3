package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"bruinplace/internal/errors"
	"bruinplace/internal/service"
)

const oauthStateCookieName = "oauth_state"

// AuthHandler handles the login flow and session endpoints.
type AuthHandler struct {
	authService   service.AuthService
	secureCookies bool
	tokenLifetime time.Duration
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, secureCookies bool, tokenLifetime time.Duration) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		secureCookies: secureCookies,
		tokenLifetime: tokenLifetime,
	}
}

// SessionResponse is returned after a successful login.
type SessionResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        interface{} `json:"user"`
}

// Login godoc
// @Summary Redirect to the identity provider
// @Tags auth
// @Success 302
// @Router /auth/login [get]
func (h *AuthHandler) Login(c echo.Context) error {
	url, state := h.authService.LoginURL()

	c.SetCookie(&http.Cookie{
		Name:     oauthStateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusFound, url)
}

// Callback godoc
// @Summary Complete the identity-provider login and issue a session
// @Tags auth
// @Produce json
// @Param code query string true "Authorization code"
// @Param state query string true "State nonce"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /auth/callback [get]
func (h *AuthHandler) Callback(c echo.Context) error {
	code := c.QueryParam("code")
	state := c.QueryParam("state")

	cookieState := ""
	if cookie, err := c.Cookie(oauthStateCookieName); err == nil {
		cookieState = cookie.Value
	}

	token, user, err := h.authService.HandleCallback(c.Request().Context(), code, state, cookieState)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	// Session cookie for web clients; API clients use the bearer token.
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokenLifetime.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	h.clearCookie(c, oauthStateCookieName)

	return c.JSON(http.StatusOK, SessionResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}

// Me godoc
// @Summary Get the authenticated user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}

	user, err := h.authService.CurrentUser(c.Request().Context(), session.Claims.Subject)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, user)
}

// Logout godoc
// @Summary Revoke the current session
// @Tags auth
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}

	if err := h.authService.Logout(c.Request().Context(), session.Token); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	h.clearCookie(c, SessionCookieName)
	h.clearCookie(c, oauthStateCookieName)
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) clearCookie(c echo.Context, name string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
