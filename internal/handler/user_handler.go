package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"bruinplace/internal/errors"
	"bruinplace/internal/service"
)

// UserHandler handles the authenticated user's profile and saved listings.
type UserHandler struct {
	userService    service.UserService
	listingService service.ListingService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService, listingService service.ListingService) *UserHandler {
	return &UserHandler{userService: userService, listingService: listingService}
}

// UpdateProfileRequest is the payload for a profile update.
type UpdateProfileRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=255"`
	Picture *string `json:"picture" validate:"omitempty,url,max=2000"`
}

// UpdateProfile godoc
// @Summary Update the authenticated user's profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Fields to change"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /me [patch]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body", "INVALID_BODY")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.UpdateProfile(c.Request().Context(), session.Claims.Subject, service.UpdateProfileInput{
		Name:    req.Name,
		Picture: req.Picture,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, user)
}

// ListSaved godoc
// @Summary List the authenticated user's saved listings, most recent first
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (1-100, default 20)"
// @Param offset query int false "Page offset"
// @Success 200 {object} service.ListingPage
// @Failure 401 {object} errors.ErrorResponse
// @Router /me/saved [get]
func (h *UserHandler) ListSaved(c echo.Context) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}

	var page pageQuery
	if err := c.Bind(&page); err != nil {
		return badRequest("invalid query parameters", "INVALID_QUERY")
	}

	listings, err := h.listingService.ListSavedForUser(c.Request().Context(), session.Claims.Subject, page.Limit, page.Offset)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, listings)
}
