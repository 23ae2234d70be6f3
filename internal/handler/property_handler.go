package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"bruinplace/internal/errors"
	"bruinplace/internal/service"
)

// PropertyHandler handles property endpoints.
type PropertyHandler struct {
	propertyService service.PropertyService
}

// NewPropertyHandler creates a new property handler.
func NewPropertyHandler(propertyService service.PropertyService) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService}
}

// SearchPropertiesRequest holds property search query parameters.
type SearchPropertiesRequest struct {
	Q         string   `query:"q"`
	City      string   `query:"city"`
	State     string   `query:"state"`
	Country   string   `query:"country"`
	Latitude  *float64 `query:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `query:"longitude" validate:"omitempty,gte=-180,lte=180"`
	RadiusKm  *float64 `query:"radius_km" validate:"omitempty,gt=0"`
	Limit     int      `query:"limit"`
	Offset    int      `query:"offset"`
}

// CreatePropertyRequest is the payload for creating a property.
type CreatePropertyRequest struct {
	Name              string   `json:"name" validate:"required,max=255"`
	Address           string   `json:"address" validate:"required,max=500"`
	PostalCode        string   `json:"postal_code" validate:"required,max=20"`
	City              string   `json:"city" validate:"required,max=100"`
	State             string   `json:"state" validate:"required,max=100"`
	Country           string   `json:"country" validate:"required,max=100"`
	Latitude          *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude         *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	ManagementCompany *string  `json:"management_company" validate:"omitempty,max=255"`
}

// UpdatePropertyRequest is the payload for a partial property update.
type UpdatePropertyRequest struct {
	Name              *string  `json:"name" validate:"omitempty,min=1,max=255"`
	Address           *string  `json:"address" validate:"omitempty,min=1,max=500"`
	PostalCode        *string  `json:"postal_code" validate:"omitempty,min=1,max=20"`
	City              *string  `json:"city" validate:"omitempty,min=1,max=100"`
	State             *string  `json:"state" validate:"omitempty,min=1,max=100"`
	Country           *string  `json:"country" validate:"omitempty,min=1,max=100"`
	Latitude          *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude         *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	ManagementCompany *string  `json:"management_company" validate:"omitempty,max=255"`
}

// pageQuery holds the shared limit/offset query pair.
type pageQuery struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// Search godoc
// @Summary Search properties with optional geo filtering
// @Tags properties
// @Produce json
// @Param q query string false "Text search over name, address, and locality fields"
// @Param city query string false "City filter"
// @Param state query string false "State filter"
// @Param country query string false "Country filter"
// @Param latitude query number false "Center latitude"
// @Param longitude query number false "Center longitude"
// @Param radius_km query number false "Max distance from center in km"
// @Param limit query int false "Page size (1-100, default 20)"
// @Param offset query int false "Page offset"
// @Success 200 {object} service.PropertyPage
// @Failure 400 {object} errors.ErrorResponse
// @Router /properties [get]
func (h *PropertyHandler) Search(c echo.Context) error {
	var req SearchPropertiesRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid query parameters", "INVALID_QUERY")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	page, err := h.propertyService.Search(c.Request().Context(), service.PropertySearchParams{
		Q:         req.Q,
		City:      req.City,
		State:     req.State,
		Country:   req.Country,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		RadiusKm:  req.RadiusKm,
		Limit:     req.Limit,
		Offset:    req.Offset,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, page)
}

// Get godoc
// @Summary Get a property with review statistics
// @Tags properties
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} service.PropertyDetail
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /properties/{id} [get]
func (h *PropertyHandler) Get(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	detail, err := h.propertyService.GetDetail(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, detail)
}

// Create godoc
// @Summary Create a property
// @Tags properties
// @Accept json
// @Produce json
// @Param request body CreatePropertyRequest true "Property payload"
// @Success 201 {object} model.Property
// @Failure 400 {object} errors.ErrorResponse
// @Router /properties [post]
func (h *PropertyHandler) Create(c echo.Context) error {
	var req CreatePropertyRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body", "INVALID_BODY")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	property, err := h.propertyService.Create(c.Request().Context(), optionalOwnerID(c), service.CreatePropertyInput{
		Name:              req.Name,
		Address:           req.Address,
		PostalCode:        req.PostalCode,
		City:              req.City,
		State:             req.State,
		Country:           req.Country,
		Latitude:          *req.Latitude,
		Longitude:         *req.Longitude,
		ManagementCompany: req.ManagementCompany,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, property)
}

// Update godoc
// @Summary Update a property
// @Tags properties
// @Accept json
// @Produce json
// @Param id path string true "Property ID"
// @Param request body UpdatePropertyRequest true "Fields to change"
// @Success 200 {object} model.Property
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /properties/{id} [patch]
func (h *PropertyHandler) Update(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req UpdatePropertyRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body", "INVALID_BODY")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	property, err := h.propertyService.Update(c.Request().Context(), id, optionalOwnerID(c), service.UpdatePropertyInput{
		Name:              req.Name,
		Address:           req.Address,
		PostalCode:        req.PostalCode,
		City:              req.City,
		State:             req.State,
		Country:           req.Country,
		Latitude:          req.Latitude,
		Longitude:         req.Longitude,
		ManagementCompany: req.ManagementCompany,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, property)
}

// Delete godoc
// @Summary Soft-delete a property
// @Tags properties
// @Param id path string true "Property ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /properties/{id} [delete]
func (h *PropertyHandler) Delete(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.propertyService.SoftDelete(c.Request().Context(), id, optionalOwnerID(c)); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.NoContent(http.StatusNoContent)
}

// ListListings godoc
// @Summary List a property's listings
// @Tags properties
// @Produce json
// @Param id path string true "Property ID"
// @Param limit query int false "Page size (1-100, default 20)"
// @Param offset query int false "Page offset"
// @Success 200 {object} service.ListingPage
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /properties/{id}/listings [get]
func (h *PropertyHandler) ListListings(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var page pageQuery
	if err := c.Bind(&page); err != nil {
		return badRequest("invalid query parameters", "INVALID_QUERY")
	}

	listings, err := h.propertyService.ListListings(c.Request().Context(), id, page.Limit, page.Offset)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, listings)
}

// ListReviews godoc
// @Summary List a property's reviews, newest first
// @Tags properties
// @Produce json
// @Param id path string true "Property ID"
// @Param limit query int false "Page size (1-100, default 20)"
// @Param offset query int false "Page offset"
// @Success 200 {object} service.ReviewPage
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /properties/{id}/reviews [get]
func (h *PropertyHandler) ListReviews(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var page pageQuery
	if err := c.Bind(&page); err != nil {
		return badRequest("invalid query parameters", "INVALID_QUERY")
	}

	reviews, err := h.propertyService.ListReviews(c.Request().Context(), id, page.Limit, page.Offset)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, reviews)
}
