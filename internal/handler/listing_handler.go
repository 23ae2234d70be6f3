package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"bruinplace/internal/errors"
	"bruinplace/internal/model"
	"bruinplace/internal/service"
)

// ListingHandler handles listing endpoints.
type ListingHandler struct {
	listingService service.ListingService
}

// NewListingHandler creates a new listing handler.
func NewListingHandler(listingService service.ListingService) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

// SearchListingsRequest holds listing search query parameters.
type SearchListingsRequest struct {
	Status             string `query:"status"`
	UnitType           string `query:"unit_type"`
	MinRent            *int   `query:"min_rent" validate:"omitempty,gte=0"`
	MaxRent            *int   `query:"max_rent" validate:"omitempty,gte=0"`
	PropertyID         string `query:"property_id"`
	Search             string `query:"search"`
	AvailableFromAfter string `query:"available_from_after"`
	Limit              int    `query:"limit"`
	Offset             int    `query:"offset"`
}

// CreateListingRequest is the payload for creating a listing.
type CreateListingRequest struct {
	PropertyID      string   `json:"property_id" validate:"required,uuid"`
	Title           string   `json:"title" validate:"required,max=2000"`
	Description     string   `json:"description" validate:"required"`
	MonthlyRent     *int     `json:"monthly_rent" validate:"required,gte=0"`
	DepositAmount   *int     `json:"deposit_amount" validate:"omitempty,gte=0"`
	AvailableFrom   *string  `json:"available_from"`
	LeaseTermMonths *int     `json:"lease_term_months" validate:"omitempty,gte=1"`
	LeaseType       *string  `json:"lease_type" validate:"omitempty,max=100"`
	UnitType        string   `json:"unit_type" validate:"required"`
	SquareFeet      *int     `json:"square_feet" validate:"omitempty,gte=0"`
	MaxOccupants    *int     `json:"max_occupants" validate:"omitempty,gte=1"`
	Status          string   `json:"status"`
	AmenityIDs      []string `json:"amenity_ids"`
}

// UpdateListingRequest is the payload for a partial listing update.
type UpdateListingRequest struct {
	Title           *string   `json:"title" validate:"omitempty,min=1,max=2000"`
	Description     *string   `json:"description" validate:"omitempty,min=1"`
	MonthlyRent     *int      `json:"monthly_rent" validate:"omitempty,gte=0"`
	DepositAmount   *int      `json:"deposit_amount" validate:"omitempty,gte=0"`
	AvailableFrom   *string   `json:"available_from"`
	LeaseTermMonths *int      `json:"lease_term_months" validate:"omitempty,gte=1"`
	LeaseType       *string   `json:"lease_type" validate:"omitempty,max=100"`
	UnitType        *string   `json:"unit_type"`
	SquareFeet      *int      `json:"square_feet" validate:"omitempty,gte=0"`
	MaxOccupants    *int      `json:"max_occupants" validate:"omitempty,gte=1"`
	Status          *string   `json:"status"`
	AmenityIDs      *[]string `json:"amenity_ids"`
}

// Search godoc
// @Summary Search and filter listings
// @Tags listings
// @Produce json
// @Param status query string false "Lifecycle status"
// @Param unit_type query string false "Unit type"
// @Param min_rent query int false "Minimum monthly rent"
// @Param max_rent query int false "Maximum monthly rent"
// @Param property_id query string false "Scope to a property"
// @Param search query string false "Text search over title and description"
// @Param available_from_after query string false "Available on or after (YYYY-MM-DD)"
// @Param limit query int false "Page size (1-100, default 20)"
// @Param offset query int false "Page offset"
// @Success 200 {object} service.ListingPage
// @Failure 400 {object} errors.ErrorResponse
// @Router /listings [get]
func (h *ListingHandler) Search(c echo.Context) error {
	var req SearchListingsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid query parameters", "INVALID_QUERY")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	params := service.SearchListingsParams{
		MinRent:            req.MinRent,
		MaxRent:            req.MaxRent,
		Search:             req.Search,
		AvailableFromAfter: req.AvailableFromAfter,
		Limit:              req.Limit,
		Offset:             req.Offset,
	}
	if req.Status != "" {
		status := model.ListingStatus(req.Status)
		if !status.Valid() {
			return badRequest("invalid status", "INVALID_STATUS")
		}
		params.Status = &status
	}
	if req.UnitType != "" {
		unitType := model.UnitType(req.UnitType)
		if !unitType.Valid() {
			return badRequest("invalid unit_type", "INVALID_UNIT_TYPE")
		}
		params.UnitType = &unitType
	}
	if req.PropertyID != "" {
		propertyID, err := uuid.Parse(req.PropertyID)
		if err != nil {
			return badRequest("invalid property_id", "INVALID_UUID")
		}
		params.PropertyID = &propertyID
	}

	page, err := h.listingService.Search(c.Request().Context(), params)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, page)
}

// ListAmenities godoc
// @Summary List the amenity catalog
// @Tags listings
// @Produce json
// @Success 200 {array} model.Amenity
// @Router /listings/amenities [get]
func (h *ListingHandler) ListAmenities(c echo.Context) error {
	amenities, err := h.listingService.ListAmenities(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, amenities)
}

// Get godoc
// @Summary Get a listing with its amenities
// @Tags listings
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} service.ListingDetail
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /listings/{id} [get]
func (h *ListingHandler) Get(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	listing, err := h.listingService.GetByID(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, listing)
}

// Create godoc
// @Summary Create a listing owned by the authenticated user
// @Tags listings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateListingRequest true "Listing payload"
// @Success 201 {object} service.ListingDetail
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /listings [post]
func (h *ListingHandler) Create(c echo.Context) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}

	var req CreateListingRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body", "INVALID_BODY")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input, err := req.toInput()
	if err != nil {
		return err
	}

	listing, err := h.listingService.Create(c.Request().Context(), session.Claims.Subject, *input)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, listing)
}

// Update godoc
// @Summary Update a listing (owner only)
// @Tags listings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Listing ID"
// @Param request body UpdateListingRequest true "Fields to change"
// @Success 200 {object} service.ListingDetail
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /listings/{id} [patch]
func (h *ListingHandler) Update(c echo.Context) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req UpdateListingRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body", "INVALID_BODY")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input, err := req.toInput()
	if err != nil {
		return err
	}

	listing, err := h.listingService.Update(c.Request().Context(), id, session.Claims.Subject, *input)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, listing)
}

// Delete godoc
// @Summary Soft-delete a listing (owner only)
// @Tags listings
// @Security BearerAuth
// @Param id path string true "Listing ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /listings/{id} [delete]
func (h *ListingHandler) Delete(c echo.Context) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.listingService.SoftDelete(c.Request().Context(), id, session.Claims.Subject); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.NoContent(http.StatusNoContent)
}

// Save godoc
// @Summary Bookmark a listing
// @Tags listings
// @Security BearerAuth
// @Param id path string true "Listing ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /listings/{id}/save [put]
func (h *ListingHandler) Save(c echo.Context) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.listingService.Save(c.Request().Context(), session.Claims.Subject, id); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.NoContent(http.StatusNoContent)
}

// Unsave godoc
// @Summary Remove a listing bookmark
// @Tags listings
// @Security BearerAuth
// @Param id path string true "Listing ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /listings/{id}/save [delete]
func (h *ListingHandler) Unsave(c echo.Context) error {
	session, err := requireSession(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.listingService.Unsave(c.Request().Context(), session.Claims.Subject, id); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.NoContent(http.StatusNoContent)
}

func (r *CreateListingRequest) toInput() (*service.CreateListingInput, error) {
	propertyID, err := uuid.Parse(r.PropertyID)
	if err != nil {
		return nil, badRequest("invalid property_id", "INVALID_UUID")
	}

	unitType := model.UnitType(r.UnitType)
	if !unitType.Valid() {
		return nil, badRequest("invalid unit_type", "INVALID_UNIT_TYPE")
	}

	status := model.ListingStatusDraft
	if r.Status != "" {
		status = model.ListingStatus(r.Status)
		if !status.Valid() {
			return nil, badRequest("invalid status", "INVALID_STATUS")
		}
	}

	availableFrom, err := parseDate(r.AvailableFrom)
	if err != nil {
		return nil, err
	}

	amenityIDs, err := parseUUIDs(r.AmenityIDs)
	if err != nil {
		return nil, err
	}

	return &service.CreateListingInput{
		PropertyID:      propertyID,
		Title:           r.Title,
		Description:     r.Description,
		MonthlyRent:     *r.MonthlyRent,
		DepositAmount:   r.DepositAmount,
		AvailableFrom:   availableFrom,
		LeaseTermMonths: r.LeaseTermMonths,
		LeaseType:       r.LeaseType,
		UnitType:        unitType,
		SquareFeet:      r.SquareFeet,
		MaxOccupants:    r.MaxOccupants,
		Status:          status,
		AmenityIDs:      amenityIDs,
	}, nil
}

func (r *UpdateListingRequest) toInput() (*service.UpdateListingInput, error) {
	input := &service.UpdateListingInput{
		Title:           r.Title,
		Description:     r.Description,
		MonthlyRent:     r.MonthlyRent,
		DepositAmount:   r.DepositAmount,
		LeaseTermMonths: r.LeaseTermMonths,
		LeaseType:       r.LeaseType,
		SquareFeet:      r.SquareFeet,
		MaxOccupants:    r.MaxOccupants,
	}

	if r.UnitType != nil {
		unitType := model.UnitType(*r.UnitType)
		if !unitType.Valid() {
			return nil, badRequest("invalid unit_type", "INVALID_UNIT_TYPE")
		}
		input.UnitType = &unitType
	}
	if r.Status != nil {
		status := model.ListingStatus(*r.Status)
		if !status.Valid() {
			return nil, badRequest("invalid status", "INVALID_STATUS")
		}
		input.Status = &status
	}

	availableFrom, err := parseDate(r.AvailableFrom)
	if err != nil {
		return nil, err
	}
	input.AvailableFrom = availableFrom

	if r.AmenityIDs != nil {
		amenityIDs, err := parseUUIDs(*r.AmenityIDs)
		if err != nil {
			return nil, err
		}
		input.AmenityIDs = amenityIDs
		input.ReplaceAmenities = true
	}
	return input, nil
}
