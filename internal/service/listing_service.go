package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "bruinplace/internal/errors"
	"bruinplace/internal/model"
	"bruinplace/internal/repository"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// normalizePage clamps pagination to limit in [1,100] (default 20) and a
// non-negative offset.
func normalizePage(limit, offset int) (int, int) {
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// SearchListingsParams holds listing search filters as received from the
// client, plus pagination.
type SearchListingsParams struct {
	Status     *model.ListingStatus
	UnitType   *model.UnitType
	MinRent    *int
	MaxRent    *int
	PropertyID *uuid.UUID
	Search     string
	// AvailableFromAfter is the raw YYYY-MM-DD string; an unparseable value
	// silently drops the filter rather than failing the request.
	AvailableFromAfter string
	Limit              int
	Offset             int
}

// CreateListingInput is the payload for creating a listing.
type CreateListingInput struct {
	PropertyID      uuid.UUID
	Title           string
	Description     string
	MonthlyRent     int
	DepositAmount   *int
	AvailableFrom   *time.Time
	LeaseTermMonths *int
	LeaseType       *string
	UnitType        model.UnitType
	SquareFeet      *int
	MaxOccupants    *int
	Status          model.ListingStatus
	AmenityIDs      []uuid.UUID
}

// UpdateListingInput is the payload for a partial listing update. Nil fields
// are left untouched; a non-nil AmenityIDs (even empty) replaces the full set.
type UpdateListingInput struct {
	Title           *string
	Description     *string
	MonthlyRent     *int
	DepositAmount   *int
	AvailableFrom   *time.Time
	LeaseTermMonths *int
	LeaseType       *string
	UnitType        *model.UnitType
	SquareFeet      *int
	MaxOccupants    *int
	Status          *model.ListingStatus
	AmenityIDs      []uuid.UUID
	// ReplaceAmenities distinguishes "amenity_ids omitted" from
	// "amenity_ids: []".
	ReplaceAmenities bool
}

// ListingDetail is a listing plus its amenities.
type ListingDetail struct {
	model.Listing
	Amenities []model.Amenity `json:"amenities"`
}

// ListingPage is one page of listings with the pre-pagination total.
type ListingPage struct {
	Items []ListingDetail `json:"items"`
	Total int64           `json:"total"`
}

// ListingService handles listing search and ownership-scoped mutation.
type ListingService interface {
	Search(ctx context.Context, params SearchListingsParams) (*ListingPage, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ListingDetail, error)
	Create(ctx context.Context, ownerID string, input CreateListingInput) (*ListingDetail, error)
	Update(ctx context.Context, id uuid.UUID, ownerID string, input UpdateListingInput) (*ListingDetail, error)
	SoftDelete(ctx context.Context, id uuid.UUID, ownerID string) error
	Save(ctx context.Context, userID string, listingID uuid.UUID) error
	Unsave(ctx context.Context, userID string, listingID uuid.UUID) error
	ListAmenities(ctx context.Context) ([]model.Amenity, error)
	ListSavedForUser(ctx context.Context, userID string, limit, offset int) (*ListingPage, error)
}

type listingService struct {
	listings   repository.ListingRepository
	properties repository.PropertyRepository
	amenities  repository.AmenityRepository
}

// NewListingService creates a new listing service.
func NewListingService(
	listings repository.ListingRepository,
	properties repository.PropertyRepository,
	amenities repository.AmenityRepository,
) ListingService {
	return &listingService{
		listings:   listings,
		properties: properties,
		amenities:  amenities,
	}
}

// Search filters and paginates listings. Soft-deleted rows never appear; total
// counts all matches before limit/offset; amenities for the page load in one
// batched query.
func (s *listingService) Search(ctx context.Context, params SearchListingsParams) (*ListingPage, error) {
	limit, offset := normalizePage(params.Limit, params.Offset)

	filter := repository.ListingFilter{
		Status:     params.Status,
		UnitType:   params.UnitType,
		MinRent:    params.MinRent,
		MaxRent:    params.MaxRent,
		PropertyID: params.PropertyID,
		Search:     params.Search,
		Limit:      limit,
		Offset:     offset,
	}
	if params.AvailableFromAfter != "" {
		if d, err := time.Parse("2006-01-02", params.AvailableFromAfter); err == nil {
			filter.AvailableFromAfter = &d
		}
		// Invalid date strings are ignored, not rejected.
	}

	listings, total, err := s.listings.Search(ctx, filter)
	if err != nil {
		return nil, err
	}

	items, err := s.withAmenities(ctx, listings)
	if err != nil {
		return nil, err
	}
	return &ListingPage{Items: items, Total: total}, nil
}

// GetByID returns a listing with amenities, or not-found if absent or
// soft-deleted.
func (s *listingService) GetByID(ctx context.Context, id uuid.UUID) (*ListingDetail, error) {
	listing, err := s.listings.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrListingNotFound
		}
		return nil, err
	}
	return s.detail(ctx, listing)
}

// Create inserts a listing owned by the given user, with its amenity
// associations, as one atomic unit. Amenity ids are not checked against the
// catalog; unknown ids are stored as dangling references.
func (s *listingService) Create(ctx context.Context, ownerID string, input CreateListingInput) (*ListingDetail, error) {
	if _, err := s.properties.FindByID(ctx, input.PropertyID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrPropertyNotFound
		}
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = model.ListingStatusDraft
	}

	listing := &model.Listing{
		PropertyID:      input.PropertyID,
		OwnerID:         ownerID,
		Title:           input.Title,
		Description:     input.Description,
		MonthlyRent:     input.MonthlyRent,
		DepositAmount:   input.DepositAmount,
		AvailableFrom:   input.AvailableFrom,
		LeaseTermMonths: input.LeaseTermMonths,
		LeaseType:       input.LeaseType,
		UnitType:        input.UnitType,
		SquareFeet:      input.SquareFeet,
		MaxOccupants:    input.MaxOccupants,
		Status:          status,
	}
	if err := s.listings.CreateWithAmenities(ctx, listing, dedupeIDs(input.AmenityIDs)); err != nil {
		return nil, err
	}
	return s.detail(ctx, listing)
}

// Update partially updates a listing. Absent, soft-deleted, and not-owned all
// collapse to the same not-found signal so ownership cannot be probed.
func (s *listingService) Update(ctx context.Context, id uuid.UUID, ownerID string, input UpdateListingInput) (*ListingDetail, error) {
	listing, err := s.listings.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrListingNotFound
		}
		return nil, err
	}
	if listing.OwnerID != ownerID {
		return nil, apperrors.ErrListingNotFound
	}

	applyListingUpdate(listing, input)

	var amenityIDs []uuid.UUID
	if input.ReplaceAmenities {
		amenityIDs = dedupeIDs(input.AmenityIDs)
		if amenityIDs == nil {
			amenityIDs = []uuid.UUID{}
		}
	}
	if err := s.listings.Update(ctx, listing, amenityIDs); err != nil {
		return nil, err
	}
	return s.detail(ctx, listing)
}

// SoftDelete marks a listing deleted, with the same ownership semantics as
// Update.
func (s *listingService) SoftDelete(ctx context.Context, id uuid.UUID, ownerID string) error {
	listing, err := s.listings.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrListingNotFound
		}
		return err
	}
	if listing.OwnerID != ownerID {
		return apperrors.ErrListingNotFound
	}
	return s.listings.SoftDelete(ctx, id)
}

// Save bookmarks a listing for the user; saving twice is a no-op.
func (s *listingService) Save(ctx context.Context, userID string, listingID uuid.UUID) error {
	if _, err := s.listings.FindByID(ctx, listingID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrListingNotFound
		}
		return err
	}
	return s.listings.SaveForUser(ctx, userID, listingID)
}

// Unsave removes a bookmark; removing an absent bookmark succeeds silently.
func (s *listingService) Unsave(ctx context.Context, userID string, listingID uuid.UUID) error {
	return s.listings.UnsaveForUser(ctx, userID, listingID)
}

// ListAmenities returns the amenity catalog ordered by key.
func (s *listingService) ListAmenities(ctx context.Context) ([]model.Amenity, error) {
	return s.amenities.ListAll(ctx)
}

// ListSavedForUser returns the caller's saved listings, most recently saved
// first.
func (s *listingService) ListSavedForUser(ctx context.Context, userID string, limit, offset int) (*ListingPage, error) {
	limit, offset = normalizePage(limit, offset)
	listings, total, err := s.listings.SavedForUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	items, err := s.withAmenities(ctx, listings)
	if err != nil {
		return nil, err
	}
	return &ListingPage{Items: items, Total: total}, nil
}

func (s *listingService) detail(ctx context.Context, listing *model.Listing) (*ListingDetail, error) {
	byListing, err := s.listings.AmenitiesForListings(ctx, []uuid.UUID{listing.ID})
	if err != nil {
		return nil, err
	}
	amenities := byListing[listing.ID]
	if amenities == nil {
		amenities = []model.Amenity{}
	}
	return &ListingDetail{Listing: *listing, Amenities: amenities}, nil
}

func (s *listingService) withAmenities(ctx context.Context, listings []model.Listing) ([]ListingDetail, error) {
	ids := make([]uuid.UUID, 0, len(listings))
	for _, l := range listings {
		ids = append(ids, l.ID)
	}
	byListing, err := s.listings.AmenitiesForListings(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]ListingDetail, 0, len(listings))
	for _, l := range listings {
		amenities := byListing[l.ID]
		if amenities == nil {
			amenities = []model.Amenity{}
		}
		items = append(items, ListingDetail{Listing: l, Amenities: amenities})
	}
	return items, nil
}

func applyListingUpdate(listing *model.Listing, input UpdateListingInput) {
	if input.Title != nil {
		listing.Title = *input.Title
	}
	if input.Description != nil {
		listing.Description = *input.Description
	}
	if input.MonthlyRent != nil {
		listing.MonthlyRent = *input.MonthlyRent
	}
	if input.DepositAmount != nil {
		listing.DepositAmount = input.DepositAmount
	}
	if input.AvailableFrom != nil {
		listing.AvailableFrom = input.AvailableFrom
	}
	if input.LeaseTermMonths != nil {
		listing.LeaseTermMonths = input.LeaseTermMonths
	}
	if input.LeaseType != nil {
		listing.LeaseType = input.LeaseType
	}
	if input.UnitType != nil {
		listing.UnitType = *input.UnitType
	}
	if input.SquareFeet != nil {
		listing.SquareFeet = input.SquareFeet
	}
	if input.MaxOccupants != nil {
		listing.MaxOccupants = input.MaxOccupants
	}
	if input.Status != nil {
		listing.Status = *input.Status
	}
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return nil
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
