package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "bruinplace/internal/errors"
	"bruinplace/internal/model"
	"bruinplace/internal/repository"
)

func newListingServiceForTest() (ListingService, *MockListingRepository, *MockPropertyRepository, *MockAmenityRepository) {
	listingRepo := new(MockListingRepository)
	propertyRepo := new(MockPropertyRepository)
	amenityRepo := new(MockAmenityRepository)
	return NewListingService(listingRepo, propertyRepo, amenityRepo), listingRepo, propertyRepo, amenityRepo
}

func TestListingService_Search(t *testing.T) {
	listingID := uuid.New()

	tests := []struct {
		name           string
		params         SearchListingsParams
		expectedFilter repository.ListingFilter
	}{
		{
			name:   "defaults pagination",
			params: SearchListingsParams{},
			expectedFilter: repository.ListingFilter{
				Limit:  20,
				Offset: 0,
			},
		},
		{
			name:   "clamps oversized limit and negative offset",
			params: SearchListingsParams{Limit: 500, Offset: -3},
			expectedFilter: repository.ListingFilter{
				Limit:  100,
				Offset: 0,
			},
		},
		{
			name:   "invalid available_from_after is silently dropped",
			params: SearchListingsParams{AvailableFromAfter: "not-a-date", Limit: 10},
			expectedFilter: repository.ListingFilter{
				Limit:  10,
				Offset: 0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, listingRepo, _, _ := newListingServiceForTest()

			listingRepo.On("Search", mock.Anything, tt.expectedFilter).
				Return([]model.Listing{{ID: listingID}}, int64(1), nil)
			listingRepo.On("AmenitiesForListings", mock.Anything, []uuid.UUID{listingID}).
				Return(map[uuid.UUID][]model.Amenity{}, nil)

			page, err := service.Search(context.Background(), tt.params)

			assert.NoError(t, err)
			assert.Equal(t, int64(1), page.Total)
			assert.Len(t, page.Items, 1)
			// A listing with no amenity rows still serializes an empty array.
			assert.NotNil(t, page.Items[0].Amenities)
			listingRepo.AssertExpectations(t)
		})
	}
}

func TestListingService_SearchParsesAvailableFromAfter(t *testing.T) {
	service, listingRepo, _, _ := newListingServiceForTest()

	expected := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	listingRepo.On("Search", mock.Anything, mock.MatchedBy(func(f repository.ListingFilter) bool {
		return f.AvailableFromAfter != nil && f.AvailableFromAfter.Equal(expected)
	})).Return([]model.Listing{}, int64(0), nil)
	listingRepo.On("AmenitiesForListings", mock.Anything, []uuid.UUID{}).
		Return(map[uuid.UUID][]model.Amenity{}, nil)

	_, err := service.Search(context.Background(), SearchListingsParams{AvailableFromAfter: "2026-09-01"})

	assert.NoError(t, err)
	listingRepo.AssertExpectations(t)
}

func TestListingService_Create(t *testing.T) {
	propertyID := uuid.New()
	amenityID := uuid.New()

	tests := []struct {
		name          string
		input         CreateListingInput
		setupMock     func(*MockListingRepository, *MockPropertyRepository)
		expectedError error
		check         func(*testing.T, *ListingDetail)
	}{
		{
			name: "property not found",
			input: CreateListingInput{
				PropertyID: propertyID,
				Title:      "Cozy studio",
				UnitType:   model.UnitTypeStudio,
			},
			setupMock: func(l *MockListingRepository, p *MockPropertyRepository) {
				p.On("FindByID", mock.Anything, propertyID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrPropertyNotFound,
		},
		{
			name: "defaults status to draft and dedupes amenities",
			input: CreateListingInput{
				PropertyID:  propertyID,
				Title:       "Cozy studio",
				MonthlyRent: 1500,
				UnitType:    model.UnitTypeStudio,
				AmenityIDs:  []uuid.UUID{amenityID, amenityID},
			},
			setupMock: func(l *MockListingRepository, p *MockPropertyRepository) {
				p.On("FindByID", mock.Anything, propertyID).Return(&model.Property{ID: propertyID}, nil)
				l.On("CreateWithAmenities", mock.Anything, mock.AnythingOfType("*model.Listing"), []uuid.UUID{amenityID}).
					Run(func(args mock.Arguments) {
						args.Get(1).(*model.Listing).ID = uuid.New()
					}).
					Return(nil)
				l.On("AmenitiesForListings", mock.Anything, mock.Anything).
					Return(map[uuid.UUID][]model.Amenity{}, nil)
			},
			check: func(t *testing.T, detail *ListingDetail) {
				assert.Equal(t, model.ListingStatusDraft, detail.Status)
				assert.Equal(t, "owner-1", detail.OwnerID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, listingRepo, propertyRepo, _ := newListingServiceForTest()
			tt.setupMock(listingRepo, propertyRepo)

			detail, err := service.Create(context.Background(), "owner-1", tt.input)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, detail)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, detail)
				if tt.check != nil {
					tt.check(t, detail)
				}
			}
			listingRepo.AssertExpectations(t)
			propertyRepo.AssertExpectations(t)
		})
	}
}

func TestListingService_UpdateOwnership(t *testing.T) {
	listingID := uuid.New()

	tests := []struct {
		name          string
		ownerID       string
		setupMock     func(*MockListingRepository)
		expectedError error
	}{
		{
			name:    "absent listing is not found",
			ownerID: "owner-1",
			setupMock: func(l *MockListingRepository) {
				l.On("FindByID", mock.Anything, listingID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrListingNotFound,
		},
		{
			// Ownership cannot be probed: a non-owner sees the same error as an
			// absent listing.
			name:    "non-owner is not found",
			ownerID: "someone-else",
			setupMock: func(l *MockListingRepository) {
				l.On("FindByID", mock.Anything, listingID).
					Return(&model.Listing{ID: listingID, OwnerID: "owner-1"}, nil)
			},
			expectedError: apperrors.ErrListingNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, listingRepo, _, _ := newListingServiceForTest()
			tt.setupMock(listingRepo)

			newTitle := "Updated"
			_, err := service.Update(context.Background(), listingID, tt.ownerID, UpdateListingInput{Title: &newTitle})

			assert.Equal(t, tt.expectedError, err)
			listingRepo.AssertExpectations(t)
		})
	}
}

func TestListingService_UpdateReplacesAmenities(t *testing.T) {
	listingID := uuid.New()

	tests := []struct {
		name               string
		input              UpdateListingInput
		expectedAmenityIDs []uuid.UUID
	}{
		{
			name:               "omitted amenity_ids leaves the set untouched",
			input:              UpdateListingInput{},
			expectedAmenityIDs: nil,
		},
		{
			name:               "empty amenity_ids clears the set",
			input:              UpdateListingInput{AmenityIDs: []uuid.UUID{}, ReplaceAmenities: true},
			expectedAmenityIDs: []uuid.UUID{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, listingRepo, _, _ := newListingServiceForTest()

			listingRepo.On("FindByID", mock.Anything, listingID).
				Return(&model.Listing{ID: listingID, OwnerID: "owner-1"}, nil)
			listingRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Listing"), tt.expectedAmenityIDs).
				Return(nil)
			listingRepo.On("AmenitiesForListings", mock.Anything, []uuid.UUID{listingID}).
				Return(map[uuid.UUID][]model.Amenity{}, nil)

			_, err := service.Update(context.Background(), listingID, "owner-1", tt.input)

			assert.NoError(t, err)
			listingRepo.AssertExpectations(t)
		})
	}
}

func TestListingService_Save(t *testing.T) {
	listingID := uuid.New()

	tests := []struct {
		name          string
		setupMock     func(*MockListingRepository)
		expectedError error
	}{
		{
			name: "saving an absent listing fails",
			setupMock: func(l *MockListingRepository) {
				l.On("FindByID", mock.Anything, listingID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrListingNotFound,
		},
		{
			name: "saving an existing listing succeeds",
			setupMock: func(l *MockListingRepository) {
				l.On("FindByID", mock.Anything, listingID).
					Return(&model.Listing{ID: listingID, OwnerID: "owner-1"}, nil)
				l.On("SaveForUser", mock.Anything, "user-1", listingID).Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, listingRepo, _, _ := newListingServiceForTest()
			tt.setupMock(listingRepo)

			err := service.Save(context.Background(), "user-1", listingID)

			assert.Equal(t, tt.expectedError, err)
			listingRepo.AssertExpectations(t)
		})
	}
}

func TestListingService_UnsaveAbsentBookmarkSucceeds(t *testing.T) {
	service, listingRepo, _, _ := newListingServiceForTest()
	listingID := uuid.New()

	// No existence check: removing a bookmark that was never set is a no-op.
	listingRepo.On("UnsaveForUser", mock.Anything, "user-1", listingID).Return(nil)

	err := service.Unsave(context.Background(), "user-1", listingID)

	assert.NoError(t, err)
	listingRepo.AssertExpectations(t)
}
