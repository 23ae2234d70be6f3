package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"bruinplace/internal/cache"
	apperrors "bruinplace/internal/errors"
	"bruinplace/internal/model"
	"bruinplace/internal/repository"
)

// nilCache exercises the fail-safe path: every cache call degrades to a miss.
var nilCache *cache.Client

func newPropertyServiceForTest(ownerCheck bool) (PropertyService, *MockPropertyRepository, *MockReviewRepository, *MockListingRepository) {
	propertyRepo := new(MockPropertyRepository)
	reviewRepo := new(MockReviewRepository)
	listingRepo := new(MockListingRepository)
	amenityRepo := new(MockAmenityRepository)
	listingService := NewListingService(listingRepo, propertyRepo, amenityRepo)
	service := NewPropertyService(propertyRepo, reviewRepo, listingService, nilCache, ownerCheck)
	return service, propertyRepo, reviewRepo, listingRepo
}

func floatPtr(v float64) *float64 { return &v }

func TestPropertyService_SearchGeo(t *testing.T) {
	// Candidates around the UCLA campus center (34.0689, -118.4452).
	near := model.Property{ID: uuid.New(), Name: "Near", Latitude: 34.07, Longitude: -118.45}
	mid := model.Property{ID: uuid.New(), Name: "Mid", Latitude: 34.05, Longitude: -118.40}
	far := model.Property{ID: uuid.New(), Name: "Far", Latitude: 34.0522, Longitude: -118.2437}

	tests := []struct {
		name          string
		params        PropertySearchParams
		rows          []model.Property
		expectedNames []string
		expectedTotal int64
	}{
		{
			name: "center sorts closest first",
			params: PropertySearchParams{
				Latitude:  floatPtr(34.0689),
				Longitude: floatPtr(-118.4452),
			},
			rows:          []model.Property{far, near, mid},
			expectedNames: []string{"Near", "Mid", "Far"},
			expectedTotal: 3,
		},
		{
			name: "radius filters before pagination",
			params: PropertySearchParams{
				Latitude:  floatPtr(34.0689),
				Longitude: floatPtr(-118.4452),
				RadiusKm:  floatPtr(10),
			},
			rows:          []model.Property{far, near, mid},
			expectedNames: []string{"Near", "Mid"},
			expectedTotal: 2,
		},
		{
			name: "radius without center is ignored",
			params: PropertySearchParams{
				RadiusKm: floatPtr(1),
			},
			rows:          []model.Property{far, near, mid},
			expectedNames: []string{"Far", "Near", "Mid"},
			expectedTotal: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, propertyRepo, _, _ := newPropertyServiceForTest(false)
			propertyRepo.On("SearchAll", mock.Anything, mock.Anything).Return(tt.rows, nil)

			page, err := service.Search(context.Background(), tt.params)

			assert.NoError(t, err)
			assert.Equal(t, tt.expectedTotal, page.Total)
			names := make([]string, 0, len(page.Items))
			for _, item := range page.Items {
				names = append(names, item.Name)
			}
			assert.Equal(t, tt.expectedNames, names)
			propertyRepo.AssertExpectations(t)
		})
	}
}

func TestPropertyService_SearchDistanceAttached(t *testing.T) {
	service, propertyRepo, _, _ := newPropertyServiceForTest(false)

	rows := []model.Property{{ID: uuid.New(), Latitude: 34.0689, Longitude: -118.4452}}
	propertyRepo.On("SearchAll", mock.Anything, mock.Anything).Return(rows, nil)

	page, err := service.Search(context.Background(), PropertySearchParams{
		Latitude:  floatPtr(34.0689),
		Longitude: floatPtr(-118.4452),
	})

	assert.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.NotNil(t, page.Items[0].DistanceKm)
	assert.Equal(t, 0.0, *page.Items[0].DistanceKm)
}

func TestPropertyService_SearchPaginationAfterGeoPass(t *testing.T) {
	service, propertyRepo, _, _ := newPropertyServiceForTest(false)

	rows := make([]model.Property, 5)
	for i := range rows {
		rows[i] = model.Property{ID: uuid.New(), Latitude: 34.0, Longitude: -118.0}
	}
	propertyRepo.On("SearchAll", mock.Anything, mock.Anything).Return(rows, nil)

	page, err := service.Search(context.Background(), PropertySearchParams{Limit: 2, Offset: 4})

	assert.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	assert.Len(t, page.Items, 1)

	// Offset past the end yields an empty page, not an error.
	propertyRepo2 := new(MockPropertyRepository)
	service2 := NewPropertyService(propertyRepo2, new(MockReviewRepository), nil, nilCache, false)
	propertyRepo2.On("SearchAll", mock.Anything, mock.Anything).Return(rows, nil)

	page, err = service2.Search(context.Background(), PropertySearchParams{Limit: 2, Offset: 50})
	assert.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	assert.Empty(t, page.Items)
}

func TestPropertyService_GetDetail(t *testing.T) {
	propertyID := uuid.New()

	tests := []struct {
		name          string
		setupMock     func(*MockPropertyRepository)
		expectedError error
		expectedStats ReviewStats
	}{
		{
			name: "property not found",
			setupMock: func(p *MockPropertyRepository) {
				p.On("FindByID", mock.Anything, propertyID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrPropertyNotFound,
		},
		{
			name: "average is rounded to two decimals",
			setupMock: func(p *MockPropertyRepository) {
				p.On("FindByID", mock.Anything, propertyID).Return(&model.Property{ID: propertyID}, nil)
				p.On("ReviewStats", mock.Anything, propertyID).Return(int64(3), floatPtr(3.6666666), nil)
			},
			expectedStats: ReviewStats{ReviewCount: 3, AverageRating: floatPtr(3.67)},
		},
		{
			name: "no reviews yields nil average",
			setupMock: func(p *MockPropertyRepository) {
				p.On("FindByID", mock.Anything, propertyID).Return(&model.Property{ID: propertyID}, nil)
				p.On("ReviewStats", mock.Anything, propertyID).Return(int64(0), nil, nil)
			},
			expectedStats: ReviewStats{ReviewCount: 0, AverageRating: nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, propertyRepo, _, _ := newPropertyServiceForTest(false)
			tt.setupMock(propertyRepo)

			detail, err := service.GetDetail(context.Background(), propertyID)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, detail)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedStats, detail.ReviewStats)
			}
			propertyRepo.AssertExpectations(t)
		})
	}
}

func TestPropertyService_UpdateOwnerCheck(t *testing.T) {
	propertyID := uuid.New()
	newName := "Renamed"

	tests := []struct {
		name          string
		ownerCheck    bool
		callerID      string
		setupMock     func(*MockPropertyRepository)
		expectedError error
	}{
		{
			// Compatibility default: anyone may mutate any property.
			name:       "owner check off allows non-owner",
			ownerCheck: false,
			callerID:   "someone-else",
			setupMock: func(p *MockPropertyRepository) {
				p.On("FindByID", mock.Anything, propertyID).
					Return(&model.Property{ID: propertyID, OwnerID: "owner-1"}, nil)
				p.On("Update", mock.Anything, mock.AnythingOfType("*model.Property")).Return(nil)
			},
		},
		{
			name:       "owner check on rejects non-owner as not found",
			ownerCheck: true,
			callerID:   "someone-else",
			setupMock: func(p *MockPropertyRepository) {
				p.On("FindByID", mock.Anything, propertyID).
					Return(&model.Property{ID: propertyID, OwnerID: "owner-1"}, nil)
			},
			expectedError: apperrors.ErrPropertyNotFound,
		},
		{
			name:       "owner check on allows the owner",
			ownerCheck: true,
			callerID:   "owner-1",
			setupMock: func(p *MockPropertyRepository) {
				p.On("FindByID", mock.Anything, propertyID).
					Return(&model.Property{ID: propertyID, OwnerID: "owner-1"}, nil)
				p.On("Update", mock.Anything, mock.AnythingOfType("*model.Property")).Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, propertyRepo, _, _ := newPropertyServiceForTest(tt.ownerCheck)
			tt.setupMock(propertyRepo)

			property, err := service.Update(context.Background(), propertyID, tt.callerID, UpdatePropertyInput{Name: &newName})

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, property)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, newName, property.Name)
			}
			propertyRepo.AssertExpectations(t)
		})
	}
}

func TestPropertyService_ListListings(t *testing.T) {
	propertyID := uuid.New()
	service, propertyRepo, _, listingRepo := newPropertyServiceForTest(false)

	propertyRepo.On("FindByID", mock.Anything, propertyID).
		Return(&model.Property{ID: propertyID}, nil)
	listingRepo.On("Search", mock.Anything, mock.MatchedBy(func(f repository.ListingFilter) bool {
		return f.PropertyID != nil && *f.PropertyID == propertyID
	})).Return([]model.Listing{}, int64(0), nil)
	listingRepo.On("AmenitiesForListings", mock.Anything, []uuid.UUID{}).
		Return(map[uuid.UUID][]model.Amenity{}, nil)

	page, err := service.ListListings(context.Background(), propertyID, 20, 0)

	assert.NoError(t, err)
	assert.Equal(t, int64(0), page.Total)
	propertyRepo.AssertExpectations(t)
	listingRepo.AssertExpectations(t)
}

func TestPropertyService_ListReviewsPropertyNotFound(t *testing.T) {
	propertyID := uuid.New()
	service, propertyRepo, reviewRepo, _ := newPropertyServiceForTest(false)

	propertyRepo.On("FindByID", mock.Anything, propertyID).Return(nil, gorm.ErrRecordNotFound)

	page, err := service.ListReviews(context.Background(), propertyID, 20, 0)

	assert.Equal(t, apperrors.ErrPropertyNotFound, err)
	assert.Nil(t, page)
	propertyRepo.AssertExpectations(t)
	reviewRepo.AssertExpectations(t)
}
