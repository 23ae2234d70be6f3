package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "bruinplace/internal/errors"
	"bruinplace/internal/model"
)

func newReviewServiceForTest() (ReviewService, *MockReviewRepository, *MockPropertyRepository) {
	reviewRepo := new(MockReviewRepository)
	propertyRepo := new(MockPropertyRepository)
	return NewReviewService(reviewRepo, propertyRepo, nilCache), reviewRepo, propertyRepo
}

func TestReviewService_Create(t *testing.T) {
	propertyID := uuid.New()

	tests := []struct {
		name          string
		setupMock     func(*MockReviewRepository, *MockPropertyRepository)
		expectedError error
	}{
		{
			name: "property not found",
			setupMock: func(r *MockReviewRepository, p *MockPropertyRepository) {
				p.On("FindByID", mock.Anything, propertyID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrPropertyNotFound,
		},
		{
			name: "second review on the same property conflicts",
			setupMock: func(r *MockReviewRepository, p *MockPropertyRepository) {
				p.On("FindByID", mock.Anything, propertyID).Return(&model.Property{ID: propertyID}, nil)
				r.On("FindByPropertyAndUser", mock.Anything, propertyID, "user-1").
					Return(&model.Review{ID: uuid.New(), PropertyID: propertyID, UserID: "user-1"}, nil)
			},
			expectedError: apperrors.ErrReviewExists,
		},
		{
			name: "first review succeeds",
			setupMock: func(r *MockReviewRepository, p *MockPropertyRepository) {
				p.On("FindByID", mock.Anything, propertyID).Return(&model.Property{ID: propertyID}, nil)
				r.On("FindByPropertyAndUser", mock.Anything, propertyID, "user-1").
					Return(nil, gorm.ErrRecordNotFound)
				r.On("Create", mock.Anything, mock.AnythingOfType("*model.Review")).Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, reviewRepo, propertyRepo := newReviewServiceForTest()
			tt.setupMock(reviewRepo, propertyRepo)

			review, err := service.Create(context.Background(), propertyID, "user-1", CreateReviewInput{Rating: 4})

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, review)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, review)
				assert.Equal(t, 4, review.Rating)
				assert.Equal(t, "user-1", review.UserID)
			}
			reviewRepo.AssertExpectations(t)
			propertyRepo.AssertExpectations(t)
		})
	}
}

func TestReviewService_UpdateAuthorship(t *testing.T) {
	reviewID := uuid.New()

	tests := []struct {
		name          string
		callerID      string
		setupMock     func(*MockReviewRepository)
		expectedError error
	}{
		{
			name:     "absent review is not found",
			callerID: "user-1",
			setupMock: func(r *MockReviewRepository) {
				r.On("FindByID", mock.Anything, reviewID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrReviewNotFound,
		},
		{
			// Reviews are public, so a non-author gets an explicit forbidden
			// rather than the not-found used for listings.
			name:     "non-author is forbidden",
			callerID: "someone-else",
			setupMock: func(r *MockReviewRepository) {
				r.On("FindByID", mock.Anything, reviewID).
					Return(&model.Review{ID: reviewID, UserID: "user-1", Rating: 3}, nil)
			},
			expectedError: apperrors.ErrForbidden,
		},
		{
			name:     "author can update",
			callerID: "user-1",
			setupMock: func(r *MockReviewRepository) {
				r.On("FindByID", mock.Anything, reviewID).
					Return(&model.Review{ID: reviewID, UserID: "user-1", Rating: 3}, nil)
				r.On("Update", mock.Anything, mock.AnythingOfType("*model.Review")).Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, reviewRepo, _ := newReviewServiceForTest()
			tt.setupMock(reviewRepo)

			rating := 5
			review, err := service.Update(context.Background(), reviewID, tt.callerID, UpdateReviewInput{Rating: &rating})

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, review)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, 5, review.Rating)
			}
			reviewRepo.AssertExpectations(t)
		})
	}
}

func TestReviewService_Delete(t *testing.T) {
	reviewID := uuid.New()

	tests := []struct {
		name          string
		callerID      string
		setupMock     func(*MockReviewRepository)
		expectedError error
	}{
		{
			name:     "non-author is forbidden",
			callerID: "someone-else",
			setupMock: func(r *MockReviewRepository) {
				r.On("FindByID", mock.Anything, reviewID).
					Return(&model.Review{ID: reviewID, UserID: "user-1"}, nil)
			},
			expectedError: apperrors.ErrForbidden,
		},
		{
			name:     "author can delete",
			callerID: "user-1",
			setupMock: func(r *MockReviewRepository) {
				r.On("FindByID", mock.Anything, reviewID).
					Return(&model.Review{ID: reviewID, UserID: "user-1"}, nil)
				r.On("Delete", mock.Anything, reviewID).Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, reviewRepo, _ := newReviewServiceForTest()
			tt.setupMock(reviewRepo)

			err := service.Delete(context.Background(), reviewID, tt.callerID)

			assert.Equal(t, tt.expectedError, err)
			reviewRepo.AssertExpectations(t)
		})
	}
}
