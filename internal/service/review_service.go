package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bruinplace/internal/cache"
	apperrors "bruinplace/internal/errors"
	"bruinplace/internal/model"
	"bruinplace/internal/repository"
)

// CreateReviewInput is the payload for creating a review.
type CreateReviewInput struct {
	Rating  int
	Comment *string
}

// UpdateReviewInput is the payload for a partial review update.
type UpdateReviewInput struct {
	Rating  *int
	Comment *string
}

// ReviewService enforces the one-review-per-user-per-property invariant and
// author-scoped mutation.
type ReviewService interface {
	Create(ctx context.Context, propertyID uuid.UUID, userID string, input CreateReviewInput) (*model.Review, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Review, error)
	Update(ctx context.Context, id uuid.UUID, userID string, input UpdateReviewInput) (*model.Review, error)
	Delete(ctx context.Context, id uuid.UUID, userID string) error
}

type reviewService struct {
	reviews    repository.ReviewRepository
	properties repository.PropertyRepository
	cache      *cache.Client
}

// NewReviewService creates a new review service.
func NewReviewService(
	reviews repository.ReviewRepository,
	properties repository.PropertyRepository,
	cache *cache.Client,
) ReviewService {
	return &reviewService{
		reviews:    reviews,
		properties: properties,
		cache:      cache,
	}
}

// Create inserts a review. Fails not-found for an absent property and conflict
// when the user already reviewed it; the storage-level unique constraint backs
// the same invariant.
func (s *reviewService) Create(ctx context.Context, propertyID uuid.UUID, userID string, input CreateReviewInput) (*model.Review, error) {
	if _, err := s.properties.FindByID(ctx, propertyID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrPropertyNotFound
		}
		return nil, err
	}

	existing, err := s.reviews.FindByPropertyAndUser(ctx, propertyID, userID)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.ErrReviewExists
	}

	review := &model.Review{
		PropertyID: propertyID,
		UserID:     userID,
		Rating:     input.Rating,
		Comment:    input.Comment,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	s.invalidateStats(ctx, propertyID)
	return review, nil
}

// Get returns a review by id.
func (s *reviewService) Get(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	review, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}

// Update partially updates a review. Unlike listings, a non-author gets an
// explicit forbidden rather than not-found.
func (s *reviewService) Update(ctx context.Context, id uuid.UUID, userID string, input UpdateReviewInput) (*model.Review, error) {
	review, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if review.UserID != userID {
		return nil, apperrors.ErrForbidden
	}

	if input.Rating != nil {
		review.Rating = *input.Rating
	}
	if input.Comment != nil {
		review.Comment = input.Comment
	}
	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, err
	}
	s.invalidateStats(ctx, review.PropertyID)
	return review, nil
}

// Delete hard-deletes a review, with the same not-found/forbidden split as
// Update.
func (s *reviewService) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	review, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if review.UserID != userID {
		return apperrors.ErrForbidden
	}
	if err := s.reviews.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateStats(ctx, review.PropertyID)
	return nil
}

// invalidateStats drops the cached property detail whose review aggregate
// just changed.
func (s *reviewService) invalidateStats(ctx context.Context, propertyID uuid.UUID) {
	_ = s.cache.Delete(ctx, "property_detail:"+propertyID.String())
}
