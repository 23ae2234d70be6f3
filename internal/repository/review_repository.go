package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bruinplace/internal/model"
)

// ReviewRepository defines review persistence operations.
type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Review, error)
	FindByPropertyAndUser(ctx context.Context, propertyID uuid.UUID, userID string) (*model.Review, error)
	Update(ctx context.Context, review *model.Review) error
	// Delete removes the row permanently; reviews have no soft delete.
	Delete(ctx context.Context, id uuid.UUID) error
	ListByProperty(ctx context.Context, propertyID uuid.UUID, limit, offset int) ([]model.Review, int64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new review repository.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create creates a new review.
func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// FindByID finds a review by ID.
func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	var review model.Review
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// FindByPropertyAndUser finds the review a user left on a property, if any.
func (r *reviewRepository) FindByPropertyAndUser(ctx context.Context, propertyID uuid.UUID, userID string) (*model.Review, error) {
	var review model.Review
	err := r.db.WithContext(ctx).
		Where("property_id = ? AND user_id = ?", propertyID, userID).
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// Update updates an existing review.
func (r *reviewRepository) Update(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Save(review).Error
}

// Delete hard-deletes a review.
func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Review{}, "id = ?", id).Error
}

// ListByProperty lists one page of a property's reviews newest first, with the
// pre-pagination total.
func (r *reviewRepository) ListByProperty(ctx context.Context, propertyID uuid.UUID, limit, offset int) ([]model.Review, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Review{}).Where("property_id = ?", propertyID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []model.Review
	err := base.Order("created_at DESC").Offset(offset).Limit(limit).Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}
