package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bruinplace/internal/model"
)

// AmenityRepository defines amenity catalog operations.
type AmenityRepository interface {
	ListAll(ctx context.Context) ([]model.Amenity, error)
	// CreateIfMissing inserts the amenity unless its key already exists.
	CreateIfMissing(ctx context.Context, amenity *model.Amenity) error
}

type amenityRepository struct {
	db *gorm.DB
}

// NewAmenityRepository creates a new amenity repository.
func NewAmenityRepository(db *gorm.DB) AmenityRepository {
	return &amenityRepository{db: db}
}

// ListAll returns the amenity catalog ordered by key.
func (r *amenityRepository) ListAll(ctx context.Context) ([]model.Amenity, error) {
	var amenities []model.Amenity
	if err := r.db.WithContext(ctx).Order("key").Find(&amenities).Error; err != nil {
		return nil, err
	}
	return amenities, nil
}

// CreateIfMissing inserts an amenity keyed on its stable key.
func (r *amenityRepository) CreateIfMissing(ctx context.Context, amenity *model.Amenity) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "key"}}, DoNothing: true}).
		Create(amenity).Error
}
