package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"bruinplace/internal/model"
)

// PropertyFilter holds the store-level filters for a property search.
// Geo filtering happens in the service layer after these are applied.
type PropertyFilter struct {
	Q       string
	City    string
	State   string
	Country string
}

// PropertyRepository defines property persistence operations.
type PropertyRepository interface {
	Create(ctx context.Context, property *model.Property) error
	Update(ctx context.Context, property *model.Property) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Property, error)
	// SearchAll returns every non-deleted property matching the filter, newest
	// first. Pagination is intentionally absent: the caller applies the
	// distance pass before slicing.
	SearchAll(ctx context.Context, filter PropertyFilter) ([]model.Property, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	ReviewStats(ctx context.Context, propertyID uuid.UUID) (count int64, avg *float64, err error)
}

type propertyRepository struct {
	db *gorm.DB
}

// NewPropertyRepository creates a new property repository.
func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &propertyRepository{db: db}
}

// Create creates a new property.
func (r *propertyRepository) Create(ctx context.Context, property *model.Property) error {
	return r.db.WithContext(ctx).Create(property).Error
}

// Update updates an existing property.
func (r *propertyRepository) Update(ctx context.Context, property *model.Property) error {
	return r.db.WithContext(ctx).Save(property).Error
}

// FindByID finds a non-deleted property by ID.
func (r *propertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Property, error) {
	var property model.Property
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&property).Error; err != nil {
		return nil, err
	}
	return &property, nil
}

// SearchAll lists non-deleted properties matching the text filters, newest first.
func (r *propertyRepository) SearchAll(ctx context.Context, filter PropertyFilter) ([]model.Property, error) {
	q := r.db.WithContext(ctx).Model(&model.Property{})

	if filter.Q != "" {
		term := "%" + filter.Q + "%"
		q = q.Where(
			"name ILIKE ? OR address ILIKE ? OR city ILIKE ? OR state ILIKE ? OR country ILIKE ? OR postal_code ILIKE ?",
			term, term, term, term, term, term,
		)
	}
	if filter.City != "" {
		q = q.Where("city ILIKE ?", "%"+filter.City+"%")
	}
	if filter.State != "" {
		q = q.Where("state ILIKE ?", "%"+filter.State+"%")
	}
	if filter.Country != "" {
		q = q.Where("country ILIKE ?", "%"+filter.Country+"%")
	}

	var properties []model.Property
	if err := q.Order("created_at DESC").Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

// SoftDelete marks a property deleted; reads exclude it from then on.
func (r *propertyRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Property{}, "id = ?", id).Error
}

// ReviewStats aggregates review count and average rating for a property.
func (r *propertyRepository) ReviewStats(ctx context.Context, propertyID uuid.UUID) (int64, *float64, error) {
	var row struct {
		Count int64
		Avg   *float64
	}
	err := r.db.WithContext(ctx).Model(&model.Review{}).
		Select("COUNT(id) AS count, AVG(rating) AS avg").
		Where("property_id = ?", propertyID).
		Scan(&row).Error
	if err != nil {
		return 0, nil, err
	}
	return row.Count, row.Avg, nil
}
