package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bruinplace/internal/model"
)

// ListingFilter holds search filters and pagination for listings.
type ListingFilter struct {
	Status             *model.ListingStatus
	UnitType           *model.UnitType
	MinRent            *int
	MaxRent            *int
	PropertyID         *uuid.UUID
	Search             string
	AvailableFromAfter *time.Time
	Limit              int
	Offset             int
}

// ListingRepository defines listing persistence operations, including the
// amenity and saved-listing join tables.
type ListingRepository interface {
	// Search returns one page of non-deleted listings plus the total count of
	// matches before limit/offset.
	Search(ctx context.Context, filter ListingFilter) ([]model.Listing, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Listing, error)
	// CreateWithAmenities inserts the listing and its amenity associations as
	// one transaction. The listing id is generated before the join rows go in.
	CreateWithAmenities(ctx context.Context, listing *model.Listing, amenityIDs []uuid.UUID) error
	// Update persists listing fields; when amenityIDs is non-nil the full
	// amenity set is replaced in the same transaction.
	Update(ctx context.Context, listing *model.Listing, amenityIDs []uuid.UUID) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	// AmenitiesForListings loads amenities for a page of listings in one
	// batched query keyed by listing id.
	AmenitiesForListings(ctx context.Context, listingIDs []uuid.UUID) (map[uuid.UUID][]model.Amenity, error)
	SaveForUser(ctx context.Context, userID string, listingID uuid.UUID) error
	UnsaveForUser(ctx context.Context, userID string, listingID uuid.UUID) error
	SavedForUser(ctx context.Context, userID string, limit, offset int) ([]model.Listing, int64, error)
}

type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository creates a new listing repository.
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) filtered(ctx context.Context, filter ListingFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Listing{})

	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.UnitType != nil {
		q = q.Where("unit_type = ?", *filter.UnitType)
	}
	if filter.MinRent != nil {
		q = q.Where("monthly_rent >= ?", *filter.MinRent)
	}
	if filter.MaxRent != nil {
		q = q.Where("monthly_rent <= ?", *filter.MaxRent)
	}
	if filter.PropertyID != nil {
		q = q.Where("property_id = ?", *filter.PropertyID)
	}
	if filter.Search != "" {
		term := "%" + filter.Search + "%"
		q = q.Where("title ILIKE ? OR description ILIKE ?", term, term)
	}
	if filter.AvailableFromAfter != nil {
		q = q.Where("available_from >= ?", *filter.AvailableFromAfter)
	}
	return q
}

// Search lists one page of matching listings newest first, with the
// pre-pagination total.
func (r *listingRepository) Search(ctx context.Context, filter ListingFilter) ([]model.Listing, int64, error) {
	q := r.filtered(ctx, filter)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var listings []model.Listing
	err := q.Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&listings).Error
	if err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}

// FindByID finds a non-deleted listing by ID.
func (r *listingRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Listing, error) {
	var listing model.Listing
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&listing).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

// CreateWithAmenities inserts a listing and its amenity rows atomically.
func (r *listingRepository) CreateWithAmenities(ctx context.Context, listing *model.Listing, amenityIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(listing).Error; err != nil {
			return err
		}
		for _, amenityID := range amenityIDs {
			row := model.ListingAmenity{ListingID: listing.ID, AmenityID: amenityID}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Update saves listing fields and optionally replaces the amenity set.
func (r *listingRepository) Update(ctx context.Context, listing *model.Listing, amenityIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(listing).Error; err != nil {
			return err
		}
		if amenityIDs == nil {
			return nil
		}
		if err := tx.Where("listing_id = ?", listing.ID).Delete(&model.ListingAmenity{}).Error; err != nil {
			return err
		}
		for _, amenityID := range amenityIDs {
			row := model.ListingAmenity{ListingID: listing.ID, AmenityID: amenityID}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SoftDelete marks a listing deleted.
func (r *listingRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Listing{}, "id = ?", id).Error
}

type listingAmenityRow struct {
	ListingID uuid.UUID `gorm:"column:listing_id"`
	AmenityID uuid.UUID `gorm:"column:amenity_id"`
	Key       string    `gorm:"column:key"`
	Label     string    `gorm:"column:label"`
}

// AmenitiesForListings batch-loads amenities for the given listing ids.
func (r *listingRepository) AmenitiesForListings(ctx context.Context, listingIDs []uuid.UUID) (map[uuid.UUID][]model.Amenity, error) {
	byListing := make(map[uuid.UUID][]model.Amenity, len(listingIDs))
	if len(listingIDs) == 0 {
		return byListing, nil
	}

	var rows []listingAmenityRow
	err := r.db.WithContext(ctx).
		Table("listing_amenities").
		Select("listing_amenities.listing_id, amenities.id AS amenity_id, amenities.key, amenities.label").
		Joins("JOIN amenities ON amenities.id = listing_amenities.amenity_id").
		Where("listing_amenities.listing_id IN ?", listingIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		byListing[row.ListingID] = append(byListing[row.ListingID], model.Amenity{
			ID:    row.AmenityID,
			Key:   row.Key,
			Label: row.Label,
		})
	}
	return byListing, nil
}

// SaveForUser bookmarks a listing; saving an already-saved pair is a no-op.
func (r *listingRepository) SaveForUser(ctx context.Context, userID string, listingID uuid.UUID) error {
	row := model.SavedListing{UserID: userID, ListingID: listingID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error
}

// UnsaveForUser removes a bookmark; deleting an absent pair succeeds silently.
func (r *listingRepository) UnsaveForUser(ctx context.Context, userID string, listingID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND listing_id = ?", userID, listingID).
		Delete(&model.SavedListing{}).Error
}

// SavedForUser lists the caller's saved listings, most recently saved first.
// Soft-deleted listings drop out of the join.
func (r *listingRepository) SavedForUser(ctx context.Context, userID string, limit, offset int) ([]model.Listing, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Listing{}).
		Joins("JOIN saved_listings ON saved_listings.listing_id = listings.id").
		Where("saved_listings.user_id = ?", userID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var listings []model.Listing
	err := base.Order("saved_listings.created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&listings).Error
	if err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}
