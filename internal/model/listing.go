package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UnitType classifies the kind of unit a listing offers.
type UnitType string

const (
	UnitTypeStudio      UnitType = "studio"
	UnitTypeOneBOneB    UnitType = "1b1b"
	UnitTypeTwoBTwoB    UnitType = "2b2b"
	UnitTypeSharedRoom  UnitType = "shared_room"
	UnitTypePrivateRoom UnitType = "private_room"
	UnitTypeOther       UnitType = "other"
)

// Valid reports whether the unit type is one of the known values.
func (u UnitType) Valid() bool {
	switch u {
	case UnitTypeStudio, UnitTypeOneBOneB, UnitTypeTwoBTwoB,
		UnitTypeSharedRoom, UnitTypePrivateRoom, UnitTypeOther:
		return true
	}
	return false
}

// ListingStatus represents the lifecycle status of a listing.
type ListingStatus string

const (
	ListingStatusDraft    ListingStatus = "draft"
	ListingStatusActive   ListingStatus = "active"
	ListingStatusRented   ListingStatus = "rented"
	ListingStatusArchived ListingStatus = "archived"
)

// Valid reports whether the status is one of the known values.
func (s ListingStatus) Valid() bool {
	switch s {
	case ListingStatusDraft, ListingStatusActive, ListingStatusRented, ListingStatusArchived:
		return true
	}
	return false
}

// Listing represents a rental listing attached to a property and owned by the
// user who posted it.
type Listing struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	PropertyID uuid.UUID `json:"property_id" gorm:"type:uuid;not null;index"`
	OwnerID    string    `json:"owner_id" gorm:"not null;index"`

	Title           string        `json:"title" gorm:"type:text;not null"`
	Description     string        `json:"description" gorm:"type:text;not null"`
	MonthlyRent     int           `json:"monthly_rent" gorm:"not null"`
	DepositAmount   *int          `json:"deposit_amount,omitempty"`
	AvailableFrom   *time.Time    `json:"available_from,omitempty" gorm:"type:date"`
	LeaseTermMonths *int          `json:"lease_term_months,omitempty"`
	LeaseType       *string       `json:"lease_type,omitempty" gorm:"size:100"`
	UnitType        UnitType      `json:"unit_type" gorm:"size:20;not null"`
	SquareFeet      *int          `json:"square_feet,omitempty"`
	MaxOccupants    *int          `json:"max_occupants,omitempty"`
	Status          ListingStatus `json:"status" gorm:"size:20;not null;default:'draft';index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// ListingAmenity is the many-to-many join between listings and amenities.
type ListingAmenity struct {
	ListingID uuid.UUID `json:"listing_id" gorm:"type:uuid;primaryKey"`
	AmenityID uuid.UUID `json:"amenity_id" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `json:"created_at"`
}

// SavedListing is the many-to-many join between users and bookmarked listings.
type SavedListing struct {
	UserID    string    `json:"user_id" gorm:"primaryKey"`
	ListingID uuid.UUID `json:"listing_id" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `json:"created_at"`
}
