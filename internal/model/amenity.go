package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Amenity is reference data: a stable key plus a human-readable label.
// Amenities are never soft-deleted.
type Amenity struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Key       string    `json:"key" gorm:"type:text;uniqueIndex;not null"`
	Label     string    `json:"label" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (a *Amenity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
