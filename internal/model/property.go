package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Property represents a building or housing complex that owns listings and
// collects reviews.
type Property struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerID string    `json:"owner_id" gorm:"not null;index"`

	Name              string  `json:"name" gorm:"type:text;not null"`
	Address           string  `json:"address" gorm:"type:text;not null"`
	PostalCode        string  `json:"postal_code" gorm:"size:32;not null"`
	City              string  `json:"city" gorm:"size:255;not null"`
	State             string  `json:"state" gorm:"size:255;not null"`
	Country           string  `json:"country" gorm:"size:255;not null"`
	Latitude          float64 `json:"latitude" gorm:"not null"`
	Longitude         float64 `json:"longitude" gorm:"not null"`
	ManagementCompany *string `json:"management_company,omitempty" gorm:"size:255"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
