package model

import (
	"time"

	"gorm.io/gorm"
)

// User represents an authenticated user provisioned from Google sign-in.
// The primary key is the Google OIDC subject, which is stable across sessions.
type User struct {
	ID        string         `json:"id" gorm:"primaryKey"`
	Email     string         `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Name      *string        `json:"name,omitempty" gorm:"size:255"`
	Picture   *string        `json:"picture,omitempty" gorm:"size:2048"`
	LastLogin time.Time      `json:"last_login" gorm:"not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
