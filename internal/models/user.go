package models

import (
	"time"
)

// User represents an authenticated user in the system.
// Users own their articles, documents and at most one student profile.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name      string    `gorm:"size:255" json:"name,omitempty"`
	Password  string    `gorm:"size:255;not null" json:"-"` // Hashed, never exposed in JSON
	IsAdmin   bool      `gorm:"default:false" json:"is_admin"`

	Articles  []Article  `gorm:"foreignKey:UserID" json:"-"`
	Documents []Document `gorm:"foreignKey:UserID" json:"-"`
	Student   *Student   `gorm:"foreignKey:UserID" json:"-"`
}
