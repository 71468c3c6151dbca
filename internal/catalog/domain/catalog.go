package domain

import (
	"strings"
	"time"
)

// User row of the auth service users table, only display columns
type User struct {
	ID        string
	FirstName string
	LastName  string
}

// DisplayName "first last", falls back to the id
func (u User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.ID
	}
	return name
}

// Listing row of the listings service table
type Listing struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)"`
	UserID    string    `gorm:"index;not null;type:varchar(64)"`
	Title     string    `gorm:"not null"`
	Price     float64   `gorm:"not null;default:0"`
	Images    []string  `gorm:"serializer:json"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName listings table
func (Listing) TableName() string {
	return "listings"
}
