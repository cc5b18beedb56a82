package models

import "time"

type User struct {
	ID           string    `gorm:"primaryKey"             json:"_id"`
	Username     string    `gorm:"unique;not null"        json:"username"`
	Email        string    `gorm:"uniqueIndex;not null"   json:"email"`
	PasswordHash string    `gorm:"not null"               json:"-"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
}

// DisplayName is what the navigation bar shows for a logged in user.
func (u User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}

type Product struct {
	ID          string    `gorm:"primaryKey"            json:"_id"`
	Name        string    `gorm:"not null"              json:"name"`
	Price       float64   `gorm:"not null"              json:"price"`
	Description string    `gorm:"not null"              json:"description"`
	Category    string    `gorm:"index;not null"        json:"category"`
	Stock       int       `gorm:"not null"              json:"stock"`
	CreatedBy   string    `gorm:"index;not null"        json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

// ProductInput is the body of product create and update requests.
type ProductInput struct {
	Name        string  `json:"name"        validate:"required"`
	Price       float64 `json:"price"       validate:"gte=0"`
	Description string  `json:"description" validate:"required"`
	Category    string  `json:"category"    validate:"required"`
	Stock       int     `json:"stock"       validate:"gte=0"`
}

// Setting is a single persisted key/value pair of client storage.
type Setting struct {
	Name      string `gorm:"primaryKey"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}
