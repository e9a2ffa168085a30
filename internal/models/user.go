package models

import "gorm.io/gorm"

// User is owned by the registration service. This service only reads it to
// render real sender profiles and to check roles.
type User struct {
	gorm.Model
	Nickname     string  `gorm:"size:255;unique;not null"`
	Email        string  `gorm:"size:255;unique;not null"`
	ProfileImage *string `gorm:"size:512"`
	Role         string  `gorm:"size:50;not null;default:'user';index"`
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
