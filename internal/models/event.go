package models

import "gorm.io/gorm"

// Event carries the ownership facts pushed by the event service.
type Event struct {
	gorm.Model
	OwnerID uint   `gorm:"not null;index"`
	Title   string `gorm:"size:255;not null"`

	Owner User `gorm:"foreignKey:OwnerID"`
}
