package models

import (
	"fmt"
	"time"
)

// RoomKind is the closed set of chat room variants.
type RoomKind string

const (
	// RoomKindPreJoin is open to anyone interested in an event. Everyone but
	// the owner posts under a pseudonym.
	RoomKindPreJoin RoomKind = "PRE_JOIN"

	// RoomKindPostJoin is restricted to the event owner and confirmed participants.
	RoomKindPostJoin RoomKind = "POST_JOIN"

	// RoomKindDM is a two-party direct message room.
	RoomKindDM RoomKind = "DM"
)

// Valid reports whether k is one of the known kinds.
func (k RoomKind) Valid() bool {
	switch k {
	case RoomKindPreJoin, RoomKindPostJoin, RoomKindDM:
		return true
	}
	return false
}

// ChatRoom is a message container. Event rooms point at their event, DM rooms
// carry a DMKey that is unique per unordered pair of users.
type ChatRoom struct {
	ID        uint     `gorm:"primaryKey"`
	Kind      RoomKind `gorm:"type:varchar(20);not null;index"`
	EventID   *uint    `gorm:"index"`
	DMKey     *string  `gorm:"column:dm_key;size:64;uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Event        *Event `gorm:"foreignKey:EventID"`
	Participants []User `gorm:"many2many:chat_room_participants;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// DMKeyFor returns the canonical key of the unordered pair (a, b).
func DMKeyFor(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}
