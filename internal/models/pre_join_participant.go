package models

import "time"

// PreJoinParticipant binds a user to their pseudonym inside one PRE_JOIN room.
// Both (room, user) and (room, name) are unique.
type PreJoinParticipant struct {
	ID            uint   `gorm:"primaryKey"`
	RoomID        uint   `gorm:"not null;uniqueIndex:idx_pre_join_room_user;uniqueIndex:idx_pre_join_room_name"`
	UserID        uint   `gorm:"not null;uniqueIndex:idx_pre_join_room_user"`
	AnonymousName string `gorm:"size:100;not null;uniqueIndex:idx_pre_join_room_name"`
	CreatedAt     time.Time

	Room ChatRoom `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE;"`
}
