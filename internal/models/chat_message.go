package models

import "time"

// ChatMessage is an append-only message. Only IsPinned changes after creation.
type ChatMessage struct {
	ID             uint      `gorm:"primaryKey"`
	RoomID         uint      `gorm:"not null;index:idx_chat_messages_room_sent,priority:1"`
	SenderID       uint      `gorm:"not null;index"`
	Body           string    `gorm:"column:message;type:text;not null"`
	IsAnnouncement bool      `gorm:"not null;default:false"`
	IsPinned       bool      `gorm:"not null;default:false"`
	SentAt         time.Time `gorm:"not null;index:idx_chat_messages_room_sent,priority:2"`

	Room   ChatRoom `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE;"`
	Sender User     `gorm:"foreignKey:SenderID"`
}
