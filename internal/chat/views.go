package chat

import (
	"strconv"
	"time"

	"meetup/backend/internal/models"
)

const (
	anonymousSenderID = "anonymous"
	// guestNickname is shown for a masked sender without a binding.
	guestNickname = "ゲスト"
)

// SenderView is the displayed author of a message. For masked senders ID is
// "anonymous" and Nickname is the room pseudonym.
type SenderView struct {
	ID           string  `json:"id"`
	Nickname     string  `json:"nickname"`
	ProfileImage *string `json:"profileImage,omitempty"`
	IsOwner      bool    `json:"isOwner"`
}

// MessageView is a message as seen by one actor.
type MessageView struct {
	ID             uint      `json:"id"`
	Message        string    `json:"message"`
	IsAnnouncement bool      `json:"isAnnouncement"`
	IsPinned       bool      `json:"isPinned"`
	IsMyMessage    bool      `json:"isMyMessage"`
	SentAt         time.Time `json:"sentAt"`
	RoomID         uint      `json:"roomId"`
	// SenderID is omitted for masked senders.
	SenderID *uint      `json:"senderId,omitempty"`
	Sender   SenderView `json:"sender"`
}

// Pagination describes where a history page sits.
type Pagination struct {
	HasMore    bool  `json:"hasMore"`
	NextCursor *uint `json:"nextCursor"`
	Limit      int   `json:"limit"`
	// Offset is only reported for room history, which supports offset mode.
	Offset *int `json:"offset,omitempty"`
}

type HistoryPage struct {
	Messages   []MessageView `json:"messages"`
	Pagination Pagination    `json:"pagination"`
}

// viewer renders messages of one room for one actor.
type viewer struct {
	rc      *RoomContext
	actorID uint
	// names maps real sender ids to pseudonyms in PRE_JOIN rooms.
	names map[uint]string
}

func (v viewer) view(m *models.ChatMessage) MessageView {
	out := MessageView{
		ID:             m.ID,
		Message:        m.Body,
		IsAnnouncement: m.IsAnnouncement,
		IsPinned:       m.IsPinned,
		IsMyMessage:    m.SenderID == v.actorID,
		SentAt:         m.SentAt,
		RoomID:         m.RoomID,
	}

	isOwner := v.rc.IsOwner(m.SenderID)
	if v.rc.Kind == models.RoomKindPreJoin && !isOwner {
		nickname, ok := v.names[m.SenderID]
		if !ok {
			nickname = guestNickname
		}
		out.Sender = SenderView{ID: anonymousSenderID, Nickname: nickname}
		return out
	}

	senderID := m.SenderID
	out.SenderID = &senderID
	out.Sender = SenderView{
		ID:           strconv.FormatUint(uint64(m.SenderID), 10),
		Nickname:     m.Sender.Nickname,
		ProfileImage: m.Sender.ProfileImage,
		IsOwner:      isOwner,
	}
	return out
}
