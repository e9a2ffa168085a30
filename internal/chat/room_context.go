package chat

import (
	"meetup/backend/internal/models"

	"github.com/samber/lo"
)

// RoomContext is the outcome of an authorization decision. Downstream
// components read the room kind and ownership from it instead of reloading
// the room.
type RoomContext struct {
	RoomID uint            `json:"room_id"`
	Kind   models.RoomKind `json:"kind"`
	// OwnerID is zero for DM rooms.
	OwnerID        uint   `json:"owner_id"`
	ParticipantIDs []uint `json:"participant_ids"`
}

func (rc *RoomContext) IsOwner(userID uint) bool {
	return rc.OwnerID != 0 && rc.OwnerID == userID
}

func (rc *RoomContext) IsParticipant(userID uint) bool {
	return lo.Contains(rc.ParticipantIDs, userID)
}

func newRoomContext(room *models.ChatRoom) *RoomContext {
	rc := &RoomContext{
		RoomID: room.ID,
		Kind:   room.Kind,
		ParticipantIDs: lo.Map(room.Participants, func(u models.User, _ int) uint {
			return u.ID
		}),
	}
	if room.Event != nil {
		rc.OwnerID = room.Event.OwnerID
	}
	return rc
}
