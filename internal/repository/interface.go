package repository

import (
	"context"
	"errors"
	"time"

	"meetup/backend/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// RoomRepository persists chat rooms.
type RoomRepository interface {
	// GetByID loads a room with its event and participants.
	GetByID(ctx context.Context, id uint) (*models.ChatRoom, error)
	GetDMByKey(ctx context.Context, key string) (*models.ChatRoom, error)
	// CreateDM returns ErrDuplicate when a DM for the pair already exists.
	CreateDM(ctx context.Context, a, b uint) (*models.ChatRoom, error)
	ListDMsForUser(ctx context.Context, userID uint) ([]models.ChatRoom, error)
	CreateEventRooms(ctx context.Context, event *models.Event) (preJoin, postJoin *models.ChatRoom, err error)
	AddParticipant(ctx context.Context, roomID, userID uint) error
}

// MessageQuery selects a slice of one room's history, newest first.
type MessageQuery struct {
	RoomID uint
	// BeforeID keeps only messages with a smaller id. Zero disables it.
	BeforeID  uint
	Offset    int
	Limit     int
	StartDate *time.Time
	EndDate   *time.Time
}

// MessageRepository persists chat messages.
type MessageRepository interface {
	Create(ctx context.Context, msg *models.ChatMessage) error
	GetByID(ctx context.Context, id uint) (*models.ChatMessage, error)
	List(ctx context.Context, q MessageQuery) ([]models.ChatMessage, error)
	Latest(ctx context.Context, roomID uint) (*models.ChatMessage, error)
	SetPinned(ctx context.Context, id uint, pinned bool) error
}

// ParticipantRepository persists PRE_JOIN pseudonym bindings.
type ParticipantRepository interface {
	Get(ctx context.Context, roomID, userID uint) (*models.PreJoinParticipant, error)
	UsedNames(ctx context.Context, roomID uint) ([]string, error)
	// Create returns ErrDuplicate when the user or the name is already bound in the room.
	Create(ctx context.Context, p *models.PreJoinParticipant) error
	NamesByUser(ctx context.Context, roomID uint) (map[uint]string, error)
}

// UserRepository reads users owned by the registration service.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
}
