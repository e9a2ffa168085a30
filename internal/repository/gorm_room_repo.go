package repository

import (
	"context"

	"meetup/backend/internal/log"
	"meetup/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRoomRepository implements RoomRepository using GORM.
type GormRoomRepository struct {
	db *gorm.DB
}

func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	return &GormRoomRepository{db: db}
}

func (r *GormRoomRepository) GetByID(ctx context.Context, id uint) (*models.ChatRoom, error) {
	var room models.ChatRoom
	err := r.db.WithContext(ctx).
		Preload("Event").
		Preload("Participants").
		First(&room, id).Error
	if err != nil {
		err = translate(err)
		if err != ErrNotFound {
			l := log.Ctx(ctx)
			l.Error().Err(err).Uint(log.FieldRoomID, id).Msg("failed to get room by id")
		}
		return nil, err
	}
	return &room, nil
}

func (r *GormRoomRepository) GetDMByKey(ctx context.Context, key string) (*models.ChatRoom, error) {
	var room models.ChatRoom
	err := r.db.WithContext(ctx).
		Preload("Participants").
		Where("kind = ? AND dm_key = ?", models.RoomKindDM, key).
		First(&room).Error
	if err != nil {
		return nil, translate(err)
	}
	return &room, nil
}

func (r *GormRoomRepository) CreateDM(ctx context.Context, a, b uint) (*models.ChatRoom, error) {
	key := models.DMKeyFor(a, b)
	room := models.ChatRoom{Kind: models.RoomKindDM, DMKey: &key}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&room).Error; err != nil {
			return err
		}
		return tx.Create(&[]roomParticipant{
			{ChatRoomID: room.ID, UserID: a},
			{ChatRoomID: room.ID, UserID: b},
		}).Error
	})
	if err != nil {
		return nil, translate(err)
	}

	l := log.Ctx(ctx)
	l.Debug().Uint(log.FieldRoomID, room.ID).Str("dm_key", key).Msg("dm room created")
	return r.GetByID(ctx, room.ID)
}

func (r *GormRoomRepository) ListDMsForUser(ctx context.Context, userID uint) ([]models.ChatRoom, error) {
	var rooms []models.ChatRoom
	err := r.db.WithContext(ctx).
		Preload("Participants").
		Joins("JOIN chat_room_participants crp ON crp.chat_room_id = chat_rooms.id").
		Where("chat_rooms.kind = ? AND crp.user_id = ?", models.RoomKindDM, userID).
		Order("chat_rooms.created_at DESC").
		Order("chat_rooms.id DESC").
		Find(&rooms).Error
	if err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).Uint(log.FieldUserID, userID).Msg("failed to list dm rooms")
		return nil, err
	}
	return rooms, nil
}

func (r *GormRoomRepository) CreateEventRooms(ctx context.Context, event *models.Event) (*models.ChatRoom, *models.ChatRoom, error) {
	var preJoin, postJoin models.ChatRoom
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(event).Error; err != nil {
			return err
		}
		preJoin = models.ChatRoom{Kind: models.RoomKindPreJoin, EventID: &event.ID}
		if err := tx.Create(&preJoin).Error; err != nil {
			return err
		}
		postJoin = models.ChatRoom{Kind: models.RoomKindPostJoin, EventID: &event.ID}
		return tx.Create(&postJoin).Error
	})
	if err != nil {
		return nil, nil, translate(err)
	}
	return &preJoin, &postJoin, nil
}

func (r *GormRoomRepository) AddParticipant(ctx context.Context, roomID, userID uint) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&roomParticipant{ChatRoomID: roomID, UserID: userID}).Error
	return translate(err)
}

// roomParticipant is a row of the ChatRoom.Participants join table.
type roomParticipant struct {
	ChatRoomID uint `gorm:"primaryKey"`
	UserID     uint `gorm:"primaryKey"`
}

func (roomParticipant) TableName() string {
	return "chat_room_participants"
}
