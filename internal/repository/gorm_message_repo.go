package repository

import (
	"context"

	"meetup/backend/internal/log"
	"meetup/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormMessageRepository implements MessageRepository using GORM.
type GormMessageRepository struct {
	db *gorm.DB
}

func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

func (r *GormMessageRepository) Create(ctx context.Context, msg *models.ChatMessage) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(msg).Error; err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).Uint(log.FieldRoomID, msg.RoomID).Msg("failed to create message")
		return translate(err)
	}
	// The row is committed; a failed sender reload only costs the profile.
	if err := r.db.WithContext(ctx).First(&msg.Sender, msg.SenderID).Error; err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Uint(log.FieldMessageID, msg.ID).Msg("failed to reload message sender")
	}
	return nil
}

func (r *GormMessageRepository) GetByID(ctx context.Context, id uint) (*models.ChatMessage, error) {
	var msg models.ChatMessage
	if err := r.db.WithContext(ctx).Preload("Sender").First(&msg, id).Error; err != nil {
		return nil, translate(err)
	}
	return &msg, nil
}

// List returns messages ordered by sent time then id, newest first.
func (r *GormMessageRepository) List(ctx context.Context, q MessageQuery) ([]models.ChatMessage, error) {
	query := r.db.WithContext(ctx).
		Preload("Sender").
		Where("room_id = ?", q.RoomID)

	if q.BeforeID > 0 {
		query = query.Where("id < ?", q.BeforeID)
	}
	if q.StartDate != nil {
		query = query.Where("sent_at >= ?", q.StartDate.UTC())
	}
	if q.EndDate != nil {
		query = query.Where("sent_at <= ?", q.EndDate.UTC())
	}
	if q.Offset > 0 {
		query = query.Offset(q.Offset)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	var messages []models.ChatMessage
	if err := query.Order("sent_at DESC").Order("id DESC").Find(&messages).Error; err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).Uint(log.FieldRoomID, q.RoomID).Msg("failed to list messages")
		return nil, err
	}
	return messages, nil
}

func (r *GormMessageRepository) Latest(ctx context.Context, roomID uint) (*models.ChatMessage, error) {
	messages, err := r.List(ctx, MessageQuery{RoomID: roomID, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, ErrNotFound
	}
	return &messages[0], nil
}

func (r *GormMessageRepository) SetPinned(ctx context.Context, id uint, pinned bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.ChatMessage{}).
		Where("id = ?", id).
		Update("is_pinned", pinned)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
