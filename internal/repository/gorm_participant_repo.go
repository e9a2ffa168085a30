package repository

import (
	"context"

	"meetup/backend/internal/models"

	"gorm.io/gorm"
)

// GormParticipantRepository implements ParticipantRepository using GORM.
type GormParticipantRepository struct {
	db *gorm.DB
}

func NewGormParticipantRepository(db *gorm.DB) *GormParticipantRepository {
	return &GormParticipantRepository{db: db}
}

func (r *GormParticipantRepository) Get(ctx context.Context, roomID, userID uint) (*models.PreJoinParticipant, error) {
	var p models.PreJoinParticipant
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		First(&p).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *GormParticipantRepository) UsedNames(ctx context.Context, roomID uint) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&models.PreJoinParticipant{}).
		Where("room_id = ?", roomID).
		Pluck("anonymous_name", &names).Error
	return names, err
}

func (r *GormParticipantRepository) Create(ctx context.Context, p *models.PreJoinParticipant) error {
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r *GormParticipantRepository) NamesByUser(ctx context.Context, roomID uint) (map[uint]string, error) {
	var rows []models.PreJoinParticipant
	err := r.db.WithContext(ctx).
		Select("user_id", "anonymous_name").
		Where("room_id = ?", roomID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	names := make(map[uint]string, len(rows))
	for _, row := range rows {
		names[row.UserID] = row.AnonymousName
	}
	return names, nil
}
