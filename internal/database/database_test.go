package database

import (
	"path/filepath"
	"testing"

	"meetup/backend/internal/models"

	"github.com/stretchr/testify/require"
)

func TestConnect_SQLiteAndMigrate(t *testing.T) {
	req := require.New(t)

	db, err := Connect("sqlite", filepath.Join(t.TempDir(), "chat.db"))
	req.NoError(err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	req.NoError(Migrate(db))
	for _, model := range []any{&models.User{}, &models.Event{}, &models.ChatRoom{}, &models.ChatMessage{}, &models.PreJoinParticipant{}} {
		req.True(db.Migrator().HasTable(model))
	}
	req.True(db.Migrator().HasTable("chat_room_participants"))
	req.True(db.Migrator().HasIndex(&models.PreJoinParticipant{}, "idx_pre_join_room_name"))
}

func TestConnect_UnsupportedDriver(t *testing.T) {
	_, err := Connect("mysql", "")
	require.ErrorContains(t, err, "unsupported database driver")
}
