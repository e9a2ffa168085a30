// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"meetup/backend/internal/database"
	"meetup/backend/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// NewDB returns a migrated in-memory sqlite database private to the test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=on", name, dbSeq.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps the shared in-memory database alive and
	// serializes writers, which sqlite requires.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// CreateUser inserts a user with the given nickname.
func CreateUser(t testing.TB, db *gorm.DB, nickname string) models.User {
	t.Helper()
	user := models.User{
		Nickname: nickname,
		Email:    nickname + "@example.com",
		Role:     models.RoleUser,
	}
	require.NoError(t, db.WithContext(context.Background()).Create(&user).Error)
	return user
}

// CreateEventRooms inserts an event owned by ownerID with its PRE_JOIN and POST_JOIN rooms.
func CreateEventRooms(t testing.TB, db *gorm.DB, ownerID uint) (preJoin, postJoin models.ChatRoom) {
	t.Helper()
	event := models.Event{OwnerID: ownerID, Title: "meetup"}
	require.NoError(t, db.Create(&event).Error)

	preJoin = models.ChatRoom{Kind: models.RoomKindPreJoin, EventID: &event.ID}
	postJoin = models.ChatRoom{Kind: models.RoomKindPostJoin, EventID: &event.ID}
	require.NoError(t, db.Create(&preJoin).Error)
	require.NoError(t, db.Create(&postJoin).Error)
	return preJoin, postJoin
}
