package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"meetup/backend/internal/models"
	"meetup/backend/internal/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGormMessageRepository(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := NewGormMessageRepository(db)

	owner := testutil.CreateUser(t, db, "owner")
	preJoin, postJoin := testutil.CreateEventRooms(t, db, owner.ID)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var msgs []*models.ChatMessage
	for i, body := range []string{"m1", "m2", "m3"} {
		msg := &models.ChatMessage{RoomID: preJoin.ID, SenderID: owner.ID, Body: body, SentAt: base.Add(time.Duration(i) * time.Minute)}
		req.NoError(repo.Create(ctx, msg))
		req.Equal("owner", msg.Sender.Nickname)
		msgs = append(msgs, msg)
	}
	// Same timestamp as m3: the later id sorts first.
	tie := &models.ChatMessage{RoomID: preJoin.ID, SenderID: owner.ID, Body: "m4", SentAt: msgs[2].SentAt}
	req.NoError(repo.Create(ctx, tie))

	all, err := repo.List(ctx, MessageQuery{RoomID: preJoin.ID})
	req.NoError(err)
	req.Len(all, 4)
	req.Equal("m4", all[0].Body)
	req.Equal("m3", all[1].Body)
	req.Equal("owner", all[0].Sender.Nickname)

	before, err := repo.List(ctx, MessageQuery{RoomID: preJoin.ID, BeforeID: msgs[2].ID, Limit: 1})
	req.NoError(err)
	req.Len(before, 1)
	req.Equal("m2", before[0].Body)

	start := base.Add(time.Minute)
	end := base.Add(time.Minute)
	ranged, err := repo.List(ctx, MessageQuery{RoomID: preJoin.ID, StartDate: &start, EndDate: &end})
	req.NoError(err)
	req.Len(ranged, 1)
	req.Equal("m2", ranged[0].Body)

	offset, err := repo.List(ctx, MessageQuery{RoomID: preJoin.ID, Offset: 3, Limit: 10})
	req.NoError(err)
	req.Len(offset, 1)
	req.Equal("m1", offset[0].Body)

	latest, err := repo.Latest(ctx, preJoin.ID)
	req.NoError(err)
	req.Equal(tie.ID, latest.ID)

	_, err = repo.Latest(ctx, postJoin.ID)
	req.ErrorIs(err, ErrNotFound)

	req.NoError(repo.SetPinned(ctx, msgs[0].ID, true))
	got, err := repo.GetByID(ctx, msgs[0].ID)
	req.NoError(err)
	req.True(got.IsPinned)

	req.ErrorIs(repo.SetPinned(ctx, 9999, true), ErrNotFound)
	_, err = repo.GetByID(ctx, 9999)
	req.ErrorIs(err, ErrNotFound)
}

func TestGormMessageRepository_CreateSurvivesSenderReloadFailure(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := NewGormMessageRepository(db)

	owner := testutil.CreateUser(t, db, "owner")
	preJoin, _ := testutil.CreateEventRooms(t, db, owner.ID)

	// Given user lookups fail after the insert
	req.NoError(db.Callback().Query().Before("gorm:query").Register("test:fail_users", func(tx *gorm.DB) {
		if tx.Statement.Table == "users" {
			_ = tx.AddError(errors.New("users unavailable"))
		}
	}))

	msg := &models.ChatMessage{RoomID: preJoin.ID, SenderID: owner.ID, Body: "kept", SentAt: time.Now().UTC()}

	// Then the create still reports success for the stored row
	req.NoError(repo.Create(ctx, msg))
	req.NotZero(msg.ID)
	req.Empty(msg.Sender.Nickname)

	var count int64
	req.NoError(db.Model(&models.ChatMessage{}).Where("id = ?", msg.ID).Count(&count).Error)
	req.EqualValues(1, count)
}
