package chat

import (
	"context"
	"sync"
	"testing"
	"time"

	"meetup/backend/internal/models"
	"meetup/backend/internal/repository"
	"meetup/backend/internal/testutil"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	db    *gorm.DB
	svc   *Service
	authz *Authorizer
	repos Repositories
}

// newFixture builds a service over sqlite whose clock advances one second per message.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	repos := Repositories{
		Rooms:        repository.NewGormRoomRepository(db),
		Messages:     repository.NewGormMessageRepository(db),
		Participants: repository.NewGormParticipantRepository(db),
		Users:        repository.NewGormUserRepository(db),
	}
	authz := NewAuthorizer(repos.Rooms, nil, 0)
	assigner := NewAssigner(repos.Participants, NewNamePool([]string{"n1", "n2", "n3"}))
	svc := NewService(authz, assigner, repos, 0)

	var mu sync.Mutex
	tick := 0
	svc.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		tick++
		return baseTime.Add(time.Duration(tick) * time.Second)
	}
	return &fixture{db: db, svc: svc, authz: authz, repos: repos}
}

func messageBodies(page *HistoryPage) []string {
	bodies := make([]string, 0, len(page.Messages))
	for _, m := range page.Messages {
		bodies = append(bodies, m.Message)
	}
	return bodies
}

func TestCreateMessage_PreJoinScenario(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)

	owner := testutil.CreateUser(t, f.db, "owner")
	u1 := testutil.CreateUser(t, f.db, "u1")
	u2 := testutil.CreateUser(t, f.db, "u2")
	room, _ := testutil.CreateEventRooms(t, f.db, owner.ID)

	hi, err := f.svc.CreateMessage(ctx, room.ID, u1.ID, "hi")
	req.NoError(err)
	req.Equal(SenderView{ID: "anonymous", Nickname: "n1"}, hi.Sender)
	req.Nil(hi.SenderID)
	req.True(hi.IsMyMessage)
	req.False(hi.IsPinned)

	hello, err := f.svc.CreateMessage(ctx, room.ID, u2.ID, "hello")
	req.NoError(err)
	req.Equal("n2", hello.Sender.Nickname)

	welcome, err := f.svc.CreateMessage(ctx, room.ID, owner.ID, "welcome")
	req.NoError(err)
	req.True(welcome.Sender.IsOwner)
	req.Equal("owner", welcome.Sender.Nickname)
	req.NotNil(welcome.SenderID)
	req.Equal(owner.ID, *welcome.SenderID)

	page, err := f.svc.FindMessages(ctx, room.ID, u1.ID, HistoryQuery{Limit: lo.ToPtr(2)})
	req.NoError(err)
	req.Equal([]string{"welcome", "hello"}, messageBodies(page))
	req.True(page.Pagination.HasMore)
	req.NotNil(page.Pagination.NextCursor)
	req.Equal(hello.ID, *page.Pagination.NextCursor)
	req.Equal(2, page.Pagination.Limit)
	req.Equal(0, *page.Pagination.Offset)

	// isMyMessage follows the real sender even when it is masked.
	req.False(page.Messages[1].IsMyMessage)
	req.Equal("n2", page.Messages[1].Sender.Nickname)

	rest, err := f.svc.FindMessages(ctx, room.ID, u1.ID, HistoryQuery{Limit: lo.ToPtr(2), Cursor: page.Pagination.NextCursor})
	req.NoError(err)
	req.Equal([]string{"hi"}, messageBodies(rest))
	req.True(rest.Messages[0].IsMyMessage)
	req.Equal("n1", rest.Messages[0].Sender.Nickname)
	req.False(rest.Pagination.HasMore)
	req.Nil(rest.Pagination.NextCursor)
}

func TestCreateMessage_PseudonymIsStable(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)

	owner := testutil.CreateUser(t, f.db, "owner")
	u1 := testutil.CreateUser(t, f.db, "u1")
	room, _ := testutil.CreateEventRooms(t, f.db, owner.ID)

	first, err := f.svc.CreateMessage(ctx, room.ID, u1.ID, "one")
	req.NoError(err)
	second, err := f.svc.CreateMessage(ctx, room.ID, u1.ID, "two")
	req.NoError(err)
	req.Equal(first.Sender.Nickname, second.Sender.Nickname)

	// The owner is never given a pseudonym.
	_, err = f.svc.CreateMessage(ctx, room.ID, owner.ID, "hello")
	req.NoError(err)
	_, err = f.repos.Participants.Get(ctx, room.ID, owner.ID)
	req.ErrorIs(err, repository.ErrNotFound)
}

func TestCreateMessage_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := testutil.CreateUser(t, f.db, "owner")
	room, _ := testutil.CreateEventRooms(t, f.db, owner.ID)

	long := make([]rune, DefaultMessageMaxLength+1)
	for i := range long {
		long[i] = 'あ'
	}

	tests := []struct {
		name string
		body string
	}{
		{name: "empty", body: ""},
		{name: "whitespace", body: "  \n\t"},
		{name: "too long", body: string(long)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			_, err := f.svc.CreateMessage(ctx, room.ID, owner.ID, tt.body)
			req.ErrorIs(err, ErrBadRequest)

			var chatErr *Error
			req.ErrorAs(err, &chatErr)
			req.Equal("message", chatErr.Field)
		})
	}

	req := require.New(t)
	_, err := f.svc.CreateMessage(ctx, room.ID, owner.ID, string(long[:DefaultMessageMaxLength]))
	req.NoError(err)
}

func TestCreateMessage_AccessRules(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)

	owner := testutil.CreateUser(t, f.db, "owner")
	member := testutil.CreateUser(t, f.db, "member")
	stranger := testutil.CreateUser(t, f.db, "stranger")
	_, postJoin := testutil.CreateEventRooms(t, f.db, owner.ID)
	req.NoError(f.repos.Rooms.AddParticipant(ctx, postJoin.ID, member.ID))

	_, err := f.svc.CreateMessage(ctx, 9999, owner.ID, "hi")
	req.ErrorIs(err, ErrNotFound)

	_, err = f.svc.CreateMessage(ctx, postJoin.ID, stranger.ID, "hi")
	req.ErrorIs(err, ErrForbidden)

	msg, err := f.svc.CreateMessage(ctx, postJoin.ID, member.ID, "hi")
	req.NoError(err)
	req.Equal("member", msg.Sender.Nickname)
	req.False(msg.Sender.IsOwner)

	msg, err = f.svc.CreateMessage(ctx, postJoin.ID, owner.ID, "welcome")
	req.NoError(err)
	req.True(msg.Sender.IsOwner)

	_, err = f.svc.FindMessages(ctx, postJoin.ID, stranger.ID, HistoryQuery{})
	req.ErrorIs(err, ErrForbidden)
}

func TestCreateMessage_AccessCheckedBeforeBody(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)

	owner := testutil.CreateUser(t, f.db, "owner")
	stranger := testutil.CreateUser(t, f.db, "stranger")
	_, postJoin := testutil.CreateEventRooms(t, f.db, owner.ID)

	_, err := f.svc.CreateMessage(ctx, postJoin.ID, stranger.ID, "")
	req.ErrorIs(err, ErrForbidden)

	_, err = f.svc.CreateMessage(ctx, 9999, stranger.ID, "")
	req.ErrorIs(err, ErrNotFound)
}

func TestTogglePin(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)

	owner := testutil.CreateUser(t, f.db, "owner")
	u1 := testutil.CreateUser(t, f.db, "u1")
	room, _ := testutil.CreateEventRooms(t, f.db, owner.ID)

	msg, err := f.svc.CreateMessage(ctx, room.ID, u1.ID, "pin me")
	req.NoError(err)

	// Given a non-owner tries to pin
	_, err = f.svc.TogglePin(ctx, msg.ID, u1.ID)
	// Then it is forbidden and nothing changes
	req.ErrorIs(err, ErrForbidden)
	stored, err := f.repos.Messages.GetByID(ctx, msg.ID)
	req.NoError(err)
	req.False(stored.IsPinned)

	pinned, err := f.svc.TogglePin(ctx, msg.ID, owner.ID)
	req.NoError(err)
	req.True(pinned.IsPinned)
	// The pinned view keeps the sender masked.
	req.Equal("anonymous", pinned.Sender.ID)
	req.Equal("n1", pinned.Sender.Nickname)

	unpinned, err := f.svc.TogglePin(ctx, msg.ID, owner.ID)
	req.NoError(err)
	req.False(unpinned.IsPinned)

	_, err = f.svc.TogglePin(ctx, 9999, owner.ID)
	req.ErrorIs(err, ErrNotFound)
}

func TestTogglePin_DMMessageIsForbidden(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)

	a := testutil.CreateUser(t, f.db, "a")
	b := testutil.CreateUser(t, f.db, "b")
	room, _, err := f.svc.FindOrCreateDM(ctx, a.ID, b.ID)
	req.NoError(err)
	msg, err := f.svc.SendDMMessage(ctx, room.ID, a.ID, "hey")
	req.NoError(err)

	_, err = f.svc.TogglePin(ctx, msg.ID, a.ID)
	req.ErrorIs(err, ErrForbidden)
}

func TestFindMessages_OffsetMode(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)

	owner := testutil.CreateUser(t, f.db, "owner")
	_, room := testutil.CreateEventRooms(t, f.db, owner.ID)
	for _, body := range []string{"m1", "m2", "m3", "m4", "m5"} {
		_, err := f.svc.CreateMessage(ctx, room.ID, owner.ID, body)
		req.NoError(err)
	}

	page, err := f.svc.FindMessages(ctx, room.ID, owner.ID, HistoryQuery{Limit: lo.ToPtr(2), Offset: 2})
	req.NoError(err)
	req.Equal([]string{"m3", "m2"}, messageBodies(page))
	req.True(page.Pagination.HasMore)
	req.Equal(2, *page.Pagination.Offset)

	// Exactly limit messages remain: no false positive.
	page, err = f.svc.FindMessages(ctx, room.ID, owner.ID, HistoryQuery{Limit: lo.ToPtr(2), Offset: 3})
	req.NoError(err)
	req.Equal([]string{"m2", "m1"}, messageBodies(page))
	req.False(page.Pagination.HasMore)
	req.Nil(page.Pagination.NextCursor)

	page, err = f.svc.FindMessages(ctx, room.ID, owner.ID, HistoryQuery{})
	req.NoError(err)
	req.Len(page.Messages, 5)
	req.Equal(DefaultPageLimit, page.Pagination.Limit)
}

func TestFindMessages_CursorWinsOverOffset(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)

	owner := testutil.CreateUser(t, f.db, "owner")
	_, room := testutil.CreateEventRooms(t, f.db, owner.ID)
	var ids []uint
	for _, body := range []string{"m1", "m2", "m3", "m4"} {
		m, err := f.svc.CreateMessage(ctx, room.ID, owner.ID, body)
		req.NoError(err)
		ids = append(ids, m.ID)
	}

	cursor := ids[2]
	page, err := f.svc.FindMessages(ctx, room.ID, owner.ID, HistoryQuery{Limit: lo.ToPtr(10), Offset: 1, Cursor: &cursor})
	req.NoError(err)
	req.Equal([]string{"m2", "m1"}, messageBodies(page))
	req.Equal(0, *page.Pagination.Offset)
}

func TestFindMessages_CursorStableUnderInserts(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)

	owner := testutil.CreateUser(t, f.db, "owner")
	_, room := testutil.CreateEventRooms(t, f.db, owner.ID)
	for _, body := range []string{"m1", "m2", "m3", "m4", "m5"} {
		_, err := f.svc.CreateMessage(ctx, room.ID, owner.ID, body)
		req.NoError(err)
	}

	first, err := f.svc.FindMessages(ctx, room.ID, owner.ID, HistoryQuery{Limit: lo.ToPtr(2)})
	req.NoError(err)
	req.Equal([]string{"m5", "m4"}, messageBodies(first))

	// New messages arrive between page fetches.
	_, err = f.svc.CreateMessage(ctx, room.ID, owner.ID, "m6")
	req.NoError(err)

	second, err := f.svc.FindMessages(ctx, room.ID, owner.ID, HistoryQuery{Limit: lo.ToPtr(2), Cursor: first.Pagination.NextCursor})
	req.NoError(err)
	req.Equal([]string{"m3", "m2"}, messageBodies(second))

	third, err := f.svc.FindMessages(ctx, room.ID, owner.ID, HistoryQuery{Limit: lo.ToPtr(2), Cursor: second.Pagination.NextCursor})
	req.NoError(err)
	req.Equal([]string{"m1"}, messageBodies(third))
	req.False(third.Pagination.HasMore)
}

func TestFindMessages_DateRange(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)

	owner := testutil.CreateUser(t, f.db, "owner")
	_, room := testutil.CreateEventRooms(t, f.db, owner.ID)
	for _, body := range []string{"m1", "m2", "m3", "m4"} {
		_, err := f.svc.CreateMessage(ctx, room.ID, owner.ID, body)
		req.NoError(err)
	}

	// m2 and m3 were sent at base+2s and base+3s; bounds are inclusive.
	start := baseTime.Add(2 * time.Second)
	end := baseTime.Add(3 * time.Second)
	page, err := f.svc.FindMessages(ctx, room.ID, owner.ID, HistoryQuery{StartDate: &start, EndDate: &end})
	req.NoError(err)
	req.Equal([]string{"m3", "m2"}, messageBodies(page))
}

func TestFindMessages_InvalidQuery(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := testutil.CreateUser(t, f.db, "owner")
	room, _ := testutil.CreateEventRooms(t, f.db, owner.ID)

	zero := uint(0)
	start := baseTime.Add(time.Hour)
	end := baseTime

	tests := []struct {
		name  string
		query HistoryQuery
		field string
	}{
		{name: "limit too large", query: HistoryQuery{Limit: lo.ToPtr(MaxPageLimit + 1)}, field: "limit"},
		{name: "zero limit", query: HistoryQuery{Limit: lo.ToPtr(0)}, field: "limit"},
		{name: "negative limit", query: HistoryQuery{Limit: lo.ToPtr(-1)}, field: "limit"},
		{name: "negative offset", query: HistoryQuery{Offset: -1}, field: "offset"},
		{name: "zero cursor", query: HistoryQuery{Cursor: &zero}, field: "cursor"},
		{name: "inverted range", query: HistoryQuery{StartDate: &start, EndDate: &end}, field: "startDate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			_, err := f.svc.FindMessages(ctx, room.ID, owner.ID, tt.query)
			var chatErr *Error
			req.ErrorAs(err, &chatErr)
			req.ErrorIs(err, ErrBadRequest)
			req.Equal(tt.field, chatErr.Field)
		})
	}
}

func TestFindMessages_GuestFallbackNickname(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newFixture(t)

	owner := testutil.CreateUser(t, f.db, "owner")
	u1 := testutil.CreateUser(t, f.db, "u1")
	room, _ := testutil.CreateEventRooms(t, f.db, owner.ID)

	// A message stored without a pseudonym binding.
	req.NoError(f.repos.Messages.Create(ctx, &models.ChatMessage{RoomID: room.ID, SenderID: u1.ID, Body: "legacy", SentAt: baseTime}))

	page, err := f.svc.FindMessages(ctx, room.ID, owner.ID, HistoryQuery{})
	req.NoError(err)
	req.Len(page.Messages, 1)
	req.Equal(SenderView{ID: "anonymous", Nickname: "ゲスト"}, page.Messages[0].Sender)
}
