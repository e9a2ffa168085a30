package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"meetup/backend/internal/log"
	"meetup/backend/internal/models"
	"meetup/backend/internal/repository"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// latestMessageConcurrency bounds the parallel last-message lookups of FindMyDMRooms.
const latestMessageConcurrency = 4

type DMParticipantView struct {
	ID           uint    `json:"id"`
	Nickname     string  `json:"nickname"`
	ProfileImage *string `json:"profileImage,omitempty"`
}

type DMRoomView struct {
	ID           uint                `json:"id"`
	Kind         models.RoomKind     `json:"roomType"`
	CreatedAt    time.Time           `json:"createdAt"`
	Participants []DMParticipantView `json:"participants"`
	LastMessage  *MessageView        `json:"lastMessage"`
}

// DMQuery selects a page of DM history. DMs only support cursor mode.
type DMQuery struct {
	Limit  *int
	Cursor *uint
}

func newDMRoomView(room *models.ChatRoom) *DMRoomView {
	return &DMRoomView{
		ID:        room.ID,
		Kind:      room.Kind,
		CreatedAt: room.CreatedAt,
		Participants: lo.Map(room.Participants, func(u models.User, _ int) DMParticipantView {
			return DMParticipantView{ID: u.ID, Nickname: u.Nickname, ProfileImage: u.ProfileImage}
		}),
	}
}

// FindOrCreateDM returns the DM room of the unordered pair, creating it on
// first use. created reports whether this call created it.
func (s *Service) FindOrCreateDM(ctx context.Context, initiatorID, recipientID uint) (view *DMRoomView, created bool, err error) {
	if recipientID == 0 {
		return nil, false, badRequest("recipientId", "recipientId is required")
	}
	if initiatorID == recipientID {
		return nil, false, badRequest("recipientId", "you cannot create a DM with yourself")
	}

	if _, err := s.repos.Users.GetByID(ctx, recipientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, false, notFound("recipient not found")
		}
		return nil, false, fmt.Errorf("get recipient %d: %w", recipientID, err)
	}

	key := models.DMKeyFor(initiatorID, recipientID)
	room, err := s.repos.Rooms.GetDMByKey(ctx, key)
	if err == nil {
		return newDMRoomView(room), false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, fmt.Errorf("get dm room %s: %w", key, err)
	}

	room, err = s.repos.Rooms.CreateDM(ctx, initiatorID, recipientID)
	if errors.Is(err, repository.ErrDuplicate) {
		// Lost the race against a concurrent create of the same pair.
		room, err = s.repos.Rooms.GetDMByKey(ctx, key)
		if err != nil {
			return nil, false, fmt.Errorf("get dm room %s: %w", key, err)
		}
		return newDMRoomView(room), false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("create dm room %s: %w", key, err)
	}

	l := log.Ctx(ctx)
	l.Info().Uint(log.FieldRoomID, room.ID).Uint(log.FieldUserID, initiatorID).Msg("dm room created")
	return newDMRoomView(room), true, nil
}

// FindMyDMRooms lists the DM rooms of userID, newest room first, each with
// its most recent message.
func (s *Service) FindMyDMRooms(ctx context.Context, userID uint) ([]DMRoomView, error) {
	rooms, err := s.repos.Rooms.ListDMsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list dm rooms: %w", err)
	}

	views := make([]DMRoomView, len(rooms))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(latestMessageConcurrency)
	for i := range rooms {
		room := &rooms[i]
		views[i] = *newDMRoomView(room)
		g.Go(func() error {
			latest, err := s.repos.Messages.Latest(gctx, room.ID)
			if errors.Is(err, repository.ErrNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("latest message of room %d: %w", room.ID, err)
			}
			rc := newRoomContext(room)
			v := viewer{rc: rc, actorID: userID}.view(latest)
			views[i].LastMessage = &v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return views, nil
}

// dmContext resolves a DM room the user takes part in. Anything else is
// reported as not found so the room's existence is not revealed.
func (s *Service) dmContext(ctx context.Context, roomID, userID uint) (*RoomContext, error) {
	rc, err := s.authz.Load(ctx, roomID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if err != nil || rc.Kind != models.RoomKindDM || !rc.IsParticipant(userID) {
		return nil, notFound("DM room not found or you are not a participant")
	}
	return rc, nil
}

// FindDMMessages returns DM history newest first using cursor pagination.
func (s *Service) FindDMMessages(ctx context.Context, roomID, userID uint, q DMQuery) (*HistoryPage, error) {
	pq, err := HistoryQuery{Limit: q.Limit, Cursor: q.Cursor}.normalize()
	if err != nil {
		return nil, err
	}

	rc, err := s.dmContext(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}

	mq := repository.MessageQuery{RoomID: roomID, Limit: pq.limit + 1}
	if pq.cursor != nil {
		mq.BeforeID = *pq.cursor
	}
	rows, err := s.repos.Messages.List(ctx, mq)
	if err != nil {
		return nil, fmt.Errorf("list dm messages: %w", err)
	}

	return buildPage(rows, pq.limit, viewer{rc: rc, actorID: userID}), nil
}

// SendDMMessage posts body to a DM room the user takes part in.
func (s *Service) SendDMMessage(ctx context.Context, roomID, userID uint, body string) (*MessageView, error) {
	rc, err := s.dmContext(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}
	if err := validateBody(body, s.maxBodyLength(rc.Kind)); err != nil {
		return nil, err
	}

	msg := &models.ChatMessage{
		RoomID:   roomID,
		SenderID: userID,
		Body:     body,
		SentAt:   s.now().UTC(),
	}
	if err := s.repos.Messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("create dm message: %w", err)
	}

	l := log.Ctx(ctx)
	l.Info().Uint(log.FieldRoomID, roomID).Uint(log.FieldMessageID, msg.ID).Msg("dm message created")

	v := viewer{rc: rc, actorID: userID}.view(msg)
	return &v, nil
}
