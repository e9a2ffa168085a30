package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"meetup/backend/internal/log"
	"meetup/backend/internal/models"
	"meetup/backend/internal/repository"
)

// EventRooms identifies the rooms opened for an event.
type EventRooms struct {
	EventID        uint `json:"eventId"`
	PreJoinRoomID  uint `json:"preJoinChatRoomId"`
	PostJoinRoomID uint `json:"postJoinChatRoomId"`
}

// ProvisionEventRooms records an event owned by ownerID and opens its
// PRE_JOIN and POST_JOIN rooms.
func (s *Service) ProvisionEventRooms(ctx context.Context, ownerID uint, title string) (*EventRooms, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, badRequest("title", "title must not be empty")
	}
	if err := s.requireUser(ctx, ownerID, "owner not found"); err != nil {
		return nil, err
	}

	event := &models.Event{OwnerID: ownerID, Title: title}
	preJoin, postJoin, err := s.repos.Rooms.CreateEventRooms(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("create event rooms: %w", err)
	}

	l := log.Ctx(ctx)
	l.Info().Uint(log.FieldEventID, event.ID).Uint(log.FieldUserID, ownerID).Msg("event rooms provisioned")

	return &EventRooms{
		EventID:        event.ID,
		PreJoinRoomID:  preJoin.ID,
		PostJoinRoomID: postJoin.ID,
	}, nil
}

// AddParticipant confirms userID as a participant of a POST_JOIN room.
// Adding an existing participant is a no-op.
func (s *Service) AddParticipant(ctx context.Context, roomID, userID uint) error {
	rc, err := s.authz.Load(ctx, roomID)
	if err != nil {
		return err
	}
	if rc.Kind != models.RoomKindPostJoin {
		return badRequest("roomId", "participants can only be added to POST_JOIN rooms")
	}
	if err := s.requireUser(ctx, userID, "user not found"); err != nil {
		return err
	}

	if err := s.repos.Rooms.AddParticipant(ctx, roomID, userID); err != nil {
		return fmt.Errorf("add participant %d to room %d: %w", userID, roomID, err)
	}
	s.authz.Invalidate(ctx, roomID)

	l := log.Ctx(ctx)
	l.Info().Uint(log.FieldRoomID, roomID).Uint(log.FieldUserID, userID).Msg("participant added")
	return nil
}

func (s *Service) requireUser(ctx context.Context, userID uint, msg string) error {
	_, err := s.repos.Users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(msg)
	}
	if err != nil {
		return fmt.Errorf("get user %d: %w", userID, err)
	}
	return nil
}
