package chat

import (
	"context"
	"errors"
	"fmt"

	"meetup/backend/internal/log"
	"meetup/backend/internal/models"
	"meetup/backend/internal/repository"
)

// CreateMessage posts body to roomID as actorID. In PRE_JOIN rooms a
// non-owner sender is shown under their room pseudonym.
func (s *Service) CreateMessage(ctx context.Context, roomID, actorID uint, body string) (*MessageView, error) {
	rc, err := s.authz.CheckAccess(ctx, roomID, actorID)
	if err != nil {
		return nil, err
	}
	if err := validateBody(body, s.maxBodyLength(rc.Kind)); err != nil {
		return nil, err
	}

	var names map[uint]string
	if rc.Kind == models.RoomKindPreJoin && !rc.IsOwner(actorID) {
		name, err := s.names.ResolveDisplayName(ctx, roomID, actorID)
		if err != nil {
			return nil, err
		}
		names = map[uint]string{actorID: name}
	}

	msg := &models.ChatMessage{
		RoomID:   roomID,
		SenderID: actorID,
		Body:     body,
		SentAt:   s.now().UTC(),
	}
	if err := s.repos.Messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	l := log.Ctx(ctx)
	l.Info().
		Uint(log.FieldRoomID, roomID).
		Uint(log.FieldMessageID, msg.ID).
		Str(log.FieldRoomKind, string(rc.Kind)).
		Msg("message created")

	v := viewer{rc: rc, actorID: actorID, names: names}.view(msg)
	return &v, nil
}

// TogglePin flips the pinned flag of a message. Only the owner of the
// message's room may do it, so DM messages can never be pinned.
func (s *Service) TogglePin(ctx context.Context, messageID, actorID uint) (*MessageView, error) {
	msg, err := s.repos.Messages.GetByID(ctx, messageID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("message not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get message %d: %w", messageID, err)
	}

	rc, err := s.authz.Load(ctx, msg.RoomID)
	if err != nil {
		return nil, err
	}
	if !rc.IsOwner(actorID) {
		return nil, forbidden("you do not have permission to pin this message")
	}

	msg.IsPinned = !msg.IsPinned
	if err := s.repos.Messages.SetPinned(ctx, msg.ID, msg.IsPinned); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("message not found")
		}
		return nil, fmt.Errorf("update message %d: %w", messageID, err)
	}

	names, err := s.pseudonyms(ctx, rc)
	if err != nil {
		return nil, err
	}

	l := log.Ctx(ctx)
	l.Info().Uint(log.FieldMessageID, msg.ID).Bool("is_pinned", msg.IsPinned).Msg("message pin toggled")

	v := viewer{rc: rc, actorID: actorID, names: names}.view(msg)
	return &v, nil
}
