package chat

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"meetup/backend/internal/log"
	"meetup/backend/internal/models"
	"meetup/backend/internal/repository"

	"golang.org/x/sync/singleflight"
)

// Authorizer decides whether an actor may use a room. It is the only place
// that branches on the room kind for access.
type Authorizer struct {
	rooms    repository.RoomRepository
	cache    RoomCache
	cacheTTL time.Duration
	sf       singleflight.Group
}

// NewAuthorizer creates an authorizer. cache may be nil.
func NewAuthorizer(rooms repository.RoomRepository, cache RoomCache, cacheTTL time.Duration) *Authorizer {
	return &Authorizer{
		rooms:    rooms,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// CheckAccess returns the room context if actorID may read and write roomID.
func (a *Authorizer) CheckAccess(ctx context.Context, roomID, actorID uint) (*RoomContext, error) {
	rc, err := a.Load(ctx, roomID)
	if err != nil {
		return nil, err
	}

	switch rc.Kind {
	case models.RoomKindPreJoin:
		return rc, nil
	case models.RoomKindPostJoin:
		if rc.IsOwner(actorID) || rc.IsParticipant(actorID) {
			return rc, nil
		}
		return nil, forbidden("you do not have permission to access this chat room")
	case models.RoomKindDM:
		if rc.IsParticipant(actorID) {
			return rc, nil
		}
		return nil, forbidden("you do not have permission to access this chat room")
	default:
		return nil, fmt.Errorf("room %d has unknown kind %q", roomID, rc.Kind)
	}
}

// Load returns the room context without any access decision.
func (a *Authorizer) Load(ctx context.Context, roomID uint) (*RoomContext, error) {
	l := log.Ctx(ctx)

	if a.cache != nil {
		rc, err := a.cache.Get(ctx, roomID)
		if err == nil {
			return rc, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			l.Warn().Err(err).Uint(log.FieldRoomID, roomID).Msg("room cache get error")
		}
	}

	// The shared load must outlive any single caller; each caller still
	// stops waiting when its own context ends.
	loadCtx := context.WithoutCancel(ctx)
	ch := a.sf.DoChan(strconv.FormatUint(uint64(roomID), 10), func() (interface{}, error) {
		room, err := a.rooms.GetByID(loadCtx, roomID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("chat room not found")
		}
		if err != nil {
			return nil, fmt.Errorf("load room %d: %w", roomID, err)
		}
		if !room.Kind.Valid() {
			return nil, fmt.Errorf("room %d has unknown kind %q", roomID, room.Kind)
		}

		rc := newRoomContext(room)
		if a.cache != nil {
			if err := a.cache.Set(loadCtx, rc, a.cacheTTL); err != nil {
				l.Warn().Err(err).Uint(log.FieldRoomID, roomID).Msg("room cache set error")
			}
		}
		return rc, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*RoomContext), nil
	}
}

// Invalidate drops the cached context of roomID.
func (a *Authorizer) Invalidate(ctx context.Context, roomID uint) {
	if a.cache == nil {
		return
	}
	if err := a.cache.Delete(ctx, roomID); err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Uint(log.FieldRoomID, roomID).Msg("room cache delete error")
	}
}
