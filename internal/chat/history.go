package chat

import (
	"context"
	"fmt"
	"time"

	"meetup/backend/internal/models"
	"meetup/backend/internal/repository"

	"github.com/samber/lo"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// HistoryQuery selects a page of room history. A nil Limit means
// DefaultPageLimit. A non-nil Cursor switches to cursor mode and Offset is
// ignored.
type HistoryQuery struct {
	Limit     *int
	Offset    int
	Cursor    *uint
	StartDate *time.Time
	EndDate   *time.Time
}

// pageQuery is a validated HistoryQuery.
type pageQuery struct {
	limit     int
	offset    int
	cursor    *uint
	startDate *time.Time
	endDate   *time.Time
}

func (q HistoryQuery) normalize() (pageQuery, error) {
	pq := pageQuery{
		limit:     DefaultPageLimit,
		offset:    q.Offset,
		cursor:    q.Cursor,
		startDate: q.StartDate,
		endDate:   q.EndDate,
	}
	if q.Limit != nil {
		pq.limit = *q.Limit
	}
	if pq.limit < 1 || pq.limit > MaxPageLimit {
		return pq, badRequest("limit", fmt.Sprintf("limit must be between 1 and %d", MaxPageLimit))
	}
	if pq.offset < 0 {
		return pq, badRequest("offset", "offset must not be negative")
	}
	if pq.cursor != nil {
		if *pq.cursor == 0 {
			return pq, badRequest("cursor", "cursor must be a message id")
		}
		pq.offset = 0
	}
	if pq.startDate != nil && pq.endDate != nil && pq.startDate.After(*pq.endDate) {
		return pq, badRequest("startDate", "startDate must not be after endDate")
	}
	return pq, nil
}

// FindMessages returns room history newest first, annotated for actorID.
// DM rooms only page by cursor.
func (s *Service) FindMessages(ctx context.Context, roomID, actorID uint, q HistoryQuery) (*HistoryPage, error) {
	pq, err := q.normalize()
	if err != nil {
		return nil, err
	}

	rc, err := s.authz.CheckAccess(ctx, roomID, actorID)
	if err != nil {
		return nil, err
	}
	if rc.Kind == models.RoomKindDM && pq.offset > 0 {
		return nil, badRequest("offset", "direct message history is paged by cursor only")
	}

	mq := repository.MessageQuery{
		RoomID:    roomID,
		Offset:    pq.offset,
		Limit:     pq.limit + 1,
		StartDate: pq.startDate,
		EndDate:   pq.endDate,
	}
	if pq.cursor != nil {
		mq.BeforeID = *pq.cursor
	}

	rows, err := s.repos.Messages.List(ctx, mq)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	names, err := s.pseudonyms(ctx, rc)
	if err != nil {
		return nil, err
	}

	page := buildPage(rows, pq.limit, viewer{rc: rc, actorID: actorID, names: names})
	offset := pq.offset
	page.Pagination.Offset = &offset
	return page, nil
}

// buildPage trims a limit+1 fetch down to limit and derives the cursor.
func buildPage(rows []models.ChatMessage, limit int, v viewer) *HistoryPage {
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}

	page := &HistoryPage{
		Messages: lo.Map(rows, func(m models.ChatMessage, _ int) MessageView {
			return v.view(&m)
		}),
		Pagination: Pagination{
			HasMore: hasMore,
			Limit:   limit,
		},
	}
	if hasMore {
		next := rows[len(rows)-1].ID
		page.Pagination.NextCursor = &next
	}
	return page
}
