package handler

import (
	"fmt"
	"strconv"
	"time"

	"meetup/backend/internal/chat"

	"github.com/gin-gonic/gin"
)

const dateOnly = "2006-01-02"

// paramID parses a positive numeric path parameter.
func paramID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, badRequest(name, fmt.Sprintf("%s must be a positive integer", name))
	}
	return uint(id), nil
}

func queryInt(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest(name, fmt.Sprintf("%s must be an integer", name))
	}
	return n, nil
}

// queryOptionalInt is queryInt that tells a missing parameter apart from 0.
func queryOptionalInt(c *gin.Context, name string) (*int, error) {
	if c.Query(name) == "" {
		return nil, nil
	}
	n, err := queryInt(c, name)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func queryCursor(c *gin.Context) (*uint, error) {
	raw := c.Query("cursor")
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, badRequest("cursor", "cursor must be a message id")
	}
	cursor := uint(id)
	return &cursor, nil
}

// queryDate accepts RFC 3339 timestamps or plain dates, which mean midnight UTC.
func queryDate(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339Nano, dateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, badRequest(name, fmt.Sprintf("%s must be an ISO 8601 date", name))
}

// parseHistoryQuery reads limit, offset, cursor, startDate and endDate.
// Range checks are left to the chat service.
func parseHistoryQuery(c *gin.Context) (chat.HistoryQuery, error) {
	var q chat.HistoryQuery
	var err error

	if q.Limit, err = queryOptionalInt(c, "limit"); err != nil {
		return q, err
	}
	if q.Offset, err = queryInt(c, "offset"); err != nil {
		return q, err
	}
	if q.Cursor, err = queryCursor(c); err != nil {
		return q, err
	}
	if q.StartDate, err = queryDate(c, "startDate"); err != nil {
		return q, err
	}
	if q.EndDate, err = queryDate(c, "endDate"); err != nil {
		return q, err
	}
	return q, nil
}

func parseDMQuery(c *gin.Context) (chat.DMQuery, error) {
	var q chat.DMQuery
	var err error

	if q.Limit, err = queryOptionalInt(c, "limit"); err != nil {
		return q, err
	}
	if q.Cursor, err = queryCursor(c); err != nil {
		return q, err
	}
	return q, nil
}
