package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// CreateMessageInput carries no binding rules: the chat service checks the
// body after the access check.
type CreateMessageInput struct {
	Message string `json:"message" example:"こんにちは！"`
}

// endregion

// CreateMessage godoc
// @Summary      Post a message to a room
// @Description  Creates a message in a PRE_JOIN or POST_JOIN room. In PRE_JOIN rooms everyone but the event owner is shown under a room pseudonym.
// @Tags         chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        roomId path int true "Room ID"
// @Param        input body CreateMessageInput true "Message"
// @Success      201  {object}  chat.MessageView
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /rooms/{roomId}/messages [post]
func (h *Handler) CreateMessage(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, err := paramID(c, "roomId")
	if err != nil {
		respondError(c, err)
		return
	}

	var input CreateMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	msg, err := h.chat.CreateMessage(c.Request.Context(), roomID, userID, input.Message)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, msg)
}

// FindMessages godoc
// @Summary      Get room history
// @Description  Returns messages newest first. A cursor takes precedence over offset.
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Param        roomId    path  int    true  "Room ID"
// @Param        limit     query int    false "Items per page" default(20)
// @Param        offset    query int    false "Items to skip" default(0)
// @Param        cursor    query int    false "Return messages older than this message ID"
// @Param        startDate query string false "Inclusive lower bound (RFC 3339 or YYYY-MM-DD)"
// @Param        endDate   query string false "Inclusive upper bound (RFC 3339 or YYYY-MM-DD)"
// @Success      200  {object}  chat.HistoryPage
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /rooms/{roomId}/messages [get]
func (h *Handler) FindMessages(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, err := paramID(c, "roomId")
	if err != nil {
		respondError(c, err)
		return
	}
	query, err := parseHistoryQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	page, err := h.chat.FindMessages(c.Request.Context(), roomID, userID, query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// TogglePin godoc
// @Summary      Pin or unpin a message
// @Description  Flips the pinned flag. Only the owner of the message's room may do this.
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Param        messageId path int true "Message ID"
// @Success      200  {object}  chat.MessageView
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /messages/{messageId}/pin [post]
func (h *Handler) TogglePin(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	messageID, err := paramID(c, "messageId")
	if err != nil {
		respondError(c, err)
		return
	}

	msg, err := h.chat.TogglePin(c.Request.Context(), messageID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, msg)
}
