package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type FindOrCreateDMInput struct {
	RecipientID uint `json:"recipientId" binding:"required" example:"2"`
}

// endregion

// FindOrCreateDM godoc
// @Summary      Open a direct message room
// @Description  Returns the DM room shared with the recipient, creating it on first use.
// @Tags         dms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body FindOrCreateDMInput true "Recipient"
// @Success      200  {object}  chat.DMRoomView "Existing room"
// @Success      201  {object}  chat.DMRoomView "Created room"
// @Failure      400  {object}  ErrorResponse "Cannot DM yourself"
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "Recipient not found"
// @Router       /dms [post]
func (h *Handler) FindOrCreateDM(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input FindOrCreateDMInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	room, created, err := h.chat.FindOrCreateDM(c.Request.Context(), userID, input.RecipientID)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, room)
}

// FindMyDMRooms godoc
// @Summary      List my direct message rooms
// @Description  Lists the caller's DM rooms, newest first, each with its latest message.
// @Tags         dms
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   chat.DMRoomView
// @Failure      401  {object}  ErrorResponse
// @Router       /dms [get]
func (h *Handler) FindMyDMRooms(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	rooms, err := h.chat.FindMyDMRooms(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, rooms)
}

// FindDMMessages godoc
// @Summary      Get DM history
// @Description  Returns DM messages newest first with cursor pagination.
// @Tags         dms
// @Produce      json
// @Security     BearerAuth
// @Param        roomId path  int true  "Room ID"
// @Param        limit  query int false "Items per page" default(20)
// @Param        cursor query int false "Return messages older than this message ID"
// @Success      200  {object}  chat.HistoryPage
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "DM room not found or you are not a participant"
// @Router       /dms/{roomId}/messages [get]
func (h *Handler) FindDMMessages(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	roomID, err := paramID(c, "roomId")
	if err != nil {
		respondError(c, err)
		return
	}
	query, err := parseDMQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	page, err := h.chat.FindDMMessages(c.Request.Context(), roomID, userID, query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// SendDMMessage godoc
// @Summary      Send a direct message
// @Tags         dms
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        roomId path int true "Room ID"
// @Param        input body CreateMessageInput true "Message"
// @Success      201  {object}  chat.MessageView
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse "DM room not found or you are not a participant"
// @Router       /dms/{roomId}/messages [post]
func (h *Handler) SendDMMessage(c *gin.Context) {
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

	msg, err := h.chat.SendDMMessage(c.Request.Context(), roomID, userID, input.Message)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, msg)
}
