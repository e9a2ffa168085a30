package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

type ProvisionEventInput struct {
	OwnerID uint   `json:"ownerId" binding:"required" example:"1"`
	Title   string `json:"title" binding:"required,max=255" example:"Go meetup #12"`
}

type AddParticipantInput struct {
	UserID uint `json:"userId" binding:"required" example:"3"`
}

// endregion

// ProvisionEventRooms godoc
// @Summary      Open the chat rooms of an event
// @Description  Records the event owner and creates its PRE_JOIN and POST_JOIN rooms. Called by the event service.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body ProvisionEventInput true "Event"
// @Success      201  {object}  chat.EventRooms
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      404  {object}  ErrorResponse "Owner not found"
// @Router       /admin/events [post]
func (h *Handler) ProvisionEventRooms(c *gin.Context) {
	var input ProvisionEventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	rooms, err := h.chat.ProvisionEventRooms(c.Request.Context(), input.OwnerID, input.Title)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, rooms)
}

// AddParticipant godoc
// @Summary      Confirm an event participant
// @Description  Grants a user access to a POST_JOIN room. Adding an existing participant is a no-op.
// @Tags         admin
// @Accept       json
// @Security     BearerAuth
// @Param        roomId path int true "POST_JOIN room ID"
// @Param        input body AddParticipantInput true "Participant"
// @Success      204
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Failure      404  {object}  ErrorResponse
// @Router       /admin/rooms/{roomId}/participants [post]
func (h *Handler) AddParticipant(c *gin.Context) {
	roomID, err := paramID(c, "roomId")
	if err != nil {
		respondError(c, err)
		return
	}

	var input AddParticipantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.chat.AddParticipant(c.Request.Context(), roomID, input.UserID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
