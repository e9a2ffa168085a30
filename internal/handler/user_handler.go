package handler

import (
	"errors"
	"net/http"

	"meetup/backend/internal/log"
	"meetup/backend/internal/models"
	"meetup/backend/internal/repository"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// PrivateUserResponse defines the structure for the authenticated user's own profile.
type PrivateUserResponse struct {
	ID           uint    `json:"id" example:"1"`
	Nickname     string  `json:"nickname" example:"testuser"`
	Email        string  `json:"email" example:"test@example.com"`
	ProfileImage *string `json:"profileImage,omitempty"`
	Role         string  `json:"role" example:"user"`
}

func newPrivateUserResponse(user *models.User) PrivateUserResponse {
	return PrivateUserResponse{
		ID:           user.ID,
		Nickname:     user.Nickname,
		Email:        user.Email,
		ProfileImage: user.ProfileImage,
		Role:         user.Role,
	}
}

// endregion

// GetMe godoc
// @Summary      Get current user
// @Description  Retrieves the private profile for the currently authenticated user.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  PrivateUserResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User not found"})
			return
		}
		l := log.Ctx(c.Request.Context())
		l.Error().Err(err).Uint(log.FieldUserID, userID).Msg("failed to get user")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to get user"})
		return
	}

	c.JSON(http.StatusOK, newPrivateUserResponse(user))
}
