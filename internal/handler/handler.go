package handler

import (
	"net/http"

	"meetup/backend/internal/auth"
	"meetup/backend/internal/chat"
	"meetup/backend/internal/repository"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler serves the chat HTTP API.
type Handler struct {
	chat      *chat.Service
	users     repository.UserRepository
	jwtSecret string
}

// NewHandler creates a new HTTP handler.
func NewHandler(chatService *chat.Service, users repository.UserRepository, jwtSecret string) *Handler {
	return &Handler{
		chat:      chatService,
		users:     users,
		jwtSecret: jwtSecret,
	}
}

// RegisterRoutes registers all routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	// Swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	apiV1 := r.Group("/api/v1")
	apiV1.Use(auth.AuthMiddleware(h.jwtSecret))
	{
		apiV1.GET("/users/me", h.GetMe)

		rooms := apiV1.Group("/rooms")
		{
			rooms.POST("/:roomId/messages", h.CreateMessage)
			rooms.GET("/:roomId/messages", h.FindMessages)
		}

		apiV1.POST("/messages/:messageId/pin", h.TogglePin)

		dms := apiV1.Group("/dms")
		{
			dms.POST("", h.FindOrCreateDM)
			dms.GET("", h.FindMyDMRooms)
			dms.GET("/:roomId/messages", h.FindDMMessages)
			dms.POST("/:roomId/messages", h.SendDMMessage)
		}

		// Admin routes (protected by auth and admin check)
		admin := apiV1.Group("/admin")
		admin.Use(auth.AdminMiddleware(h.users))
		{
			admin.POST("/events", h.ProvisionEventRooms)
			admin.POST("/rooms/:roomId/participants", h.AddParticipant)
		}
	}
}

// currentUser returns the authenticated user, aborting with 401 when absent.
func currentUser(c *gin.Context) (uint, bool) {
	userID, ok := auth.CurrentUserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
	}
	return userID, ok
}
