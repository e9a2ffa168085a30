package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"meetup/backend/internal/chat"
	"meetup/backend/internal/log"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
	Field string `json:"field,omitempty" example:"message"`
}

func init() {
	// Report json names instead of Go field names in validation errors.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// respondError writes the status matching a chat error kind. Anything else
// is logged and reported as a 500.
func respondError(c *gin.Context, err error) {
	var chatErr *chat.Error
	if errors.As(err, &chatErr) {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, chat.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, chat.ErrForbidden):
			status = http.StatusForbidden
		case errors.Is(err, chat.ErrBadRequest):
			status = http.StatusBadRequest
		}
		c.JSON(status, ErrorResponse{Error: chatErr.Message, Field: chatErr.Field})
		return
	}

	_ = c.Error(err)
	l := log.Ctx(c.Request.Context())
	l.Error().Err(err).Msg("request failed")
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
}

// respondBindError reports the first invalid field of a request body.
func respondBindError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fe := validationErrs[0]
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: validationMessage(fe),
			Field: fe.Field(),
		})
		return
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: fmt.Sprintf("%s must be a %s", typeErr.Field, typeErr.Type),
			Field: typeErr.Field,
		})
		return
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

func badRequest(field, msg string) error {
	return &chat.Error{Kind: chat.ErrBadRequest, Field: field, Message: msg}
}
