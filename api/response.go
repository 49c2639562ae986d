package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshi-samarth/AirlineManagementSystem/internal/domain"
	"github.com/joshi-samarth/AirlineManagementSystem/internal/logger"
)

// envelope is the body of every JSON response.
type envelope struct {
	Success bool                `json:"success"`
	Data    any                 `json:"data,omitempty"`
	Message string              `json:"message,omitempty"`
	Errors  []domain.FieldError `json:"errors,omitempty"`
	// Available is set when a booking asks for more seats than are left.
	Available *int `json:"availableSeats,omitempty"`
}

func respond(c *gin.Context, status int, data any, message string) {
	c.JSON(status, envelope{Success: true, Data: data, Message: message})
}

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, envelope{Success: false, Message: message})
}

func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindInvalidRequest, domain.KindValidationFailed, domain.KindInsufficientInventory, domain.KindAlreadyCancelled:
		return http.StatusBadRequest
	case domain.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// respondError renders a service error. Internal details are logged, never sent.
func respondError(c *gin.Context, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		de = domain.Internal(err, "unexpected error")
	}
	status := statusFor(de.Kind)
	body := envelope{Success: false, Message: de.Message, Errors: de.Fields}
	switch de.Kind {
	case domain.KindInternal:
		logger.FromContext(c.Request.Context()).WithError(err).Error("request failed")
		body.Message = "internal server error"
	case domain.KindInsufficientInventory:
		available := de.Available
		body.Available = &available
	}
	c.AbortWithStatusJSON(status, body)
}
