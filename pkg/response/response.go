package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/ds-interno/solicitudes-api/pkg/errors"
)

// Envelope represents the common response contract.
type Envelope struct {
	Data    interface{}      `json:"data,omitempty"`
	Error   *appErrors.Error `json:"error,omitempty"`
	Message string           `json:"message,omitempty"`
}

// JSON sends a success response with an optional human-readable message.
func JSON(c *gin.Context, status int, data interface{}, message ...string) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	envelope := Envelope{Data: data}
	if len(message) > 0 && message[0] != "" {
		envelope.Message = message[0]
	}
	c.JSON(status, envelope)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}, message ...string) {
	JSON(c, http.StatusCreated, data, message...)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, Envelope{Error: appErr})
}
