// Package response writes JSON responses and maps application errors onto
// HTTP status codes.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adamscao/userapi/internal/apperrors"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Error sends the response for err and aborts the handler chain. Causes of
// server errors are attached to the gin context for the access log and are
// never written to the client.
func Error(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	status := appErr.Status()

	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}

	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:   string(appErr.Kind),
		Message: appErr.Message,
		Details: appErr.Details,
	})
}

// JSON sends data with the given status
func JSON(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Success sends data with 200 OK
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// NoContent sends 204 No Content
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
