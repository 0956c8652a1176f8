// Package handlers implements the HTTP handlers of the API.
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/adamscao/userapi/internal/api/middleware"
	"github.com/adamscao/userapi/internal/apperrors"
	"github.com/adamscao/userapi/internal/audit"
	"github.com/adamscao/userapi/internal/models"
)

var errInvalidBody = apperrors.BadRequest("Invalid request body")

// bindJSON decodes the request body into v
func bindJSON(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return errInvalidBody
	}
	return nil
}

// recordAudit writes an audit entry for the current request
func recordAudit(c *gin.Context, recorder *audit.Recorder, action, resourceID string, err error, details map[string]any) {
	entry := &models.AuditLog{
		Action:     action,
		Actor:      middleware.Actor(c),
		ResourceID: resourceID,
		ClientIP:   c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		Success:    err == nil,
	}
	if err != nil {
		entry.ErrorMsg = apperrors.From(err).Message
	}
	if len(details) > 0 {
		entry.Details = audit.Details(details)
	}

	recorder.Record(c.Request.Context(), entry)
}
