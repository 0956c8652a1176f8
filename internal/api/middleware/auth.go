package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/adamscao/userapi/internal/api/response"
	"github.com/adamscao/userapi/internal/apperrors"
	"github.com/adamscao/userapi/internal/audit"
	"github.com/adamscao/userapi/internal/models"
	"github.com/adamscao/userapi/pkg/ident"
)

// ContextKeyAPIKey holds the verified *models.APIKey
const ContextKeyAPIKey = "api_key"

// Verifier resolves bearer tokens to credentials
type Verifier interface {
	Verify(ctx context.Context, token string) (*models.APIKey, error)
}

// APIKeyAuth requires a valid "Authorization: Bearer <secret>" header
func APIKeyAuth(verifier Verifier, recorder *audit.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, err := verifier.Verify(c.Request.Context(), BearerToken(c))
		if err != nil {
			if apperrors.IsKind(err, apperrors.KindMissingCredential) || apperrors.IsKind(err, apperrors.KindInvalidCredential) {
				recorder.Record(c.Request.Context(), &models.AuditLog{
					Action:    models.ActionAuthFailed,
					ClientIP:  c.ClientIP(),
					UserAgent: c.Request.UserAgent(),
					ErrorMsg:  apperrors.From(err).Message,
					Details:   audit.Details(map[string]any{"path": c.Request.URL.Path}),
				})
			}
			response.Error(c, err)
			return
		}

		c.Set(ContextKeyAPIKey, key)
		c.Next()
	}
}

// BearerToken extracts the token from the Authorization header. Any other
// scheme yields an empty token.
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}

	return strings.TrimSpace(token)
}

// Actor returns the external ID of the authenticated credential, if any
func Actor(c *gin.Context) string {
	v, ok := c.Get(ContextKeyAPIKey)
	if !ok {
		return ""
	}

	key, ok := v.(*models.APIKey)
	if !ok {
		return ""
	}

	return ident.Encode(key.ID)
}
