package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adamscao/userapi/internal/api/response"
	"github.com/adamscao/userapi/internal/audit"
	"github.com/adamscao/userapi/internal/auth"
	"github.com/adamscao/userapi/internal/models"
	"github.com/adamscao/userapi/pkg/ident"
)

// APIKeyService manages API key credentials
type APIKeyService interface {
	Create(ctx context.Context, input models.CreateAPIKeyInput) (string, *models.APIKey, error)
	Get(ctx context.Context, id string) (*models.APIKey, error)
	List(ctx context.Context) ([]*models.APIKey, error)
	Update(ctx context.Context, id string, upd models.APIKeyUpdate) (*models.APIKey, error)
	Delete(ctx context.Context, id string) error
}

// APIKeyHandler handles API key management
type APIKeyHandler struct {
	service APIKeyService
	audit   *audit.Recorder
}

// NewAPIKeyHandler creates a new API key handler
func NewAPIKeyHandler(service APIKeyService, recorder *audit.Recorder) *APIKeyHandler {
	return &APIKeyHandler{
		service: service,
		audit:   recorder,
	}
}

// APIKeyResponse represents a stored API key. It never carries the secret
// or its hash.
type APIKeyResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	LastUsedAt  *time.Time `json:"last_used_at"`
}

// APIKeyCreatedResponse is returned once, at creation
type APIKeyCreatedResponse struct {
	APIKeyResponse
	KeyPreview string `json:"key_preview"`
	Secret     string `json:"secret"`
}

// NewAPIKeyResponse converts a record to its external representation
func NewAPIKeyResponse(key *models.APIKey) APIKeyResponse {
	return APIKeyResponse{
		ID:          ident.Encode(key.ID),
		Name:        key.Name,
		Description: key.Description,
		IsActive:    key.IsActive,
		CreatedAt:   key.CreatedAt,
		LastUsedAt:  key.LastUsedAt,
	}
}

// Create creates a new API key
// POST /api/v1/api-keys
func (h *APIKeyHandler) Create(c *gin.Context) {
	var input models.CreateAPIKeyInput
	if err := bindJSON(c, &input); err != nil {
		response.Error(c, err)
		return
	}

	secret, key, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		recordAudit(c, h.audit, models.ActionAPIKeyCreate, "", err, map[string]any{"name": input.Name})
		response.Error(c, err)
		return
	}

	recordAudit(c, h.audit, models.ActionAPIKeyCreate, ident.Encode(key.ID), nil, map[string]any{"name": key.Name})

	response.JSON(c, http.StatusCreated, APIKeyCreatedResponse{
		APIKeyResponse: NewAPIKeyResponse(key),
		KeyPreview:     auth.KeyPreview(secret),
		Secret:         secret,
	})
}

// List lists all API keys
// GET /api/v1/api-keys
func (h *APIKeyHandler) List(c *gin.Context) {
	keys, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := make([]APIKeyResponse, 0, len(keys))
	for _, key := range keys {
		resp = append(resp, NewAPIKeyResponse(key))
	}

	response.Success(c, resp)
}

// Get returns one API key
// GET /api/v1/api-keys/:id
func (h *APIKeyHandler) Get(c *gin.Context) {
	key, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, NewAPIKeyResponse(key))
}

// Update changes the name, description or active state of an API key
// PUT /api/v1/api-keys/:id
func (h *APIKeyHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var upd models.APIKeyUpdate
	if err := bindJSON(c, &upd); err != nil {
		response.Error(c, err)
		return
	}

	key, err := h.service.Update(c.Request.Context(), id, upd)
	if err != nil {
		recordAudit(c, h.audit, models.ActionAPIKeyUpdate, id, err, nil)
		response.Error(c, err)
		return
	}

	details := map[string]any{}
	if upd.IsActive != nil {
		details["is_active"] = *upd.IsActive
	}
	recordAudit(c, h.audit, models.ActionAPIKeyUpdate, id, nil, details)

	response.Success(c, NewAPIKeyResponse(key))
}

// Delete removes an API key
// DELETE /api/v1/api-keys/:id
func (h *APIKeyHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	err := h.service.Delete(c.Request.Context(), id)
	recordAudit(c, h.audit, models.ActionAPIKeyDelete, id, err, nil)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
