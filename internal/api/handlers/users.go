package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adamscao/userapi/internal/api/response"
	"github.com/adamscao/userapi/internal/apperrors"
	"github.com/adamscao/userapi/internal/audit"
	"github.com/adamscao/userapi/internal/models"
	"github.com/adamscao/userapi/pkg/ident"
)

// UserStore persists users
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id ident.ID) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, id ident.ID, upd models.UserUpdate) (*models.User, error)
	Delete(ctx context.Context, id ident.ID) error
}

// UserHandler handles user CRUD
type UserHandler struct {
	store UserStore
	audit *audit.Recorder
}

// NewUserHandler creates a new user handler
func NewUserHandler(store UserStore, recorder *audit.Recorder) *UserHandler {
	return &UserHandler{
		store: store,
		audit: recorder,
	}
}

// UserResponse represents a user
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	BirthDate string    `json:"birth_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUserResponse converts a record to its external representation
func NewUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:        ident.Encode(user.ID),
		Name:      user.Name,
		Email:     user.Email,
		BirthDate: user.BirthDate.Format(models.DateLayout),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// Create creates a new user
// POST /api/v1/users
func (h *UserHandler) Create(c *gin.Context) {
	var input models.UserInput
	if err := bindJSON(c, &input); err != nil {
		response.Error(c, err)
		return
	}

	if err := models.Validate(input); err != nil {
		response.Error(c, err)
		return
	}

	birthDate, err := models.ParseDate(input.BirthDate)
	if err != nil {
		response.Error(c, apperrors.Validation(map[string]string{"birth_date": "must be a date in YYYY-MM-DD format"}))
		return
	}

	user := &models.User{
		Name:      input.Name,
		Email:     input.Email,
		BirthDate: birthDate,
	}

	if err := h.store.Create(c.Request.Context(), user); err != nil {
		recordAudit(c, h.audit, models.ActionUserCreate, "", err, nil)
		response.Error(c, err)
		return
	}

	recordAudit(c, h.audit, models.ActionUserCreate, ident.Encode(user.ID), nil, nil)

	response.JSON(c, http.StatusCreated, NewUserResponse(user))
}

// List lists all users
// GET /api/v1/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.store.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, NewUserResponse(user))
	}

	response.Success(c, resp)
}

// Get returns one user
// GET /api/v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, err := decodeUserID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	user, err := h.store.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, NewUserResponse(user))
}

// Update applies a partial update to a user
// PUT /api/v1/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, err := decodeUserID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	var upd models.UserUpdate
	if err := bindJSON(c, &upd); err != nil {
		response.Error(c, err)
		return
	}

	if err := models.Validate(upd); err != nil {
		response.Error(c, err)
		return
	}

	user, err := h.store.Update(c.Request.Context(), id, upd)
	recordAudit(c, h.audit, models.ActionUserUpdate, c.Param("id"), err, nil)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, NewUserResponse(user))
}

// Delete removes a user
// DELETE /api/v1/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := decodeUserID(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	err = h.store.Delete(c.Request.Context(), id)
	recordAudit(c, h.audit, models.ActionUserDelete, c.Param("id"), err, nil)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

func decodeUserID(id string) (ident.ID, error) {
	nativeID, err := ident.Decode(id)
	if errors.Is(err, ident.ErrInvalidIdentifier) {
		return ident.ID{}, apperrors.InvalidIdentifier("User")
	}
	return nativeID, err
}
