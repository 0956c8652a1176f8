package models

import (
	"time"

	"github.com/adamscao/userapi/pkg/ident"
)

// APIKey represents a stored API key credential. The plaintext secret is
// never part of this record.
type APIKey struct {
	ID          ident.ID   `json:"-" db:"id"`
	Name        string     `json:"name" db:"name" validate:"required,min=1,max=100"`
	Description *string    `json:"description" db:"description" validate:"omitempty,max=500"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	SecretHash  string     `json:"-" db:"secret_hash" validate:"len=64,hexadecimal"` // Never expose secret hash
	CreatedAt   time.Time  `json:"created_at" db:"created_at" validate:"required"`
	LastUsedAt  *time.Time `json:"last_used_at" db:"last_used_at" validate:"omitempty,gtefield=CreatedAt"`
}

// CreateAPIKeyInput holds the caller-supplied fields for a new API key
type CreateAPIKeyInput struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

// APIKeyUpdate is a partial update of the mutable API key fields.
// Nil fields are left unchanged.
type APIKeyUpdate struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	IsActive    *bool   `json:"is_active"`
}

// IsEmpty reports whether the update changes nothing
func (u APIKeyUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && u.IsActive == nil
}
