package models

import (
	"time"

	"github.com/adamscao/userapi/pkg/ident"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// User represents a user record
type User struct {
	ID        ident.ID  `json:"-" db:"id"`
	Name      string    `json:"name" db:"name" validate:"required,min=1,max=100"`
	Email     string    `json:"email" db:"email" validate:"required,email,max=254"`
	BirthDate time.Time `json:"birth_date" db:"birth_date" validate:"required"`
	CreatedAt time.Time `json:"created_at" db:"created_at" validate:"required"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" validate:"required"`
}

// UserInput holds the fields of a new user
type UserInput struct {
	Name      string `json:"name" validate:"required,min=1,max=100"`
	Email     string `json:"email" validate:"required,email,max=254"`
	BirthDate string `json:"birth_date" validate:"required,datetime=2006-01-02"`
}

// UserUpdate is a partial update of a user. Nil fields are left unchanged.
type UserUpdate struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=100"`
	Email     *string `json:"email" validate:"omitempty,email,max=254"`
	BirthDate *string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
}

// IsEmpty reports whether the update changes nothing
func (u UserUpdate) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && u.BirthDate == nil
}

// ParseDate parses a YYYY-MM-DD date as midnight UTC
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
