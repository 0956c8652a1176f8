package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adamscao/userapi/internal/apperrors"
	"github.com/adamscao/userapi/internal/models"
	"github.com/adamscao/userapi/pkg/ident"
)

const userColumns = `id, name, email, birth_date, created_at, updated_at`

var errEmailTaken = apperrors.Conflict("Email already registered")

// UserRepository handles user data access
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user and assigns its ID
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	user.ID = ident.New()
	user.CreatedAt = now
	user.UpdatedAt = now

	if err := models.Validate(user); err != nil {
		return err
	}

	query := `
		INSERT INTO users (id, name, email, birth_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.BirthDate,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return errEmailTaken
	}
	if err != nil {
		return apperrors.Store(fmt.Errorf("failed to create user: %w", err))
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id ident.ID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("User")
	}
	if err != nil {
		return nil, wrapScanErr("failed to get user", err)
	}

	return user, nil
}

// List lists all users in creation order
func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Store(fmt.Errorf("failed to list users: %w", err))
	}
	defer rows.Close()

	users := []*models.User{}

	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, wrapScanErr("failed to scan user", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Store(fmt.Errorf("failed to list users: %w", err))
	}

	return users, nil
}

// Update applies a partial update and returns the updated user
func (r *UserRepository) Update(ctx context.Context, id ident.ID, upd models.UserUpdate) (*models.User, error) {
	if upd.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	var sets []string
	var args []any

	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *upd.Email)
	}
	if upd.BirthDate != nil {
		birthDate, err := models.ParseDate(*upd.BirthDate)
		if err != nil {
			return nil, apperrors.Validation(map[string]string{"birth_date": "must be a date in YYYY-MM-DD format"})
		}
		sets = append(sets, "birth_date = ?")
		args = append(args, birthDate)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC())

	query := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if isUniqueViolation(err) {
		return nil, errEmailTaken
	}
	if err != nil {
		return nil, apperrors.Store(fmt.Errorf("failed to update user: %w", err))
	}

	if err := requireAffected(result, "User"); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

// Delete deletes a user by ID
func (r *UserRepository) Delete(ctx context.Context, id ident.ID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return apperrors.Store(fmt.Errorf("failed to delete user: %w", err))
	}

	return requireAffected(result, "User")
}

func scanUser(s scanner) (*models.User, error) {
	user := &models.User{}

	err := s.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.BirthDate,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.BirthDate = user.BirthDate.UTC()
	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()

	if err := models.Validate(user); err != nil {
		return nil, err
	}

	return user, nil
}
