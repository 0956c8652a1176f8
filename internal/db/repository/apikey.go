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

const apiKeyColumns = `id, name, description, is_active, secret_hash, created_at, last_used_at`

// APIKeyRepository handles API key data access
type APIKeyRepository struct {
	db *sql.DB
}

// NewAPIKeyRepository creates a new API key repository
func NewAPIKeyRepository(db *sql.DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// Create inserts a new API key and assigns its ID
func (r *APIKeyRepository) Create(ctx context.Context, key *models.APIKey) error {
	if key.ID == (ident.ID{}) {
		key.ID = ident.New()
	}
	if key.CreatedAt.IsZero() {
		key.CreatedAt = time.Now().UTC()
	}

	if err := models.Validate(key); err != nil {
		return err
	}

	query := `
		INSERT INTO api_keys (id, name, description, is_active, secret_hash, created_at, last_used_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		key.ID,
		key.Name,
		key.Description,
		key.IsActive,
		key.SecretHash,
		key.CreatedAt,
		key.LastUsedAt,
	)
	if err != nil {
		return apperrors.Store(fmt.Errorf("failed to create api key: %w", err))
	}

	return nil
}

// GetByID retrieves an API key by its ID
func (r *APIKeyRepository) GetByID(ctx context.Context, id ident.ID) (*models.APIKey, error) {
	query := `SELECT ` + apiKeyColumns + ` FROM api_keys WHERE id = ?`

	key, err := scanAPIKey(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("API key")
	}
	if err != nil {
		return nil, wrapScanErr("failed to get api key", err)
	}

	return key, nil
}

// GetBySecretHash retrieves an API key by the hash of its secret
func (r *APIKeyRepository) GetBySecretHash(ctx context.Context, secretHash string) (*models.APIKey, error) {
	query := `SELECT ` + apiKeyColumns + ` FROM api_keys WHERE secret_hash = ?`

	key, err := scanAPIKey(r.db.QueryRowContext(ctx, query, secretHash))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("API key")
	}
	if err != nil {
		return nil, wrapScanErr("failed to get api key by hash", err)
	}

	return key, nil
}

// List lists all API keys, newest first
func (r *APIKeyRepository) List(ctx context.Context) ([]*models.APIKey, error) {
	query := `SELECT ` + apiKeyColumns + ` FROM api_keys ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Store(fmt.Errorf("failed to list api keys: %w", err))
	}
	defer rows.Close()

	keys := []*models.APIKey{}

	for rows.Next() {
		key, err := scanAPIKey(rows)
		if err != nil {
			return nil, wrapScanErr("failed to scan api key", err)
		}
		keys = append(keys, key)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Store(fmt.Errorf("failed to list api keys: %w", err))
	}

	return keys, nil
}

// Update applies a partial update and returns the updated key.
// An empty update returns the current record.
func (r *APIKeyRepository) Update(ctx context.Context, id ident.ID, upd models.APIKeyUpdate) (*models.APIKey, error) {
	if upd.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	var sets []string
	var args []any

	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *upd.Description)
	}
	if upd.IsActive != nil {
		sets = append(sets, "is_active = ?")
		args = append(args, *upd.IsActive)
	}

	query := `UPDATE api_keys SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Store(fmt.Errorf("failed to update api key: %w", err))
	}

	if err := requireAffected(result, "API key"); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

// UpdateLastUsed sets the last_used_at timestamp
func (r *APIKeyRepository) UpdateLastUsed(ctx context.Context, id ident.ID, usedAt time.Time) error {
	query := `
		UPDATE api_keys
		SET last_used_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, usedAt.UTC(), id)
	if err != nil {
		return apperrors.Store(fmt.Errorf("failed to update last used: %w", err))
	}

	return requireAffected(result, "API key")
}

// Delete deletes an API key by ID
func (r *APIKeyRepository) Delete(ctx context.Context, id ident.ID) error {
	query := `DELETE FROM api_keys WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.Store(fmt.Errorf("failed to delete api key: %w", err))
	}

	return requireAffected(result, "API key")
}

// scanAPIKey decodes one row into a typed record and validates it
func scanAPIKey(s scanner) (*models.APIKey, error) {
	key := &models.APIKey{}
	var description sql.NullString
	var lastUsedAt sql.NullTime

	err := s.Scan(
		&key.ID,
		&key.Name,
		&description,
		&key.IsActive,
		&key.SecretHash,
		&key.CreatedAt,
		&lastUsedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		key.Description = &description.String
	}
	if lastUsedAt.Valid {
		t := lastUsedAt.Time.UTC()
		key.LastUsedAt = &t
	}
	key.CreatedAt = key.CreatedAt.UTC()

	if err := models.Validate(key); err != nil {
		return nil, err
	}

	return key, nil
}
