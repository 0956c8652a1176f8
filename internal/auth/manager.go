package auth

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/adamscao/userapi/internal/apperrors"
	"github.com/adamscao/userapi/internal/models"
	"github.com/adamscao/userapi/pkg/ident"
)

const resourceAPIKey = "API key"

// Manager creates and administers API key credentials
type Manager struct {
	store KeyStore
	options
}

// NewManager creates a new credential manager
func NewManager(store KeyStore, opts ...Option) *Manager {
	return &Manager{
		store:   store,
		options: buildOptions(opts),
	}
}

// Create mints a new credential. The returned secret is the only copy of the
// plaintext; the stored record carries its digest.
func (m *Manager) Create(ctx context.Context, input models.CreateAPIKeyInput) (string, *models.APIKey, error) {
	if err := models.Validate(input); err != nil {
		return "", nil, err
	}

	secret, err := GenerateSecret()
	if err != nil {
		return "", nil, err
	}

	key := &models.APIKey{
		Name:        input.Name,
		Description: input.Description,
		IsActive:    true,
		SecretHash:  HashSecret(secret),
		CreatedAt:   m.now().UTC(),
	}

	if err := m.store.Create(ctx, key); err != nil {
		return "", nil, err
	}

	m.metrics.created.Inc()
	m.logger.Info("api key created",
		zap.String("id", ident.Encode(key.ID)),
		zap.String("name", key.Name),
	)

	return secret, key, nil
}

// Get retrieves a credential by external ID
func (m *Manager) Get(ctx context.Context, id string) (*models.APIKey, error) {
	nativeID, err := decodeKeyID(id)
	if err != nil {
		return nil, err
	}

	return m.store.GetByID(ctx, nativeID)
}

// List lists all credentials, newest first
func (m *Manager) List(ctx context.Context) ([]*models.APIKey, error) {
	return m.store.List(ctx)
}

// Update applies a partial update to the mutable fields of a credential
func (m *Manager) Update(ctx context.Context, id string, upd models.APIKeyUpdate) (*models.APIKey, error) {
	nativeID, err := decodeKeyID(id)
	if err != nil {
		return nil, err
	}

	if err := models.Validate(upd); err != nil {
		return nil, err
	}

	key, err := m.store.Update(ctx, nativeID, upd)
	if err != nil {
		return nil, err
	}

	if upd.IsActive != nil {
		m.logger.Info("api key state changed",
			zap.String("id", id),
			zap.Bool("is_active", key.IsActive),
		)
	}

	return key, nil
}

// Delete permanently removes a credential
func (m *Manager) Delete(ctx context.Context, id string) error {
	nativeID, err := decodeKeyID(id)
	if err != nil {
		return err
	}

	if err := m.store.Delete(ctx, nativeID); err != nil {
		return err
	}

	m.logger.Info("api key deleted", zap.String("id", id))
	return nil
}

func decodeKeyID(id string) (ident.ID, error) {
	nativeID, err := ident.Decode(id)
	if errors.Is(err, ident.ErrInvalidIdentifier) {
		return ident.ID{}, apperrors.InvalidIdentifier(resourceAPIKey)
	}
	return nativeID, err
}
