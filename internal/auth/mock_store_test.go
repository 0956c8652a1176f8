package auth

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/adamscao/userapi/internal/models"
	"github.com/adamscao/userapi/pkg/ident"
)

type mockKeyStore struct {
	mock.Mock
}

func (m *mockKeyStore) Create(ctx context.Context, key *models.APIKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *mockKeyStore) GetByID(ctx context.Context, id ident.ID) (*models.APIKey, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.APIKey), args.Error(1)
}

func (m *mockKeyStore) GetBySecretHash(ctx context.Context, secretHash string) (*models.APIKey, error) {
	args := m.Called(ctx, secretHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.APIKey), args.Error(1)
}

func (m *mockKeyStore) List(ctx context.Context) ([]*models.APIKey, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.APIKey), args.Error(1)
}

func (m *mockKeyStore) Update(ctx context.Context, id ident.ID, upd models.APIKeyUpdate) (*models.APIKey, error) {
	args := m.Called(ctx, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.APIKey), args.Error(1)
}

func (m *mockKeyStore) UpdateLastUsed(ctx context.Context, id ident.ID, usedAt time.Time) error {
	args := m.Called(ctx, id, usedAt)
	return args.Error(0)
}

func (m *mockKeyStore) Delete(ctx context.Context, id ident.ID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
