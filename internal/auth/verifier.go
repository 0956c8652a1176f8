package auth

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/adamscao/userapi/internal/apperrors"
	"github.com/adamscao/userapi/internal/models"
	"github.com/adamscao/userapi/pkg/ident"
)

// Verifier resolves bearer tokens to active credentials
type Verifier struct {
	store KeyStore
	options
}

// NewVerifier creates a new verifier
func NewVerifier(store KeyStore, opts ...Option) *Verifier {
	return &Verifier{
		store:   store,
		options: buildOptions(opts),
	}
}

// Verify returns the active credential whose secret is token. Unknown and
// inactive credentials both fail with apperrors.ErrInvalidCredential.
//
// On success last_used_at is advanced. A failure to record usage is logged
// and does not fail the verification.
func (v *Verifier) Verify(ctx context.Context, token string) (*models.APIKey, error) {
	if token == "" {
		v.metrics.recordVerification(ResultMissing)
		return nil, apperrors.ErrMissingCredential
	}

	key, err := v.store.GetBySecretHash(ctx, HashSecret(token))
	if errors.Is(err, apperrors.ErrNotFound) {
		v.metrics.recordVerification(ResultInvalid)
		return nil, apperrors.ErrInvalidCredential
	}
	if err != nil {
		v.metrics.recordVerification(ResultError)
		return nil, apperrors.From(err)
	}

	if !SecretMatches(token, key.SecretHash) || !key.IsActive {
		v.metrics.recordVerification(ResultInvalid)
		return nil, apperrors.ErrInvalidCredential
	}

	v.touch(ctx, key)
	v.metrics.recordVerification(ResultSuccess)

	return key, nil
}

// touch records usage, never before the credential was created
func (v *Verifier) touch(ctx context.Context, key *models.APIKey) {
	usedAt := v.now().UTC()
	if usedAt.Before(key.CreatedAt) {
		usedAt = key.CreatedAt
	}

	if err := v.store.UpdateLastUsed(ctx, key.ID, usedAt); err != nil {
		v.metrics.touchFailures.Inc()
		v.logger.Warn("failed to update api key last used",
			zap.String("id", ident.Encode(key.ID)),
			zap.Error(err),
		)
		return
	}

	key.LastUsedAt = &usedAt
}
