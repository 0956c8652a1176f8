// Package auth mints, stores and verifies API key credentials.
//
// A Manager owns the credential lifecycle and a Verifier guards protected
// operations. Both work against a KeyStore and take external identifiers in
// their canonical string form, decoding them before any store access.
package auth

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/adamscao/userapi/internal/models"
	"github.com/adamscao/userapi/pkg/ident"
)

// KeyStore persists API key records
type KeyStore interface {
	Create(ctx context.Context, key *models.APIKey) error
	GetByID(ctx context.Context, id ident.ID) (*models.APIKey, error)
	GetBySecretHash(ctx context.Context, secretHash string) (*models.APIKey, error)
	List(ctx context.Context) ([]*models.APIKey, error)
	Update(ctx context.Context, id ident.ID, upd models.APIKeyUpdate) (*models.APIKey, error)
	UpdateLastUsed(ctx context.Context, id ident.ID, usedAt time.Time) error
	Delete(ctx context.Context, id ident.ID) error
}

type options struct {
	logger  *zap.Logger
	metrics *Metrics
	now     func() time.Time
}

// Option configures a Manager or Verifier
type Option func(*options)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics sets the metrics recorder
func WithMetrics(metrics *Metrics) Option {
	return func(o *options) {
		o.metrics = metrics
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.metrics == nil {
		o.metrics = nopMetrics()
	}
	return o
}
