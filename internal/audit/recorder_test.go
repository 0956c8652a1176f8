package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/adamscao/userapi/internal/db/dbtest"
	"github.com/adamscao/userapi/internal/db/repository"
	"github.com/adamscao/userapi/internal/models"
)

type failingStore struct{}

func (failingStore) Create(context.Context, *models.AuditLog) error {
	return errors.New("database is locked")
}

func TestRecorder_Record(t *testing.T) {
	repo := repository.NewAuditRepository(dbtest.New(t).DB)
	r := NewRecorder(repo, zap.NewNop())
	ctx := context.Background()

	r.Record(ctx, &models.AuditLog{Action: models.ActionAPIKeyCreate, ClientIP: "10.0.0.1", Success: true})

	logs, err := repo.List(ctx, repository.AuditFilter{})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.ActionAPIKeyCreate, logs[0].Action)
	assert.False(t, logs[0].Timestamp.IsZero())
}

func TestRecorder_FailureIsLogged(t *testing.T) {
	core, observed := observer.New(zap.ErrorLevel)
	r := NewRecorder(failingStore{}, zap.New(core))

	r.Record(context.Background(), &models.AuditLog{Action: models.ActionAuthFailed})

	entries := observed.FilterMessage("failed to create audit log").All()
	require.Len(t, entries, 1)
	assert.Equal(t, models.ActionAuthFailed, entries[0].ContextMap()["action"])
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.Record(context.Background(), &models.AuditLog{})
	})

	assert.NotPanics(t, func() {
		NewRecorder(nil, zap.NewNop()).Record(context.Background(), &models.AuditLog{})
	})
}

func TestDetails(t *testing.T) {
	assert.JSONEq(t, `{"path":"/api/v1/users","name":"ci \"bot\""}`, Details(map[string]any{
		"path": "/api/v1/users",
		"name": `ci "bot"`,
	}))
}
