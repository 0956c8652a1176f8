package main

import (
	"bytes"
	"context"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adamscao/userapi/internal/db"
	"github.com/adamscao/userapi/internal/db/repository"
	"github.com/adamscao/userapi/internal/models"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

var idPattern = regexp.MustCompile(`ID:\s+([0-9A-Z]{26})`)

func TestAPIKeyCommands(t *testing.T) {
	t.Setenv("USERAPI_DB_PATH", filepath.Join(t.TempDir(), "admin.db"))

	out, err := execute(t, "apikey", "create", "ci-bot", "--description", "pipeline")
	require.NoError(t, err)
	assert.Contains(t, out, "API key created successfully!")
	assert.Regexp(t, `Secret: [A-Za-z0-9_-]{43}`, out)

	match := idPattern.FindStringSubmatch(out)
	require.Len(t, match, 2)
	id := match[1]

	out, err = execute(t, "apikey", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Total API keys: 1")
	assert.Contains(t, out, id)
	assert.Contains(t, out, "never")

	out, err = execute(t, "apikey", "disable", id)
	require.NoError(t, err)
	assert.Contains(t, out, "is now disabled")

	out, err = execute(t, "apikey", "get", id)
	require.NoError(t, err)
	assert.Contains(t, out, "disabled")

	out, err = execute(t, "apikey", "enable", id)
	require.NoError(t, err)
	assert.Contains(t, out, "is now active")

	_, err = execute(t, "apikey", "get", "not-a-valid-id")
	assert.ErrorContains(t, err, "Invalid API key ID format")

	out, err = execute(t, "apikey", "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "deleted")

	_, err = execute(t, "apikey", "get", id)
	assert.ErrorContains(t, err, "API key not found")

	out, err = execute(t, "apikey", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No API keys found")
}

func TestAuditList_Empty(t *testing.T) {
	t.Setenv("USERAPI_DB_PATH", filepath.Join(t.TempDir(), "admin.db"))

	out, err := execute(t, "audit", "list", "--since", "24h")
	require.NoError(t, err)
	assert.Contains(t, out, "No audit logs found")
}

func TestCreate_RequiresName(t *testing.T) {
	t.Setenv("USERAPI_DB_PATH", filepath.Join(t.TempDir(), "admin.db"))

	_, err := execute(t, "apikey", "create")
	assert.Error(t, err)
}

// seedAuditLogs writes entries into the database at path, each aged by the
// given offset
func seedAuditLogs(t *testing.T, path string, entries map[time.Duration]string) {
	t.Helper()

	ctx := context.Background()
	database, err := db.New(path)
	require.NoError(t, err)
	defer database.Close()
	require.NoError(t, db.RunMigrations(ctx, database))

	repo := repository.NewAuditRepository(database.DB)
	for age, action := range entries {
		require.NoError(t, repo.Create(ctx, &models.AuditLog{
			Timestamp: time.Now().Add(-age),
			Action:    action,
			ClientIP:  "10.0.0.1",
		}))
	}
}

func TestAuditPrune(t *testing.T) {
	path := filepath.Join(t.TempDir(), "admin.db")
	t.Setenv("USERAPI_DB_PATH", path)

	seedAuditLogs(t, path, map[time.Duration]string{
		90 * 24 * time.Hour: models.ActionAuthFailed,
		40 * 24 * time.Hour: models.ActionAuthFailed,
		time.Hour:           models.ActionAPIKeyCreate,
	})

	out, err := execute(t, "audit", "prune", "--older-than", "720h")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted 2 audit log entries")

	out, err = execute(t, "audit", "list")
	require.NoError(t, err)
	assert.Contains(t, out, models.ActionAPIKeyCreate)
	assert.NotContains(t, out, models.ActionAuthFailed)

	out, err = execute(t, "audit", "prune", "--older-than", "720h")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted 0 audit log entries")
}

func TestAuditPrune_RequiresRetention(t *testing.T) {
	t.Setenv("USERAPI_DB_PATH", filepath.Join(t.TempDir(), "admin.db"))

	_, err := execute(t, "audit", "prune")
	assert.ErrorContains(t, err, "older-than")

	_, err = execute(t, "audit", "prune", "--older-than=-1h")
	assert.ErrorContains(t, err, "must be positive")
}

func TestAuditStats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "admin.db")
	t.Setenv("USERAPI_DB_PATH", path)

	seedAuditLogs(t, path, map[time.Duration]string{
		48 * time.Hour:   models.ActionAuthFailed,
		2 * time.Hour:    models.ActionAuthFailed,
		time.Hour:        models.ActionAuthFailed,
		30 * time.Minute: models.ActionUserCreate,
	})

	out, err := execute(t, "audit", "stats")
	require.NoError(t, err)
	assert.Regexp(t, `auth_failed\s+2\n`, out)
	assert.Regexp(t, `user_create\s+1\n`, out)
	assert.Regexp(t, `apikey_delete\s+0\n`, out)

	out, err = execute(t, "audit", "stats", "--since", "72h")
	require.NoError(t, err)
	assert.Regexp(t, `auth_failed\s+3\n`, out)
}
