// Package dbtest opens migrated in-memory databases for tests.
package dbtest

import (
	"context"
	"fmt"
	"net/url"
	"testing"

	"github.com/adamscao/userapi/internal/db"
)

// New creates a named shared in-memory SQLite database with the schema
// applied. The name is derived from t.Name() so parallel tests are isolated.
func New(t *testing.T) *db.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", url.PathEscape(t.Name()))

	database, err := db.New(dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := db.RunMigrations(context.Background(), database); err != nil {
		_ = database.Close()
		t.Fatalf("run migrations: %v", err)
	}

	t.Cleanup(func() { _ = database.Close() })

	return database
}
