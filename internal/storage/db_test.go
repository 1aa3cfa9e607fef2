package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/afactura/internal/models"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n == 1
}

func TestOpen_InMemoryRunsMigrations(t *testing.T) {
	db, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"goose_db_version", "clients", "invoices", "audit_logs", "settings"} {
		assert.True(t, tableExists(t, db, table), table)
	}
}

func TestRunMigrations_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "afactura.db")
	ctx := context.Background()

	db, err := Open(ctx, DSN(path))
	require.NoError(t, err)
	require.NoError(t, RunMigrations(ctx, db))
	require.NoError(t, db.Close())

	db, err = Open(ctx, DSN(path))
	require.NoError(t, err)
	defer db.Close()
	assert.True(t, tableExists(t, db, "audit_logs"))
}

func TestRunMigrations_Error(t *testing.T) {
	orig := gooseUp
	t.Cleanup(func() { gooseUp = orig })
	gooseUp = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}

	_, err := Open(context.Background(), ":memory:")
	require.ErrorContains(t, err, "goose up: boom")
}

func TestDSN(t *testing.T) {
	assert.Equal(t, ":memory:", DSN(":memory:"))
	assert.Equal(t, "file:x.db?mode=ro", DSN("file:x.db?mode=ro"))
	assert.Equal(t, "file:data/afactura.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", DSN("data/afactura.db"))
}

func TestNewRepositories_SharesHandle(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	repos := NewRepositories(db)
	require.NoError(t, repos.Clients.Add(ctx, &models.Client{ID: "c1", Name: "Cliente Particular", NIF: "999999999"}))

	n, err := repos.Clients.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
