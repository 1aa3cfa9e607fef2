// Package storage opens the embedded SQLite record store and bundles the
// per-collection repositories.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/afactura/internal/dbx"
	"github.com/dmitrijs2005/afactura/internal/repositories/auditlogs"
	"github.com/dmitrijs2005/afactura/internal/repositories/clients"
	"github.com/dmitrijs2005/afactura/internal/repositories/invoices"
	"github.com/dmitrijs2005/afactura/internal/repositories/settings"
	"github.com/dmitrijs2005/afactura/internal/storage/migrations"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// Repositories groups the four record collections over one DBTX. Build it
// from a *sql.Tx to make several collection operations atomic.
type Repositories struct {
	Invoices invoices.Repository
	Clients  clients.Repository
	Logs     auditlogs.Repository
	Settings settings.Repository
}

func NewRepositories(db dbx.DBTX) *Repositories {
	return &Repositories{
		Invoices: invoices.NewSQLiteRepository(db),
		Clients:  clients.NewSQLiteRepository(db),
		Logs:     auditlogs.NewSQLiteRepository(db),
		Settings: settings.NewSQLiteRepository(db),
	}
}

// gooseUp is a test seam for goose.UpContext.
var gooseUp = goose.UpContext

// RunMigrations applies the embedded migrations. It is idempotent.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUp(ctx, db, "."); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// DSN builds a modernc sqlite DSN for path with a busy timeout and foreign
// keys enabled. ":memory:" is passed through unchanged.
func DSN(path string) string {
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		return path
	}
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
}

// Open opens the database at dsn and migrates it.
//
// The pool is limited to a single connection: the store has one writer,
// and an in-memory database only exists on the connection that created it.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
