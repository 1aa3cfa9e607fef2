// Package clients persists customers in the "clients" collection.
package clients

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/dmitrijs2005/afactura/internal/common"
	"github.com/dmitrijs2005/afactura/internal/dbx"
	"github.com/dmitrijs2005/afactura/internal/models"
)

const collection = "clients"

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const insertClient = `INSERT INTO clients (id, name, nif, email, phone, address) VALUES (?, ?, ?, ?, ?, ?)`

func (r *SQLiteRepository) Add(ctx context.Context, c *models.Client) error {
	_, err := r.db.ExecContext(ctx, insertClient, c.ID, c.Name, c.NIF, c.Email, c.Phone, c.Address)
	return common.NewStoreError(collection, "add", err)
}

func (r *SQLiteRepository) BulkAdd(ctx context.Context, cs []models.Client) error {
	for i := range cs {
		c := &cs[i]
		if _, err := r.db.ExecContext(ctx, insertClient, c.ID, c.Name, c.NIF, c.Email, c.Phone, c.Address); err != nil {
			return common.NewStoreError(collection, "bulk add", err)
		}
	}
	return nil
}

// Get returns common.ErrNotFound when no client has the given id.
func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.Client, error) {
	var c models.Client
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, nif, email, phone, address FROM clients WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.NIF, &c.Email, &c.Phone, &c.Address)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, common.NewStoreError(collection, "get", err)
	}
	return &c, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Client, error) {
	return r.query(ctx, "list",
		`SELECT id, name, nif, email, phone, address FROM clients ORDER BY name, id`)
}

// Search matches term against the name (ASCII case-insensitive) or the NIF.
func (r *SQLiteRepository) Search(ctx context.Context, term string) ([]models.Client, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return r.List(ctx)
	}
	return r.query(ctx, "search",
		`SELECT id, name, nif, email, phone, address FROM clients
		 WHERE instr(lower(name), lower(?)) > 0 OR instr(nif, ?) > 0
		 ORDER BY name, id`, term, term)
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM clients`).Scan(&n); err != nil {
		return 0, common.NewStoreError(collection, "count", err)
	}
	return n, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM clients`)
	return common.NewStoreError(collection, "clear", err)
}

func (r *SQLiteRepository) query(ctx context.Context, op, q string, args ...any) ([]models.Client, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, common.NewStoreError(collection, op, err)
	}
	defer rows.Close()

	result := make([]models.Client, 0)
	for rows.Next() {
		var c models.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.NIF, &c.Email, &c.Phone, &c.Address); err != nil {
			return nil, common.NewStoreError(collection, op, err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewStoreError(collection, op, err)
	}
	return result, nil
}
