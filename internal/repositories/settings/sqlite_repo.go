// Package settings persists the typed key/value settings collection.
package settings

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/afactura/internal/common"
	"github.com/dmitrijs2005/afactura/internal/dbx"
	"github.com/dmitrijs2005/afactura/internal/models"
)

const collection = "settings"

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Get returns (nil, nil) when the key has never been written.
func (r *SQLiteRepository) Get(ctx context.Context, key models.SettingKey) (*models.Setting, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, string(key)).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, common.NewStoreError(collection, "get", err)
	}

	s, err := models.DecodeSetting(key, []byte(value))
	if err != nil {
		return nil, common.NewStoreError(collection, "get", err)
	}
	return &s, nil
}

// Put inserts or replaces the setting under its key.
func (r *SQLiteRepository) Put(ctx context.Context, s models.Setting) error {
	value, err := s.EncodeValue()
	if err != nil {
		return common.NewStoreError(collection, "put", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, string(s.Key), string(value))
	return common.NewStoreError(collection, "put", err)
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Setting, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, common.NewStoreError(collection, "list", err)
	}
	defer rows.Close()

	result := make([]models.Setting, 0)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, common.NewStoreError(collection, "list", err)
		}
		s, err := models.DecodeSetting(models.SettingKey(key), []byte(value))
		if err != nil {
			return nil, common.NewStoreError(collection, "list", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewStoreError(collection, "list", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM settings`)
	return common.NewStoreError(collection, "clear", err)
}
