// Package auditlogs persists the audit trail in the "logs" collection.
package auditlogs

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/afactura/internal/common"
	"github.com/dmitrijs2005/afactura/internal/dbx"
	"github.com/dmitrijs2005/afactura/internal/models"
)

const collection = "logs"

const selectColumns = `SELECT id, action, username, timestamp, detail, hash FROM audit_logs`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Append inserts entry and returns the id assigned by the store. entry.ID
// is updated as well.
func (r *SQLiteRepository) Append(ctx context.Context, entry *models.AuditLog) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_logs (action, username, timestamp, detail, hash) VALUES (?, ?, ?, ?, ?)`,
		entry.Action, entry.User, models.FormatTimestamp(entry.Timestamp), entry.Detail, entry.Hash)
	if err != nil {
		return 0, common.NewStoreError(collection, "append", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, common.NewStoreError(collection, "append", err)
	}
	entry.ID = id
	return id, nil
}

// BulkAdd inserts entries keeping their ids. Entries with a zero id get one
// assigned by the store.
func (r *SQLiteRepository) BulkAdd(ctx context.Context, entries []models.AuditLog) error {
	for i := range entries {
		e := &entries[i]
		var id any
		if e.ID != 0 {
			id = e.ID
		}
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO audit_logs (id, action, username, timestamp, detail, hash) VALUES (?, ?, ?, ?, ?, ?)`,
			id, e.Action, e.User, models.FormatTimestamp(e.Timestamp), e.Detail, e.Hash)
		if err != nil {
			return common.NewStoreError(collection, "bulk add", err)
		}
	}
	return nil
}

// List returns every entry in insertion order.
func (r *SQLiteRepository) List(ctx context.Context) ([]models.AuditLog, error) {
	return r.query(ctx, "list", selectColumns+` ORDER BY id ASC`)
}

// Latest returns at most n entries, newest first.
func (r *SQLiteRepository) Latest(ctx context.Context, n int) ([]models.AuditLog, error) {
	if n <= 0 {
		return []models.AuditLog{}, nil
	}
	return r.query(ctx, "list latest", selectColumns+` ORDER BY id DESC LIMIT ?`, n)
}

// Last returns the most recent entry, or nil when the log is empty.
func (r *SQLiteRepository) Last(ctx context.Context) (*models.AuditLog, error) {
	var (
		e  models.AuditLog
		ts string
	)
	err := r.db.QueryRowContext(ctx, selectColumns+` ORDER BY id DESC LIMIT 1`).
		Scan(&e.ID, &e.Action, &e.User, &ts, &e.Detail, &e.Hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, common.NewStoreError(collection, "read last of", err)
	}
	if e.Timestamp, err = models.ParseTimestamp(ts); err != nil {
		return nil, common.NewStoreError(collection, "read last of", err)
	}
	return &e, nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_logs`).Scan(&n); err != nil {
		return 0, common.NewStoreError(collection, "count", err)
	}
	return n, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM audit_logs`)
	return common.NewStoreError(collection, "clear", err)
}

func (r *SQLiteRepository) query(ctx context.Context, op, q string, args ...any) ([]models.AuditLog, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, common.NewStoreError(collection, op, err)
	}
	defer rows.Close()

	result := make([]models.AuditLog, 0)
	for rows.Next() {
		var (
			e  models.AuditLog
			ts string
		)
		if err := rows.Scan(&e.ID, &e.Action, &e.User, &ts, &e.Detail, &e.Hash); err != nil {
			return nil, common.NewStoreError(collection, op, err)
		}
		if e.Timestamp, err = models.ParseTimestamp(ts); err != nil {
			return nil, common.NewStoreError(collection, op, err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewStoreError(collection, op, err)
	}
	return result, nil
}
