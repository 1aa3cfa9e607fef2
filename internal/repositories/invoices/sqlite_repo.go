package invoices

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/afactura/internal/common"
	"github.com/dmitrijs2005/afactura/internal/dbx"
	"github.com/dmitrijs2005/afactura/internal/models"
)

const collection = "invoices"

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) insert(ctx context.Context, inv *models.Invoice) error {
	doc, err := json.Marshal(inv)
	if err != nil {
		return fmt.Errorf("encode invoice %s: %w", inv.ID, err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO invoices (id, series, number, type, date, client_id, status, doc)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.Series, inv.Number, string(inv.Type),
		models.FormatTimestamp(inv.Date), inv.ClientID, string(inv.Status), string(doc))
	return err
}

func (r *SQLiteRepository) Add(ctx context.Context, inv *models.Invoice) error {
	return common.NewStoreError(collection, "add", r.insert(ctx, inv))
}

func (r *SQLiteRepository) BulkAdd(ctx context.Context, invs []models.Invoice) error {
	for i := range invs {
		if err := r.insert(ctx, &invs[i]); err != nil {
			return common.NewStoreError(collection, "bulk add", err)
		}
	}
	return nil
}

// Get returns common.ErrNotFound when no invoice has the given id.
func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.Invoice, error) {
	var doc string
	err := r.db.QueryRowContext(ctx, `SELECT doc FROM invoices WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, common.NewStoreError(collection, "get", err)
	}

	var inv models.Invoice
	if err := json.Unmarshal([]byte(doc), &inv); err != nil {
		return nil, common.NewStoreError(collection, "get", fmt.Errorf("decode %s: %w", id, err))
	}
	return &inv, nil
}

// Update rewrites an existing invoice. It returns common.ErrNotFound when
// the id is unknown.
func (r *SQLiteRepository) Update(ctx context.Context, inv *models.Invoice) error {
	doc, err := json.Marshal(inv)
	if err != nil {
		return fmt.Errorf("encode invoice %s: %w", inv.ID, err)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE invoices
		SET series = ?, number = ?, type = ?, date = ?, client_id = ?, status = ?, doc = ?
		WHERE id = ?`,
		inv.Series, inv.Number, string(inv.Type), models.FormatTimestamp(inv.Date),
		inv.ClientID, string(inv.Status), string(doc), inv.ID)
	if err != nil {
		return common.NewStoreError(collection, "update", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return common.NewStoreError(collection, "update", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// List returns all invoices, newest number first.
func (r *SQLiteRepository) List(ctx context.Context) ([]models.Invoice, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT doc FROM invoices ORDER BY number DESC, series DESC`)
	if err != nil {
		return nil, common.NewStoreError(collection, "list", err)
	}
	defer rows.Close()

	result := make([]models.Invoice, 0)
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, common.NewStoreError(collection, "list", err)
		}
		var inv models.Invoice
		if err := json.Unmarshal([]byte(doc), &inv); err != nil {
			return nil, common.NewStoreError(collection, "list", err)
		}
		result = append(result, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewStoreError(collection, "list", err)
	}
	return result, nil
}

// MaxNumber returns the highest number used in series, or 0.
func (r *SQLiteRepository) MaxNumber(ctx context.Context, series string) (int, error) {
	var n sql.NullInt64
	err := r.db.QueryRowContext(ctx, `SELECT MAX(number) FROM invoices WHERE series = ?`, series).Scan(&n)
	if err != nil {
		return 0, common.NewStoreError(collection, "read max number of", err)
	}
	return int(n.Int64), nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM invoices`)
	return common.NewStoreError(collection, "clear", err)
}
