package auditlogs

import (
	"context"

	"github.com/dmitrijs2005/afactura/internal/models"
)

// Repository is the append-only log collection. There is no update or
// single-entry delete; Clear exists only for a full restore.
type Repository interface {
	Append(ctx context.Context, entry *models.AuditLog) (int64, error)
	BulkAdd(ctx context.Context, entries []models.AuditLog) error
	List(ctx context.Context) ([]models.AuditLog, error)
	Latest(ctx context.Context, n int) ([]models.AuditLog, error)
	Last(ctx context.Context) (*models.AuditLog, error)
	Count(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}
