package invoices

import (
	"context"

	"github.com/dmitrijs2005/afactura/internal/models"
)

type Repository interface {
	Add(ctx context.Context, inv *models.Invoice) error
	BulkAdd(ctx context.Context, invs []models.Invoice) error
	Get(ctx context.Context, id string) (*models.Invoice, error)
	Update(ctx context.Context, inv *models.Invoice) error
	List(ctx context.Context) ([]models.Invoice, error)
	MaxNumber(ctx context.Context, series string) (int, error)
	Clear(ctx context.Context) error
}
