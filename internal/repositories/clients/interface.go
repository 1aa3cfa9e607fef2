package clients

import (
	"context"

	"github.com/dmitrijs2005/afactura/internal/models"
)

type Repository interface {
	Add(ctx context.Context, c *models.Client) error
	BulkAdd(ctx context.Context, cs []models.Client) error
	Get(ctx context.Context, id string) (*models.Client, error)
	List(ctx context.Context) ([]models.Client, error)
	Search(ctx context.Context, term string) ([]models.Client, error)
	Count(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}
