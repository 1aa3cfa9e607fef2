package settings

import (
	"context"

	"github.com/dmitrijs2005/afactura/internal/models"
)

type Repository interface {
	Get(ctx context.Context, key models.SettingKey) (*models.Setting, error)
	Put(ctx context.Context, s models.Setting) error
	List(ctx context.Context) ([]models.Setting, error)
	Clear(ctx context.Context) error
}
