// Package networks manages the crypto networks deposit addresses belong to.
package networks

import (
	"context"

	"github.com/Fuonder/bmadsoffice/internal/listing"
	"github.com/Fuonder/bmadsoffice/internal/models"
)

type NetworkService interface {
	List(ctx context.Context, q listing.Query) (listing.Page[models.CryptoNetwork], error)
	Get(ctx context.Context, id int) (models.CryptoNetwork, error)
	Active(ctx context.Context) ([]models.CryptoNetwork, error)
	Create(ctx context.Context, actor string, n models.CryptoNetwork, image *models.Upload) (models.CryptoNetwork, error)
	Update(ctx context.Context, actor string, id int, n models.CryptoNetwork, image *models.Upload) (models.CryptoNetwork, error)
}
