// Package addresses manages the deposit addresses customers pay invoices to.
package addresses

import (
	"context"

	"github.com/Fuonder/bmadsoffice/internal/listing"
	"github.com/Fuonder/bmadsoffice/internal/models"
)

type AddressService interface {
	List(ctx context.Context, q listing.Query) (listing.Page[models.CryptoAddress], error)
	Get(ctx context.Context, id int) (models.CryptoAddress, error)
	FirstActive(ctx context.Context) (models.CryptoAddress, error)
	Create(ctx context.Context, actor string, a models.CryptoAddress) (models.CryptoAddress, error)
	Update(ctx context.Context, actor string, id int, a models.CryptoAddress) (models.CryptoAddress, error)
}
