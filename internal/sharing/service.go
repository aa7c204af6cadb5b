// Package sharing tracks whether BM/Ads accounts were shared with the
// customer's business manager.
package sharing

import (
	"context"

	"github.com/Fuonder/bmadsoffice/internal/listing"
	"github.com/Fuonder/bmadsoffice/internal/models"
)

type SharedService interface {
	List(ctx context.Context, q listing.Query) (listing.Page[models.SharedBM], error)
	Get(ctx context.Context, id int) (models.SharedBM, error)
	Update(ctx context.Context, actor string, id int, s models.SharedBM) (models.SharedBM, error)
}
