// Package orders manages BM/Ads account orders and their approval workflow.
package orders

import (
	"context"
	"time"

	"github.com/Fuonder/bmadsoffice/internal/listing"
	"github.com/Fuonder/bmadsoffice/internal/models"
)

type OrderService interface {
	List(ctx context.Context, q listing.Query) (listing.Page[models.BMAdsOrder], error)
	ForCustomer(ctx context.Context, userID int, q listing.Query) (listing.Page[models.BMAdsOrder], error)
	Get(ctx context.Context, id int) (models.BMAdsOrder, error)
	Create(ctx context.Context, actor string, o models.BMAdsOrder) (models.BMAdsOrder, error)
	Update(ctx context.Context, actor string, id int, o models.BMAdsOrder) (models.BMAdsOrder, error)
	TimeZones(now time.Time) []TimeZoneOption
}

type TimeZoneOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}
