// Package customers manages reseller and customer accounts.
package customers

import (
	"context"

	"github.com/Fuonder/bmadsoffice/internal/listing"
	"github.com/Fuonder/bmadsoffice/internal/models"
)

type CustomerService interface {
	List(ctx context.Context, q listing.Query) (listing.Page[models.User], error)
	Get(ctx context.Context, id int) (CustomerDetail, error)
	Orders(ctx context.Context, id int, q listing.Query) (listing.Page[models.BMAdsOrder], error)
	Create(ctx context.Context, actor string, u models.User, picture *models.Upload) (models.User, error)
	Update(ctx context.Context, actor string, id int, u models.User, picture *models.Upload) (models.User, error)
}

// CustomerDetail is a user with its resolved picture URL and role label.
type CustomerDetail struct {
	models.User
	Role              string `json:"role"`
	ProfilePictureURL string `json:"profilePictureUrl"`
}
