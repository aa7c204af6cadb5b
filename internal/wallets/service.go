// Package wallets manages top-up invoices and their approval.
package wallets

import (
	"context"
	"time"

	"github.com/Fuonder/bmadsoffice/internal/listing"
	"github.com/Fuonder/bmadsoffice/internal/models"
)

type InvoiceService interface {
	List(ctx context.Context, q listing.Query) (listing.Page[models.Invoice], error)
	Get(ctx context.Context, id int) (models.Invoice, error)
	NextNumber(ctx context.Context, now time.Time) (string, error)
	Draft(ctx context.Context, now time.Time) (InvoiceDraft, error)
	Create(ctx context.Context, actor string, inv models.Invoice, doc *models.Upload) (models.Invoice, error)
	Update(ctx context.Context, actor string, id int, inv models.Invoice, doc *models.Upload) (models.Invoice, error)
	ChangeStatus(ctx context.Context, actor string, id int, change models.StatusChange) (models.Invoice, error)
}

// InvoiceDraft prefills the create form.
type InvoiceDraft struct {
	InvoiceNumber   string           `json:"invoiceNumber"`
	InvoiceDate     models.Timestamp `json:"invoiceDate"`
	CryptoAddressID int              `json:"cryptoAddressId,omitempty"`
	CryptoNetworkID int              `json:"cryptoNetworkId,omitempty"`
	Address         string           `json:"address,omitempty"`
	NetworkName     string           `json:"cryptoNetworkName,omitempty"`
	NetworkImage    string           `json:"cryptoNetworkImage,omitempty"`
}
