package wallets

import (
	"context"
	"fmt"
	"time"

	"github.com/Fuonder/bmadsoffice/internal/apiclient"
	"github.com/Fuonder/bmadsoffice/internal/models"
	"github.com/Fuonder/bmadsoffice/internal/resource"
)

const (
	invoicesPath = "/Invoices"
	approvePath  = invoicesPath + "/ApproveInvoice"
)

type InvoiceRepository interface {
	ListInvoices(ctx context.Context) ([]models.Invoice, error)
	GetInvoice(ctx context.Context, id int) (models.Invoice, error)
	CreateInvoice(ctx context.Context, inv models.Invoice, doc *models.Upload) (models.Invoice, error)
	UpdateInvoice(ctx context.Context, inv models.Invoice, doc *models.Upload) (models.Invoice, error)
	ChangeStatus(ctx context.Context, id int, change models.StatusChange) error
}

type APIInvoices struct {
	remote resource.Remote
}

func NewAPIInvoices(remote resource.Remote) *APIInvoices {
	return &APIInvoices{remote: remote}
}

func (a *APIInvoices) ListInvoices(ctx context.Context) ([]models.Invoice, error) {
	return resource.FetchNewestFirst[models.Invoice](ctx, a.remote, invoicesPath)
}

func (a *APIInvoices) GetInvoice(ctx context.Context, id int) (models.Invoice, error) {
	var out models.Invoice
	if err := a.remote.Get(ctx, fmt.Sprintf("%s/%d", invoicesPath, id), &out); err != nil {
		return models.Invoice{}, fmt.Errorf("get invoice %d: %w", id, err)
	}
	return out, nil
}

func (a *APIInvoices) CreateInvoice(ctx context.Context, inv models.Invoice, doc *models.Upload) (models.Invoice, error) {
	out := inv
	if err := a.remote.PostForm(ctx, invoicesPath, invoiceForm(inv, doc), &out); err != nil {
		return models.Invoice{}, fmt.Errorf("create invoice: %w", err)
	}
	return out, nil
}

func (a *APIInvoices) UpdateInvoice(ctx context.Context, inv models.Invoice, doc *models.Upload) (models.Invoice, error) {
	out := inv
	if err := a.remote.PutForm(ctx, fmt.Sprintf("%s/%d", invoicesPath, inv.ID), invoiceForm(inv, doc), &out); err != nil {
		return models.Invoice{}, fmt.Errorf("update invoice %d: %w", inv.ID, err)
	}
	return out, nil
}

func (a *APIInvoices) ChangeStatus(ctx context.Context, id int, change models.StatusChange) error {
	if err := a.remote.PutJSON(ctx, fmt.Sprintf("%s/%d", approvePath, id), change, nil); err != nil {
		return fmt.Errorf("change invoice %d status: %w", id, err)
	}
	return nil
}

func invoiceForm(inv models.Invoice, doc *models.Upload) *apiclient.Form {
	return apiclient.NewForm().
		SetInt("Id", inv.ID).
		Set("InvoiceNumber", inv.InvoiceNumber).
		Set("InvoiceDate", inv.InvoiceDate.UTC().Format(time.RFC3339)).
		SetInt("CryptoAddressId", inv.CryptoAddressID).
		SetInt("CryptoNetworkId", inv.CryptoNetworkID).
		SetDecimal("ChargeAmount", inv.ChargeAmount).
		Set("TransactionId", inv.TransactionID).
		Set("InvoiceDocument", inv.InvoiceDocument).
		SetInt("Status", int(inv.Status)).
		SetInt("UserTypeId", int(inv.UserTypeID)).
		SetOptional("Remarks", inv.Remarks).
		SetOptional("CreatedBy", inv.CreatedBy).
		SetOptional("UpdatedBy", inv.UpdatedBy).
		AttachAs("DocFile", doc)
}
