package wallets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Fuonder/bmadsoffice/internal/cache"
	"github.com/Fuonder/bmadsoffice/internal/listing"
	"github.com/Fuonder/bmadsoffice/internal/models"
	"github.com/Fuonder/bmadsoffice/internal/resource"
	"github.com/Fuonder/bmadsoffice/internal/workflow"
)

func ListingConfig() listing.Config[models.Invoice] {
	return listing.Config[models.Invoice]{
		SearchFields: []listing.Field[models.Invoice]{
			func(i models.Invoice) string { return i.InvoiceNumber },
		},
		Categories: map[string]listing.Category[models.Invoice]{
			models.UserTypeReseller.String(): func(i models.Invoice) bool { return i.UserTypeID == models.UserTypeReseller },
			models.UserTypeCustomer.String(): func(i models.Invoice) bool { return i.UserTypeID == models.UserTypeCustomer },
		},
	}
}

// InvoiceNumber formats the proposal INV<yyyymmdd>-<nnnn> where n follows
// the number of existing invoices.
func InvoiceNumber(now time.Time, existing int) string {
	return fmt.Sprintf("INV%s-%04d", now.Format("20060102"), existing+1)
}

// AddressLookup resolves the deposit address an invoice is paid to.
type AddressLookup interface {
	Get(ctx context.Context, id int) (models.CryptoAddress, error)
	FirstActive(ctx context.Context) (models.CryptoAddress, error)
}

type Service struct {
	repo      InvoiceRepository
	addresses AddressLookup
	list      *resource.Lister[models.Invoice]
	tracker   *resource.Tracker
	now       func() time.Time
}

func NewService(repo InvoiceRepository, addresses AddressLookup, store cache.Store, tracker *resource.Tracker) *Service {
	coll := cache.NewCollection(models.ResourceInvoices, store, repo.ListInvoices)
	return &Service{
		repo:      repo,
		addresses: addresses,
		list:      resource.NewLister(coll, ListingConfig()),
		tracker:   tracker,
		now:       time.Now,
	}
}

func (s *Service) Collection() *cache.Collection[models.Invoice] {
	return s.list.Collection()
}

func (s *Service) List(ctx context.Context, q listing.Query) (listing.Page[models.Invoice], error) {
	return s.list.List(ctx, q)
}

func (s *Service) Get(ctx context.Context, id int) (models.Invoice, error) {
	if id <= 0 {
		return models.Invoice{}, fmt.Errorf("invoice id %d: %w", id, models.ErrInvalidInput)
	}
	return s.repo.GetInvoice(ctx, id)
}

func (s *Service) NextNumber(ctx context.Context, now time.Time) (string, error) {
	all, err := s.list.All(ctx)
	if err != nil {
		return "", err
	}
	return InvoiceNumber(now, len(all)), nil
}

// Draft proposes the number and date of a new invoice and preselects the
// first active deposit address. A missing address leaves the selection empty.
func (s *Service) Draft(ctx context.Context, now time.Time) (InvoiceDraft, error) {
	number, err := s.NextNumber(ctx, now)
	if err != nil {
		return InvoiceDraft{}, err
	}
	d := InvoiceDraft{InvoiceNumber: number, InvoiceDate: models.NewTimestamp(now)}
	addr, err := s.addresses.FirstActive(ctx)
	switch {
	case err == nil:
		d.CryptoAddressID = addr.ID
		d.CryptoNetworkID = addr.NetworkID
		d.Address = addr.Address
		d.NetworkName = addr.NetworkName
		d.NetworkImage = addr.NetworkImage
	case !errors.Is(err, models.ErrNoData):
		return InvoiceDraft{}, err
	}
	return d, nil
}

func (s *Service) Create(ctx context.Context, actor string, inv models.Invoice, doc *models.Upload) (models.Invoice, error) {
	if err := validate(&inv); err != nil {
		return models.Invoice{}, err
	}
	now := s.now()
	if inv.InvoiceDate.IsZero() {
		inv.InvoiceDate = models.NewTimestamp(now)
	}
	if inv.InvoiceNumber == "" {
		number, err := s.NextNumber(ctx, now)
		if err != nil {
			return models.Invoice{}, err
		}
		inv.InvoiceNumber = number
	}
	if inv.InvoiceDocument == "" {
		inv.InvoiceDocument = inv.InvoiceNumber
	}
	if err := s.resolveAddress(ctx, &inv); err != nil {
		return models.Invoice{}, err
	}
	inv.ID = 0
	inv.Status = models.InvoiceStatusPending
	inv.Remarks = ""
	inv.CreatedBy = actor
	created, err := s.repo.CreateInvoice(ctx, inv, doc)
	if err != nil {
		return models.Invoice{}, err
	}
	s.tracker.Mutated(ctx, s.Collection(), models.AuditEntry{
		RecordID: created.ID,
		Action:   resource.ActionCreate,
		ToStatus: created.Status.String(),
		Actor:    actor,
	})
	return created, nil
}

// Update edits the invoice details. The status is only changed through
// ChangeStatus.
func (s *Service) Update(ctx context.Context, actor string, id int, inv models.Invoice, doc *models.Upload) (models.Invoice, error) {
	if id <= 0 {
		return models.Invoice{}, fmt.Errorf("invoice id %d: %w", id, models.ErrInvalidInput)
	}
	if err := validate(&inv); err != nil {
		return models.Invoice{}, err
	}
	current, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return models.Invoice{}, err
	}
	inv.ID = id
	inv.Status = current.Status
	if inv.InvoiceNumber == "" {
		inv.InvoiceNumber = current.InvoiceNumber
	}
	if inv.InvoiceDate.IsZero() {
		inv.InvoiceDate = current.InvoiceDate
	}
	if inv.InvoiceDocument == "" {
		inv.InvoiceDocument = current.InvoiceDocument
	}
	if inv.CryptoAddressID == 0 {
		inv.CryptoAddressID = current.CryptoAddressID
	}
	if err := s.resolveAddress(ctx, &inv); err != nil {
		return models.Invoice{}, err
	}
	inv.Remarks = current.Remarks
	inv.CreatedBy = current.CreatedBy
	inv.CreatedDate = current.CreatedDate
	inv.UpdatedBy = actor
	updated, err := s.repo.UpdateInvoice(ctx, inv, doc)
	if err != nil {
		return models.Invoice{}, err
	}
	s.tracker.Mutated(ctx, s.Collection(), models.AuditEntry{
		RecordID: id,
		Action:   resource.ActionUpdate,
		Actor:    actor,
	})
	return updated, nil
}

// ChangeStatus approves, rejects or reopens an invoice. The remarks rule is
// checked before anything is sent to the remote API.
func (s *Service) ChangeStatus(ctx context.Context, actor string, id int, change models.StatusChange) (models.Invoice, error) {
	if id <= 0 {
		return models.Invoice{}, fmt.Errorf("invoice id %d: %w", id, models.ErrInvalidInput)
	}
	change.Remarks = strings.TrimSpace(change.Remarks)
	if err := workflow.CheckRemarks(change); err != nil {
		return models.Invoice{}, err
	}
	current, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return models.Invoice{}, err
	}
	if err := workflow.ValidateInvoiceChange(current.Status, change); err != nil {
		return models.Invoice{}, err
	}
	change.UpdatedBy = actor
	if err := s.repo.ChangeStatus(ctx, id, change); err != nil {
		return models.Invoice{}, err
	}
	s.tracker.Mutated(ctx, s.Collection(), models.AuditEntry{
		RecordID:   id,
		Action:     resource.ActionStatus,
		FromStatus: current.Status.String(),
		ToStatus:   change.Status.String(),
		Remarks:    change.Remarks,
		Actor:      actor,
	})
	updated := current
	updated.Status = change.Status
	updated.Remarks = change.Remarks
	updated.UpdatedBy = actor
	updated.UpdatedDate = models.NewTimestamp(s.now())
	return updated, nil
}

// resolveAddress fills the address, or the first active one when none is
// chosen, and derives the network from it.
func (s *Service) resolveAddress(ctx context.Context, inv *models.Invoice) error {
	var (
		addr models.CryptoAddress
		err  error
	)
	if inv.CryptoAddressID > 0 {
		addr, err = s.addresses.Get(ctx, inv.CryptoAddressID)
	} else {
		addr, err = s.addresses.FirstActive(ctx)
	}
	if err != nil {
		if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrNoData) {
			return fmt.Errorf("deposit address: %w", models.ErrInvalidInput)
		}
		return err
	}
	inv.CryptoAddressID = addr.ID
	inv.CryptoNetworkID = addr.NetworkID
	return nil
}

func validate(inv *models.Invoice) error {
	inv.TransactionID = strings.TrimSpace(inv.TransactionID)
	inv.InvoiceNumber = strings.TrimSpace(inv.InvoiceNumber)
	switch {
	case !inv.ChargeAmount.IsPositive():
		return fmt.Errorf("charge amount must be positive: %w", models.ErrInvalidInput)
	case inv.TransactionID == "":
		return fmt.Errorf("transaction id is required: %w", models.ErrInvalidInput)
	}
	if inv.UserTypeID == models.UserTypeUnknown {
		inv.UserTypeID = models.UserTypeCustomer
	}
	return nil
}
