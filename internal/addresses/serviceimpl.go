package addresses

import (
	"context"
	"fmt"
	"strings"

	"github.com/Fuonder/bmadsoffice/internal/cache"
	"github.com/Fuonder/bmadsoffice/internal/listing"
	"github.com/Fuonder/bmadsoffice/internal/models"
	"github.com/Fuonder/bmadsoffice/internal/resource"
)

func ListingConfig() listing.Config[models.CryptoAddress] {
	return listing.Config[models.CryptoAddress]{
		SearchFields: []listing.Field[models.CryptoAddress]{
			func(a models.CryptoAddress) string { return a.Address },
			func(a models.CryptoAddress) string { return a.NetworkName },
		},
		Categories: map[string]listing.Category[models.CryptoAddress]{
			models.ActiveLabel(true):  func(a models.CryptoAddress) bool { return a.Status },
			models.ActiveLabel(false): func(a models.CryptoAddress) bool { return !a.Status },
		},
	}
}

// NetworkLookup resolves the networks an address may reference.
type NetworkLookup interface {
	Active(ctx context.Context) ([]models.CryptoNetwork, error)
}

type Service struct {
	repo     AddressRepository
	networks NetworkLookup
	list     *resource.Lister[models.CryptoAddress]
	tracker  *resource.Tracker
}

func NewService(repo AddressRepository, networks NetworkLookup, store cache.Store, tracker *resource.Tracker) *Service {
	coll := cache.NewCollection(models.ResourceAddresses, store, repo.ListAddresses)
	return &Service{
		repo:     repo,
		networks: networks,
		list:     resource.NewLister(coll, ListingConfig()),
		tracker:  tracker,
	}
}

func (s *Service) Collection() *cache.Collection[models.CryptoAddress] {
	return s.list.Collection()
}

func (s *Service) List(ctx context.Context, q listing.Query) (listing.Page[models.CryptoAddress], error) {
	return s.list.List(ctx, q)
}

func (s *Service) Get(ctx context.Context, id int) (models.CryptoAddress, error) {
	if id <= 0 {
		return models.CryptoAddress{}, fmt.Errorf("address id %d: %w", id, models.ErrInvalidInput)
	}
	return s.repo.GetAddress(ctx, id)
}

// FirstActive is the address new invoices are preselected with.
func (s *Service) FirstActive(ctx context.Context) (models.CryptoAddress, error) {
	all, err := s.list.All(ctx)
	if err != nil {
		return models.CryptoAddress{}, err
	}
	for _, a := range all {
		if a.Status {
			return a, nil
		}
	}
	return models.CryptoAddress{}, fmt.Errorf("active deposit address: %w", models.ErrNoData)
}

func (s *Service) Create(ctx context.Context, actor string, a models.CryptoAddress) (models.CryptoAddress, error) {
	if err := s.validate(ctx, &a); err != nil {
		return models.CryptoAddress{}, err
	}
	a.ID = 0
	a.CreatedBy = actor
	created, err := s.repo.CreateAddress(ctx, a)
	if err != nil {
		return models.CryptoAddress{}, err
	}
	s.tracker.Mutated(ctx, s.Collection(), models.AuditEntry{
		RecordID: created.ID,
		Action:   resource.ActionCreate,
		ToStatus: models.ActiveLabel(created.Status),
		Actor:    actor,
	})
	return created, nil
}

func (s *Service) Update(ctx context.Context, actor string, id int, a models.CryptoAddress) (models.CryptoAddress, error) {
	if id <= 0 {
		return models.CryptoAddress{}, fmt.Errorf("address id %d: %w", id, models.ErrInvalidInput)
	}
	if err := s.validate(ctx, &a); err != nil {
		return models.CryptoAddress{}, err
	}
	current, err := s.repo.GetAddress(ctx, id)
	if err != nil {
		return models.CryptoAddress{}, err
	}
	a.ID = id
	a.CreatedBy = current.CreatedBy
	a.CreatedDate = current.CreatedDate
	a.UpdatedBy = actor
	updated, err := s.repo.UpdateAddress(ctx, a)
	if err != nil {
		return models.CryptoAddress{}, err
	}
	s.tracker.Mutated(ctx, s.Collection(), models.AuditEntry{
		RecordID:   id,
		Action:     resource.ActionUpdate,
		FromStatus: models.ActiveLabel(current.Status),
		ToStatus:   models.ActiveLabel(updated.Status),
		Actor:      actor,
	})
	return updated, nil
}

func (s *Service) validate(ctx context.Context, a *models.CryptoAddress) error {
	a.Address = strings.TrimSpace(a.Address)
	if a.Address == "" {
		return fmt.Errorf("address field cannot be empty: %w", models.ErrInvalidInput)
	}
	if a.NetworkID <= 0 {
		return fmt.Errorf("please select a network: %w", models.ErrInvalidInput)
	}
	if s.networks == nil {
		return nil
	}
	nets, err := s.networks.Active(ctx)
	if err != nil {
		return err
	}
	for _, n := range nets {
		if n.ID == a.NetworkID {
			a.NetworkName = n.Name
			a.NetworkImage = n.Image
			return nil
		}
	}
	return fmt.Errorf("network %d is not active: %w", a.NetworkID, models.ErrInvalidInput)
}
