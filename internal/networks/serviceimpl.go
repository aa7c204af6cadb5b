package networks

import (
	"context"
	"fmt"
	"strings"

	"github.com/Fuonder/bmadsoffice/internal/cache"
	"github.com/Fuonder/bmadsoffice/internal/listing"
	"github.com/Fuonder/bmadsoffice/internal/models"
	"github.com/Fuonder/bmadsoffice/internal/resource"
)

func ListingConfig() listing.Config[models.CryptoNetwork] {
	return listing.Config[models.CryptoNetwork]{
		SearchFields: []listing.Field[models.CryptoNetwork]{
			func(n models.CryptoNetwork) string { return n.Name },
		},
		Categories: map[string]listing.Category[models.CryptoNetwork]{
			models.ActiveLabel(true):  func(n models.CryptoNetwork) bool { return n.Status },
			models.ActiveLabel(false): func(n models.CryptoNetwork) bool { return !n.Status },
		},
	}
}

type Service struct {
	repo    NetworkRepository
	list    *resource.Lister[models.CryptoNetwork]
	tracker *resource.Tracker
}

func NewService(repo NetworkRepository, store cache.Store, tracker *resource.Tracker) *Service {
	coll := cache.NewCollection(models.ResourceNetworks, store, repo.ListNetworks)
	return &Service{
		repo:    repo,
		list:    resource.NewLister(coll, ListingConfig()),
		tracker: tracker,
	}
}

func (s *Service) Collection() *cache.Collection[models.CryptoNetwork] {
	return s.list.Collection()
}

func (s *Service) List(ctx context.Context, q listing.Query) (listing.Page[models.CryptoNetwork], error) {
	return s.list.List(ctx, q)
}

func (s *Service) Get(ctx context.Context, id int) (models.CryptoNetwork, error) {
	if id <= 0 {
		return models.CryptoNetwork{}, fmt.Errorf("network id %d: %w", id, models.ErrInvalidInput)
	}
	return s.repo.GetNetwork(ctx, id)
}

// Active lists the networks an address may be attached to.
func (s *Service) Active(ctx context.Context) ([]models.CryptoNetwork, error) {
	all, err := s.list.All(ctx)
	if err != nil {
		return nil, err
	}
	return listing.Filter(all, s.list.Config().Categories, []string{models.ActiveLabel(true)}), nil
}

func (s *Service) Create(ctx context.Context, actor string, n models.CryptoNetwork, image *models.Upload) (models.CryptoNetwork, error) {
	if err := normalize(&n); err != nil {
		return models.CryptoNetwork{}, err
	}
	n.ID = 0
	n.CreatedBy = actor
	created, err := s.repo.CreateNetwork(ctx, n, image)
	if err != nil {
		return models.CryptoNetwork{}, err
	}
	s.tracker.Mutated(ctx, s.Collection(), models.AuditEntry{
		RecordID: created.ID,
		Action:   resource.ActionCreate,
		ToStatus: models.ActiveLabel(created.Status),
		Actor:    actor,
	})
	return created, nil
}

func (s *Service) Update(ctx context.Context, actor string, id int, n models.CryptoNetwork, image *models.Upload) (models.CryptoNetwork, error) {
	if id <= 0 {
		return models.CryptoNetwork{}, fmt.Errorf("network id %d: %w", id, models.ErrInvalidInput)
	}
	if err := normalize(&n); err != nil {
		return models.CryptoNetwork{}, err
	}
	current, err := s.repo.GetNetwork(ctx, id)
	if err != nil {
		return models.CryptoNetwork{}, err
	}
	n.ID = id
	n.CreatedBy = current.CreatedBy
	n.CreatedDate = current.CreatedDate
	n.UpdatedBy = actor
	if n.Image == "" && image == nil {
		n.Image = current.Image
	}
	updated, err := s.repo.UpdateNetwork(ctx, n, image)
	if err != nil {
		return models.CryptoNetwork{}, err
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

// normalize trims the name; the description falls back to it.
func normalize(n *models.CryptoNetwork) error {
	n.Name = strings.TrimSpace(n.Name)
	if n.Name == "" {
		return fmt.Errorf("network name is required: %w", models.ErrInvalidInput)
	}
	n.Description = strings.TrimSpace(n.Description)
	if n.Description == "" {
		n.Description = n.Name
	}
	return nil
}
