package sharing

import (
	"context"
	"fmt"
	"strings"

	"github.com/Fuonder/bmadsoffice/internal/cache"
	"github.com/Fuonder/bmadsoffice/internal/listing"
	"github.com/Fuonder/bmadsoffice/internal/models"
	"github.com/Fuonder/bmadsoffice/internal/resource"
	"github.com/Fuonder/bmadsoffice/internal/workflow"
)

func ListingConfig() listing.Config[models.SharedBM] {
	cats := make(map[string]listing.Category[models.SharedBM])
	for _, st := range models.SharedStatuses() {
		cats[st] = func(s models.SharedBM) bool { return s.Status == st }
	}
	return listing.Config[models.SharedBM]{
		SearchFields: []listing.Field[models.SharedBM]{
			func(s models.SharedBM) string { return s.OrderNo },
			func(s models.SharedBM) string { return s.BMName },
		},
		Categories: cats,
	}
}

type Service struct {
	repo    SharedRepository
	list    *resource.Lister[models.SharedBM]
	tracker *resource.Tracker
}

func NewService(repo SharedRepository, store cache.Store, tracker *resource.Tracker) *Service {
	coll := cache.NewCollection(models.ResourceShared, store, repo.ListShared)
	return &Service{
		repo:    repo,
		list:    resource.NewLister(coll, ListingConfig()),
		tracker: tracker,
	}
}

func (s *Service) Collection() *cache.Collection[models.SharedBM] {
	return s.list.Collection()
}

func (s *Service) List(ctx context.Context, q listing.Query) (listing.Page[models.SharedBM], error) {
	return s.list.List(ctx, q)
}

func (s *Service) Get(ctx context.Context, id int) (models.SharedBM, error) {
	if id <= 0 {
		return models.SharedBM{}, fmt.Errorf("shared record id %d: %w", id, models.ErrInvalidInput)
	}
	return s.repo.GetShared(ctx, id)
}

// Update retries or corrects a failed share. Passed shares are final.
func (s *Service) Update(ctx context.Context, actor string, id int, in models.SharedBM) (models.SharedBM, error) {
	if id <= 0 {
		return models.SharedBM{}, fmt.Errorf("shared record id %d: %w", id, models.ErrInvalidInput)
	}
	current, err := s.repo.GetShared(ctx, id)
	if err != nil {
		return models.SharedBM{}, err
	}
	if !workflow.SharedEditable(current.Status) {
		return models.SharedBM{}, fmt.Errorf("shared record %d is %q: %w", id, current.Status, models.ErrNotEditable)
	}
	if in.Status == "" {
		in.Status = current.Status
	}
	if err := workflow.Shared.Validate(current.Status, in.Status); err != nil {
		return models.SharedBM{}, err
	}
	in.ID = id
	in.OrderNo = current.OrderNo
	in.BMName = strings.TrimSpace(in.BMName)
	if in.BMName == "" {
		in.BMName = current.BMName
	}
	in.Remarks = strings.TrimSpace(in.Remarks)
	in.CreatedBy = current.CreatedBy
	in.CreatedDate = current.CreatedDate
	in.UpdatedBy = actor
	updated, err := s.repo.UpdateShared(ctx, in)
	if err != nil {
		return models.SharedBM{}, err
	}
	action := resource.ActionUpdate
	if current.Status != updated.Status {
		action = resource.ActionStatus
	}
	s.tracker.Mutated(ctx, s.Collection(), models.AuditEntry{
		RecordID:   id,
		Action:     action,
		FromStatus: current.Status,
		ToStatus:   updated.Status,
		Remarks:    updated.Remarks,
		Actor:      actor,
	})
	return updated, nil
}
