package orders

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Fuonder/bmadsoffice/internal/cache"
	"github.com/Fuonder/bmadsoffice/internal/listing"
	"github.com/Fuonder/bmadsoffice/internal/models"
	"github.com/Fuonder/bmadsoffice/internal/resource"
	"github.com/Fuonder/bmadsoffice/internal/workflow"
)

func ListingConfig() listing.Config[models.BMAdsOrder] {
	cats := make(map[string]listing.Category[models.BMAdsOrder])
	for _, st := range models.OrderStatuses() {
		cats[st] = func(o models.BMAdsOrder) bool { return o.Status == st }
	}
	return listing.Config[models.BMAdsOrder]{
		SearchFields: []listing.Field[models.BMAdsOrder]{
			func(o models.BMAdsOrder) string { return o.OrderNo },
		},
		Categories: cats,
	}
}

var initialStatuses = []string{models.OrderStatusPending, models.OrderStatusDraft}

type Service struct {
	repo    OrderRepository
	list    *resource.Lister[models.BMAdsOrder]
	tracker *resource.Tracker
}

func NewService(repo OrderRepository, store cache.Store, tracker *resource.Tracker) *Service {
	coll := cache.NewCollection(models.ResourceOrders, store, repo.ListOrders)
	return &Service{
		repo:    repo,
		list:    resource.NewLister(coll, ListingConfig()),
		tracker: tracker,
	}
}

func (s *Service) Collection() *cache.Collection[models.BMAdsOrder] {
	return s.list.Collection()
}

func (s *Service) List(ctx context.Context, q listing.Query) (listing.Page[models.BMAdsOrder], error) {
	return s.list.List(ctx, q)
}

// ForCustomer is the order history of one customer.
func (s *Service) ForCustomer(ctx context.Context, userID int, q listing.Query) (listing.Page[models.BMAdsOrder], error) {
	all, err := s.list.All(ctx)
	if err != nil {
		return listing.Page[models.BMAdsOrder]{}, err
	}
	owned := make([]models.BMAdsOrder, 0)
	for _, o := range all {
		if o.UserManagementID == userID {
			owned = append(owned, o)
		}
	}
	return listing.Apply(s.list.Config(), owned, q), nil
}

func (s *Service) Get(ctx context.Context, id int) (models.BMAdsOrder, error) {
	if id <= 0 {
		return models.BMAdsOrder{}, fmt.Errorf("order id %d: %w", id, models.ErrInvalidInput)
	}
	return s.repo.GetOrder(ctx, id)
}

func (s *Service) TimeZones(now time.Time) []TimeZoneOption {
	return TimeZoneOptions(now)
}

func (s *Service) Create(ctx context.Context, actor string, o models.BMAdsOrder) (models.BMAdsOrder, error) {
	if o.Status == "" {
		o.Status = models.OrderStatusPending
	}
	if !slices.Contains(initialStatuses, o.Status) {
		return models.BMAdsOrder{}, fmt.Errorf("new order status %q: %w", o.Status, models.ErrIllegalTransition)
	}
	o.RedeemedAmount = decimal.Zero
	if err := validate(&o); err != nil {
		return models.BMAdsOrder{}, err
	}
	o.ID = 0
	o.CreatedBy = actor
	o.UpdatedBy = actor
	created, err := s.repo.CreateOrder(ctx, o)
	if err != nil {
		return models.BMAdsOrder{}, err
	}
	s.tracker.Mutated(ctx, s.Collection(), models.AuditEntry{
		RecordID: created.ID,
		Action:   resource.ActionCreate,
		ToStatus: created.Status,
		Actor:    actor,
	})
	return created, nil
}

// Update applies an edit. An empty status keeps the current one; any other
// status must be reachable from the current one.
func (s *Service) Update(ctx context.Context, actor string, id int, o models.BMAdsOrder) (models.BMAdsOrder, error) {
	if id <= 0 {
		return models.BMAdsOrder{}, fmt.Errorf("order id %d: %w", id, models.ErrInvalidInput)
	}
	if err := validate(&o); err != nil {
		return models.BMAdsOrder{}, err
	}
	current, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return models.BMAdsOrder{}, err
	}
	if o.Status == "" {
		o.Status = current.Status
	}
	if err := workflow.Order.Validate(current.Status, o.Status); err != nil {
		return models.BMAdsOrder{}, err
	}
	o.ID = id
	o.CreatedBy = current.CreatedBy
	o.CreatedDate = current.CreatedDate
	o.UpdatedBy = actor
	updated, err := s.repo.UpdateOrder(ctx, o)
	if err != nil {
		return models.BMAdsOrder{}, err
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
		Actor:      actor,
	})
	return updated, nil
}

func validate(o *models.BMAdsOrder) error {
	o.Name = strings.TrimSpace(o.Name)
	o.BMID = strings.TrimSpace(o.BMID)
	o.AccountTimeZone = strings.TrimSpace(o.AccountTimeZone)
	switch {
	case o.UserManagementID <= 0:
		return fmt.Errorf("order customer is required: %w", models.ErrInvalidInput)
	case o.BMID == "":
		return fmt.Errorf("BM id is required: %w", models.ErrInvalidInput)
	case o.NumberOfAccounts < 0 || o.NumberOfPages < 0:
		return fmt.Errorf("account and page counts must not be negative: %w", models.ErrInvalidInput)
	case o.TopUpAmount.IsNegative() || o.RedeemedAmount.IsNegative():
		return fmt.Errorf("amounts must not be negative: %w", models.ErrInvalidInput)
	}
	if o.UserTypeID == models.UserTypeUnknown {
		o.UserTypeID = models.UserTypeCustomer
	}
	return ValidateTimeZone(o.AccountTimeZone)
}
