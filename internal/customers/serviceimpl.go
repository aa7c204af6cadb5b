package customers

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Fuonder/bmadsoffice/internal/cache"
	"github.com/Fuonder/bmadsoffice/internal/listing"
	"github.com/Fuonder/bmadsoffice/internal/models"
	"github.com/Fuonder/bmadsoffice/internal/resource"
)

const DefaultAvatarPath = "profile_user.png"

func ListingConfig() listing.Config[models.User] {
	return listing.Config[models.User]{
		SearchFields: []listing.Field[models.User]{
			func(u models.User) string { return u.AccountName },
			func(u models.User) string { return u.ContactNumber },
		},
		Categories: map[string]listing.Category[models.User]{
			models.UserTypeReseller.String(): func(u models.User) bool { return u.UserTypeID == models.UserTypeReseller },
			models.UserTypeCustomer.String(): func(u models.User) bool { return u.UserTypeID == models.UserTypeCustomer },
		},
	}
}

// ProfilePictureURL resolves a stored picture path against the asset host.
// Absolute URLs are kept; an empty path gives the default avatar.
func ProfilePictureURL(assetBase, picture string) string {
	picture = strings.TrimSpace(picture)
	if strings.HasPrefix(picture, "http://") || strings.HasPrefix(picture, "https://") {
		return picture
	}
	if picture == "" {
		picture = DefaultAvatarPath
	}
	if assetBase == "" {
		return picture
	}
	return strings.TrimSuffix(assetBase, "/") + "/" + strings.TrimPrefix(picture, "/")
}

// OrderHistory lists the orders placed for one customer.
type OrderHistory interface {
	ForCustomer(ctx context.Context, userID int, q listing.Query) (listing.Page[models.BMAdsOrder], error)
}

type Service struct {
	repo      CustomerRepository
	orders    OrderHistory
	assetBase string
	list      *resource.Lister[models.User]
	tracker   *resource.Tracker
}

func NewService(repo CustomerRepository, orders OrderHistory, assetBase string, store cache.Store, tracker *resource.Tracker) *Service {
	coll := cache.NewCollection(models.ResourceCustomers, store, func(ctx context.Context) ([]models.User, error) {
		users, err := repo.ListUsers(ctx)
		if err != nil {
			return nil, err
		}
		return withoutPasswords(users), nil
	})
	return &Service{
		repo:      repo,
		orders:    orders,
		assetBase: assetBase,
		list:      resource.NewLister(coll, ListingConfig()),
		tracker:   tracker,
	}
}

func (s *Service) Collection() *cache.Collection[models.User] {
	return s.list.Collection()
}

func (s *Service) List(ctx context.Context, q listing.Query) (listing.Page[models.User], error) {
	return s.list.List(ctx, q)
}

func (s *Service) Get(ctx context.Context, id int) (CustomerDetail, error) {
	if id <= 0 {
		return CustomerDetail{}, fmt.Errorf("user id %d: %w", id, models.ErrInvalidInput)
	}
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return CustomerDetail{}, err
	}
	return s.detail(u), nil
}

func (s *Service) Orders(ctx context.Context, id int, q listing.Query) (listing.Page[models.BMAdsOrder], error) {
	if id <= 0 {
		return listing.Page[models.BMAdsOrder]{}, fmt.Errorf("user id %d: %w", id, models.ErrInvalidInput)
	}
	return s.orders.ForCustomer(ctx, id, q)
}

func (s *Service) Create(ctx context.Context, actor string, u models.User, picture *models.Upload) (models.User, error) {
	if err := validate(&u); err != nil {
		return models.User{}, err
	}
	if strings.TrimSpace(u.UserID) == "" {
		return models.User{}, fmt.Errorf("user id is required: %w", models.ErrInvalidInput)
	}
	u.ID = 0
	u.CreatedBy = actor
	created, err := s.repo.CreateUser(ctx, u, picture)
	if err != nil {
		return models.User{}, err
	}
	s.tracker.Mutated(ctx, s.Collection(), models.AuditEntry{
		RecordID: created.ID,
		Action:   resource.ActionCreate,
		ToStatus: models.ActiveLabel(created.Status),
		Actor:    actor,
	})
	return created, nil
}

func (s *Service) Update(ctx context.Context, actor string, id int, u models.User, picture *models.Upload) (models.User, error) {
	if id <= 0 {
		return models.User{}, fmt.Errorf("user id %d: %w", id, models.ErrInvalidInput)
	}
	if err := validate(&u); err != nil {
		return models.User{}, err
	}
	current, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	u.ID = id
	if u.UserID == "" {
		u.UserID = current.UserID
	}
	if u.ProfilePicture == "" && picture == nil {
		u.ProfilePicture = current.ProfilePicture
	}
	u.CreatedBy = current.CreatedBy
	u.CreatedDate = current.CreatedDate
	u.UpdatedBy = actor
	updated, err := s.repo.UpdateUser(ctx, u, picture)
	if err != nil {
		return models.User{}, err
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

// withoutPasswords clears passwords before a collection is cached or served.
func withoutPasswords(users []models.User) []models.User {
	for i := range users {
		users[i].Password = ""
	}
	return users
}

func (s *Service) detail(u models.User) CustomerDetail {
	u.Password = ""
	return CustomerDetail{
		User:              u,
		Role:              u.Role(),
		ProfilePictureURL: ProfilePictureURL(s.assetBase, u.ProfilePicture),
	}
}

func validate(u *models.User) error {
	u.AccountName = strings.TrimSpace(u.AccountName)
	u.UserName = strings.TrimSpace(u.UserName)
	u.ContactNumber = strings.TrimSpace(u.ContactNumber)
	u.UserID = strings.TrimSpace(u.UserID)
	switch {
	case u.AccountName == "":
		return fmt.Errorf("account name is required: %w", models.ErrInvalidInput)
	case u.UserTypeID != models.UserTypeReseller && u.UserTypeID != models.UserTypeCustomer:
		return fmt.Errorf("user type %d: %w", u.UserTypeID, models.ErrInvalidInput)
	case u.NumberOfAccounts < 0 || u.NumberOfPages < 0 || u.NumberOfFreeAccountsOrCoupons < 0:
		return fmt.Errorf("counts must not be negative: %w", models.ErrInvalidInput)
	}
	for _, fee := range []decimal.Decimal{u.BaseFee, u.Commission, u.AdditionalAccountFees, u.AdditionalPageFees} {
		if fee.IsNegative() {
			return fmt.Errorf("fees must not be negative: %w", models.ErrInvalidInput)
		}
	}
	if u.UserName == "" {
		u.UserName = u.AccountName
	}
	return nil
}
