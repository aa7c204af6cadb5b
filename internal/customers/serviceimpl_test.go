package customers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fuonder/bmadsoffice/internal/cache"
	"github.com/Fuonder/bmadsoffice/internal/listing"
	"github.com/Fuonder/bmadsoffice/internal/models"
	"github.com/Fuonder/bmadsoffice/internal/resource"
	"github.com/Fuonder/bmadsoffice/internal/storage/memory"
)

type fakeRepo struct {
	items   []models.User
	created []models.User
}

func (f *fakeRepo) ListUsers(context.Context) ([]models.User, error) {
	return append([]models.User(nil), f.items...), nil
}

func (f *fakeRepo) GetUser(_ context.Context, id int) (models.User, error) {
	for _, u := range f.items {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, models.ErrNotFound
}

func (f *fakeRepo) CreateUser(_ context.Context, u models.User, _ *models.Upload) (models.User, error) {
	u.ID = 12
	f.created = append(f.created, u)
	return u, nil
}

func (f *fakeRepo) UpdateUser(_ context.Context, u models.User, _ *models.Upload) (models.User, error) {
	return u, nil
}

type fakeOrders struct {
	userID int
}

func (f *fakeOrders) ForCustomer(_ context.Context, userID int, q listing.Query) (listing.Page[models.BMAdsOrder], error) {
	f.userID = userID
	return listing.Paginate([]models.BMAdsOrder{{ID: 1, UserManagementID: userID}}, q.Page, 0, q.Mode), nil
}

const assets = "https://assets.example.com/"

func newTestService(repo *fakeRepo, orders OrderHistory) *Service {
	return NewService(repo, orders, assets, cache.NewMemoryStore(0), resource.NewTracker(memory.New(), nil))
}

func TestProfilePictureURL(t *testing.T) {
	assert.Equal(t, "https://assets.example.com/users/a.png", ProfilePictureURL(assets, "/users/a.png"))
	assert.Equal(t, "https://assets.example.com/profile_user.png", ProfilePictureURL(assets, ""))
	assert.Equal(t, "https://cdn.example.com/x.png", ProfilePictureURL(assets, "https://cdn.example.com/x.png"))
	assert.Equal(t, "a.png", ProfilePictureURL("", "a.png"))
}

func TestService_ListSearchesNameAndContact(t *testing.T) {
	repo := &fakeRepo{items: []models.User{
		{ID: 1, AccountName: "Acme Ads", ContactNumber: "+91 555", UserTypeID: models.UserTypeReseller},
		{ID: 2, AccountName: "Blue Media", ContactNumber: "+1 777", UserTypeID: models.UserTypeCustomer},
		{ID: 3, AccountName: "Cobalt", ContactNumber: "+91 999", UserTypeID: models.UserTypeCustomer},
	}}
	s := newTestService(repo, &fakeOrders{})
	ctx := context.Background()

	page, err := s.List(ctx, listing.Query{Term: "+91"})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)

	page, err = s.List(ctx, listing.Query{Term: "+91", Filters: []string{"Customer"}})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 3, page.Items[0].ID)
}

func TestService_ListHidesPasswords(t *testing.T) {
	repo := &fakeRepo{items: []models.User{{ID: 1, AccountName: "Acme", Password: "hunter2"}}}
	store := cache.NewMemoryStore(0)
	s := NewService(repo, &fakeOrders{}, assets, store, resource.NewTracker(memory.New(), nil))

	page, err := s.List(context.Background(), listing.Query{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	body, err := json.Marshal(page.Items)
	require.NoError(t, err)
	assert.NotContains(t, string(body), `"password"`)
	assert.NotContains(t, string(body), "hunter2")

	cached, ok, err := store.Load(context.Background(), string(models.ResourceCustomers))
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotContains(t, string(cached), "hunter2")
}

func TestService_GetResolvesPicture(t *testing.T) {
	repo := &fakeRepo{items: []models.User{{ID: 4, AccountName: "Acme", Password: "secret", UserTypeID: models.UserTypeReseller}}}
	d, err := newTestService(repo, &fakeOrders{}).Get(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "Reseller", d.Role)
	assert.Equal(t, "https://assets.example.com/profile_user.png", d.ProfilePictureURL)
	assert.Empty(t, d.Password)

	_, err = newTestService(repo, &fakeOrders{}).Get(context.Background(), 5)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestService_OrdersDelegates(t *testing.T) {
	orders := &fakeOrders{}
	page, err := newTestService(&fakeRepo{}, orders).Orders(context.Background(), 4, listing.Query{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 4, orders.userID)
	assert.Len(t, page.Items, 1)
}

func TestService_CreateValidation(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestService(repo, &fakeOrders{})
	ctx := context.Background()

	_, err := s.Create(ctx, "admin", models.User{UserID: "u1", UserTypeID: models.UserTypeCustomer}, nil)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	_, err = s.Create(ctx, "admin", models.User{UserID: "u1", AccountName: "A"}, nil)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	_, err = s.Create(ctx, "admin", models.User{AccountName: "A", UserTypeID: models.UserTypeCustomer}, nil)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	bad := models.User{UserID: "u1", AccountName: "A", UserTypeID: models.UserTypeCustomer}
	bad.BaseFee = decimal.NewFromInt(-1)
	_, err = s.Create(ctx, "admin", bad, nil)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	assert.Empty(t, repo.created)

	got, err := s.Create(ctx, "admin", models.User{UserID: "u1", AccountName: " Acme ", UserTypeID: models.UserTypeReseller}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.AccountName)
	assert.Equal(t, "Acme", got.UserName)
	assert.Equal(t, "admin", got.CreatedBy)
}
