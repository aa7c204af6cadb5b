package orders

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fuonder/bmadsoffice/internal/cache"
	"github.com/Fuonder/bmadsoffice/internal/listing"
	"github.com/Fuonder/bmadsoffice/internal/models"
	"github.com/Fuonder/bmadsoffice/internal/resource"
	"github.com/Fuonder/bmadsoffice/internal/storage"
	"github.com/Fuonder/bmadsoffice/internal/storage/memory"
)

type fakeRepo struct {
	items   []models.BMAdsOrder
	created []models.BMAdsOrder
	updated []models.BMAdsOrder
}

func (f *fakeRepo) ListOrders(context.Context) ([]models.BMAdsOrder, error) {
	return append([]models.BMAdsOrder(nil), f.items...), nil
}

func (f *fakeRepo) GetOrder(_ context.Context, id int) (models.BMAdsOrder, error) {
	for _, o := range f.items {
		if o.ID == id {
			return o, nil
		}
	}
	return models.BMAdsOrder{}, models.ErrNotFound
}

func (f *fakeRepo) CreateOrder(_ context.Context, o models.BMAdsOrder) (models.BMAdsOrder, error) {
	o.ID = 900
	f.created = append(f.created, o)
	return o, nil
}

func (f *fakeRepo) UpdateOrder(_ context.Context, o models.BMAdsOrder) (models.BMAdsOrder, error) {
	f.updated = append(f.updated, o)
	return o, nil
}

func newTestService(repo *fakeRepo) (*Service, *memory.Storage) {
	audit := memory.New()
	return NewService(repo, cache.NewMemoryStore(0), resource.NewTracker(audit, nil)), audit
}

func validOrder() models.BMAdsOrder {
	return models.BMAdsOrder{
		UserManagementID: 4,
		Name:             "Campaign",
		BMID:             "BM-1",
		NumberOfAccounts: 2,
		AccountTimeZone:  "Asia/Kolkata",
		TopUpAmount:      decimal.RequireFromString("150.50"),
		RedeemedAmount:   decimal.NewFromInt(20),
	}
}

func TestService_SearchOrderNumberCaseInsensitive(t *testing.T) {
	repo := &fakeRepo{items: []models.BMAdsOrder{
		{ID: 1, OrderNo: "ORD-001", Status: models.OrderStatusPending},
		{ID: 2, OrderNo: "ord-002", Status: models.OrderStatusDone},
		{ID: 3, OrderNo: "INV-9", Status: models.OrderStatusPending},
	}}
	s, _ := newTestService(repo)

	page, err := s.List(context.Background(), listing.Query{Term: "ORD"})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)

	page, err = s.List(context.Background(), listing.Query{Filters: []string{models.OrderStatusDone, models.OrderStatusRejected}})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 2, page.Items[0].ID)
}

func TestService_ForCustomer(t *testing.T) {
	repo := &fakeRepo{items: []models.BMAdsOrder{
		{ID: 1, UserManagementID: 4},
		{ID: 2, UserManagementID: 5},
		{ID: 3, UserManagementID: 4},
	}}
	s, _ := newTestService(repo)
	page, err := s.ForCustomer(context.Background(), 4, listing.Query{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, 1, page.Items[0].ID)
	assert.Equal(t, 3, page.Items[1].ID)
}

func TestService_CreateDefaults(t *testing.T) {
	repo := &fakeRepo{}
	s, _ := newTestService(repo)

	got, err := s.Create(context.Background(), "admin", validOrder())
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, got.Status)
	assert.True(t, got.RedeemedAmount.IsZero())
	assert.Equal(t, models.UserTypeCustomer, got.UserTypeID)
	assert.Equal(t, "admin", got.CreatedBy)
}

func TestService_CreateRejectsBadInput(t *testing.T) {
	repo := &fakeRepo{}
	s, _ := newTestService(repo)
	ctx := context.Background()

	o := validOrder()
	o.AccountTimeZone = "Mars/Olympus"
	_, err := s.Create(ctx, "admin", o)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	o = validOrder()
	o.BMID = " "
	_, err = s.Create(ctx, "admin", o)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	o = validOrder()
	o.Status = models.OrderStatusDone
	_, err = s.Create(ctx, "admin", o)
	assert.ErrorIs(t, err, models.ErrIllegalTransition)

	assert.Empty(t, repo.created)
}

func TestService_UpdateFollowsWorkflow(t *testing.T) {
	existing := validOrder()
	existing.ID = 7
	existing.Status = models.OrderStatusPending
	existing.CreatedBy = "root"
	repo := &fakeRepo{items: []models.BMAdsOrder{existing}}
	s, audit := newTestService(repo)
	ctx := context.Background()

	edit := validOrder()
	edit.Status = models.OrderStatusDone
	_, err := s.Update(ctx, "admin", 7, edit)
	assert.ErrorIs(t, err, models.ErrIllegalTransition)
	assert.Empty(t, repo.updated)

	edit.Status = ""
	got, err := s.Update(ctx, "admin", 7, edit)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, got.Status)
	assert.Equal(t, "root", got.CreatedBy)

	edit.Status = models.OrderStatusProcessing
	got, err = s.Update(ctx, "admin", 7, edit)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, got.Status)

	entries, err := audit.ListAudit(ctx, storage.AuditFilter{Resource: models.ResourceOrders, RecordID: 7})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, resource.ActionStatus, entries[0].Action)
	assert.Equal(t, models.OrderStatusPending, entries[0].FromStatus)
}

func TestTimeZoneOptions(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	opts := TimeZoneOptions(now)
	require.Len(t, opts, 5)
	assert.Equal(t, "Asia/Kolkata", opts[0].Value)
	assert.Equal(t, "Asia/India (05:30 PM)", opts[0].Label)
	assert.True(t, strings.HasPrefix(opts[3].Label, "UK/London (12:00 PM"))
}

func TestValidateTimeZone(t *testing.T) {
	assert.NoError(t, ValidateTimeZone("Europe/Berlin"))
	assert.ErrorIs(t, ValidateTimeZone(""), models.ErrInvalidInput)
	assert.ErrorIs(t, ValidateTimeZone("Local"), models.ErrInvalidInput)
	assert.ErrorIs(t, ValidateTimeZone("Nowhere/City"), models.ErrInvalidInput)
}
