package addresses

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fuonder/bmadsoffice/internal/cache"
	"github.com/Fuonder/bmadsoffice/internal/listing"
	"github.com/Fuonder/bmadsoffice/internal/models"
	"github.com/Fuonder/bmadsoffice/internal/resource"
	"github.com/Fuonder/bmadsoffice/internal/storage/memory"
)

type fakeRepo struct {
	items   []models.CryptoAddress
	created []models.CryptoAddress
}

func (f *fakeRepo) ListAddresses(context.Context) ([]models.CryptoAddress, error) {
	return append([]models.CryptoAddress(nil), f.items...), nil
}

func (f *fakeRepo) GetAddress(_ context.Context, id int) (models.CryptoAddress, error) {
	for _, a := range f.items {
		if a.ID == id {
			return a, nil
		}
	}
	return models.CryptoAddress{}, models.ErrNotFound
}

func (f *fakeRepo) CreateAddress(_ context.Context, a models.CryptoAddress) (models.CryptoAddress, error) {
	a.ID = 50
	f.created = append(f.created, a)
	return a, nil
}

func (f *fakeRepo) UpdateAddress(_ context.Context, a models.CryptoAddress) (models.CryptoAddress, error) {
	return a, nil
}

type fakeNetworks []models.CryptoNetwork

func (f fakeNetworks) Active(context.Context) ([]models.CryptoNetwork, error) {
	return f, nil
}

func newTestService(repo *fakeRepo) *Service {
	nets := fakeNetworks{{ID: 1, Name: "TRC20", Image: "trc.png", Status: true}}
	return NewService(repo, nets, cache.NewMemoryStore(0), resource.NewTracker(memory.New(), nil))
}

func TestService_SearchAddressOrNetwork(t *testing.T) {
	repo := &fakeRepo{items: []models.CryptoAddress{
		{ID: 1, Address: "TXabc", NetworkName: "TRC20", Status: true},
		{ID: 2, Address: "0xdef", NetworkName: "ERC20", Status: false},
	}}
	s := newTestService(repo)

	page, err := s.List(context.Background(), listing.Query{Term: "erc"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 2, page.Items[0].ID)

	page, err = s.List(context.Background(), listing.Query{Term: "txa"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 1, page.Items[0].ID)
}

func TestService_FirstActive(t *testing.T) {
	repo := &fakeRepo{items: []models.CryptoAddress{
		{ID: 3, Address: "a", Status: false},
		{ID: 4, Address: "b", Status: true},
		{ID: 5, Address: "c", Status: true},
	}}
	got, err := newTestService(repo).FirstActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, got.ID)

	_, err = newTestService(&fakeRepo{}).FirstActive(context.Background())
	assert.ErrorIs(t, err, models.ErrNoData)
}

func TestService_CreateValidation(t *testing.T) {
	repo := &fakeRepo{}
	s := newTestService(repo)
	ctx := context.Background()

	_, err := s.Create(ctx, "admin", models.CryptoAddress{Address: "", NetworkID: 1})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	_, err = s.Create(ctx, "admin", models.CryptoAddress{Address: "TX1"})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	_, err = s.Create(ctx, "admin", models.CryptoAddress{Address: "TX1", NetworkID: 9})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	assert.Empty(t, repo.created)

	got, err := s.Create(ctx, "admin", models.CryptoAddress{Address: " TX1 ", NetworkID: 1, Status: true})
	require.NoError(t, err)
	assert.Equal(t, "TX1", got.Address)
	assert.Equal(t, "TRC20", got.NetworkName)
	assert.Equal(t, "admin", got.CreatedBy)
}
