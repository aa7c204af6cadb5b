package sharing

import (
	"context"
	"fmt"
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
	items   []models.SharedBM
	updated []models.SharedBM
}

func (f *fakeRepo) ListShared(context.Context) ([]models.SharedBM, error) {
	return append([]models.SharedBM(nil), f.items...), nil
}

func (f *fakeRepo) GetShared(_ context.Context, id int) (models.SharedBM, error) {
	for _, s := range f.items {
		if s.ID == id {
			return s, nil
		}
	}
	return models.SharedBM{}, models.ErrNotFound
}

func (f *fakeRepo) UpdateShared(_ context.Context, s models.SharedBM) (models.SharedBM, error) {
	f.updated = append(f.updated, s)
	return s, nil
}

func sharedFixture() []models.SharedBM {
	out := make([]models.SharedBM, 0, 11)
	for i := 1; i <= 11; i++ {
		st := models.SharedStatusPass
		if i%2 == 0 {
			st = models.SharedStatusFail
		}
		out = append(out, models.SharedBM{
			ID:      i,
			OrderNo: fmt.Sprintf("OR-BM-ADS-20240706-%04d", 919+i),
			BMName:  "C00456",
			Status:  st,
		})
	}
	return out
}

func newTestService(repo *fakeRepo) *Service {
	return NewService(repo, cache.NewMemoryStore(0), resource.NewTracker(memory.New(), nil))
}

func TestService_ListSearchAndFilter(t *testing.T) {
	s := newTestService(&fakeRepo{items: sharedFixture()})
	ctx := context.Background()

	page, err := s.List(ctx, listing.Query{})
	require.NoError(t, err)
	assert.Equal(t, 11, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, 10)

	page, err = s.List(ctx, listing.Query{Filters: []string{models.SharedStatusFail}})
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)

	page, err = s.List(ctx, listing.Query{Term: "c00456", Filters: []string{models.SharedStatusPass}})
	require.NoError(t, err)
	assert.Equal(t, 6, page.Total)

	page, err = s.List(ctx, listing.Query{Term: "0925"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 6, page.Items[0].ID)
}

func TestService_UpdateOnlyFailed(t *testing.T) {
	repo := &fakeRepo{items: sharedFixture()}
	s := newTestService(repo)
	ctx := context.Background()

	_, err := s.Update(ctx, "admin", 1, models.SharedBM{Status: models.SharedStatusFail})
	assert.ErrorIs(t, err, models.ErrNotEditable)

	got, err := s.Update(ctx, "admin", 2, models.SharedBM{Status: models.SharedStatusPass, Remarks: " reshared "})
	require.NoError(t, err)
	assert.Equal(t, models.SharedStatusPass, got.Status)
	assert.Equal(t, "reshared", got.Remarks)
	assert.Equal(t, "C00456", got.BMName)
	assert.Equal(t, "admin", got.UpdatedBy)

	_, err = s.Update(ctx, "admin", 4, models.SharedBM{Status: "Shared Maybe"})
	assert.ErrorIs(t, err, models.ErrIllegalTransition)
	assert.Len(t, repo.updated, 1)
}
