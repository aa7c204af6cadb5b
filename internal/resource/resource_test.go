package resource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fuonder/bmadsoffice/internal/apiclient"
	"github.com/Fuonder/bmadsoffice/internal/cache"
	"github.com/Fuonder/bmadsoffice/internal/listing"
	"github.com/Fuonder/bmadsoffice/internal/models"
	"github.com/Fuonder/bmadsoffice/internal/storage"
	"github.com/Fuonder/bmadsoffice/internal/storage/memory"
)

type listRemote struct {
	Remote
	items []models.CryptoNetwork
	calls int
}

func (r *listRemote) List(_ context.Context, _ string, out any) error {
	r.calls++
	*(out.(*[]models.CryptoNetwork)) = append([]models.CryptoNetwork(nil), r.items...)
	return nil
}

type recordingQueue struct {
	jobs []models.ResyncJob
}

func (q *recordingQueue) Enqueue(job models.ResyncJob) error {
	q.jobs = append(q.jobs, job)
	return nil
}

func TestFetchNewestFirst(t *testing.T) {
	r := &listRemote{items: []models.CryptoNetwork{{ID: 1}, {ID: 2}, {ID: 3}}}
	got, err := FetchNewestFirst[models.CryptoNetwork](context.Background(), r, "/CryptoNetworks")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2, 1}, []int{got[0].ID, got[1].ID, got[2].ID})
}

func TestTracker_Mutated(t *testing.T) {
	r := &listRemote{items: []models.CryptoNetwork{{ID: 1, Name: "TRC20"}}}
	coll := cache.NewCollection(models.ResourceNetworks, cache.NewMemoryStore(0),
		func(ctx context.Context) ([]models.CryptoNetwork, error) {
			return FetchNewestFirst[models.CryptoNetwork](ctx, r, "/CryptoNetworks")
		})
	lister := NewLister(coll, listing.Config[models.CryptoNetwork]{
		SearchFields: []listing.Field[models.CryptoNetwork]{func(n models.CryptoNetwork) string { return n.Name }},
	})
	audit := memory.New()
	queue := &recordingQueue{}
	tr := NewTracker(audit, queue)
	ctx := context.Background()

	page, err := lister.List(ctx, listing.Query{Term: "trc"})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	tr.Mutated(ctx, coll, models.AuditEntry{RecordID: 1, Action: ActionUpdate, Actor: "admin"})

	entries, err := audit.ListAudit(ctx, storage.AuditFilter{Resource: models.ResourceNetworks})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ActionUpdate, entries[0].Action)
	assert.Equal(t, []models.ResyncJob{{Resource: models.ResourceNetworks, Reason: ActionUpdate}}, queue.jobs)

	_, err = lister.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, r.calls)
}

var _ Remote = (*apiclient.Client)(nil)
