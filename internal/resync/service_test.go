package resync

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fuonder/bmadsoffice/internal/apiclient"
	"github.com/Fuonder/bmadsoffice/internal/models"
)

type fakeRefresher struct {
	resource models.Resource
	calls    atomic.Int32
	errs     []error
	done     chan struct{}
}

func (f *fakeRefresher) Resource() models.Resource { return f.resource }

func (f *fakeRefresher) Refresh(context.Context) error {
	n := int(f.calls.Add(1)) - 1
	if n < len(f.errs) && f.errs[n] != nil {
		return f.errs[n]
	}
	if f.done != nil {
		close(f.done)
	}
	return nil
}

func runService(t *testing.T, s *Service) context.CancelFunc {
	t.Helper()
	s.backoff = func(int) time.Duration { return time.Millisecond }
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = s.Run(ctx) }()
	return cancel
}

func TestService_RefreshesEnqueuedResource(t *testing.T) {
	r := &fakeRefresher{resource: models.ResourceInvoices, done: make(chan struct{})}
	s := NewService(2, 4, r)
	cancel := runService(t, s)
	defer cancel()

	require.NoError(t, s.Enqueue(models.ResyncJob{Resource: models.ResourceInvoices, Reason: "status change"}))
	select {
	case <-r.done:
	case <-time.After(time.Second):
		t.Fatal("refresh was not called")
	}
}

func TestService_RetriesTransportErrors(t *testing.T) {
	r := &fakeRefresher{
		resource: models.ResourceOrders,
		errs:     []error{&apiclient.TransportError{Method: "GET", URL: "/x", Err: errors.New("reset")}},
		done:     make(chan struct{}),
	}
	s := NewService(1, 4, r)
	cancel := runService(t, s)
	defer cancel()

	require.NoError(t, s.Enqueue(models.ResyncJob{Resource: models.ResourceOrders}))
	select {
	case <-r.done:
	case <-time.After(time.Second):
		t.Fatal("refresh was not retried")
	}
	assert.Equal(t, int32(2), r.calls.Load())
}

func TestService_DoesNotRetryClientErrors(t *testing.T) {
	r := &fakeRefresher{
		resource: models.ResourceNetworks,
		errs:     []error{&apiclient.APIError{StatusCode: 400, Message: "bad"}},
	}
	s := NewService(1, 4, r)
	s.backoff = func(int) time.Duration { return time.Millisecond }
	err := s.refresh(context.Background(), models.ResyncJob{Resource: models.ResourceNetworks})
	assert.Error(t, err)
	assert.Equal(t, int32(1), r.calls.Load())
}

func TestService_Enqueue(t *testing.T) {
	r := &fakeRefresher{resource: models.ResourceShared}
	s := NewService(1, 1, r)

	err := s.Enqueue(models.ResyncJob{Resource: models.ResourceCustomers})
	assert.ErrorIs(t, err, ErrUnknownResource)

	require.NoError(t, s.Enqueue(models.ResyncJob{Resource: models.ResourceShared}))
	// already pending, collapsed rather than rejected
	require.NoError(t, s.Enqueue(models.ResyncJob{Resource: models.ResourceShared}))
	assert.Len(t, s.jobs, 1)
}

func TestService_RunStopsOnCancel(t *testing.T) {
	s := NewService(3, 1, &fakeRefresher{resource: models.ResourceAddresses})
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()
	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
}
