package resync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Fuonder/bmadsoffice/internal/apiclient"
	"github.com/Fuonder/bmadsoffice/internal/logger"
	"github.com/Fuonder/bmadsoffice/internal/models"
)

const (
	DefaultWorkers   = 4
	DefaultQueueSize = 64
	refreshRetries   = 3
	refreshTimeout   = 10 * time.Second
)

type Service struct {
	workers    int
	jobs       chan models.ResyncJob
	refreshers map[models.Resource]Refresher

	mu      sync.Mutex
	pending map[models.Resource]bool

	backoff func(attempt int) time.Duration
}

func NewService(workers, queueSize int, refreshers ...Refresher) *Service {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	s := &Service{
		workers:    workers,
		jobs:       make(chan models.ResyncJob, queueSize),
		refreshers: make(map[models.Resource]Refresher, len(refreshers)),
		pending:    make(map[models.Resource]bool),
		backoff: func(attempt int) time.Duration {
			return time.Duration(2*attempt+1) * time.Second
		},
	}
	s.Register(refreshers...)
	return s
}

// Register adds refreshers. It must be called before Run.
func (s *Service) Register(refreshers ...Refresher) {
	for _, r := range refreshers {
		s.refreshers[r.Resource()] = r
	}
}

// Enqueue never blocks. A resource that already has a job waiting is not
// queued twice.
func (s *Service) Enqueue(job models.ResyncJob) error {
	if _, ok := s.refreshers[job.Resource]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownResource, job.Resource)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending[job.Resource] {
		return nil
	}
	select {
	case s.jobs <- job:
		s.pending[job.Resource] = true
		return nil
	default:
		return ErrQueueFull
	}
}

// Run blocks until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for i := range s.workers {
		g.Go(func() error {
			return s.worker(gctx, i)
		})
	}
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Log.Debug("resync workers exited with error", zap.Error(err))
		return fmt.Errorf("method Run: %w", err)
	}
	return nil
}

func (s *Service) worker(ctx context.Context, idx int) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case job := <-s.jobs:
			s.mu.Lock()
			delete(s.pending, job.Resource)
			s.mu.Unlock()

			logger.Log.Debug("processing resync job",
				zap.Int("worker", idx),
				zap.String("resource", string(job.Resource)),
				zap.String("reason", job.Reason))
			if err := s.refresh(ctx, job); err != nil {
				logger.Log.Error("resync failed",
					zap.String("resource", string(job.Resource)), zap.Error(err))
			}
		}
	}
}

func (s *Service) refresh(ctx context.Context, job models.ResyncJob) error {
	r := s.refreshers[job.Resource]
	var lastErr error
	for attempt := 0; attempt < refreshRetries; attempt++ {
		rctx, cancel := context.WithTimeout(ctx, refreshTimeout)
		err := r.Refresh(rctx)
		cancel()
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable(err) {
			return err
		}
		wait := s.backoff(attempt)
		logger.Log.Info("retrying resync after timeout",
			zap.Duration("timeout", wait),
			zap.Int("retry-count", attempt+1),
			zap.Error(err))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return fmt.Errorf("%w: %v", ErrRefreshFailed, lastErr)
}

func retryable(err error) bool {
	var te *apiclient.TransportError
	if errors.As(err, &te) {
		return true
	}
	var ae *apiclient.APIError
	if errors.As(err, &ae) {
		return ae.StatusCode == 429 || ae.StatusCode >= 500
	}
	return false
}
