// Package resync refreshes cached collections in the background after the
// back office has mutated them.
package resync

import (
	"context"
	"errors"

	"github.com/Fuonder/bmadsoffice/internal/models"
)

var (
	ErrUnknownResource = errors.New("no refresher registered for resource")
	ErrQueueFull       = errors.New("resync queue is full")
	ErrRefreshFailed   = errors.New("refresh failed after retries")
)

// Refresher is implemented by every cached collection.
type Refresher interface {
	Resource() models.Resource
	Refresh(ctx context.Context) error
}

type Queue interface {
	Enqueue(job models.ResyncJob) error
}

type ResyncService interface {
	Queue
	Run(ctx context.Context) error
}
