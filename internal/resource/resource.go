// Package resource holds the plumbing every remote collection shares: the
// subset of the API client repositories call, the cached list view and the
// after-mutation bookkeeping.
package resource

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/Fuonder/bmadsoffice/internal/apiclient"
	"github.com/Fuonder/bmadsoffice/internal/cache"
	"github.com/Fuonder/bmadsoffice/internal/listing"
	"github.com/Fuonder/bmadsoffice/internal/logger"
	"github.com/Fuonder/bmadsoffice/internal/models"
	"github.com/Fuonder/bmadsoffice/internal/resync"
	"github.com/Fuonder/bmadsoffice/internal/storage"
)

// Remote is the part of *apiclient.Client the repositories use.
type Remote interface {
	List(ctx context.Context, path string, out any) error
	Get(ctx context.Context, path string, out any) error
	PostForm(ctx context.Context, path string, form *apiclient.Form, out any) error
	PutForm(ctx context.Context, path string, form *apiclient.Form, out any) error
	PutJSON(ctx context.Context, path string, payload any, out any) error
}

// FetchNewestFirst lists a remote collection and reverses it; the remote API
// returns records oldest first.
func FetchNewestFirst[T any](ctx context.Context, remote Remote, path string) ([]T, error) {
	var items []T
	if err := remote.List(ctx, path, &items); err != nil {
		return nil, fmt.Errorf("list %s: %w", path, err)
	}
	slices.Reverse(items)
	return items, nil
}

// Lister serves listing queries from a cached collection.
type Lister[T any] struct {
	coll *cache.Collection[T]
	cfg  listing.Config[T]
}

func NewLister[T any](coll *cache.Collection[T], cfg listing.Config[T]) *Lister[T] {
	return &Lister[T]{coll: coll, cfg: cfg}
}

func (l *Lister[T]) Collection() *cache.Collection[T] {
	return l.coll
}

func (l *Lister[T]) Config() listing.Config[T] {
	return l.cfg
}

func (l *Lister[T]) List(ctx context.Context, q listing.Query) (listing.Page[T], error) {
	items, err := l.coll.Get(ctx)
	if err != nil {
		return listing.Page[T]{}, err
	}
	return listing.Apply(l.cfg, items, q), nil
}

// All returns the cached collection unfiltered.
func (l *Lister[T]) All(ctx context.Context) ([]T, error) {
	return l.coll.Get(ctx)
}

// Tracker performs the bookkeeping that follows a successful remote
// mutation. The remote write already happened, so failures here are logged
// and never returned.
type Tracker struct {
	audit storage.AuditWriter
	queue resync.Queue
	now   func() time.Time
}

func NewTracker(audit storage.AuditWriter, queue resync.Queue) *Tracker {
	return &Tracker{audit: audit, queue: queue, now: time.Now}
}

type invalidator interface {
	Resource() models.Resource
	Invalidate(ctx context.Context) error
}

// Mutated records the audit entry, drops the cached snapshot and schedules a
// background refetch.
func (t *Tracker) Mutated(ctx context.Context, coll invalidator, entry models.AuditEntry) {
	entry.Resource = coll.Resource()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = models.NewTimestamp(t.now().UTC())
	}
	fields := []zap.Field{
		zap.String("resource", string(entry.Resource)),
		zap.Int("record", entry.RecordID),
		zap.String("action", entry.Action),
	}
	if t.audit != nil {
		if _, err := t.audit.InsertAudit(ctx, entry); err != nil {
			logger.Log.Error("audit write failed", append(fields, zap.Error(err))...)
		}
	}
	if err := coll.Invalidate(ctx); err != nil {
		logger.Log.Error("cache invalidation failed", append(fields, zap.Error(err))...)
	}
	if t.queue != nil {
		if err := t.queue.Enqueue(models.ResyncJob{Resource: entry.Resource, Reason: entry.Action}); err != nil {
			logger.Log.Warn("resync not scheduled", append(fields, zap.Error(err))...)
		}
	}
	logger.Log.Info("record mutated", fields...)
}

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionStatus = "status"
)
