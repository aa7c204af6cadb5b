package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Fuonder/bmadsoffice/internal/logger"
	"github.com/Fuonder/bmadsoffice/internal/models"
)

// fetchTimeout bounds a shared fetch, which outlives the request that started it.
const fetchTimeout = 30 * time.Second

type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// Collection is the cached snapshot of one remote collection. Concurrent
// misses share a single remote fetch. A fetch that started before an
// Invalidate never overwrites the newer state.
type Collection[T any] struct {
	resource   models.Resource
	store      Store
	fetch      FetchFunc[T]
	group      singleflight.Group
	generation atomic.Uint64
}

func NewCollection[T any](resource models.Resource, store Store, fetch FetchFunc[T]) *Collection[T] {
	return &Collection[T]{resource: resource, store: store, fetch: fetch}
}

func (c *Collection[T]) Resource() models.Resource {
	return c.resource
}

// Get returns the cached snapshot, fetching it on a miss.
func (c *Collection[T]) Get(ctx context.Context) ([]T, error) {
	raw, ok, err := c.store.Load(ctx, string(c.resource))
	if err != nil {
		logger.Log.Warn("cache load failed, fetching from remote",
			zap.String("resource", string(c.resource)), zap.Error(err))
	}
	if ok {
		var items []T
		if err := json.Unmarshal(raw, &items); err == nil {
			return items, nil
		}
		logger.Log.Warn("cache entry corrupt, dropping", zap.String("resource", string(c.resource)))
		_ = c.store.Delete(ctx, string(c.resource))
	}
	return c.load(ctx)
}

// Refresh refetches unconditionally.
func (c *Collection[T]) Refresh(ctx context.Context) error {
	_, err := c.load(ctx)
	return err
}

func (c *Collection[T]) Invalidate(ctx context.Context) error {
	c.generation.Add(1)
	if err := c.store.Delete(ctx, string(c.resource)); err != nil {
		return fmt.Errorf("invalidate %s: %w", c.resource, err)
	}
	return nil
}

func (c *Collection[T]) load(ctx context.Context) ([]T, error) {
	gen := c.generation.Load()
	key := fmt.Sprintf("%s#%d", c.resource, gen)
	ch := c.group.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()
		items, err := c.fetch(fctx)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []T{}
		}
		if c.generation.Load() == gen {
			if raw, err := json.Marshal(items); err == nil {
				if err := c.store.Save(fctx, string(c.resource), raw); err != nil {
					logger.Log.Warn("cache save failed",
						zap.String("resource", string(c.resource)), zap.Error(err))
				}
			}
		}
		return items, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]T), nil
	}
}
