// Package iocache memoizes dataset snapshots for a limited time, so
// repeated requests do not reread the database.
package iocache

import (
	"context"
	"log/slog"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/pazviva/pvdash/pkg/dataset"
	"golang.org/x/sync/singleflight"
)

const snapshotKey = "snapshot"

// loadTimeout limits a shared load that no longer follows any caller's
// cancellation.
const loadTimeout = 2 * time.Minute

// OpenFunc returns a new, not yet connected, reader.
type OpenFunc func() (dataset.Reader, error)

// SnapshotCache loads a snapshot on the first request and keeps it for
// the configured TTL. Concurrent callers share one load.
type SnapshotCache struct {
	open  OpenFunc
	cache *ttlcache.Cache[string, dataset.Snapshot]
	group singleflight.Group
}

// New creates a SnapshotCache with the given reader factory and TTL.
func New(open OpenFunc, ttl time.Duration) *SnapshotCache {
	cache := ttlcache.New(
		ttlcache.WithTTL[string, dataset.Snapshot](ttl),
		ttlcache.WithDisableTouchOnHit[string, dataset.Snapshot](),
	)
	return &SnapshotCache{open: open, cache: cache}
}

// Get returns the cached snapshot or loads a fresh one.
func (c *SnapshotCache) Get(ctx context.Context) (dataset.Snapshot, error) {
	if item := c.cache.Get(snapshotKey); item != nil {
		return item.Value(), nil
	}

	// The load is shared by all waiting callers, so it must not stop when
	// the caller that started it goes away. Each caller still stops
	// waiting on its own cancellation.
	ch := c.group.DoChan(snapshotKey, func() (any, error) {
		// another caller may have filled the cache while we waited
		if item := c.cache.Get(snapshotKey); item != nil {
			return item.Value(), nil
		}
		loadCtx, cancel := context.WithTimeout(
			context.WithoutCancel(ctx), loadTimeout,
		)
		defer cancel()

		snap, err := c.load(loadCtx)
		if err != nil {
			return nil, err
		}
		c.cache.Set(snapshotKey, snap, ttlcache.DefaultTTL)
		return snap, nil
	})

	select {
	case <-ctx.Done():
		return dataset.Snapshot{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return dataset.Snapshot{}, res.Err
		}
		return res.Val.(dataset.Snapshot), nil
	}
}

func (c *SnapshotCache) load(ctx context.Context) (dataset.Snapshot, error) {
	r, err := c.open()
	if err != nil {
		return dataset.Snapshot{}, err
	}
	if err = r.Connect(ctx); err != nil {
		return dataset.Snapshot{}, err
	}
	defer r.Close()

	slog.Debug("Refreshing dataset snapshot")
	return dataset.Load(ctx, r)
}

// Invalidate drops the cached snapshot.
func (c *SnapshotCache) Invalidate() {
	c.cache.Delete(snapshotKey)
}

// ExpiresAt returns when the cached snapshot expires, zero if nothing
// is cached.
func (c *SnapshotCache) ExpiresAt() time.Time {
	item := c.cache.Get(snapshotKey)
	if item == nil {
		return time.Time{}
	}
	return item.ExpiresAt()
}
