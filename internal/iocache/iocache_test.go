package iocache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pazviva/pvdash/internal/iocache"
	"github.com/pazviva/pvdash/internal/iodb"
	"github.com/pazviva/pvdash/internal/iotesting"
	"github.com/pazviva/pvdash/pkg/dataset"
	"github.com/pazviva/pvdash/pkg/peace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingOpener(t *testing.T, calls *atomic.Int32) iocache.OpenFunc {
	path := iotesting.NewSQLiteDataset(t, iotesting.DefaultFixture())
	return func() (dataset.Reader, error) {
		calls.Add(1)
		return iodb.NewSQLiteReader(path), nil
	}
}

func TestSnapshotCache_Get(t *testing.T) {
	var calls atomic.Int32
	c := iocache.New(countingOpener(t, &calls), time.Minute)
	ctx := context.Background()

	snap, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Metrics, 8)
	assert.False(t, c.ExpiresAt().IsZero())

	snap2, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap.LoadedAt, snap2.LoadedAt)
	assert.Equal(t, int32(1), calls.Load())

	c.Invalidate()
	assert.True(t, c.ExpiresAt().IsZero())
	_, err = c.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestSnapshotCache_Concurrent(t *testing.T) {
	var calls atomic.Int32
	c := iocache.New(countingOpener(t, &calls), time.Minute)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Get(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), calls.Load())
}

func TestSnapshotCache_Expired(t *testing.T) {
	var calls atomic.Int32
	c := iocache.New(countingOpener(t, &calls), 10*time.Millisecond)
	ctx := context.Background()

	_, err := c.Get(ctx)
	require.NoError(t, err)
	time.Sleep(30 * time.Millisecond)
	_, err = c.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestSnapshotCache_Error(t *testing.T) {
	boom := errors.New("boom")
	c := iocache.New(func() (dataset.Reader, error) {
		return nil, boom
	}, time.Minute)

	_, err := c.Get(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.True(t, c.ExpiresAt().IsZero())
}

// blockingReader waits for release before returning metrics and fails
// if its context is canceled first.
type blockingReader struct {
	started chan struct{}
	release chan struct{}
}

func (r *blockingReader) Connect(context.Context) error { return nil }
func (r *blockingReader) Close() error                  { return nil }

func (r *blockingReader) LoadMetrics(ctx context.Context) ([]peace.MetricRecord, error) {
	close(r.started)
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-r.release:
	}
	return []peace.MetricRecord{
		{CountryCode: "PT", Year: 2030, Month: 1, Value: peace.NullValue(100)},
	}, nil
}

func (r *blockingReader) LoadCountries(context.Context) ([]peace.CountryInfo, error) {
	return nil, nil
}

func (r *blockingReader) LoadEvents(context.Context) ([]peace.Event, error) {
	return nil, nil
}

func TestSnapshotCache_CallerCanceled(t *testing.T) {
	r := &blockingReader{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	c := iocache.New(func() (dataset.Reader, error) {
		return r, nil
	}, time.Minute)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := c.Get(ctxA)
		errA <- err
	}()
	<-r.started

	type result struct {
		snap dataset.Snapshot
		err  error
	}
	resB := make(chan result, 1)
	go func() {
		snap, err := c.Get(context.Background())
		resB <- result{snap, err}
	}()

	cancelA()
	assert.ErrorIs(t, <-errA, context.Canceled)

	close(r.release)
	res := <-resB
	require.NoError(t, res.err)
	assert.Len(t, res.snap.Metrics, 1)

	// the shared load filled the cache
	snap, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, res.snap.LoadedAt, snap.LoadedAt)
}
