package client

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefresher_CollapsesConcurrentCalls(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	r := newRefresher(func(context.Context) error {
		calls.Add(1)
		<-release
		return nil
	})

	assert.Equal(t, StateIdle, r.State())

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, r.Refresh(context.Background(), nil))
		}()
	}

	require.Eventually(t, func() bool { return r.State() == StateRefreshing }, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, StateIdle, r.State())
}

func TestRefresher_SharesFailure(t *testing.T) {
	boom := errors.New("boom")
	release := make(chan struct{})
	r := newRefresher(func(context.Context) error {
		<-release
		return boom
	})

	errs := make(chan error, 3)
	for range 3 {
		go func() { errs <- r.Refresh(context.Background(), nil) }()
	}
	require.Eventually(t, func() bool { return r.State() == StateRefreshing }, time.Second, time.Millisecond)
	close(release)

	for range 3 {
		assert.ErrorIs(t, <-errs, boom)
	}
}

func TestRefresher_StartsAgainAfterSettling(t *testing.T) {
	var calls atomic.Int32
	r := newRefresher(func(context.Context) error {
		calls.Add(1)
		return nil
	})

	require.NoError(t, r.Refresh(context.Background(), nil))
	require.NoError(t, r.Refresh(context.Background(), nil))
	assert.Equal(t, int32(2), calls.Load())
}

func TestRefresher_SkipWhenIdle(t *testing.T) {
	var calls atomic.Int32
	r := newRefresher(func(context.Context) error {
		calls.Add(1)
		return nil
	})

	require.NoError(t, r.Refresh(context.Background(), func() bool { return true }))
	assert.Equal(t, int32(0), calls.Load())
}

func TestRefresher_WaiterCancelDoesNotCancelRefresh(t *testing.T) {
	release := make(chan struct{})
	finished := make(chan error, 1)
	r := newRefresher(func(ctx context.Context) error {
		<-release
		finished <- ctx.Err()
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Refresh(ctx, nil) }()

	require.Eventually(t, func() bool { return r.State() == StateRefreshing }, time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	close(release)
	assert.NoError(t, <-finished)
	require.Eventually(t, func() bool { return r.State() == StateIdle }, time.Second, time.Millisecond)
}

func TestRefreshState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "refreshing", StateRefreshing.String())
}
