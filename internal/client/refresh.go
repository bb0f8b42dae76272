package client

import (
	"context"
	"sync"
)

// RefreshState is the state of the token refresher.
type RefreshState int

// Refresher states.
const (
	StateIdle RefreshState = iota
	StateRefreshing
)

func (s RefreshState) String() string {
	if s == StateRefreshing {
		return "refreshing"
	}
	return "idle"
}

// refreshCall is the pending result shared by every caller that asks for a
// refresh while one is in flight.
type refreshCall struct {
	done chan struct{}
	err  error
}

// refresher collapses concurrent refresh requests into one call of fn.
//
// Idle: the next caller becomes the leader, starts fn and moves the state to
// refreshing. Refreshing: callers attach to the pending call and wait for it
// to settle. When fn returns, the state goes back to idle before any waiter
// resumes, so a later 401 starts a fresh refresh.
type refresher struct {
	fn func(ctx context.Context) error

	mu      sync.Mutex
	pending *refreshCall
}

func newRefresher(fn func(ctx context.Context) error) *refresher {
	return &refresher{fn: fn}
}

// State returns the current state.
func (r *refresher) State() RefreshState {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending != nil {
		return StateRefreshing
	}
	return StateIdle
}

// Refresh runs fn or waits for the run already in flight. When idle, a
// non-nil skip is consulted under the lock and a true result returns without
// refreshing. A waiter whose ctx ends stops waiting; the refresh itself is not
// cancelled by any caller.
func (r *refresher) Refresh(ctx context.Context, skip func() bool) error {
	r.mu.Lock()
	if call := r.pending; call != nil {
		r.mu.Unlock()
		select {
		case <-call.done:
			return call.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if skip != nil && skip() {
		r.mu.Unlock()
		return nil
	}

	call := &refreshCall{done: make(chan struct{})}
	r.pending = call
	r.mu.Unlock()

	go func() {
		call.err = r.fn(context.WithoutCancel(ctx))

		r.mu.Lock()
		r.pending = nil
		r.mu.Unlock()
		close(call.done)
	}()

	select {
	case <-call.done:
		return call.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
