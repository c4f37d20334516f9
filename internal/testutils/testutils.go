// Package testutils provides simplified testing utilities and helper functions
package testutils

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jzx17/errshot/pkg/types"
)

// TestContext simplified test context
type TestContext struct {
	timeout time.Duration
	cleanup []func()
	mu      sync.Mutex
}

// NewTestContext creates new test context; cleanup runs when the test ends
func NewTestContext(t *testing.T, timeout time.Duration) *TestContext {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	tc := &TestContext{timeout: timeout}
	t.Cleanup(tc.Cleanup)
	return tc
}

// Context returns context with timeout
func (tc *TestContext) Context() context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), tc.timeout)
	tc.AddCleanup(cancel)
	return ctx
}

// AddCleanup adds cleanup function
func (tc *TestContext) AddCleanup(fn func()) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.cleanup = append(tc.cleanup, fn)
}

// Cleanup executes cleanup functions in reverse order
func (tc *TestContext) Cleanup() {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	for i := len(tc.cleanup) - 1; i >= 0; i-- {
		tc.cleanup[i]()
	}
	tc.cleanup = nil
}

// Script is a restartable source whose n-th subscription (zero based)
// emits Runs[n].Values then fails with Runs[n].Err, or completes when Err
// is nil. Subscriptions beyond the script complete empty.
type Script[T any] struct {
	Runs []Run[T]

	mu            sync.Mutex
	subscriptions int
}

// Run is one scripted subscription
type Run[T any] struct {
	Values []T
	Err    error
}

var _ types.Source[int] = (*Script[int])(nil)

// Subscribe implements types.Source
func (s *Script[T]) Subscribe(ctx context.Context, emit func(T) error) error {
	s.mu.Lock()
	n := s.subscriptions
	s.subscriptions++
	s.mu.Unlock()

	if n >= len(s.Runs) {
		return nil
	}
	run := s.Runs[n]
	for _, v := range run.Values {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := emit(v); err != nil {
			return err
		}
	}
	return run.Err
}

// Subscriptions returns how many times the script was subscribed
func (s *Script[T]) Subscriptions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subscriptions
}

// ShotRecorder records what shooters were asked, for assertions
type ShotRecorder[E any] struct {
	mu       sync.Mutex
	attempts []types.Attempt
	errs     []E
}

// Record wraps a decision function so every call is recorded
func (r *ShotRecorder[E]) Record(decide func(err E, attempt types.Attempt) types.Shot) func(context.Context, E, types.Attempt) (types.Shot, error) {
	return func(ctx context.Context, err E, attempt types.Attempt) (types.Shot, error) {
		r.mu.Lock()
		r.attempts = append(r.attempts, attempt)
		r.errs = append(r.errs, err)
		r.mu.Unlock()
		return decide(err, attempt), nil
	}
}

// Attempts returns the attempts seen so far
func (r *ShotRecorder[E]) Attempts() []types.Attempt {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]types.Attempt, len(r.attempts))
	copy(out, r.attempts)
	return out
}

// Errors returns the errors seen so far
func (r *ShotRecorder[E]) Errors() []E {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]E, len(r.errs))
	copy(out, r.errs)
	return out
}

// Calls returns the number of calls so far
func (r *ShotRecorder[E]) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.attempts)
}
