// Package retry provides retry executor implementation
package retry

import (
	"context"

	"github.com/jzx17/errshot/pkg/shot"
	"github.com/jzx17/errshot/pkg/stream"
)

// ExecuteFunc is the function type to retry
type ExecuteFunc[T any] func(ctx context.Context) (T, error)

// Do runs fn as a single value stream intercepted by shooter, so a miss
// calls fn again. When the failure is sunk Do returns the zero value and
// a nil error.
func Do[T any, E error](ctx context.Context, fn ExecuteFunc[T], shooter shot.Shooter[E], opts ...stream.Option) (T, error) {
	var zero T

	src := stream.FromFunc(func(ctx context.Context) (T, error) {
		return fn(ctx)
	})
	values, err := stream.Collect[T](ctx, stream.Intercept[T, E](src, shooter, opts...))
	if err != nil {
		return zero, err
	}
	if len(values) == 0 {
		return zero, nil
	}
	return values[0], nil
}

// Execute runs fn with policy p applied to every failure
func Execute[T any](ctx context.Context, p Policy, fn ExecuteFunc[T], opts ...ShooterOption) (T, error) {
	return Do[T, error](ctx, fn, Shooter[error](p, opts...), stream.WithName("retry"))
}

// ExecuteAsync runs Execute on a new goroutine
func ExecuteAsync[T any](ctx context.Context, p Policy, fn ExecuteFunc[T], opts ...ShooterOption) <-chan Result[T] {
	resultChan := make(chan Result[T], 1)

	go func() {
		defer close(resultChan)

		value, err := Execute(ctx, p, fn, opts...)
		resultChan <- Result[T]{Value: value, Error: err}
	}()

	return resultChan
}

// Result defines the result of asynchronous execution
type Result[T any] struct {
	// Value is the execution result
	Value T

	// Error is the execution error
	Error error
}
