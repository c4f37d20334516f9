// Package stream provides restartable sequences and the interception stages
// that decide, failure by failure, whether to retry, propagate or complete.
package stream

import (
	"context"

	"github.com/jzx17/errshot/pkg/types"
)

// SubscribeFunc produces the sequence once: it calls emit for every value in
// order and returns nil on completion or the failure that ended it.
type SubscribeFunc[T any] func(ctx context.Context, emit func(T) error) error

// Stream is a cold, restartable sequence. Each Subscribe runs production
// from scratch, which is what makes resubscription a retry. The zero value
// is an empty stream.
type Stream[T any] struct {
	subscribe SubscribeFunc[T]
}

var _ types.Source[int] = Stream[int]{}

// Create creates a stream from a subscribe function
func Create[T any](fn SubscribeFunc[T]) Stream[T] {
	if fn == nil {
		panic("subscribe function cannot be nil")
	}
	return Stream[T]{subscribe: fn}
}

// From wraps any source as a Stream
func From[T any](src types.Source[T]) Stream[T] {
	if s, ok := src.(Stream[T]); ok {
		return s
	}
	return Create[T](src.Subscribe)
}

// Subscribe runs the stream once.
//
// A failure elected by a hit arrives wrapped in *types.HitError so that
// stages further down a chain leave it alone; use errors.Is/As on the
// result, or one of Collect, ForEach, Drain and Observe, which unwrap it.
func (s Stream[T]) Subscribe(ctx context.Context, emit func(T) error) error {
	if s.subscribe == nil {
		return nil
	}
	return s.subscribe(ctx, emit)
}

// Just emits values then completes
func Just[T any](values ...T) Stream[T] {
	return FromSlice(values)
}

// FromSlice emits the elements of values then completes
func FromSlice[T any](values []T) Stream[T] {
	return Create[T](func(ctx context.Context, emit func(T) error) error {
		for _, v := range values {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := emit(v); err != nil {
				return err
			}
		}
		return nil
	})
}

// Empty completes immediately
func Empty[T any]() Stream[T] {
	return Stream[T]{}
}

// Fail fails immediately with err
func Fail[T any](err error) Stream[T] {
	return Create[T](func(ctx context.Context, emit func(T) error) error {
		return err
	})
}

// Concat subscribes to streams one after another, stopping at the first failure
func Concat[T any](streams ...types.Source[T]) Stream[T] {
	return Create[T](func(ctx context.Context, emit func(T) error) error {
		for _, s := range streams {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := s.Subscribe(ctx, emit); err != nil {
				return err
			}
		}
		return nil
	})
}

// Defer calls factory on every subscription and subscribes to its result
func Defer[T any](factory func() types.Source[T]) Stream[T] {
	return Create[T](func(ctx context.Context, emit func(T) error) error {
		return factory().Subscribe(ctx, emit)
	})
}

// FromFunc emits the single value produced by fn, or fails with its error.
// fn runs again on every subscription.
func FromFunc[T any](fn func(ctx context.Context) (T, error)) Stream[T] {
	return Create[T](func(ctx context.Context, emit func(T) error) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		return emit(v)
	})
}
