package stream

import (
	"context"

	"github.com/jzx17/errshot/pkg/types"
)

// Event is one notification delivered by Observe.
// The last event has Done set and carries the terminal error, if any.
type Event[T any] struct {
	Value T
	Err   error
	Done  bool
}

// Collect subscribes once and returns every value emitted. Values emitted
// before a failure are returned along with it.
func Collect[T any](ctx context.Context, src types.Source[T]) ([]T, error) {
	var values []T
	err := src.Subscribe(ctx, func(v T) error {
		values = append(values, v)
		return nil
	})
	return values, types.StripHit(err)
}

// ForEach subscribes once and calls fn for every value. An error from fn
// stops the stream and is returned.
func ForEach[T any](ctx context.Context, src types.Source[T], fn func(T) error) error {
	return types.StripHit(src.Subscribe(ctx, fn))
}

// Drain subscribes once, discarding values
func Drain[T any](ctx context.Context, src types.Source[T]) error {
	return ForEach(ctx, src, func(T) error { return nil })
}

// Observe subscribes on a new goroutine and delivers events on the returned
// channel, which is closed after the final event. Canceling ctx cancels the
// subscription; the final event then carries the context error.
func Observe[T any](ctx context.Context, src types.Source[T], bufferSize int) <-chan Event[T] {
	if bufferSize < 0 {
		bufferSize = 0
	}
	events := make(chan Event[T], bufferSize)

	go func() {
		defer close(events)

		err := src.Subscribe(ctx, func(v T) error {
			select {
			case events <- Event[T]{Value: v}:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})

		final := Event[T]{Err: types.StripHit(err), Done: true}
		select {
		case events <- final:
		case <-ctx.Done():
			// consumer may be gone; deliver only if there is room
			select {
			case events <- final:
			default:
			}
		}
	}()

	return events
}
