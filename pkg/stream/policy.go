package stream

import (
	"context"
	"math"

	"github.com/jzx17/errshot/pkg/shot"
	"github.com/jzx17/errshot/pkg/types"
)

// Unlimited lets RetryThenSink retry for as long as errors allow it
const Unlimited = math.MaxInt

// RetryWhileRetriable misses while the error can be retried and fewer than
// maxAttempts-1 attempts have been made, and sinks otherwise. A cap of zero
// or less sinks right away.
func RetryWhileRetriable(maxAttempts int) shot.Shooter[types.RetriableError] {
	return func(ctx context.Context, err types.RetriableError, attempt types.Attempt) (types.Shot, error) {
		if maxAttempts > 0 && err.CanRetry() && attempt < maxAttempts-1 {
			return types.Miss(), nil
		}
		return types.Sink(), nil
	}
}

// RetryThenSink retries retriable failures up to maxAttempts and completes
// the stream gracefully on any failure it gives up on.
func RetryThenSink[T any](src types.Source[T], maxAttempts int, opts ...Option) Stream[T] {
	return RetryThenSinkTarget[T, error](src, maxAttempts, opts...)
}

// RetryThenSinkTarget is RetryThenSink with the catch-all stage restricted
// to failures of kind E. Other non-retriable failures are forwarded.
func RetryThenSinkTarget[T any, E error](src types.Source[T], maxAttempts int, opts ...Option) Stream[T] {
	base := newOptions(opts).name
	if base == defaultStageName {
		base = "retry-then-sink"
	}

	retried := Intercept[T, types.RetriableError](src, RetryWhileRetriable(maxAttempts), named(opts, base+"/retry")...)
	return Intercept[T, E](retried, shot.Always[E](types.Sink()), named(opts, base+"/sink")...)
}

// named copies opts with a trailing name override
func named(opts []Option, name string) []Option {
	out := make([]Option, 0, len(opts)+1)
	out = append(out, opts...)
	return append(out, WithName(name))
}
