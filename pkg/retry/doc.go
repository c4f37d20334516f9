// Package retry provides retry policies that plug into interception stages as shooters.
//
// Key Features:
//
// 1. Backoff strategies:
//   - FixedBackoff: Fixed delay
//   - ExponentialBackoff: Exponential backoff
//   - LinearBackoff: Linear backoff
//   - BackoffFunc: Custom delay function
//
// 2. Jitter support:
//   - FullJitter: Full jitter
//   - EqualJitter: Equal jitter
//
// 3. Policy shooters:
//   - Waits the backoff delay on an injectable clock, then misses
//   - Gives up with a hit, or a sink when SinkOnGiveUp is set
//   - Honours context cancellation while waiting
//
// 4. One-shot execution:
//   - Do and Execute run a single operation through an interception stage
//
// Basic usage example:
//
//	policy := retry.Policy{
//		MaxRetries: 3,
//		Backoff:    retry.NewExponentialBackoff(100 * time.Millisecond),
//	}
//
//	// Retry a restartable stream
//	s := stream.Intercept(source, retry.Shooter[error](policy))
//
//	// Retry a single call
//	result, err := retry.Execute(ctx, policy, func(ctx context.Context) (string, error) {
//		return doSomething(ctx)
//	})
//
// Event handling:
//
//	handler := retry.NewDefaultEventHandler(zapLogger.Sugar())
//	shooter := retry.Shooter[error](policy, retry.WithEventHandler(handler))
//
// Backoff computation lives here, in the shooter, never in the stage: the
// stage only resubscribes once the shooter returns its miss.
package retry
