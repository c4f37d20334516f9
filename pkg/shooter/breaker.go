package shooter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/jzx17/errshot/pkg/shot"
	"github.com/jzx17/errshot/pkg/types"
)

// NewBreaker creates a circuit breaker that opens after maxFailures
// consecutive failures and probes again after timeout. Failure counts are
// also cleared every timeout while closed, since shooters only ever see
// failures.
func NewBreaker(name string, maxFailures uint32, timeout time.Duration, logger *zap.Logger) *gobreaker.CircuitBreaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxFailures == 0 {
		maxFailures = 1
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    timeout,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("circuit breaker state change",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

// Breaker records every failure in cb. While cb is open it hits with an
// error wrapping types.ErrBreakerOpen and the failure, without consulting
// next; otherwise next decides.
func Breaker[E error](cb *gobreaker.CircuitBreaker, next shot.Shooter[E]) shot.Shooter[E] {
	return func(ctx context.Context, err E, attempt types.Attempt) (types.Shot, error) {
		_, cbErr := cb.Execute(func() (interface{}, error) {
			return nil, err
		})

		refused := errors.Is(cbErr, gobreaker.ErrOpenState) || errors.Is(cbErr, gobreaker.ErrTooManyRequests)
		if refused || cb.State() == gobreaker.StateOpen {
			return types.Hit(fmt.Errorf("%w (%s): %w", types.ErrBreakerOpen, cb.Name(), err)), nil
		}
		return next(ctx, err, attempt)
	}
}
