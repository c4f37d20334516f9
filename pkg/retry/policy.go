// Package retry provides retry policies expressed as shooters
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jzx17/errshot/pkg/shot"
	"github.com/jzx17/errshot/pkg/types"
)

// RetryCondition is a function that determines retry conditions
type RetryCondition func(error) bool

// DefaultRetryCondition retries errors that declare themselves retriable
// and never retries context cancellation or deadline errors.
func DefaultRetryCondition(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return types.IsRetryable(err)
}

// AlwaysRetry retries every error
func AlwaysRetry(error) bool {
	return true
}

// Policy is a delayed retry decision: miss after waiting Backoff while the
// condition holds and fewer than MaxRetries misses were given, give up otherwise.
type Policy struct {
	// MaxRetries is the number of misses allowed in one subscription
	MaxRetries int

	// Backoff computes the wait before each miss, NoBackoff when nil
	Backoff Backoff

	// Condition filters retryable errors, DefaultRetryCondition when nil
	Condition RetryCondition

	// SinkOnGiveUp completes the stream instead of failing it when giving up
	SinkOnGiveUp bool
}

// EventHandler handles retry decisions
type EventHandler interface {
	OnRetryScheduled(ctx context.Context, attempt types.Attempt, delay time.Duration, err error)
	OnGiveUp(ctx context.Context, attempt types.Attempt, err error)
}

// Logger interface for logging, satisfied by *zap.SugaredLogger
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// DefaultEventHandler logs retry decisions
type DefaultEventHandler struct {
	logger Logger
}

// NewDefaultEventHandler creates a default event handler
func NewDefaultEventHandler(logger Logger) *DefaultEventHandler {
	return &DefaultEventHandler{logger: logger}
}

// OnRetryScheduled handles scheduled retry events
func (h *DefaultEventHandler) OnRetryScheduled(ctx context.Context, attempt types.Attempt, delay time.Duration, err error) {
	if h.logger != nil {
		h.logger.Debugf("retry #%d in %v after: %v", attempt+1, delay, err)
	}
}

// OnGiveUp handles give up events
func (h *DefaultEventHandler) OnGiveUp(ctx context.Context, attempt types.Attempt, err error) {
	if h.logger != nil {
		h.logger.Warnf("giving up after %d attempts: %v", attempt+1, err)
	}
}

type shooterConfig struct {
	clock        types.Clock
	eventHandler EventHandler
}

// ShooterOption configures a policy shooter
type ShooterOption func(*shooterConfig)

// WithClock sets the clock for time operations
func WithClock(clock types.Clock) ShooterOption {
	return func(c *shooterConfig) {
		c.clock = clock
	}
}

// WithEventHandler sets the event handler
func WithEventHandler(handler EventHandler) ShooterOption {
	return func(c *shooterConfig) {
		c.eventHandler = handler
	}
}

// Shooter turns p into a shooter for failures of kind E.
// Without WithClock the clock is taken from the context.
func Shooter[E error](p Policy, opts ...ShooterOption) shot.Shooter[E] {
	cfg := &shooterConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	backoff := p.Backoff
	if backoff == nil {
		backoff = NoBackoff
	}
	condition := p.Condition
	if condition == nil {
		condition = DefaultRetryCondition
	}

	return func(ctx context.Context, err E, attempt types.Attempt) (types.Shot, error) {
		if attempt >= p.MaxRetries || !condition(err) {
			if cfg.eventHandler != nil {
				cfg.eventHandler.OnGiveUp(ctx, attempt, err)
			}
			if p.SinkOnGiveUp {
				return types.Sink(), nil
			}
			return types.Hit(err), nil
		}

		delay := backoff.NextDelay(attempt)
		if cfg.eventHandler != nil {
			cfg.eventHandler.OnRetryScheduled(ctx, attempt, delay, err)
		}

		clock := cfg.clock
		if clock == nil {
			clock = types.ClockFromContext(ctx)
		}
		if waitErr := types.Sleep(ctx, clock, delay); waitErr != nil {
			return types.Shot{}, fmt.Errorf("retry wait interrupted: %w", waitErr)
		}
		return types.Miss(), nil
	}
}
