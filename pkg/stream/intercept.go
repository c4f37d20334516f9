package stream

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jzx17/errshot/pkg/shot"
	"github.com/jzx17/errshot/pkg/types"
)

const defaultStageName = "intercept"

// options configures an interception stage
type options struct {
	name     string
	logger   *zap.Logger
	observer types.Observer
}

// Option configures an interception stage
type Option = types.Option[*options]

func newOptions(opts []Option) *options {
	o := &options{
		name:   defaultStageName,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithName names the stage in logs and metrics
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithLogger sets the logger used for stage decisions
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithObserver sets an observer notified of every shot and outcome
func WithObserver(observer types.Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// interceptor is one interception stage bound to a target error kind E
type interceptor[T any, E error] struct {
	src     types.Source[T]
	shooter shot.Shooter[E]
	opts    *options
}

// Intercept wraps src so that failures matching E are handed to shooter.
//
// Values and completion pass through unchanged. A failure that does not
// match E (according to errors.As) is forwarded untouched and costs no
// attempt. A matching failure is passed to the shooter with the attempt
// number, zero for the first failure of a subscription, and the shot decides:
// miss subscribes to src again, hit fails with the carried error and sink
// completes. Failures elected by a hit in an earlier stage are never matched.
//
// Canceling ctx cancels the running source or the pending shooter; a shot
// that resolves afterwards is ignored.
func Intercept[T any, E error](src types.Source[T], shooter shot.Shooter[E], opts ...Option) Stream[T] {
	if shooter == nil {
		panic("shooter cannot be nil")
	}
	it := &interceptor[T, E]{
		src:     src,
		shooter: shooter,
		opts:    newOptions(opts),
	}
	return Create[T](it.run)
}

// InterceptWith is Intercept for a callback style shooter object
func InterceptWith[T any, E error](src types.Source[T], s shot.ErrorShooter[E], opts ...Option) Stream[T] {
	if s == nil {
		panic("error shooter cannot be nil")
	}
	return Intercept(src, shot.Adapt(s), opts...)
}

// run is one subscription; attempt is owned by it alone
func (it *interceptor[T, E]) run(ctx context.Context, emit func(T) error) error {
	logger := it.opts.logger.With(
		zap.String("stage", it.opts.name),
		zap.String("subscription", uuid.NewString()),
	)

	attempt := 0
	for {
		var downstreamErr error
		err := it.src.Subscribe(ctx, func(v T) error {
			if emitErr := emit(v); emitErr != nil {
				downstreamErr = emitErr
				return emitErr
			}
			return nil
		})

		switch {
		case err == nil:
			it.finish(types.OutcomeCompleted)
			return nil
		case downstreamErr != nil:
			// the consumer stopped us; not a failure of the source
			it.finish(types.OutcomePassed)
			return err
		case ctx.Err() != nil:
			it.finish(types.OutcomeCanceled)
			return ctx.Err()
		}

		var hit *types.HitError
		if errors.As(err, &hit) {
			it.finish(types.OutcomePassed)
			return err
		}

		var target E
		if !errors.As(err, &target) {
			logger.Debug("failure passed through", zap.Error(err))
			it.finish(types.OutcomePassed)
			return err
		}

		decision, shootErr := shot.Await(ctx, it.shooter, target, attempt)
		if shootErr != nil {
			if ctx.Err() != nil {
				it.finish(types.OutcomeCanceled)
				return ctx.Err()
			}
			decision = types.Hit(shootErr)
		}

		it.observe(attempt, decision)
		logger.Debug("shot",
			zap.Int("attempt", attempt),
			zap.Stringer("shot", decision.Kind()),
			zap.Error(err),
		)
		attempt++

		switch decision.Kind() {
		case types.ShotHit:
			it.finish(types.OutcomeHit)
			return &types.HitError{Err: decision.Err(), Stage: it.opts.name}
		case types.ShotSink:
			it.finish(types.OutcomeSunk)
			return nil
		case types.ShotMiss:
			continue
		}
	}
}

func (it *interceptor[T, E]) observe(attempt types.Attempt, s types.Shot) {
	if it.opts.observer != nil {
		it.opts.observer.ObserveShot(it.opts.name, attempt, s)
	}
}

func (it *interceptor[T, E]) finish(outcome types.Outcome) {
	if it.opts.observer != nil {
		it.opts.observer.ObserveOutcome(it.opts.name, outcome)
	}
}
