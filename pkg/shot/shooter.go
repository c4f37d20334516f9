// Package shot defines the shooter contract consulted by interception stages.
//
// A shooter receives an intercepted failure of its target kind together with
// the attempt number and produces exactly one types.Shot:
//
//	shooter := func(ctx context.Context, err types.RetriableError, attempt int) (types.Shot, error) {
//		if err.CanRetry() && attempt < 3 {
//			return types.Miss(), nil
//		}
//		return types.Sink(), nil
//	}
//
// Shooters may block, for example while waiting for a user to choose between
// retrying and giving up. They should honour ctx; stages stop waiting for them
// once ctx is done either way.
package shot

import (
	"context"
	"fmt"
	"sync"

	"github.com/jzx17/errshot/pkg/types"
)

// Shooter decides what to do with a failure of kind E.
// A non-nil error is treated as a hit carrying that error.
type Shooter[E any] func(ctx context.Context, err E, attempt types.Attempt) (types.Shot, error)

// ErrorShooter is a capability object delivering its decision through a
// completion callback. Shoot must call complete exactly once; calls after
// the first are ignored.
type ErrorShooter[E any] interface {
	Shoot(err E, attempt types.Attempt, complete func(types.Shot))
}

// ErrorShooterFunc adapts a function to ErrorShooter
type ErrorShooterFunc[E any] func(err E, attempt types.Attempt, complete func(types.Shot))

// Shoot implements ErrorShooter
func (f ErrorShooterFunc[E]) Shoot(err E, attempt types.Attempt, complete func(types.Shot)) {
	f(err, attempt, complete)
}

// Adapt turns a callback style ErrorShooter into a Shooter.
// The first completion wins; the shooter returns ctx.Err() if ctx ends first.
func Adapt[E any](s ErrorShooter[E]) Shooter[E] {
	if s == nil {
		return nil
	}
	return func(ctx context.Context, err E, attempt types.Attempt) (types.Shot, error) {
		done := make(chan types.Shot, 1)
		var once sync.Once
		s.Shoot(err, attempt, func(shot types.Shot) {
			once.Do(func() {
				done <- shot
			})
		})

		select {
		case shot := <-done:
			return shot, nil
		case <-ctx.Done():
			return types.Shot{}, ctx.Err()
		}
	}
}

type result struct {
	shot types.Shot
	err  error
}

// Await invokes shooter on its own goroutine and waits for its decision.
//
// A panic inside the shooter is returned as an error wrapping
// types.ErrShooterPanic. When ctx is done before the decision arrives, or
// together with it, Await returns ctx.Err() and the late decision is dropped.
func Await[E any](ctx context.Context, shooter Shooter[E], err E, attempt types.Attempt) (types.Shot, error) {
	if shooter == nil {
		return types.Shot{}, types.ErrNilShooter
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return types.Shot{}, ctxErr
	}

	// buffered so an abandoned shooter can still finish
	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("%w: %v", types.ErrShooterPanic, r)}
			}
		}()
		shot, shootErr := shooter(ctx, err, attempt)
		done <- result{shot: shot, err: shootErr}
	}()

	select {
	case res := <-done:
		if ctxErr := ctx.Err(); ctxErr != nil {
			return types.Shot{}, ctxErr
		}
		return res.shot, res.err
	case <-ctx.Done():
		return types.Shot{}, ctx.Err()
	}
}

// Always returns a shooter producing the same shot every time
func Always[E any](s types.Shot) Shooter[E] {
	return func(ctx context.Context, err E, attempt types.Attempt) (types.Shot, error) {
		return s, nil
	}
}

// Rethrow returns a shooter hitting with the intercepted error itself
func Rethrow[E error]() Shooter[E] {
	return func(ctx context.Context, err E, attempt types.Attempt) (types.Shot, error) {
		return types.Hit(err), nil
	}
}

// MissWhile misses while pred holds and produces otherwise for the rest
func MissWhile[E any](pred func(err E, attempt types.Attempt) bool, otherwise types.Shot) Shooter[E] {
	return func(ctx context.Context, err E, attempt types.Attempt) (types.Shot, error) {
		if pred(err, attempt) {
			return types.Miss(), nil
		}
		return otherwise, nil
	}
}
