package shooter

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/jzx17/errshot/pkg/shot"
	"github.com/jzx17/errshot/pkg/types"
)

// Paced waits on lim before returning a miss from next, so that
// resubscriptions sharing lim never exceed its rate. Hits and sinks are
// returned immediately.
func Paced[E any](lim *rate.Limiter, next shot.Shooter[E]) shot.Shooter[E] {
	return func(ctx context.Context, err E, attempt types.Attempt) (types.Shot, error) {
		s, shootErr := next(ctx, err, attempt)
		if shootErr != nil || s.Kind() != types.ShotMiss {
			return s, shootErr
		}
		if waitErr := lim.Wait(ctx); waitErr != nil {
			return types.Shot{}, waitErr
		}
		return s, nil
	}
}
