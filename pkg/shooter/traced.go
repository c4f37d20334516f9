package shooter

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jzx17/errshot/pkg/shot"
	"github.com/jzx17/errshot/pkg/types"
)

// Traced records each decision of next as a span named "errshot.shoot"
func Traced[E error](tracer trace.Tracer, stage string, next shot.Shooter[E]) shot.Shooter[E] {
	return func(ctx context.Context, err E, attempt types.Attempt) (types.Shot, error) {
		ctx, span := tracer.Start(ctx, "errshot.shoot",
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(
				attribute.String("errshot.stage", stage),
				attribute.Int("errshot.attempt", attempt),
				attribute.String("errshot.error", err.Error()),
			),
		)
		defer span.End()

		s, shootErr := next(ctx, err, attempt)
		if shootErr != nil {
			span.RecordError(shootErr)
			span.SetStatus(codes.Error, shootErr.Error())
			return s, shootErr
		}

		span.SetAttributes(attribute.String("errshot.shot", s.Kind().String()))
		if s.Kind() == types.ShotHit {
			span.SetStatus(codes.Error, s.Err().Error())
		}
		return s, nil
	}
}
