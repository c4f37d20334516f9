package shooter

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jzx17/errshot/pkg/shot"
	"github.com/jzx17/errshot/pkg/types"
)

// Logged logs the description of the failure at level, when the failure is
// a types.DescribableError with something to say at that level, then
// delegates to next.
func Logged[E error](logger *zap.Logger, level types.Level, next shot.Shooter[E]) shot.Shooter[E] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, err E, attempt types.Attempt) (types.Shot, error) {
		if msg, ok := types.Describe(err, level); ok {
			if ce := logger.Check(zapLevel(level), msg); ce != nil {
				ce.Write(
					zap.Int("attempt", attempt),
					zap.Stringer("detail", level),
					zap.Error(err),
				)
			}
		}
		return next(ctx, err, attempt)
	}
}

// LogAndRethrow logs the failure description then hits with the failure
func LogAndRethrow[E error](logger *zap.Logger, level types.Level) shot.Shooter[E] {
	return Logged(logger, level, shot.Rethrow[E]())
}

// zapLevel maps a description level to a zap level; verbose logs at debug
func zapLevel(level types.Level) zapcore.Level {
	switch level {
	case types.LevelVerbose, types.LevelDebug:
		return zapcore.DebugLevel
	case types.LevelInfo:
		return zapcore.InfoLevel
	case types.LevelWarn:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}
