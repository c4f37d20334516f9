// Package shooter provides shooter decorators for logging, circuit breaking,
// pacing and tracing.
//
// Decorators wrap a shot.Shooter and delegate the decision to it:
//
//	s := shooter.Logged(logger, types.LevelInfo,
//		shooter.Breaker(cb,
//			shooter.Paced(limiter,
//				retry.Shooter[error](policy))))
//
// They are typed over the same target kind as the shooter they wrap.
package shooter
