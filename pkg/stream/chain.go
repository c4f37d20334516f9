package stream

import (
	"github.com/jzx17/errshot/pkg/shot"
	"github.com/jzx17/errshot/pkg/types"
)

// Stage is one link of an interception chain
type Stage[T any] func(types.Source[T]) Stream[T]

// StageOf builds a stage intercepting failures of kind E with shooter
func StageOf[T any, E error](shooter shot.Shooter[E], opts ...Option) Stage[T] {
	if shooter == nil {
		panic("shooter cannot be nil")
	}
	return func(src types.Source[T]) Stream[T] {
		return Intercept(src, shooter, opts...)
	}
}

// StageWith builds a stage intercepting failures of kind E with a shooter object
func StageWith[T any, E error](s shot.ErrorShooter[E], opts ...Option) Stage[T] {
	if s == nil {
		panic("error shooter cannot be nil")
	}
	return StageOf[T](shot.Adapt(s), opts...)
}

// Chain applies stages to src in order. The first stage is innermost and gets
// first refusal on every failure, so put specific kinds before catch-all ones.
func Chain[T any](src types.Source[T], stages ...Stage[T]) Stream[T] {
	current := From(src)
	for _, stage := range stages {
		if stage == nil {
			continue
		}
		current = stage(current)
	}
	return current
}

// ChainBuilder collects stages to apply to several sources
type ChainBuilder[T any] struct {
	stages []Stage[T]
}

// NewChainBuilder creates chain builder
func NewChainBuilder[T any]() *ChainBuilder[T] {
	return &ChainBuilder[T]{
		stages: make([]Stage[T], 0),
	}
}

// Add adds stage
func (b *ChainBuilder[T]) Add(stage Stage[T]) *ChainBuilder[T] {
	b.stages = append(b.stages, stage)
	return b
}

// Build returns a stage applying every added stage in order
func (b *ChainBuilder[T]) Build() Stage[T] {
	stages := make([]Stage[T], len(b.stages))
	copy(stages, b.stages)

	return func(src types.Source[T]) Stream[T] {
		return Chain(src, stages...)
	}
}

// Len returns the number of stages added so far
func (b *ChainBuilder[T]) Len() int {
	return len(b.stages)
}
