// Package pipeline provides a sequential stage-based execution pipeline.
package pipeline

import (
	"context"
	"fmt"
	"runtime/debug"
)

// Stage is a single unit of work in a build pipeline.
type Stage interface {
	Name() string
	Execute(ctx context.Context, bc *BuildContext) error
}

// StageFunc adapts a plain function into a Stage.
func StageFunc(name string, fn func(ctx context.Context, bc *BuildContext) error) Stage {
	return &funcStage{name: name, fn: fn}
}

type funcStage struct {
	name string
	fn   func(ctx context.Context, bc *BuildContext) error
}

func (s *funcStage) Name() string { return s.name }

func (s *funcStage) Execute(ctx context.Context, bc *BuildContext) error { return s.fn(ctx, bc) }

// PanicError is returned by Run when a stage panics.
type PanicError struct {
	Stage string
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Observer is notified before each stage starts.
type Observer func(bc *BuildContext, stage Stage)

// Pipeline executes a sequence of stages in order.
type Pipeline struct {
	stages  []Stage
	observe Observer
}

// New creates a Pipeline from the given stages.
func New(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Then appends stages to the end of the pipeline.
func (p *Pipeline) Then(stages ...Stage) *Pipeline {
	p.stages = append(p.stages, stages...)
	return p
}

// Observe sets a callback invoked before each stage.
func (p *Pipeline) Observe(fn Observer) *Pipeline {
	p.observe = fn
	return p
}

// Stages returns the stage names in execution order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}

// Run executes each stage sequentially. It stops on the first error.
func (p *Pipeline) Run(ctx context.Context, bc *BuildContext) error {
	for _, s := range p.stages {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("pipeline cancelled before stage %s: %w", s.Name(), err)
		}
		if p.observe != nil {
			p.observe(bc, s)
		}
		if err := execute(ctx, s, bc); err != nil {
			return fmt.Errorf("stage %s: %w", s.Name(), err)
		}
	}
	return nil
}

func execute(ctx context.Context, s Stage, bc *BuildContext) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Stage: s.Name(), Value: r, Stack: debug.Stack()}
		}
	}()
	return s.Execute(ctx, bc)
}
