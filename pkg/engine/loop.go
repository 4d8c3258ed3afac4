package engine

import "context"

// Loop is the engine-owned main loop an application runs inside.
type Loop interface {
	Run(ctx context.Context, env *Env) error
}

// LoopFunc adapts a function to the Loop interface.
type LoopFunc func(ctx context.Context, env *Env) error

// Run calls f(ctx, env).
func (f LoopFunc) Run(ctx context.Context, env *Env) error {
	return f(ctx, env)
}

// HeadlessLoop is used when no interactive surface is available. It returns
// immediately unless Hold is set, in which case it blocks until ctx is done.
type HeadlessLoop struct {
	Hold bool
}

// Run implements Loop.
func (l HeadlessLoop) Run(ctx context.Context, _ *Env) error {
	if !l.Hold {
		return nil
	}
	<-ctx.Done()
	return ctx.Err()
}
