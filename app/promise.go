package app

import (
	"context"
	"fmt"

	"github.com/joeycumines/go-eventloop"

	"github.com/binp-dev/ferrite-go/variable"
)

// Executor is an optional cooperative-scheduling adapter over
// github.com/joeycumines/go-eventloop, named by SPEC_FULL.md's domain
// stack as a candidate for application code that wants to orchestrate
// many concurrent variable operations (reads, writes, channel flushes)
// through Promise chaining rather than a goroutine per operation.
//
// Nothing in package raw, variable, or channel depends on Executor --
// app.Main implementations are free to ignore it and drive Read/Write
// calls from bare goroutines instead.
type Executor struct {
	loop *eventloop.Loop
	js   *eventloop.JS
}

// NewExecutor constructs an Executor with a fresh Loop. Run must be called
// (typically from its own goroutine) to actually process scheduled work;
// Go and Then calls made before Run starts are queued, not lost.
func NewExecutor() (*Executor, error) {
	loop, err := eventloop.New()
	if err != nil {
		return nil, fmt.Errorf("app: new event loop: %w", err)
	}
	js, err := eventloop.NewJS(loop)
	if err != nil {
		return nil, fmt.Errorf("app: new event loop js binding: %w", err)
	}
	return &Executor{loop: loop, js: js}, nil
}

// Run processes scheduled tasks and timers until ctx is done or Shutdown
// is called from another goroutine.
func (e *Executor) Run(ctx context.Context) error {
	return e.loop.Run(ctx)
}

// Shutdown stops Run, waiting (bounded by ctx) for in-flight work.
func (e *Executor) Shutdown(ctx context.Context) error {
	return e.loop.Shutdown(ctx)
}

// Go runs fn on its own goroutine and settles the returned promise with
// its result, resolving on the loop thread (github.com/joeycumines/go-eventloop's
// Promisify contract). Use this to fold a blocking call -- a
// variable.Read[T].Read, a channel.Reader.ReadMsg, anything taking a
// context.Context -- into a chain of Thens without blocking the caller.
func (e *Executor) Go(ctx context.Context, fn func(ctx context.Context) (any, error)) eventloop.Promise {
	return e.loop.Promisify(ctx, fn)
}

// ReadVar returns a promise for a single variable.Read[T].Read call,
// letting application code compose several concurrent reads (e.g. via
// JS.All, documented on *eventloop.JS) instead of awaiting each in turn.
func ReadVar[T variable.Scalar](e *Executor, ctx context.Context, r *variable.Read[T]) eventloop.Promise {
	return e.Go(ctx, func(ctx context.Context) (any, error) {
		return r.Read(ctx)
	})
}

// WriteVar returns a promise for a single variable.Write[T].Write call,
// resolving with no value on success.
func WriteVar[T variable.Scalar](e *Executor, ctx context.Context, w *variable.Write[T], value T) eventloop.Promise {
	return e.Go(ctx, func(ctx context.Context) (any, error) {
		return nil, w.Write(ctx, value)
	})
}
