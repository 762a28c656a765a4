package variable

import (
	"context"

	"github.com/binp-dev/ferrite-go/raw"
)

// Write is a handle to a scalar variable the application produces and the
// host consumes, grounded on orig variable/write.rs's WriteVariable +
// WriteFuture.
type Write[T Scalar] struct {
	raw *raw.Variable
	log *Logger
}

func newWrite[T Scalar](rv *raw.Variable, log *Logger) *Write[T] {
	return &Write[T]{raw: rv, log: log}
}

// Name returns the variable's host-assigned name.
func (w *Write[T]) Name() string { return w.raw.Name() }

// Write blocks until value has been delivered to the host and the window
// acknowledged, or ctx is done. A host that drives Processing without this
// handle ever having requested it is a protocol violation rejected at the
// source -- raw.Variable.ProcBegin refuses Idle -> Processing for a Write
// variable (spec §4.3) -- so by the time this loop observes Processing, the
// window is always one this handle, or an earlier caller of RequestProc on
// this same variable, actually asked for.
func (w *Write[T]) Write(ctx context.Context, value T) error {
	for {
		state := w.raw.State()
		g := w.raw.Lock()
		switch state {
		case raw.Idle:
			g.RequestProc()
			g.Close()
		case raw.Requested:
			g.Close()
		case raw.Processing:
			*(*T)(g.Var().DataPtr()) = value
			err := g.CompleteProc()
			g.Close()
			if err != nil {
				return err
			}
		case raw.Ready:
			g.Close()
		case raw.Complete:
			err := g.CleanProc()
			g.Close()
			return err
		default:
			g.Close()
		}

		if state == raw.Processing {
			continue
		}
		if err := w.raw.WaitState(ctx, state); err != nil {
			return err
		}
	}
}
