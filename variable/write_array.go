package variable

import (
	"context"
	"fmt"
	"unsafe"

	"github.com/binp-dev/ferrite-go/raw"
)

// WriteArray is a handle to an array variable the application produces and
// the host consumes, grounded on orig variable/write_array.rs's
// WriteArrayVariable + InitInPlaceFuture + WriteArrayGuard.
type WriteArray[T Scalar] struct {
	raw    *raw.Variable
	maxLen int
	log    *Logger
}

func newWriteArray[T Scalar](rv *raw.Variable, maxLen int, log *Logger) *WriteArray[T] {
	return &WriteArray[T]{raw: rv, maxLen: maxLen, log: log}
}

// Name returns the variable's host-assigned name.
func (w *WriteArray[T]) Name() string { return w.raw.Name() }

// MaxLen returns the array's fixed buffer capacity.
func (w *WriteArray[T]) MaxLen() int { return w.maxLen }

// WriteArrayGuard grants in-place write access to the host's data buffer
// for the duration of a processing window. The caller must call SetLen to
// declare how many elements it wrote, then Commit, exactly once (a
// `ferrite_debug` build reports a guard finalized without Commit -- see
// leak_debug.go).
type WriteArrayGuard[T Scalar] struct {
	owner   *WriteArray[T]
	guard   *raw.Guard
	len     int
	set     bool
	tracker *guardTracker
}

// Slice returns the full writable buffer (capacity MaxLen); only the first
// n elements, where n is the value later passed to SetLen, are considered
// valid by the host.
func (g *WriteArrayGuard[T]) Slice() []T {
	if g.owner.maxLen == 0 {
		return nil
	}
	ptr := (*T)(g.guard.Var().DataPtr())
	return unsafe.Slice(ptr, g.owner.maxLen)
}

// SetLen declares how many leading elements of Slice the host should
// consider valid. n must be <= MaxLen.
func (g *WriteArrayGuard[T]) SetLen(n int) {
	if n > g.owner.maxLen {
		panic(fmt.Sprintf("variable: SetLen(%d) exceeds max_len %d", n, g.owner.maxLen))
	}
	g.guard.Var().ArraySetLen(n)
	g.len = n
	g.set = true
}

// Commit acknowledges completion of the processing window (SetLen must
// already have been called) and waits for the handshake's tail, or for ctx
// to be done.
func (g *WriteArrayGuard[T]) Commit(ctx context.Context) error {
	if !g.set {
		g.guard.Close()
		return fmt.Errorf("variable: WriteArrayGuard.Commit called before SetLen")
	}
	g.tracker.markDone()
	if err := g.guard.CompleteProc(); err != nil {
		g.guard.Close()
		return err
	}
	g.guard.Close()
	return finishClose(ctx, g.owner.raw)
}

// InitInPlace blocks until a processing window is open and returns a guard
// over the host's buffer, or ctx is done.
func (w *WriteArray[T]) InitInPlace(ctx context.Context) (*WriteArrayGuard[T], error) {
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
			t := newGuardTracker("write_array", w.Name(), w.log)
			return &WriteArrayGuard[T]{owner: w, guard: g, tracker: t}, nil
		default:
			g.Close()
			return nil, &raw.ErrProtocolViolation{Variable: w.Name(), From: state, Attempt: "init_in_place"}
		}
		if err := w.raw.WaitState(ctx, state); err != nil {
			return nil, err
		}
	}
}

// WriteFromSlice writes src (whose length must be <= MaxLen) to the host in
// a single processing window (orig: WriteArrayVariable::write_from_slice).
func (w *WriteArray[T]) WriteFromSlice(ctx context.Context, src []T) error {
	if len(src) > w.maxLen {
		panic(fmt.Sprintf("variable: WriteFromSlice: len(src)=%d exceeds max_len %d", len(src), w.maxLen))
	}
	g, err := w.InitInPlace(ctx)
	if err != nil {
		return err
	}
	copy(g.Slice(), src)
	g.SetLen(len(src))
	return g.Commit(ctx)
}
