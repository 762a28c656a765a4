package variable

import (
	"context"
	"unsafe"

	"github.com/binp-dev/ferrite-go/raw"
)

// ReadArray is a handle to an array variable the host produces and the
// application consumes, grounded on orig variable/read_array.rs's
// ReadArrayVariable + ReadInPlaceFuture + ReadArrayGuard.
type ReadArray[T Scalar] struct {
	raw    *raw.Variable
	maxLen int
	log    *Logger
}

func newReadArray[T Scalar](rv *raw.Variable, maxLen int, log *Logger) *ReadArray[T] {
	return &ReadArray[T]{raw: rv, maxLen: maxLen, log: log}
}

// Name returns the variable's host-assigned name.
func (r *ReadArray[T]) Name() string { return r.raw.Name() }

// MaxLen returns the array's fixed buffer capacity.
func (r *ReadArray[T]) MaxLen() int { return r.maxLen }

// ReadArrayGuard grants in-place access to the host's data buffer for the
// duration of a processing window. It holds the variable's lock: the caller
// must call Close to release it and hand the window back to the host,
// exactly once. Failing to do so blocks every other access to the
// variable indefinitely (orig enforces this by panicking in Drop if the
// guard was not consumed by close(); a `ferrite_debug` build of this module
// instead reports the leak via tracker's finalizer -- see leak_debug.go).
type ReadArrayGuard[T Scalar] struct {
	owner   *ReadArray[T]
	guard   *raw.Guard
	len     int
	tracker *guardTracker
}

// Slice returns the currently readable elements, a view directly over the
// host's buffer. The slice is only valid until Close is called.
func (g *ReadArrayGuard[T]) Slice() []T {
	if g.len == 0 {
		return nil
	}
	ptr := (*T)(g.guard.Var().DataPtr())
	return unsafe.Slice(ptr, g.len)
}

// Close acknowledges completion of the processing window and waits for the
// host to finish its own side of the handshake, or for ctx to be done. On
// success the variable returns to Idle and is ready for the next
// ReadInPlace/TryReadInPlace call.
func (g *ReadArrayGuard[T]) Close(ctx context.Context) error {
	g.tracker.markDone()
	if err := g.guard.CompleteProc(); err != nil {
		g.guard.Close()
		return err
	}
	g.guard.Close()
	return finishClose(ctx, g.owner.raw)
}

// finishClose drives the Ready/Complete -> Idle tail of the state machine
// shared by every guard type (ReadArrayGuard, WriteArrayGuard): by the time
// CompleteProc has returned the state is already Complete (see
// raw.Guard.CompleteProc's doc comment), so this just needs to call
// CleanProc under a fresh lock.
func finishClose(ctx context.Context, rv *raw.Variable) error {
	for {
		state := rv.State()
		if state == raw.Complete {
			g := rv.Lock()
			err := g.CleanProc()
			g.Close()
			return err
		}
		if err := rv.WaitState(ctx, state); err != nil {
			return err
		}
	}
}

// ReadInPlace blocks until a processing window is open and returns a guard
// over the host's buffer, or ctx is done.
func (r *ReadArray[T]) ReadInPlace(ctx context.Context) (*ReadArrayGuard[T], error) {
	for {
		state := r.raw.State()
		g := r.raw.Lock()
		switch state {
		case raw.Idle:
			g.RequestProc()
			g.Close()
		case raw.Requested:
			g.Close()
		case raw.Processing:
			n := g.Var().ArrayLen()
			t := newGuardTracker("read_array", r.Name(), r.log)
			return &ReadArrayGuard[T]{owner: r, guard: g, len: n, tracker: t}, nil
		default:
			g.Close()
			return nil, &raw.ErrProtocolViolation{Variable: r.Name(), From: state, Attempt: "read_in_place"}
		}
		if err := r.raw.WaitState(ctx, state); err != nil {
			return nil, err
		}
	}
}

// TryReadInPlace is like ReadInPlace, but returns immediately with ok=false
// instead of blocking when no processing window is currently open.
func (r *ReadArray[T]) TryReadInPlace(ctx context.Context) (*ReadArrayGuard[T], bool, error) {
	state := r.raw.State()
	g := r.raw.Lock()
	switch state {
	case raw.Idle:
		g.RequestProc()
		g.Close()
		return nil, false, nil
	case raw.Processing:
		n := g.Var().ArrayLen()
		t := newGuardTracker("read_array", r.Name(), r.log)
		return &ReadArrayGuard[T]{owner: r, guard: g, len: n, tracker: t}, true, nil
	default:
		g.Close()
		return nil, false, nil
	}
}

// ReadToSlice reads the current array into dst, returning the number of
// elements copied, or false if dst is too small (orig:
// ReadArrayVariable::read_to_slice).
func (r *ReadArray[T]) ReadToSlice(ctx context.Context, dst []T) (int, bool, error) {
	g, err := r.ReadInPlace(ctx)
	if err != nil {
		return 0, false, err
	}
	src := g.Slice()
	if len(dst) < len(src) {
		_ = g.Close(ctx)
		return 0, false, nil
	}
	n := copy(dst, src)
	if err := g.Close(ctx); err != nil {
		return 0, false, err
	}
	return n, true, nil
}
