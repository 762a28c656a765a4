package variable

import (
	"context"

	"github.com/binp-dev/ferrite-go/raw"
)

// Read is a handle to a scalar variable the host produces and the
// application consumes, grounded on orig variable/read.rs's ReadVariable +
// ReadFuture, collapsed into one blocking method since Go has no Future to
// split the two across.
type Read[T Scalar] struct {
	raw *raw.Variable
	log *Logger
}

func newRead[T Scalar](rv *raw.Variable, log *Logger) *Read[T] {
	return &Read[T]{raw: rv, log: log}
}

// Name returns the variable's host-assigned name.
func (r *Read[T]) Name() string { return r.raw.Name() }

// Read blocks until the host produces the next value, or ctx is done. It
// drives the full proc_state cycle itself: Idle -> Requested (asking the
// host to schedule a window), waiting for the host's proc_start callback to
// reach Processing, reading the data buffer, and acknowledging completion
// (orig: ReadFuture::poll's state match, one arm per ProcState variant).
func (r *Read[T]) Read(ctx context.Context) (T, error) {
	var (
		value T
		have  bool
	)
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
			value = *(*T)(g.Var().DataPtr())
			have = true
			err := g.CompleteProc()
			g.Close()
			if err != nil {
				return value, err
			}
		case raw.Ready:
			g.Close()
		case raw.Complete:
			err := g.CleanProc()
			g.Close()
			if err != nil {
				var zero T
				return zero, err
			}
			if !have {
				// a host that races proc_start/proc_done without this
				// task ever observing Processing; treat as a protocol
				// violation rather than returning an uninitialized value.
				return value, &raw.ErrProtocolViolation{Variable: r.Name(), From: state, Attempt: "read"}
			}
			return value, nil
		default:
			g.Close()
		}

		if state == raw.Processing || state == raw.Complete {
			// already advanced the state machine above; loop immediately
			// to re-read it rather than waiting on a wake that already
			// fired.
			continue
		}
		if err := r.raw.WaitState(ctx, state); err != nil {
			var zero T
			return zero, err
		}
	}
}
