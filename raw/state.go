package raw

import (
	"sync"
	"sync/atomic"
)

// ProcState is one of the five states of a variable's processing cycle. See
// the doc comment on procState for the full transition table.
type ProcState uint32

const (
	// Idle: no outstanding work.
	Idle ProcState = iota
	// Requested: the application has asked the host to process.
	Requested
	// Processing: the host has granted a processing window; data buffer
	// access is legal.
	Processing
	// Ready: the application has finished data access and signaled done.
	Ready
	// Complete: the host has acknowledged and the task may resume
	// post-processing.
	Complete
)

func (s ProcState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Requested:
		return "requested"
	case Processing:
		return "processing"
	case Ready:
		return "ready"
	case Complete:
		return "complete"
	default:
		return "invalid"
	}
}

// procState is the per-variable control block: the atomic proc_state plus a
// wake channel standing in for the single-slot waker of spec §4.2.
//
// Transitions, and who performs them:
//
//	Idle       -> Requested  : task, requestProc
//	Requested  -> Processing : host, procBegin
//	Idle       -> Processing : host, procBegin, Read variables only
//	                           (host-initiated, e.g. a read variable the host
//	                           produces without a request); for a Write
//	                           variable this same transition is a protocol
//	                           violation, since the application never asked
//	                           for the window it would otherwise write into
//	Processing -> Ready      : task, completeProc
//	Ready      -> Complete   : task, completeProc (see completeProc doc: in
//	                           this ABI there is no separate host
//	                           acknowledgement callback, so the task performs
//	                           both halves of the handshake once var_complete_proc
//	                           returns)
//	Complete   -> Idle       : task, cleanProc
//
// No other sequence is legal; a caller that observes a transition outside
// this table has hit a protocol violation (see ErrProtocolViolation in
// variable.go).
//
// Only one typed handle owns a variable at a time, so only one goroutine is
// ever blocked on the current wake channel; replacing it (wakeAll) is always
// safe, and an abandoned channel with no readers is simply garbage collected
// -- the Go analogue of spec §9's "replacing an older waker... the older one
// is simply dropped".
type procState struct {
	state atomic.Uint32

	mu   sync.Mutex
	wake chan struct{}
}

func newProcState() *procState {
	ps := &procState{wake: make(chan struct{})}
	ps.state.Store(uint32(Idle))
	return ps
}

// load reads the current state. Go's atomic load/store already provides
// sequentially-consistent ordering, at least as strong as the acquire/release
// spec §4.2 requires.
func (ps *procState) load() ProcState {
	return ProcState(ps.state.Load())
}

// store is a plain (non-CAS) unconditional transition. All legal transitions
// in this state machine are performed by exactly one of two parties at a
// time (the task or the host callback, never both concurrently for the same
// variable), so a CAS is not required for correctness -- the caller has
// already checked load() under the appropriate external synchronization
// (the host lock, for host-side transitions; ownership of the typed handle,
// for task-side transitions).
func (ps *procState) store(s ProcState) {
	ps.state.Store(uint32(s))
}

// waitChan returns the channel currently used to signal a state change.
func (ps *procState) waitChan() chan struct{} {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.wake
}

// wakeAll closes the current wait channel (broadcasting to every goroutine
// currently selecting on it) and installs a fresh one for subsequent
// waiters.
func (ps *procState) wakeAll() {
	ps.mu.Lock()
	old := ps.wake
	ps.wake = make(chan struct{})
	ps.mu.Unlock()
	close(old)
}
