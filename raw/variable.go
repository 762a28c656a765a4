package raw

import (
	"context"
	"fmt"
	"unsafe"
)

// controlBlockPtr and controlBlockFromPtr round-trip a *procState through
// the unsafe.Pointer carried by HostVar.UserData/SetUserData. This package
// never touches C directly -- that conversion, and making the resulting
// pointer safe to stash in C-owned memory for the lifetime of the variable,
// is sys.Var's job (via runtime/cgo.Handle); internal/hosttest's fake simply
// stores the Go pointer, since it never crosses into C.
func controlBlockPtr(ps *procState) unsafe.Pointer { return unsafe.Pointer(ps) }

func controlBlockFromPtr(p unsafe.Pointer) *procState { return (*procState)(p) }

// ErrProtocolViolation is returned (or, for host-driven transitions that have
// no caller to return an error to, turned into a panic recovered by
// app.Start) when a proc_state transition is attempted from a state that
// does not permit it. See raw/state.go's transition table.
type ErrProtocolViolation struct {
	Variable string
	From     ProcState
	Attempt  string
}

func (e *ErrProtocolViolation) Error() string {
	return fmt.Sprintf("raw: variable %q: illegal %s from state %s", e.Variable, e.Attempt, e.From)
}

// Variable wraps a HostVar with the proc_state machine, giving callers a
// single lock-scoped Guard through which both metadata and the processing
// handshake are accessed. It is the Go analogue of the orig VariableUnprotected
// plus Guard/GuardMut pair, collapsed into one type since Go has no
// const-vs-mut reference distinction to mirror Guard vs GuardMut with.
type Variable struct {
	host HostVar
	ps   *procState
	log  *Logger
}

// InitVariable installs a fresh proc_state control block on host via
// SetUserData and returns the wrapper. Call exactly once per host variable,
// before it is published to any application code (orig: VariableUnprotected::init).
// log may be nil, in which case transitions are not logged.
func InitVariable(host HostVar, log *Logger) *Variable {
	v := &Variable{host: host, ps: newProcState(), log: log}
	host.SetUserData(controlBlockPtr(v.ps))
	return v
}

// VariableFromUserData recovers the Variable previously installed by
// InitVariable, given the same HostVar. Used by the host-driven callback
// path (cmd/ferritebridge's fer_var_proc_start), which receives only the C
// pointer and must look the control block back up via UserData.
func VariableFromUserData(host HostVar, log *Logger) *Variable {
	ps := controlBlockFromPtr(host.UserData())
	return &Variable{host: host, ps: ps, log: log}
}

// Name returns the variable's host-assigned name.
func (v *Variable) Name() string { return v.host.Name() }

// Type returns the variable's immutable shape.
func (v *Variable) Type() VarType { return v.host.Type() }

// State returns the current proc_state. Safe to call without the lock held;
// see raw/state.go for the memory-ordering rationale.
func (v *Variable) State() ProcState { return v.ps.load() }

// Guard is a scope-bound hold of the variable's lock, the Go analogue of the
// orig Guard/GuardMut RAII types, released by calling Close (typically via
// defer) rather than relying on a destructor.
type Guard struct {
	v *Variable
}

// Lock acquires the host lock and returns a Guard; release it with
// Close (typically `defer g.Close()`).
func (v *Variable) Lock() *Guard {
	v.host.Lock()
	return &Guard{v: v}
}

// Close releases the lock acquired by Lock. Calling it more than once is a
// programmer error, mirrored here (as in the orig Drop impl) by relying on
// the host's own Unlock to detect double-unlock, since Go has no Drop to
// enforce it statically.
func (g *Guard) Close() { g.v.host.Unlock() }

// Var returns the HostVar the guard is holding the lock for, for metadata
// and data-buffer access while the lock is held.
func (g *Guard) Var() HostVar { return g.v.host }

// RequestProc transitions Idle -> Requested and asks the host to schedule a
// processing window, unless a request is already outstanding (Requested,
// Processing, Ready or Complete all mean a cycle is already in flight, so a
// repeat RequestProc is a silent no-op exactly as in orig
// VariableUnprotected::request_proc's `if !ps.requested` guard, generalized
// to "not idle"). Caller must hold g.
func (g *Guard) RequestProc() {
	if g.v.ps.load() != Idle {
		return
	}
	g.v.ps.store(Requested)
	g.v.ps.wakeAll()
	g.v.host.RequestProc()
	logTransition(g.v.log, g.v.Name(), Idle, Requested)
}

// ProcBegin moves the variable into its processing window. Legal from
// Requested (the normal case), and from Idle too, but only for a Read
// variable (host-initiated processing with no prior request, e.g. a Read
// variable the host produces unprompted): spec §4.3 treats a host-initiated
// Idle -> Processing on a Write variable as a protocol violation, since the
// application never asked for one and would otherwise silently overwrite
// whatever it next writes into a window it doesn't own. Any other starting
// state is also a host protocol violation: the C host called proc_start for
// a variable it already has a window open on.
//
// This is the host-driven callback path (cmd/ferritebridge's
// fer_var_proc_start, or internal/hosttest's fake), invoked by the host with
// its own lock already held (spec §6: "host holds the lock across this
// call"); it must not re-acquire v.host's lock itself -- that lock is not
// reentrant, and the orig fer_var_proc_start likewise takes no lock of its
// own ("variable is already locked during this call"). It touches only the
// atomic state and wake channel, so it needs none here either. Call it
// directly on the Variable, not through a Guard.
func (v *Variable) ProcBegin() error {
	s := v.ps.load()
	switch {
	case s == Requested, s == Idle && v.Type().Dir == DirRead:
		v.ps.store(Processing)
		v.ps.wakeAll()
		logTransition(v.log, v.Name(), s, Processing)
		return nil
	default:
		err := &ErrProtocolViolation{Variable: v.Name(), From: s, Attempt: "proc_begin"}
		logProtocolViolation(v.log, err)
		return err
	}
}

// CompleteProc is called by the application task once it has finished
// reading or writing the data buffer for the current processing window. It
// requires Processing, transitions through Ready to Complete, and tells the
// host the window is done. The ABI this bridge targets (spec §6) has no
// separate host acknowledgement callback for "proc_end" -- var_proc_done is
// a plain synchronous import call -- so both the Processing->Ready and
// Ready->Complete transitions happen here in one step (orig complete_proc
// likewise resets both requested and processing flags in a single call).
// Caller must hold g.
func (g *Guard) CompleteProc() error {
	if s := g.v.ps.load(); s != Processing {
		err := &ErrProtocolViolation{Variable: g.v.Name(), From: s, Attempt: "complete_proc"}
		logProtocolViolation(g.v.log, err)
		return err
	}
	g.v.ps.store(Ready)
	g.v.host.CompleteProc()
	g.v.ps.store(Complete)
	g.v.ps.wakeAll()
	logTransition(g.v.log, g.v.Name(), Processing, Complete)
	return nil
}

// CleanProc transitions Complete -> Idle. Unlike the other transitions this
// is pure bookkeeping: by the time the task observes Complete, var_proc_done
// has already returned, so there is nothing left to tell the host. Caller
// must hold g.
func (g *Guard) CleanProc() error {
	if s := g.v.ps.load(); s != Complete {
		err := &ErrProtocolViolation{Variable: g.v.Name(), From: s, Attempt: "clean_proc"}
		logProtocolViolation(g.v.log, err)
		return err
	}
	g.v.ps.store(Idle)
	logTransition(g.v.log, g.v.Name(), Complete, Idle)
	return nil
}

// WaitState blocks until the proc_state differs from the last value observed
// by the caller, or ctx is done. It does not take the lock: the typed
// handles in package variable call this between lock scopes, sleeping on the
// wake channel rather than spinning, then re-acquire the lock to check the
// new state (the Go replacement for orig Future::poll + Waker registration).
func (v *Variable) WaitState(ctx context.Context, last ProcState) error {
	for {
		ch := v.ps.waitChan()
		if v.ps.load() != last {
			return nil
		}
		select {
		case <-ch:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
