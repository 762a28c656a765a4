// Package hosttest provides an in-memory fake implementing raw.HostVar and
// host.ABI, for exercising the bridge's logic without cgo or a real C host.
// It plays the same role as the minimal println!-driven fer_var_init /
// fer_var_proc_start stub in orig source/app/base/src/sys.rs, but keeps
// state instead of just logging, so it can drive a fake processing cycle in
// tests.
package hosttest

import (
	"sync"
	"unsafe"

	"github.com/binp-dev/ferrite-go/raw"
)

// Var is a fake host variable: its data buffer lives in a plain Go []byte,
// and RequestProc/CompleteProc just record calls rather than driving any
// real hardware or host runtime. Safe for concurrent use; the mutex doubles
// as the host lock raw.HostVar.Lock/Unlock expects.
type Var struct {
	mu sync.Mutex

	name     string
	typ      raw.VarType
	data     []byte
	arrayLen int
	userData unsafe.Pointer

	// RequestedCount/CompletedCount record how many times the application
	// called through to RequestProc/CompleteProc, for test assertions.
	RequestedCount int
	CompletedCount int

	// OnRequestProc, if set, is invoked synchronously from RequestProc,
	// after recording the call, with the requesting caller still holding
	// the lock -- tests use this to start a goroutine that drives ProcBegin,
	// simulating a host thread that processes the request.
	OnRequestProc func(v *Var)
}

// NewScalar builds a fake scalar variable of the given direction and scalar
// kind, with a data buffer sized for one element of elemSize bytes.
func NewScalar(name string, dir raw.Dir, scalar raw.ScalarKind, elemSize int) *Var {
	return &Var{
		name: name,
		typ:  raw.VarType{Kind: raw.KindScalar, Dir: dir, Scalar: scalar},
		data: make([]byte, elemSize),
	}
}

// NewArray builds a fake array variable with capacity maxLen elements of
// elemSize bytes each, and an initial length of 0.
func NewArray(name string, dir raw.Dir, scalar raw.ScalarKind, elemSize, maxLen int) *Var {
	return &Var{
		name: name,
		typ:  raw.VarType{Kind: raw.KindArray, Dir: dir, Scalar: scalar, ArrayMaxLen: maxLen},
		data: make([]byte, elemSize*maxLen),
	}
}

func (v *Var) Name() string    { return v.name }
func (v *Var) Type() raw.VarType { return v.typ }

func (v *Var) Lock()   { v.mu.Lock() }
func (v *Var) Unlock() { v.mu.Unlock() }

func (v *Var) RequestProc() {
	v.RequestedCount++
	if v.OnRequestProc != nil {
		v.OnRequestProc(v)
	}
}

func (v *Var) CompleteProc() {
	v.CompletedCount++
}

func (v *Var) DataPtr() unsafe.Pointer {
	if len(v.data) == 0 {
		return nil
	}
	return unsafe.Pointer(&v.data[0])
}

func (v *Var) ArrayLen() int      { return v.arrayLen }
func (v *Var) ArraySetLen(n int)  { v.arrayLen = n }

func (v *Var) UserData() unsafe.Pointer         { return v.userData }
func (v *Var) SetUserData(p unsafe.Pointer)     { v.userData = p }

// Bytes returns the raw data buffer, for direct inspection/manipulation in
// tests (bypassing the locking/state-machine discipline real callers must
// observe).
func (v *Var) Bytes() []byte { return v.data }

// ABI is a fake host.ABI: Exit records the code instead of terminating the
// process, so app.Start's panic-recovery path is testable.
type ABI struct {
	mu       sync.Mutex
	exitCode int
	exited   bool
}

func (a *ABI) Exit(code int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.exitCode = code
	a.exited = true
}

// Exited reports whether Exit was called, and with what code.
func (a *ABI) Exited() (code int, ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.exitCode, a.exited
}
