//go:build cgo

package sys

/*
#include "ferrite.h"
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"

	"github.com/binp-dev/ferrite-go/raw"
)

// Var implements raw.HostVar against a real *C.fer_var_t, grounded on orig
// app/base/src/sys/var.rs's FerVar wrapper. Every method is a thin call
// through to the matching fer_var_* import declared in ferrite.h.
type Var struct {
	ptr *C.fer_var_t
}

var _ raw.HostVar = (*Var)(nil)

// newVar wraps a pointer handed to this module by the host (via
// fer_var_init, see cmd/ferritebridge). The pointer is never freed here;
// it is owned by the host for the lifetime of the process.
func newVar(ptr *C.fer_var_t) *Var { return &Var{ptr: ptr} }

func (v *Var) Name() string {
	return C.GoString(C.fer_var_name(v.ptr))
}

func (v *Var) Type() raw.VarType {
	t := C.fer_var_type(v.ptr)
	return raw.VarType{
		Kind:        kindFromC(t.kind),
		Dir:         dirFromC(t.dir),
		Scalar:      scalarFromC(t.scalar_type),
		ArrayMaxLen: int(t.array_max_len),
	}
}

func (v *Var) Lock()   { C.fer_var_lock(v.ptr) }
func (v *Var) Unlock() { C.fer_var_unlock(v.ptr) }

func (v *Var) RequestProc()  { C.fer_var_request_proc(v.ptr) }
func (v *Var) CompleteProc() { C.fer_var_proc_done(v.ptr) }

func (v *Var) DataPtr() unsafe.Pointer { return unsafe.Pointer(C.fer_var_data(v.ptr)) }
func (v *Var) ArrayLen() int           { return int(C.fer_var_array_len(v.ptr)) }
func (v *Var) ArraySetLen(n int)       { C.fer_var_array_set_len(v.ptr, C.size_t(n)) }

// UserData and SetUserData round-trip package raw's *procState control
// block through C-owned storage via runtime/cgo.Handle, rather than storing
// the bare Go pointer raw.controlBlockPtr produced: cgo's pointer-passing
// rules forbid C from holding onto a Go pointer past the call that handed
// it over, so the value actually stored in fer_var_*_user_data is a
// Handle's opaque, non-pointer uintptr. The Handle is never deleted: each
// variable is registered once via fer_var_init and lives for the process,
// so there is exactly one Handle per variable, released at process exit.
func (v *Var) UserData() unsafe.Pointer {
	stored := C.fer_var_user_data(v.ptr)
	if stored == nil {
		return nil
	}
	h := cgo.Handle(uintptr(stored))
	p, _ := h.Value().(unsafe.Pointer)
	return p
}

func (v *Var) SetUserData(p unsafe.Pointer) {
	h := cgo.NewHandle(p)
	C.fer_var_set_user_data(v.ptr, unsafe.Pointer(uintptr(h)))
}

func kindFromC(k C.fer_var_kind_t) raw.Kind {
	if k == C.FER_VAR_KIND_ARRAY {
		return raw.KindArray
	}
	return raw.KindScalar
}

func dirFromC(d C.fer_var_dir_t) raw.Dir {
	if d == C.FER_VAR_DIR_WRITE {
		return raw.DirWrite
	}
	return raw.DirRead
}

func scalarFromC(s C.fer_var_scalar_type_t) raw.ScalarKind {
	switch s {
	case C.FER_VAR_SCALAR_U8:
		return raw.ScalarU8
	case C.FER_VAR_SCALAR_I8:
		return raw.ScalarI8
	case C.FER_VAR_SCALAR_U16:
		return raw.ScalarU16
	case C.FER_VAR_SCALAR_I16:
		return raw.ScalarI16
	case C.FER_VAR_SCALAR_U32:
		return raw.ScalarU32
	case C.FER_VAR_SCALAR_I32:
		return raw.ScalarI32
	case C.FER_VAR_SCALAR_U64:
		return raw.ScalarU64
	case C.FER_VAR_SCALAR_I64:
		return raw.ScalarI64
	case C.FER_VAR_SCALAR_F32:
		return raw.ScalarF32
	case C.FER_VAR_SCALAR_F64:
		return raw.ScalarF64
	default:
		return raw.ScalarNone
	}
}

// ABI implements host.ABI against fer_app_exit.
type ABI struct{}

func (ABI) Exit(code int) { C.fer_app_exit(C.int(code)) }

// NewVar exports newVar for cmd/ferritebridge, the c-archive entry point
// that owns the //export declarations (cgo requires those to live in
// package main when building a C archive or shared object, so this
// package's cgo preamble and type wrappers are consumed from there rather
// than exporting symbols itself). ptr must point at a valid C.fer_var_t, as
// cmd/ferritebridge's own cgo preamble (over the same header) sees it; it
// crosses the package boundary as unsafe.Pointer because cgo's generated
// types for an opaque struct are not identical across packages.
func NewVar(ptr unsafe.Pointer) *Var { return newVar((*C.fer_var_t)(ptr)) }
