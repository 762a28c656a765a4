package variable

import (
	"reflect"
	"sync/atomic"

	"github.com/binp-dev/ferrite-go/raw"
)

// Any wraps a raw.Variable whose application-facing type is not yet known:
// the registry (registry.go) holds variables as *Any until app code
// downcasts each one to a concrete Read[T]/Write[T]/ReadArray[T]/WriteArray[T]
// handle, grounded on orig variable/any.rs's AnyVariable.
//
// Rust's AnyVariable::downcast_read etc. take self by value, so a successful
// downcast statically consumes it; Go has no by-value consuming method, so
// Any instead tracks consumption with an atomic flag, enforced by the take
// helper every Downcast* function below funnels through.
type Any struct {
	raw    *raw.Variable
	typ    VariableType
	dir    Direction
	taken  atomic.Bool
	log    *Logger
}

// newAny builds an Any from a freshly-initialized raw.Variable. Called by
// Registry.Add when a variable built by raw.InitVariable is registered.
func newAny(rv *raw.Variable, log *Logger) *Any {
	t := rv.Type()
	return &Any{
		raw: rv,
		typ: variableTypeFromRaw(t),
		dir: directionFromRaw(t.Dir),
		log: log,
	}
}

// Name returns the variable's host-assigned name.
func (a *Any) Name() string { return a.raw.Name() }

// Direction returns whether this is a Read or Write variable.
func (a *Any) Direction() Direction { return a.dir }

// Type returns the variable's application-facing shape.
func (a *Any) Type() VariableType { return a.typ }

// take marks a as consumed, returning false if it already was.
func (a *Any) take() bool { return a.taken.CompareAndSwap(false, true) }

func matchesScalar[T any](a *Any) bool {
	if a.typ.IsArray {
		return false
	}
	want := reflect.TypeOf(*new(T))
	got := a.typ.Scalar.reflectType()
	return got != nil && got == want
}

func matchesArray[T any](a *Any) bool {
	if !a.typ.IsArray {
		return false
	}
	want := reflect.TypeOf(*new(T))
	got := a.typ.Scalar.reflectType()
	return got != nil && got == want
}

// DowncastRead attempts to recover a Read[T] from a, succeeding only if a is
// a Read scalar variable whose element type matches T and a has not already
// been downcast.
func DowncastRead[T Scalar](a *Any) (*Read[T], bool) {
	if a.dir != DirectionRead || !matchesScalar[T](a) || !a.take() {
		return nil, false
	}
	return newRead[T](a.raw, a.log), true
}

// DowncastWrite attempts to recover a Write[T] from a.
func DowncastWrite[T Scalar](a *Any) (*Write[T], bool) {
	if a.dir != DirectionWrite || !matchesScalar[T](a) || !a.take() {
		return nil, false
	}
	return newWrite[T](a.raw, a.log), true
}

// DowncastReadArray attempts to recover a ReadArray[T] from a.
func DowncastReadArray[T Scalar](a *Any) (*ReadArray[T], bool) {
	if a.dir != DirectionRead || !matchesArray[T](a) || !a.take() {
		return nil, false
	}
	return newReadArray[T](a.raw, a.typ.MaxLen, a.log), true
}

// DowncastWriteArray attempts to recover a WriteArray[T] from a.
func DowncastWriteArray[T Scalar](a *Any) (*WriteArray[T], bool) {
	if a.dir != DirectionWrite || !matchesArray[T](a) || !a.take() {
		return nil, false
	}
	return newWriteArray[T](a.raw, a.typ.MaxLen, a.log), true
}
