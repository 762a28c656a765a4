// Package variable provides the typed application-facing handles (Read,
// Write, ReadArray, WriteArray) built on top of package raw's proc_state
// machine, plus the type-erased Any used by the registry before a handle's
// concrete element type is known.
package variable

import (
	"reflect"

	"github.com/binp-dev/ferrite-go/raw"
)

// Direction mirrors raw.Dir at the application-facing layer.
type Direction int

const (
	DirectionRead Direction = iota
	DirectionWrite
)

func directionFromRaw(d raw.Dir) Direction {
	switch d {
	case raw.DirRead:
		return DirectionRead
	case raw.DirWrite:
		return DirectionWrite
	default:
		return DirectionRead
	}
}

// ScalarType describes a host scalar element type independent of any Go
// type: an integer of a given width and signedness, a float of a given
// width, or Unknown for a degenerate array-of-nothing.
type ScalarType struct {
	kind   scalarKindTag
	width  uint8
	signed bool
}

type scalarKindTag int

const (
	scalarUnknown scalarKindTag = iota
	scalarInt
	scalarFloat
)

// IsInt, IsFloat and IsUnknown report which variant a ScalarType holds.
func (s ScalarType) IsInt() bool     { return s.kind == scalarInt }
func (s ScalarType) IsFloat() bool   { return s.kind == scalarFloat }
func (s ScalarType) IsUnknown() bool { return s.kind == scalarUnknown }

// Width returns the element width in bytes (0 for Unknown).
func (s ScalarType) Width() uint8 { return s.width }

// Signed reports whether an int ScalarType is signed; meaningless otherwise.
func (s ScalarType) Signed() bool { return s.signed }

func (s ScalarType) String() string {
	switch s.kind {
	case scalarInt:
		if s.signed {
			return "i" + itoa(int(s.width)*8)
		}
		return "u" + itoa(int(s.width)*8)
	case scalarFloat:
		return "f" + itoa(int(s.width)*8)
	default:
		return "unknown"
	}
}

func itoa(n int) string {
	// avoids pulling in strconv for a handful of fixed values; the widths
	// that ever appear here are exactly 8, 16, 32, 64.
	switch n {
	case 8:
		return "8"
	case 16:
		return "16"
	case 32:
		return "32"
	case 64:
		return "64"
	default:
		return "?"
	}
}

func scalarTypeFromRaw(k raw.ScalarKind) ScalarType {
	switch k {
	case raw.ScalarU8:
		return ScalarType{kind: scalarInt, width: 1, signed: false}
	case raw.ScalarI8:
		return ScalarType{kind: scalarInt, width: 1, signed: true}
	case raw.ScalarU16:
		return ScalarType{kind: scalarInt, width: 2, signed: false}
	case raw.ScalarI16:
		return ScalarType{kind: scalarInt, width: 2, signed: true}
	case raw.ScalarU32:
		return ScalarType{kind: scalarInt, width: 4, signed: false}
	case raw.ScalarI32:
		return ScalarType{kind: scalarInt, width: 4, signed: true}
	case raw.ScalarU64:
		return ScalarType{kind: scalarInt, width: 8, signed: false}
	case raw.ScalarI64:
		return ScalarType{kind: scalarInt, width: 8, signed: true}
	case raw.ScalarF32:
		return ScalarType{kind: scalarFloat, width: 4}
	case raw.ScalarF64:
		return ScalarType{kind: scalarFloat, width: 8}
	default:
		return ScalarType{kind: scalarUnknown}
	}
}

// reflectType returns the Go type a ScalarType corresponds to, for matching
// against the T a typed handle is instantiated with. The zero Type is
// returned for Unknown, or for a width/signedness combination that Go has
// no fixed-size integer for (impossible given the ten raw.ScalarKind
// values, but the orig ScalarType::type_id has the same None fallback, kept
// here for the same reason: a ScalarType value can in principle be
// constructed with a width the host ABI doesn't actually use).
func (s ScalarType) reflectType() reflect.Type {
	switch {
	case s.kind == scalarInt && s.width == 1 && !s.signed:
		return reflect.TypeOf(uint8(0))
	case s.kind == scalarInt && s.width == 1 && s.signed:
		return reflect.TypeOf(int8(0))
	case s.kind == scalarInt && s.width == 2 && !s.signed:
		return reflect.TypeOf(uint16(0))
	case s.kind == scalarInt && s.width == 2 && s.signed:
		return reflect.TypeOf(int16(0))
	case s.kind == scalarInt && s.width == 4 && !s.signed:
		return reflect.TypeOf(uint32(0))
	case s.kind == scalarInt && s.width == 4 && s.signed:
		return reflect.TypeOf(int32(0))
	case s.kind == scalarInt && s.width == 8 && !s.signed:
		return reflect.TypeOf(uint64(0))
	case s.kind == scalarInt && s.width == 8 && s.signed:
		return reflect.TypeOf(int64(0))
	case s.kind == scalarFloat && s.width == 4:
		return reflect.TypeOf(float32(0))
	case s.kind == scalarFloat && s.width == 8:
		return reflect.TypeOf(float64(0))
	default:
		return nil
	}
}

// VariableType is the application-facing shape of a variable: scalar or
// array, over a ScalarType, with MaxLen meaningful only for arrays.
type VariableType struct {
	IsArray bool
	Scalar  ScalarType
	MaxLen  int
}

func variableTypeFromRaw(t raw.VarType) VariableType {
	vt := VariableType{Scalar: scalarTypeFromRaw(t.Scalar)}
	if t.Kind == raw.KindArray {
		vt.IsArray = true
		vt.MaxLen = t.ArrayMaxLen
	}
	return vt
}
