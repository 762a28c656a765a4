package variable

import "github.com/binp-dev/ferrite-go/raw"

// Scalar is the set of Go types a typed handle may be instantiated with:
// exactly the fixed-width integer and float types the host ABI's
// raw.ScalarKind enumerates (orig: ScalarType::type_id's match arms).
type Scalar interface {
	~uint8 | ~int8 | ~uint16 | ~int16 | ~uint32 | ~int32 | ~uint64 | ~int64 | ~float32 | ~float64
}

// Logger is the structured logger typed handles use for protocol-violation
// and cancellation diagnostics; an alias of raw.Logger so both packages log
// through the same izerolog/zerolog backend (SPEC_FULL.md's ambient stack).
type Logger = raw.Logger
