// Package channel implements the little-endian, schema-validated framed
// message reader/writer described in spec.md §4.6/§6, grounded on orig
// channel/write.rs (MsgWriter/MsgUninitWriteGuard/MsgWriteGuard) and the
// read-side contract implied by channel/tests.rs (the read source file
// itself was filtered out of the retrieval pack).
package channel

// Schema describes a message layout external to this package (orig:
// flatty::prelude::Portable), letting channel work with any wire format the
// application defines without this package knowing its shape.
type Schema interface {
	// Validate reports whether buf holds a well-formed message of this
	// schema, starting at offset 0. It is also how the reader discovers
	// how much of its staging buffer is a complete message: a schema
	// whose messages are not fixed-size validates successfully only once
	// enough bytes are present, and must not require len(buf) to equal
	// the message's own size exactly -- buf may have trailing bytes
	// belonging to the next message already staged.
	Validate(buf []byte) error

	// PlacementDefault initializes buf in place with the schema's default
	// message value, for schemas that support one (orig: FlatDefault).
	// Implementations for schemas with no sensible default may always
	// return an error.
	PlacementDefault(buf []byte) error

	// Size returns the encoded size, in bytes, of the message occupying
	// the leading bytes of buf. Only called after Validate has succeeded
	// on (a prefix of) buf.
	Size(buf []byte) int
}
