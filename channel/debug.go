package channel

import (
	"encoding/hex"

	"github.com/joeycumines/go-utilpkg/jsonenc"
)

// DumpFrame renders a message frame as a single-line, JSON-string-escaped
// diagnostic suitable for a structured log field value (SPEC_FULL.md's
// ambient stack calls for low-allocation debug encoding via jsonenc,
// mirroring the other packages' reuse of zerolog's low-allocation
// conventions). Appends to and returns dst, following the jsonenc.Append*
// convention, so repeated calls in a hot logging path can reuse one buffer.
func DumpFrame(dst []byte, frame []byte) []byte {
	return jsonenc.AppendString(dst, hex.EncodeToString(frame))
}
