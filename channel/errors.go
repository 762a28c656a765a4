package channel

import "errors"

// Framing error kinds, per spec.md §7: EOF at a frame boundary is not an
// error (callers see plain io.EOF from the underlying reader); a frame that
// starts but never completes before the stream ends is ErrTruncated;
// ErrInvalid is a validation failure reported by the schema; ErrTooLarge is
// the bridge's own precondition check backing spec.md's "out-of-range
// length... implementations must also defensively check and treat as a
// protocol violation".
var (
	ErrTruncated = errors.New("channel: truncated frame at end of stream")
	ErrInvalid   = errors.New("channel: message failed schema validation")
	ErrTooLarge  = errors.New("channel: message exceeds max_msg_size")
)
