package raw

import (
	"github.com/joeycumines/izerolog"
	"github.com/joeycumines/logiface"
	"github.com/rs/zerolog"
)

// Logger is the structured logger used for proc_state transitions and
// protocol violations. Its zero value is a working no-op logger (logiface's
// default behavior when constructed via NewLogger with no writer), so a
// Variable built without an explicit logger still runs, just silently.
type Logger = logiface.Logger[*izerolog.Event]

// NewLogger builds a Logger backed by zerolog, the concrete backend every
// other package in this module uses (see SPEC_FULL.md's ambient-stack
// section); zl is typically the application's own root zerolog.Logger so
// bridge events interleave with the rest of the application's log stream.
func NewLogger(zl zerolog.Logger) *Logger {
	return izerolog.L.New(izerolog.L.WithZerolog(zl))
}

// NopLogger returns a Logger that discards everything, for use when the
// caller has not configured structured logging.
func NopLogger() *Logger {
	return izerolog.L.New(izerolog.L.WithZerolog(zerolog.Nop()))
}

// logTransition emits a trace-level record of a proc_state transition. Kept
// as a free function, rather than a Variable method, so it is a no-op to
// call with a nil *Logger (logiface.Logger's zero value behaves safely, but
// a nil pointer does not, so callers route through here).
func logTransition(log *Logger, name string, from, to ProcState) {
	if log == nil {
		return
	}
	log.Trace().
		Str("variable", name).
		Str("from", from.String()).
		Str("to", to.String()).
		Log("proc_state transition")
}

// logProtocolViolation emits a warn-level record for an ErrProtocolViolation
// before it is returned or turned into a panic.
func logProtocolViolation(log *Logger, err *ErrProtocolViolation) {
	if log == nil {
		return
	}
	log.Warn().
		Str("variable", err.Variable).
		Str("from", err.From.String()).
		Str("attempt", err.Attempt).
		Log("proc_state protocol violation")
}
