// Package host describes the process-level surface the C host exposes to
// the bridge, independent of any particular variable.
package host

// ABI is the process-wide subset of the host-imported symbols from spec §6
// that are not tied to a single variable: just app_exit. It is an interface,
// rather than a direct cgo call, so app.Start's panic-recovery path can be
// exercised without a real host; see sys.ABI for the cgo-backed
// implementation and internal/hosttest for the fake used in tests.
type ABI interface {
	// Exit terminates the process with the given code. The bridge calls
	// this exactly once, from the deferred handler app.Start installs around
	// the application's Main: with code 1 when Main panics, routing fatal
	// bridge errors to the host rather than unwinding past it, and with
	// code 0 when Main returns normally.
	Exit(code int)
}
