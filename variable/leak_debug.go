//go:build ferrite_debug

package variable

import "runtime"

// newGuardTracker installs a finalizer that logs a protocol-violation-shaped
// warning if the guard is garbage-collected before markDone was ever called
// -- a diagnostic backstop for "guard dropped without Commit/Close", never
// a correctness mechanism (the finalizer may run arbitrarily late, or not
// at all if the process exits first).
func newGuardTracker(kind, name string, log *Logger) *guardTracker {
	t := &guardTracker{}
	runtime.SetFinalizer(t, func(t *guardTracker) {
		if t.done.Load() || log == nil {
			return
		}
		log.Warn().
			Str("variable", name).
			Str("guard", kind).
			Log("variable: guard garbage-collected without Commit/Close")
	})
	return t
}
