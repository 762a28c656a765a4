package variable

import "sync/atomic"

// guardTracker backs the ferrite_debug leak detector SPEC_FULL.md SS4.3
// calls for: Go has no linear types to statically enforce that a
// ReadArrayGuard/WriteArrayGuard's Close/Commit is always called before the
// guard is dropped, so in debug builds a runtime.SetFinalizer reports any
// guard collected without one (see leak_debug.go). Outside that build tag
// newGuardTracker (leak_release.go) returns nil and markDone is a no-op, so
// there is no finalizer overhead in production.
type guardTracker struct {
	done atomic.Bool
}

func (t *guardTracker) markDone() {
	if t != nil {
		t.done.Store(true)
	}
}
