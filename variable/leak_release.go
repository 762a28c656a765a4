//go:build !ferrite_debug

package variable

// newGuardTracker is a no-op outside the ferrite_debug build tag; see
// leak_debug.go for the real finalizer-based leak detector.
func newGuardTracker(kind, name string, log *Logger) *guardTracker { return nil }
