// Package misc provides general-purpose async primitives used by the
// bridge and available to application code: a boolean flag, a counter, and
// a double-buffer, all blockable with a context.Context rather than Rust's
// Future/AtomicWaker pair (orig: source/app/src/misc/*.rs).
package misc

import (
	"context"
	"sync"
	"sync/atomic"
)

// AsyncFlag is a boolean that goroutines can block waiting for a specific
// value of, grounded on orig misc/async_flag.rs's AtomicBool + AtomicWaker.
// The wake-channel-swap pattern (shared with raw/state.go) replaces
// AtomicWaker's single registered waker.
type AsyncFlag struct {
	value atomic.Bool

	mu   sync.Mutex
	wake chan struct{}
}

// NewAsyncFlag returns a flag initialized to value.
func NewAsyncFlag(value bool) *AsyncFlag {
	f := &AsyncFlag{wake: make(chan struct{})}
	f.value.Store(value)
	return f
}

func (f *AsyncFlag) notify() {
	f.mu.Lock()
	old := f.wake
	f.wake = make(chan struct{})
	f.mu.Unlock()
	close(old)
}

func (f *AsyncFlag) waitChan() chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.wake
}

// Value reads the current value.
func (f *AsyncFlag) Value() bool { return f.value.Load() }

// TryGive sets the flag to true, returning true if it changed from false.
func (f *AsyncFlag) TryGive() bool {
	if !f.value.Swap(true) {
		f.notify()
		return true
	}
	return false
}

// TryTake clears the flag, returning true if it changed from true.
func (f *AsyncFlag) TryTake() bool {
	if f.value.Swap(false) {
		f.notify()
		return true
	}
	return false
}

// Wait blocks until the flag equals target, or ctx is done.
func (f *AsyncFlag) Wait(ctx context.Context, target bool) error {
	for {
		ch := f.waitChan()
		if f.value.Load() == target {
			return nil
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Give blocks until it can transition the flag false -> true (orig:
// AsyncFlag::give / the Switch future with trigger=false).
func (f *AsyncFlag) Give(ctx context.Context) error {
	return f.switchTo(ctx, true)
}

// Take blocks until it can transition the flag true -> false.
func (f *AsyncFlag) Take(ctx context.Context) error {
	return f.switchTo(ctx, false)
}

func (f *AsyncFlag) switchTo(ctx context.Context, toTrue bool) error {
	for {
		ch := f.waitChan()
		var ok bool
		if toTrue {
			ok = !f.value.Swap(true)
		} else {
			ok = f.value.Swap(false)
		}
		if ok {
			f.notify()
			return nil
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
