package misc

import (
	"context"
	"iter"
	"sync"
)

// DoubleBuffer is a pair of buffers, one the application writes into and
// one the application reads from, swapped atomically via TrySwap, grounded
// on orig misc/double_vec.rs's DoubleVec/Writer/Reader/WriteGuard. Rust's
// Arc<Writer>+separate Reader split becomes a single Go type holding both
// buffers behind one mutex, since Go has no borrow checker to enforce the
// split at compile time anyway; the observable behavior (one writer side,
// one reader side, TrySwap) is unchanged.
type DoubleBuffer[T any] struct {
	mu    sync.Mutex
	write []T
	read  []T
	ready *AsyncFlag
}

// NewDoubleBuffer returns a DoubleBuffer with both sides preallocated to
// capacity (a hint only: both slices grow past it like any Go slice).
func NewDoubleBuffer[T any](capacity int) *DoubleBuffer[T] {
	return &DoubleBuffer[T]{
		write: make([]T, 0, capacity),
		read:  make([]T, 0, capacity),
		ready: NewAsyncFlag(false),
	}
}

// WriteGuard grants exclusive access to the write-side buffer, held until
// Close is called (typically via defer). Appending to it and closing marks
// the buffer ready for the reader to pick up on its next TrySwap.
type WriteGuard[T any] struct {
	db *DoubleBuffer[T]
}

// Write locks the write-side buffer and returns a guard over it.
func (db *DoubleBuffer[T]) Write() *WriteGuard[T] {
	db.mu.Lock()
	return &WriteGuard[T]{db: db}
}

// Slice returns the write-side buffer for appending/mutation.
func (g *WriteGuard[T]) Slice() []T { return g.db.write }

// SetSlice replaces the write-side buffer outright (e.g. after append grew
// it to a new backing array).
func (g *WriteGuard[T]) SetSlice(s []T) { g.db.write = s }

// Discard clears the write-side buffer without marking it ready, then
// releases the lock (orig: WriteGuard::discard).
func (g *WriteGuard[T]) Discard() {
	g.db.write = g.db.write[:0]
	g.db.mu.Unlock()
}

// Close marks the write-side buffer ready for the reader and releases the
// lock (orig: WriteGuard::drop, which always calls try_give).
func (g *WriteGuard[T]) Close() {
	g.db.ready.TryGive()
	g.db.mu.Unlock()
}

// Ready reports whether a written buffer is waiting to be swapped in.
func (db *DoubleBuffer[T]) Ready() bool { return db.ready.Value() }

// WaitReady blocks until a written buffer is waiting, or ctx is done.
func (db *DoubleBuffer[T]) WaitReady(ctx context.Context) error {
	return db.ready.Wait(ctx, true)
}

// TrySwap attempts to swap the ready write-side buffer into the read side,
// clearing what was previously there (the old read buffer becomes the new,
// empty write buffer). Returns false if the write side is not yet ready.
func (db *DoubleBuffer[T]) TrySwap() bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	if !db.ready.TryTake() {
		return false
	}
	db.read = db.read[:0]
	db.write, db.read = db.read, db.write
	return true
}

// Read returns the current read-side buffer (valid until the next TrySwap).
func (db *DoubleBuffer[T]) Read() []T {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.read
}

// Stream returns an iterator that yields the read-side buffer's contents
// once per successful swap, blocking between swaps until ctx is done. It is
// not part of the orig Rust API (DoubleVec predates iterators as a first-
// class Go feature); added per SPEC_FULL.md §4.7 as an idiomatic Go 1.23
// range-over-func adapter for the common "drain every swap" loop.
func (db *DoubleBuffer[T]) Stream(ctx context.Context) iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		for {
			if err := db.WaitReady(ctx); err != nil {
				return
			}
			if !db.TrySwap() {
				continue
			}
			if !yield(db.Read()) {
				return
			}
		}
	}
}

// StreamCyclic is like Stream, but tries TrySwap before waiting, and if ctx
// is done while it is waiting for the next swap, it yields the current
// read-side buffer (possibly empty, or one already yielded) once more before
// ending. If ctx is already done when the loop checks it between swaps, it
// ends without that final yield.
func (db *DoubleBuffer[T]) StreamCyclic(ctx context.Context) iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		for ctx.Err() == nil {
			if !db.TrySwap() {
				if err := db.WaitReady(ctx); err != nil {
					if !yield(db.Read()) {
						return
					}
					return
				}
				continue
			}
			if !yield(db.Read()) {
				return
			}
		}
	}
}
