package misc

import (
	"context"
	"sync"
	"sync/atomic"
)

// AsyncCounter is a non-negative counter that goroutines can block waiting
// for a minimum value of, grounded on orig misc/async_counter.rs.
type AsyncCounter struct {
	value atomic.Uint64

	mu   sync.Mutex
	wake chan struct{}
}

// NewAsyncCounter returns a counter initialized to value.
func NewAsyncCounter(value uint64) *AsyncCounter {
	c := &AsyncCounter{wake: make(chan struct{})}
	c.value.Store(value)
	return c
}

func (c *AsyncCounter) notify() {
	c.mu.Lock()
	old := c.wake
	c.wake = make(chan struct{})
	c.mu.Unlock()
	close(old)
}

func (c *AsyncCounter) waitChan() chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.wake
}

// Add increases the counter by value and wakes any blocked Wait calls.
func (c *AsyncCounter) Add(value uint64) {
	c.value.Add(value)
	c.notify()
}

// Sub decreases the counter by up to maxValue (or by the counter's full
// current value if maxValue is larger), returning the amount actually
// subtracted. A negative-like "no limit" is expressed by passing a maxValue
// of ^uint64(0), unlike orig's Option<usize> -- Go has no natural
// zero-cost optional integer, and 0 already means "subtract nothing" the
// same way it would if written explicitly.
func (c *AsyncCounter) Sub(maxValue uint64) uint64 {
	value := c.value.Load()
	if maxValue < value {
		value = maxValue
	}
	c.value.Add(-value)
	return value
}

// Wait blocks until the counter is >= minValue, or ctx is done.
func (c *AsyncCounter) Wait(ctx context.Context, minValue uint64) error {
	for {
		ch := c.waitChan()
		if c.value.Load() >= minValue {
			return nil
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Value reads the current counter value.
func (c *AsyncCounter) Value() uint64 { return c.value.Load() }
