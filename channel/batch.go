package channel

import (
	"context"
	"fmt"

	"github.com/joeycumines/go-microbatch"
)

// BatchedWriter coalesces several messages into fewer underlying Write
// calls, using github.com/joeycumines/go-microbatch's ping/pong Batcher.
// This is an ambient efficiency layer over Writer (SPEC_FULL.md §2); it is
// not in the orig MsgWriter, which flushes one message per write() call.
type BatchedWriter struct {
	w       *Writer
	batcher *microbatch.Batcher[[]byte]
}

// NewBatchedWriter wraps w, batching submitted messages per cfg (nil for
// microbatch's documented defaults: up to 16 messages or 50ms, whichever
// comes first).
func NewBatchedWriter(w *Writer, cfg *microbatch.BatcherConfig) *BatchedWriter {
	bw := &BatchedWriter{w: w}
	bw.batcher = microbatch.NewBatcher(cfg, bw.flush)
	return bw
}

func (bw *BatchedWriter) flush(ctx context.Context, msgs [][]byte) error {
	bw.w.mu.Lock()
	defer bw.w.mu.Unlock()
	for _, msg := range msgs {
		if _, err := bw.w.sink.Write(msg); err != nil {
			return err
		}
	}
	return nil
}

// Submit validates and enqueues the message currently held in g's scratch
// buffer, blocking until it has actually been written as part of a batch
// (or the batch failed).
//
// Unlike WriteGuard.Write, Submit copies the validated bytes out of the
// writer's scratch buffer before returning, since the caller is free to
// reuse g for the next message (via Writer.NewMsg) as soon as Submit
// returns, while the copy may still be waiting in a pending batch.
func (bw *BatchedWriter) Submit(ctx context.Context, g *WriteGuard) error {
	if err := g.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	n := bw.w.schema.Size(g.w.buf)
	if n > len(g.w.buf) {
		return ErrTooLarge
	}
	msg := make([]byte, n)
	copy(msg, g.w.buf[:n])

	res, err := bw.batcher.Submit(ctx, msg)
	if err != nil {
		return err
	}
	return res.Wait(ctx)
}

// Close stops accepting new messages and flushes any pending batch.
func (bw *BatchedWriter) Close() error { return bw.batcher.Close() }

// Shutdown is like Close, but waits (bounded by ctx) for in-flight batches
// to finish rather than abandoning them.
func (bw *BatchedWriter) Shutdown(ctx context.Context) error { return bw.batcher.Shutdown(ctx) }
