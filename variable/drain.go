package variable

import (
	"context"

	"github.com/joeycumines/go-longpoll"
)

// DrainChanges batches a stream of variable-name change notifications, read
// from a caller-supplied channel, using go-longpoll.Channel, calling batch once per
// accumulated group rather than once per notification. This is purely an
// ambient convenience over package misc/raw's primitives (SPEC_FULL.md §2);
// spec.md's original per-variable model works without it.
//
// cfg may be nil for longpoll's documented defaults. DrainChanges returns
// when ctx is done, when names closes (after a final batch, returning
// io.EOF per longpoll.Channel's contract), or when batch returns an error.
func DrainChanges(ctx context.Context, cfg *longpoll.ChannelConfig, names <-chan string, batch func([]string) error) error {
	var pending []string
	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		b := pending
		pending = nil
		return batch(b)
	}
	for {
		err := longpoll.Channel(ctx, cfg, names, func(name string) error {
			pending = append(pending, name)
			return nil
		})
		if ferr := flush(); ferr != nil {
			return ferr
		}
		if err != nil {
			return err
		}
	}
}
