package misc_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binp-dev/ferrite-go/misc"
)

func TestDoubleBuffer_WriteSwapRead(t *testing.T) {
	db := misc.NewDoubleBuffer[int](4)

	assert.False(t, db.TrySwap())

	g := db.Write()
	g.SetSlice(append(g.Slice(), 1, 2, 3))
	g.Close()

	require.True(t, db.Ready())
	require.True(t, db.TrySwap())
	assert.Equal(t, []int{1, 2, 3}, db.Read())
	assert.False(t, db.Ready())
}

func TestDoubleBuffer_Discard(t *testing.T) {
	db := misc.NewDoubleBuffer[int](4)
	g := db.Write()
	g.SetSlice(append(g.Slice(), 1))
	g.Discard()
	assert.False(t, db.Ready())
	assert.False(t, db.TrySwap())
}

func TestDoubleBuffer_Stream(t *testing.T) {
	db := misc.NewDoubleBuffer[int](4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// swapped paces the writer so each value is produced only after the
	// stream has consumed the previous one, keeping the ordering
	// deterministic rather than racing Write against TrySwap.
	swapped := make(chan struct{})
	go func() {
		for i := 0; i < 3; i++ {
			g := db.Write()
			g.SetSlice(append(g.Slice()[:0], i))
			g.Close()
			<-swapped
		}
	}()

	var got []int
	for batch := range db.Stream(ctx) {
		got = append(got, batch...)
		swapped <- struct{}{}
		if len(got) == 3 {
			cancel()
			break
		}
	}
	assert.Equal(t, []int{0, 1, 2}, got)
}
