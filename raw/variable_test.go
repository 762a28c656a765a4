package raw_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binp-dev/ferrite-go/internal/hosttest"
	"github.com/binp-dev/ferrite-go/raw"
)

func TestVariable_RequestCompleteCycle(t *testing.T) {
	hv := hosttest.NewScalar("ao0", raw.DirWrite, raw.ScalarU32, 4)
	v := raw.InitVariable(hv, nil)
	assert.Equal(t, raw.Idle, v.State())

	g := v.Lock()
	g.RequestProc()
	g.Close()
	assert.Equal(t, raw.Requested, v.State())
	assert.Equal(t, 1, hv.RequestedCount)

	// a second RequestProc while one is outstanding is a no-op.
	g = v.Lock()
	g.RequestProc()
	g.Close()
	assert.Equal(t, 1, hv.RequestedCount)

	// host-driven: proc begins, with the host's lock already held.
	g = v.Lock()
	require.NoError(t, v.ProcBegin())
	g.Close()
	assert.Equal(t, raw.Processing, v.State())

	// application finishes its work.
	g = v.Lock()
	require.NoError(t, g.CompleteProc())
	g.Close()
	assert.Equal(t, raw.Complete, v.State())
	assert.Equal(t, 1, hv.CompletedCount)

	g = v.Lock()
	require.NoError(t, g.CleanProc())
	g.Close()
	assert.Equal(t, raw.Idle, v.State())
}

func TestVariable_ProcBeginFromIdle(t *testing.T) {
	// a Read variable the host produces without a prior request.
	hv := hosttest.NewScalar("ai0", raw.DirRead, raw.ScalarF32, 4)
	v := raw.InitVariable(hv, nil)

	g := v.Lock()
	require.NoError(t, v.ProcBegin())
	g.Close()
	assert.Equal(t, raw.Processing, v.State())
}

func TestVariable_ProcBeginIdleWriteViolation(t *testing.T) {
	// a Write variable has no legitimate way to reach Processing without the
	// application having requested it first; a host that drives Idle ->
	// Processing directly (as is legal for a Read variable) is a protocol
	// violation here, since it would hand the application a window to write
	// into that it never asked for.
	hv := hosttest.NewScalar("ao4", raw.DirWrite, raw.ScalarU32, 4)
	v := raw.InitVariable(hv, nil)

	g := v.Lock()
	err := v.ProcBegin()
	g.Close()
	require.Error(t, err)
	var pv *raw.ErrProtocolViolation
	require.ErrorAs(t, err, &pv)
	assert.Equal(t, raw.Idle, pv.From)
	assert.Equal(t, raw.Idle, v.State())
}

func TestVariable_ProtocolViolations(t *testing.T) {
	hv := hosttest.NewScalar("ao1", raw.DirWrite, raw.ScalarU32, 4)
	v := raw.InitVariable(hv, nil)

	g := v.Lock()
	err := g.CompleteProc()
	g.Close()
	require.Error(t, err)
	var pv *raw.ErrProtocolViolation
	require.ErrorAs(t, err, &pv)
	assert.Equal(t, raw.Idle, pv.From)
	assert.Equal(t, "complete_proc", pv.Attempt)

	g = v.Lock()
	g.RequestProc()
	g.Close()

	g = v.Lock()
	require.NoError(t, v.ProcBegin())
	err = v.ProcBegin()
	g.Close()
	require.Error(t, err)
}

func TestVariable_WaitState(t *testing.T) {
	hv := hosttest.NewScalar("ao2", raw.DirWrite, raw.ScalarU32, 4)
	v := raw.InitVariable(hv, nil)

	done := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		done <- v.WaitState(ctx, raw.Idle)
	}()

	g := v.Lock()
	g.RequestProc()
	g.Close()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("WaitState did not observe the transition")
	}
}

func TestVariable_WaitStateCanceled(t *testing.T) {
	hv := hosttest.NewScalar("ao3", raw.DirWrite, raw.ScalarU32, 4)
	v := raw.InitVariable(hv, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := v.WaitState(ctx, raw.Idle)
	assert.ErrorIs(t, err, context.Canceled)
}
