package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/binp-dev/ferrite-go/app"
	"github.com/binp-dev/ferrite-go/internal/hosttest"
	"github.com/binp-dev/ferrite-go/raw"
	"github.com/binp-dev/ferrite-go/variable"
)

func TestExecutor_ReadVar(t *testing.T) {
	hv := hosttest.NewScalar("temp", raw.DirRead, raw.ScalarI32, 4)
	rv := raw.InitVariable(hv, nil)
	hv.OnRequestProc = func(v *hosttest.Var) {
		// simulates the host thread: schedules the variable's data and
		// drives proc_start from a separate goroutine, since this
		// callback runs with the host lock already held by the caller.
		go func() {
			v.Bytes()[0] = 42
			g := rv.Lock()
			require.NoError(t, rv.ProcBegin())
			g.Close()
		}()
	}

	reg := variable.NewRegistry()
	reg.Add(rv, nil)
	r, ok := variable.DowncastRead[int32](reg.Drain()["temp"])
	require.True(t, ok)

	ex, err := app.NewExecutor()
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	runDone := make(chan error, 1)
	go func() { runDone <- ex.Run(ctx) }()

	p := app.ReadVar(ex, ctx, r)

	select {
	case res := <-p.ToChannel():
		require.Equal(t, int32(42), res)
	case <-ctx.Done():
		t.Fatal("timed out waiting for read promise")
	}

	require.NoError(t, ex.Shutdown(ctx))
	<-runDone
}
