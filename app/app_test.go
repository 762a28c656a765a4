package app_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binp-dev/ferrite-go/app"
	"github.com/binp-dev/ferrite-go/internal/hosttest"
	"github.com/binp-dev/ferrite-go/raw"
	"github.com/binp-dev/ferrite-go/variable"
)

func waitExited(t *testing.T, abi *hosttest.ABI) (code int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if code, ok := abi.Exited(); ok {
			return code
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("timed out waiting for abi.Exit")
	return 0
}

func TestApp_Start_CleanExit(t *testing.T) {
	abi := &hosttest.ABI{}
	a := app.New(abi, nil)
	a.Init()

	hv := hosttest.NewScalar("ai0", raw.DirRead, raw.ScalarI32, 4)
	a.InitVar(hv)

	var gotNames []string
	done := make(chan struct{})
	a.Start(func(vars map[string]*variable.Any) {
		for name := range vars {
			gotNames = append(gotNames, name)
		}
		close(done)
	})

	<-done
	assert.Equal(t, []string{"ai0"}, gotNames)
	assert.Equal(t, 0, waitExited(t, abi))
}

func TestApp_Start_PanicRecovered(t *testing.T) {
	abi := &hosttest.ABI{}
	a := app.New(abi, nil)
	a.Start(func(vars map[string]*variable.Any) {
		panic("application error")
	})
	assert.Equal(t, 1, waitExited(t, abi))
}

func TestApp_ProcStart_ProtocolViolationPanics(t *testing.T) {
	abi := &hosttest.ABI{}
	a := app.New(abi, nil)
	hv := hosttest.NewScalar("ai0", raw.DirRead, raw.ScalarI32, 4)
	a.InitVar(hv)

	// the host holds the variable's lock across proc_start, per spec §6;
	// ProcStart must not try to acquire it itself (it would deadlock against
	// the fake host lock, exactly as it would against a real, non-reentrant
	// host mutex).
	callProcStart := func() {
		hv.Lock()
		defer hv.Unlock()
		a.ProcStart(hv)
	}

	// first proc_start is legal: Idle -> Processing.
	require.NotPanics(t, callProcStart)

	// a second proc_start while already Processing is a host protocol
	// violation, with no caller in the stack to return an error to.
	assert.Panics(t, callProcStart)
}
