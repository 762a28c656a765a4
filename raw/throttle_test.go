package raw_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binp-dev/ferrite-go/internal/hosttest"
	"github.com/binp-dev/ferrite-go/raw"
)

func TestThrottle_Disabled(t *testing.T) {
	th := raw.NewThrottle(nil)
	_, ok := th.Allow("anything")
	assert.True(t, ok)
}

func TestThrottle_RequestProc(t *testing.T) {
	th := raw.NewThrottle(map[time.Duration]int{time.Minute: 1})

	hv := hosttest.NewScalar("ao0", raw.DirWrite, raw.ScalarU32, 4)
	v := raw.InitVariable(hv, nil)

	g := v.Lock()
	th.RequestProc(g)
	g.Close()
	require.Equal(t, 1, hv.RequestedCount)
	assert.Equal(t, raw.Requested, v.State())

	g = v.Lock()
	require.NoError(t, v.ProcBegin())
	require.NoError(t, g.CompleteProc())
	require.NoError(t, g.CleanProc())
	g.Close()
	assert.Equal(t, raw.Idle, v.State())

	// second request within the same window is throttled at the catrate
	// layer; RequestProc on the host is not reached again.
	g = v.Lock()
	th.RequestProc(g)
	g.Close()
	assert.Equal(t, 1, hv.RequestedCount)
	assert.Equal(t, raw.Idle, v.State())
}
