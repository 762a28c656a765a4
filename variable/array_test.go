package variable_test

import (
	"context"
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binp-dev/ferrite-go/internal/hosttest"
	"github.com/binp-dev/ferrite-go/raw"
	"github.com/binp-dev/ferrite-go/variable"
)

func TestReadArray_ReadToSlice(t *testing.T) {
	hv := hosttest.NewArray("wf0", raw.DirRead, raw.ScalarI32, 4, 8)
	rv := raw.InitVariable(hv, nil)
	hv.OnRequestProc = func(v *hosttest.Var) {
		go func() {
			vals := []int32{0, 1, 2, 3, 4}
			buf := v.Bytes()
			for i, x := range vals {
				binary.LittleEndian.PutUint32(buf[i*4:], uint32(x))
			}
			v.ArraySetLen(len(vals))
			g := rv.Lock()
			require.NoError(t, rv.ProcBegin())
			g.Close()
		}()
	}

	reg := variable.NewRegistry()
	reg.Add(rv, nil)
	r, ok := variable.DowncastReadArray[int32](reg.Drain()["wf0"])
	require.True(t, ok)
	assert.Equal(t, 8, r.MaxLen())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	dst := make([]int32, 8)
	n, ok, err := r.ReadToSlice(ctx, dst)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []int32{0, 1, 2, 3, 4}, dst[:n])
	assert.Equal(t, raw.Idle, rv.State())
}

func TestReadArray_ReadToSlice_TooSmall(t *testing.T) {
	hv := hosttest.NewArray("wf1", raw.DirRead, raw.ScalarI32, 4, 8)
	rv := raw.InitVariable(hv, nil)
	hv.OnRequestProc = func(v *hosttest.Var) {
		go func() {
			v.ArraySetLen(5)
			g := rv.Lock()
			require.NoError(t, rv.ProcBegin())
			g.Close()
		}()
	}

	reg := variable.NewRegistry()
	reg.Add(rv, nil)
	r, ok := variable.DowncastReadArray[int32](reg.Drain()["wf1"])
	require.True(t, ok)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, ok, err := r.ReadToSlice(ctx, make([]int32, 2))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWriteArray_WriteFromSlice(t *testing.T) {
	hv := hosttest.NewArray("wi0", raw.DirWrite, raw.ScalarI32, 4, 8)
	rv := raw.InitVariable(hv, nil)
	hv.OnRequestProc = func(v *hosttest.Var) {
		go func() {
			g := rv.Lock()
			require.NoError(t, rv.ProcBegin())
			g.Close()
		}()
	}

	reg := variable.NewRegistry()
	reg.Add(rv, nil)
	w, ok := variable.DowncastWriteArray[int32](reg.Drain()["wi0"])
	require.True(t, ok)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, w.WriteFromSlice(ctx, []int32{9, 8, 7}))
	assert.Equal(t, 3, hv.ArrayLen())
	for i, want := range []int32{9, 8, 7} {
		got := int32(binary.LittleEndian.Uint32(hv.Bytes()[i*4:]))
		assert.Equal(t, want, got)
	}
	assert.Equal(t, raw.Idle, rv.State())
}
