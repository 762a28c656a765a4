package channel_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binp-dev/ferrite-go/channel"
)

// tagSchema is a minimal test schema: a 1-byte tag followed by a
// tag-dependent payload, grounded on orig channel/tests.rs's TestMsg enum
// (A | B(i32) | C(FlatVec<i32>)) but kept small enough to hand-encode here
// rather than depend on flatty's Rust macro-generated layout.
//
//	tag 0 (A): no payload, size 1.
//	tag 1 (B): 4-byte little-endian int32, size 5.
//	tag 2 (C): 2-byte little-endian element count, then that many int32s.
type tagSchema struct{}

func (tagSchema) Validate(buf []byte) error {
	if len(buf) < 1 {
		return errors.New("tagSchema: need at least 1 byte")
	}
	switch buf[0] {
	case 0:
		return nil
	case 1:
		if len(buf) < 5 {
			return errors.New("tagSchema: B needs 5 bytes")
		}
		return nil
	case 2:
		if len(buf) < 3 {
			return errors.New("tagSchema: C needs a length prefix")
		}
		n := int(binary.LittleEndian.Uint16(buf[1:3]))
		if len(buf) < 3+n*4 {
			return errors.New("tagSchema: C needs more elements")
		}
		return nil
	default:
		return errors.New("tagSchema: unknown tag")
	}
}

func (tagSchema) PlacementDefault(buf []byte) error {
	buf[0] = 0
	return nil
}

func (tagSchema) Size(buf []byte) int {
	switch buf[0] {
	case 0:
		return 1
	case 1:
		return 5
	case 2:
		n := int(binary.LittleEndian.Uint16(buf[1:3]))
		return 3 + n*4
	default:
		return 0
	}
}

func encodeB(buf []byte, v int32) {
	buf[0] = 1
	binary.LittleEndian.PutUint32(buf[1:5], uint32(v))
}

func encodeC(buf []byte, vs []int32) {
	buf[0] = 2
	binary.LittleEndian.PutUint16(buf[1:3], uint16(len(vs)))
	for i, v := range vs {
		binary.LittleEndian.PutUint32(buf[3+i*4:7+i*4], uint32(v))
	}
}

// TestWriterReader mirrors orig channel/tests.rs's ring-buffer round trip:
// three messages (A, B(123456), C([0..7))) written and read back over a
// small shared buffer, ending in a clean EOF.
func TestWriterReader(t *testing.T) {
	const maxSize = 32
	pipe := new(bytes.Buffer)

	w := channel.NewWriter(tagSchema{}, pipe, maxSize)
	r := channel.NewReader(tagSchema{}, pipe, maxSize)
	ctx := context.Background()

	g, err := w.InitDefault()
	require.NoError(t, err)
	require.NoError(t, g.Write(ctx))

	g = w.NewMsg()
	encodeB(g.Bytes(), 123456)
	require.NoError(t, g.Write(ctx))

	g = w.NewMsg()
	encodeC(g.Bytes(), []int32{0, 1, 2, 3, 4, 5, 6})
	require.NoError(t, g.Write(ctx))

	msg, err := r.ReadMsg(ctx)
	require.NoError(t, err)
	assert.Equal(t, byte(0), msg[0])

	msg, err = r.ReadMsg(ctx)
	require.NoError(t, err)
	require.Equal(t, byte(1), msg[0])
	assert.Equal(t, int32(123456), int32(binary.LittleEndian.Uint32(msg[1:5])))

	msg, err = r.ReadMsg(ctx)
	require.NoError(t, err)
	require.Equal(t, byte(2), msg[0])
	n := int(binary.LittleEndian.Uint16(msg[1:3]))
	require.Equal(t, 7, n)
	for i := 0; i < n; i++ {
		assert.Equal(t, int32(i), int32(binary.LittleEndian.Uint32(msg[3+i*4:7+i*4])))
	}

	_, err = r.ReadMsg(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestReader_Truncated(t *testing.T) {
	pipe := bytes.NewBuffer([]byte{1, 0, 0}) // tag B, but missing 2 of 4 payload bytes
	r := channel.NewReader(tagSchema{}, pipe, 32)
	_, err := r.ReadMsg(context.Background())
	assert.ErrorIs(t, err, channel.ErrTruncated)
}

func TestReader_ContextCanceled(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	r := channel.NewReader(tagSchema{}, pr, 32)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.ReadMsg(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
