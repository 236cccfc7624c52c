package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderScalars(t *testing.T) {
	r := NewReader(0x1000, []byte{
		0x7F,
		0xFE, 0xFF, 0xFF, 0xFF,
		0x88, 0x77, 0x66, 0x55, 0x44, 0x33, 0x22, 0x11,
		0x10, 0x20, 0x30, 0x40,
	})

	u8, err := r.ReadU8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x7F), u8)

	i32, err := r.ReadI32()
	require.NoError(t, err)
	assert.Equal(t, int32(-2), i32)

	assert.Equal(t, uint64(0x1005), r.Addr())

	u64, err := r.ReadPointer(8)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x1122334455667788), u64)

	u32, err := r.ReadPointer(4)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x40302010), u32)

	assert.Equal(t, 0, r.Remaining())
	_, err = r.ReadU8()
	assert.ErrorIs(t, err, ErrUnexpectedEOF)

	_, err = r.ReadPointer(2)
	assert.ErrorIs(t, err, ErrPointerSize)
}

func TestReaderSkip(t *testing.T) {
	r := NewReader(0, make([]byte, 4))
	require.NoError(t, r.Skip(4))
	assert.ErrorIs(t, r.Skip(1), ErrUnexpectedEOF)
}

func TestReadCString(t *testing.T) {
	r := NewReader(0, []byte("Bool\x00Int\x00tail"))

	s, err := r.ReadCString()
	require.NoError(t, err)
	assert.Equal(t, "Bool", string(s))

	s, err = r.ReadCString()
	require.NoError(t, err)
	assert.Equal(t, "Int", string(s))
	assert.Equal(t, 9, r.Offset())

	_, err = r.ReadCString()
	assert.ErrorIs(t, err, ErrNoTerminator)
}

func TestReadCString_empty(t *testing.T) {
	r := NewReader(0, []byte{0, 'x'})
	s, err := r.ReadCString()
	require.NoError(t, err)
	assert.Empty(t, s)
}
