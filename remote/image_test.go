package remote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageReadMemory(t *testing.T) {
	img := NewImage(true)
	require.NoError(t, img.Map(0x2000, []byte{1, 2, 3, 4}))
	require.NoError(t, img.Map(0x1000, []byte{9, 8, 7, 6}))

	buf, err := img.ReadMemory(0x2001, 3)
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 3, 4}, buf)

	buf, err = img.ReadMemory(0x1000, 0)
	require.NoError(t, err)
	assert.Empty(t, buf)

	_, err = img.ReadMemory(0x2002, 4)
	assert.ErrorIs(t, err, ErrUnmapped)

	_, err = img.ReadMemory(0x3000, 1)
	var rerr *ReadError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, uint64(0x3000), rerr.Addr)
	assert.Equal(t, 1, rerr.Size)

	assert.Equal(t, []Region{{Base: 0x1000, Size: 4}, {Base: 0x2000, Size: 4}}, img.Regions())
}

func TestImageMap_overlap(t *testing.T) {
	img := NewImage(true)
	require.NoError(t, img.Map(0x1000, make([]byte, 0x100)))

	assert.Error(t, img.Map(0x10F0, make([]byte, 0x20)))
	assert.Error(t, img.Map(0x0FF0, make([]byte, 0x20)))
	assert.NoError(t, img.Map(0x1100, make([]byte, 0x20)))
}

func TestImageWrite(t *testing.T) {
	img := NewImage(true)
	require.NoError(t, img.Map(0x1000, make([]byte, 8)))

	require.NoError(t, img.Write(0x1004, []byte{0xAA, 0xBB}))
	buf, err := img.ReadMemory(0x1000, 8)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0, 0xAA, 0xBB, 0, 0}, buf)

	assert.ErrorIs(t, img.Write(0x1007, []byte{1, 2}), ErrUnmapped)
}

func TestReadScalars(t *testing.T) {
	img := NewImage(true)
	require.NoError(t, img.Map(0x1000, []byte{
		0xFF, 0xFF, 0xFF, 0xFF, // -1 / 0xFFFFFFFF
		0x78, 0x56, 0x34, 0x12, 0x00, 0x00, 0x00, 0x00, // 0x12345678
		0x01,
	}))

	i32, err := ReadI32(img, 0x1000)
	require.NoError(t, err)
	assert.Equal(t, int32(-1), i32)

	u32, err := ReadU32(img, 0x1000)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xFFFFFFFF), u32)

	u64, err := ReadU64(img, 0x1004)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x12345678), u64)

	b, err := ReadBool(img, 0x100C)
	require.NoError(t, err)
	assert.True(t, b)

	ptr, err := ReadPointer(img, 0x1004)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x12345678), ptr)
	assert.Equal(t, 8, PointerSize(img))

	_, err = ReadU64(img, 0x1008)
	assert.ErrorIs(t, err, ErrUnmapped)
}

func TestReadPointer_32bit(t *testing.T) {
	img := NewImage(false)
	require.NoError(t, img.Map(0x1000, []byte{0x78, 0x56, 0x34, 0x12, 0xFF, 0xFF, 0xFF, 0xFF}))

	ptr, err := ReadPointer(img, 0x1000)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x12345678), ptr)
	assert.Equal(t, 4, PointerSize(img))
}

func TestImageScan(t *testing.T) {
	p := MustParsePattern("E8 ?? ?? ?? ?? 48 3B 18 74 12")
	sig := []byte{0xE8, 1, 2, 3, 4, 0x48, 0x3B, 0x18, 0x74, 0x12}

	big := make([]byte, 2*scanChunkSize+64)
	// straddles the first chunk boundary
	copy(big[scanChunkSize-4:], sig)
	// ends exactly where the second chunk ends
	copy(big[2*scanChunkSize-9-len(sig):], sig)

	img := NewImage(true)
	require.NoError(t, img.Map(0x10000000, big))
	require.NoError(t, img.Map(0x100, append([]byte{0x90}, sig...)))

	matches, err := img.Scan(p)
	require.NoError(t, err)
	assert.Equal(t, []uint64{
		0x101,
		0x10000000 + scanChunkSize - 4,
		0x10000000 + 2*scanChunkSize - 9 - uint64(len(sig)),
	}, matches)
}

func TestImageScan_noMatch(t *testing.T) {
	img := NewImage(true)
	require.NoError(t, img.Map(0x1000, []byte{0xE8, 0, 0}))

	matches, err := img.Scan(MustParsePattern("E8 ?? ?? ?? ?? 48"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}
