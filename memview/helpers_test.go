package memview

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skdltmxn/wiztype/remote"
)

const arena = 0x10000

func newContext(t *testing.T) (*Context, *remote.Image) {
	t.Helper()
	img := remote.NewImage(true)
	require.NoError(t, img.Map(arena, make([]byte, 0x10000)))
	return NewContext(img, NewRegistry()), img
}

func put32(t *testing.T, img *remote.Image, addr uint64, v uint32) {
	t.Helper()
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	require.NoError(t, img.Write(addr, b[:]))
}

func put64(t *testing.T, img *remote.Image, addr uint64, v uint64) {
	t.Helper()
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	require.NoError(t, img.Write(addr, b[:]))
}

func putBytes(t *testing.T, img *remote.Image, addr uint64, b []byte) {
	t.Helper()
	require.NoError(t, img.Write(addr, b))
}
