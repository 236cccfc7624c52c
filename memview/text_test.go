package memview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextDecoder_utf8(t *testing.T) {
	d, err := NewTextDecoder("UTF-8")
	require.NoError(t, err)
	assert.Equal(t, "utf-8", d.Name())

	s, ok := d.Decode([]byte("héllo"))
	assert.True(t, ok)
	assert.Equal(t, "héllo", s)

	_, ok = d.Decode([]byte{0xC3})
	assert.False(t, ok)
}

func TestTextDecoder_nil(t *testing.T) {
	var d *TextDecoder
	assert.Equal(t, "utf-8", d.Name())

	s, ok := d.Decode([]byte("plain"))
	assert.True(t, ok)
	assert.Equal(t, "plain", s)
}

func TestTextDecoder_windows1252(t *testing.T) {
	d, err := NewTextDecoder("windows-1252")
	require.NoError(t, err)

	s, ok := d.Decode([]byte{'c', 'a', 'f', 0xE9})
	assert.True(t, ok)
	assert.Equal(t, "café", s)
}

func TestTextDecoder_unknown(t *testing.T) {
	_, err := NewTextDecoder("klingon")
	assert.Error(t, err)
}
