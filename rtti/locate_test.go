package rtti_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skdltmxn/wiztype/remote"
	"github.com/skdltmxn/wiztype/rtti"
	"github.com/skdltmxn/wiztype/rtti/rttitest"
)

func TestLocate(t *testing.T) {
	b := rttitest.New(t)
	entry := b.Node(1, true, 0)
	reg := b.CallSite(entry)

	loc, err := rtti.Locate(b.Image(), rtti.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, reg.Match, loc.Match)
	assert.Equal(t, reg.Accessor, loc.Call)
	assert.Equal(t, reg.Slot, loc.Slot)
	assert.Equal(t, reg.Tree, loc.Tree)
	assert.Equal(t, reg.Head, loc.Root)
}

func TestLocateFirstMatchWins(t *testing.T) {
	b := rttitest.New(t)
	first := b.CallSite(b.Node(1, true, 0))
	b.CallSite(b.Node(2, true, 0))

	loc, err := rtti.Locate(b.Image(), rtti.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, first.Head, loc.Root)
}

func TestLocateNotFound(t *testing.T) {
	b := rttitest.New(t)
	b.Node(1, true, 0)

	_, err := rtti.Locate(b.Image(), rtti.DefaultOptions())
	require.ErrorIs(t, err, rtti.ErrSignatureNotFound)
}

func TestLocateBadSignature(t *testing.T) {
	opts := rtti.DefaultOptions()
	opts.Signature = "E8 zz"

	_, err := rtti.Locate(rttitest.New(t).Image(), opts)
	require.ErrorIs(t, err, remote.ErrInvalidPattern)
}

func TestLocateDanglingSlot(t *testing.T) {
	b := rttitest.New(t)
	reg := b.CallSite(b.Node(1, true, 0))
	b.PutU64(reg.Slot, 0x20)

	_, err := rtti.Locate(b.Image(), rtti.DefaultOptions())
	require.ErrorIs(t, err, remote.ErrUnmapped)
}
