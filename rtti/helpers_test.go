package rtti_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skdltmxn/wiztype/memview"
	"github.com/skdltmxn/wiztype/rtti"
	"github.com/skdltmxn/wiztype/rtti/rttitest"
)

func newContext(t *testing.T, b *rttitest.Builder) *memview.Context {
	t.Helper()
	ctx, err := rtti.DefaultOptions().NewContext(b.Image())
	require.NoError(t, err)
	return ctx
}

func addrs(nodes []*rtti.HashNode) []uint64 {
	out := make([]uint64, len(nodes))
	for i, n := range nodes {
		out[i] = n.Addr()
	}
	return out
}
