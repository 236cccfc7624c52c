package rtti_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skdltmxn/wiztype/rtti"
	"github.com/skdltmxn/wiztype/rtti/rttitest"
)

func TestTypeBases(t *testing.T) {
	b := rttitest.New(t)
	ctx := newContext(t, b)

	root := b.Class(rttitest.Class{Name: "PropertyClass", Hash: 1})
	mid := b.Class(rttitest.Class{Name: "CoreObject", Hash: 2, Base: root.List})
	leaf := b.Class(rttitest.Class{Name: "ClientObject", Hash: 3, Base: mid.List})

	typ, err := rtti.NewHashNode(ctx, leaf.Node).Type()
	require.NoError(t, err)

	names, err := typ.BaseNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"CoreObject", "PropertyClass"}, names)

	// the chain is read once; later changes to the target are not seen
	b.PutU64(mid.List+0x18, 0)
	bases, err := typ.Bases()
	require.NoError(t, err)
	require.Len(t, bases, 2)
	assert.Equal(t, mid.List, bases[0].Addr())
	assert.Equal(t, root.List, bases[1].Addr())

	// a fresh view reads the target again
	fresh, err := rtti.NewHashNode(ctx, leaf.Node).Type()
	require.NoError(t, err)
	bases, err = fresh.Bases()
	require.NoError(t, err)
	assert.Len(t, bases, 1)
}

func TestTypeWithoutBases(t *testing.T) {
	b := rttitest.New(t)
	ctx := newContext(t, b)

	plain := b.Class(rttitest.Class{Name: "Plain"})
	typ, err := rtti.NewHashNode(ctx, plain.Node).Type()
	require.NoError(t, err)
	bases, err := typ.Bases()
	require.NoError(t, err)
	assert.Empty(t, bases)

	bare := b.Node(0, true, b.Type(rttitest.TypeSpec{Name: "int", Hash: 9, Size: 4}))
	typ, err = rtti.NewHashNode(ctx, bare).Type()
	require.NoError(t, err)
	bases, err = typ.Bases()
	require.NoError(t, err)
	assert.Nil(t, bases)
}

func TestTypeFields(t *testing.T) {
	b := rttitest.New(t)
	ctx := newContext(t, b)

	addr := b.Type(rttitest.TypeSpec{
		Name:          "class SharedPointer<class WizClientObject>",
		SecondaryName: "ptr",
		Hash:          0xDEADBEEF,
		Size:          16,
		Pointer:       true,
	})
	typ, err := rtti.NewHashNode(ctx, b.Node(0, true, addr)).Type()
	require.NoError(t, err)
	require.NotNil(t, typ)

	name, err := typ.Name()
	require.NoError(t, err)
	assert.Equal(t, "class SharedPointer<class WizClientObject>", name)

	second, err := typ.SecondaryName()
	require.NoError(t, err)
	assert.Equal(t, "ptr", second)

	hash, err := typ.Hash()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xDEADBEEF), hash)

	size, err := typ.Size()
	require.NoError(t, err)
	assert.Equal(t, int32(16), size)

	ptr, err := typ.IsPointer()
	require.NoError(t, err)
	assert.True(t, ptr)

	ref, err := typ.IsRef()
	require.NoError(t, err)
	assert.False(t, ref)

	list, err := typ.PropertyList()
	require.NoError(t, err)
	assert.Nil(t, list)
}

func TestPropertyFields(t *testing.T) {
	b := rttitest.New(t)

	intType := b.Type(rttitest.TypeSpec{Name: "int", Hash: 0x11})
	container := b.Container("Static", false)
	prop := propertyOf(t, b, b.Property(rttitest.PropertySpec{
		Name:      "m_health",
		Container: container,
		Type:      intType,
		Index:     4,
		Offset:    0x48,
		Flags:     0x1F,
		NameHash:  0x1234,
		FullHash:  0x89ABCDEF,
	}))

	name, err := prop.Name()
	require.NoError(t, err)
	assert.Equal(t, "m_health", name)

	index, err := prop.Index()
	require.NoError(t, err)
	assert.Equal(t, int32(4), index)

	offset, err := prop.Offset()
	require.NoError(t, err)
	assert.Equal(t, int32(0x48), offset)

	flags, err := prop.Flags()
	require.NoError(t, err)
	assert.Equal(t, int32(0x1F), flags)

	nameHash, err := prop.NameHash()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x1234), nameHash)

	fullHash, err := prop.FullHash()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x89ABCDEF), fullHash)

	typ, err := prop.Type()
	require.NoError(t, err)
	assert.Equal(t, intType, typ.Addr())

	c, err := prop.Container()
	require.NoError(t, err)
	assert.Equal(t, container, c.Addr())
}

func TestPropertyListFields(t *testing.T) {
	b := rttitest.New(t)
	ctx := newContext(t, b)

	fn := b.Function("Update", 0, 0x140001000)
	list := b.List(rttitest.ListSpec{Name: "Player", Singleton: true, Offset: 8, Functions: []uint64{fn}})
	typ := b.Type(rttitest.TypeSpec{Name: "class Player", List: list})
	b.SetListType(list, typ)

	l, err := rtti.NewHashNode(ctx, b.Node(0, true, typ)).Type()
	require.NoError(t, err)
	pl, err := l.PropertyList()
	require.NoError(t, err)

	name, err := pl.Name()
	require.NoError(t, err)
	assert.Equal(t, "Player", name)

	singleton, err := pl.IsSingleton()
	require.NoError(t, err)
	assert.True(t, singleton)

	offset, err := pl.Offset()
	require.NoError(t, err)
	assert.Equal(t, int32(8), offset)

	owner, err := pl.Type()
	require.NoError(t, err)
	assert.Equal(t, typ, owner.Addr())

	ptr, err := pl.PointerType()
	require.NoError(t, err)
	assert.Nil(t, ptr)

	props, err := pl.Properties()
	require.NoError(t, err)
	assert.Empty(t, props)

	funcs, err := pl.Functions()
	require.NoError(t, err)
	require.Len(t, funcs, 1)

	fname, err := funcs[0].Name()
	require.NoError(t, err)
	assert.Equal(t, "Update", fname)

	details, err := funcs[0].Details()
	require.NoError(t, err)
	called, err := details.CalledFunction()
	require.NoError(t, err)
	assert.Equal(t, uint64(0x140001000), called)
	something, err := details.Something()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x2A), something)
}
