// Package rttitest builds synthetic type registries in an in-memory address
// space for tests.
package rttitest

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skdltmxn/wiztype/remote"
)

// Arena placement. The address is high enough that no fixture pointer fits in
// 32 bits.
const (
	ArenaBase = 0x140000000
	ArenaSize = 0x100000
)

// Structure sizes, rounded up past the last member.
const (
	nodeSize      = 0x30
	typeSize      = 0xA0
	listSize      = 0xD0
	propertySize  = 0xB0
	functionSize  = 0x60
	detailsSize   = 0x40
	enumEntrySize = 0x48
	vtableSize    = 0x30
	stringSize    = 0x18
)

// Builder lays out registry structures in a single mapped arena.
type Builder struct {
	t    testing.TB
	img  *remote.Image
	next uint64
}

// New returns a Builder over a fresh 64-bit image.
func New(t testing.TB) *Builder {
	t.Helper()
	img := remote.NewImage(true)
	require.NoError(t, img.Map(ArenaBase, make([]byte, ArenaSize)))
	// keep address zero of the arena unused so no allocation looks null
	return &Builder{t: t, img: img, next: ArenaBase + 0x10}
}

// Image returns the address space the builder writes to.
func (b *Builder) Image() *remote.Image { return b.img }

// Alloc reserves size zeroed bytes aligned to 16.
func (b *Builder) Alloc(size int) uint64 {
	b.t.Helper()
	addr := b.next
	b.next += (uint64(size) + 15) &^ 15
	require.LessOrEqual(b.t, b.next, uint64(ArenaBase+ArenaSize), "fixture arena exhausted")
	return addr
}

// Write copies data to addr.
func (b *Builder) Write(addr uint64, data []byte) {
	b.t.Helper()
	require.NoError(b.t, b.img.Write(addr, data))
}

func (b *Builder) PutBool(addr uint64, v bool) {
	b.t.Helper()
	if v {
		b.Write(addr, []byte{1})
	} else {
		b.Write(addr, []byte{0})
	}
}

func (b *Builder) PutU32(addr uint64, v uint32) {
	b.t.Helper()
	b.Write(addr, binary.LittleEndian.AppendUint32(nil, v))
}

func (b *Builder) PutI32(addr uint64, v int32) {
	b.t.Helper()
	b.PutU32(addr, uint32(v))
}

func (b *Builder) PutU64(addr uint64, v uint64) {
	b.t.Helper()
	b.Write(addr, binary.LittleEndian.AppendUint64(nil, v))
}

// PutString writes a short-string-optimized string object at addr.
func (b *Builder) PutString(addr uint64, s string, sso int) {
	b.t.Helper()
	if len(s) >= sso {
		data := b.Alloc(len(s) + 1)
		b.Write(data, []byte(s))
		b.PutU64(addr, data)
	} else {
		b.Write(addr, []byte(s))
	}
	b.PutI32(addr+16, int32(len(s)))
}

// PutVector writes a dynamic array of shared pointers to elems at addr.
func (b *Builder) PutVector(addr uint64, elems []uint64) {
	b.t.Helper()
	start := b.Alloc(len(elems)*16 + 16)
	for i, elem := range elems {
		b.PutU64(start+uint64(i)*16, elem)
		// control block, never read
		b.PutU64(start+uint64(i)*16+8, 0xC0C0C0C0)
	}
	b.PutU64(addr, start)
	b.PutU64(addr+8, start+uint64(len(elems))*16)
}

// CString allocates a NUL-terminated copy of s.
func (b *Builder) CString(s string) uint64 {
	b.t.Helper()
	addr := b.Alloc(len(s) + 1)
	b.Write(addr, []byte(s))
	return addr
}

// Node allocates a tree node. Links are set with Link.
func (b *Builder) Node(hash uint32, leaf bool, typ uint64) uint64 {
	b.t.Helper()
	addr := b.Alloc(nodeSize)
	b.PutBool(addr+0x19, leaf)
	b.PutU32(addr+0x20, hash)
	b.PutU64(addr+0x28, typ)
	return addr
}

// Link sets the left, parent and right links of node. Zero means null.
func (b *Builder) Link(node, left, parent, right uint64) {
	b.t.Helper()
	b.PutU64(node+0x00, left)
	b.PutU64(node+0x08, parent)
	b.PutU64(node+0x10, right)
}

// TypeSpec describes a type descriptor.
type TypeSpec struct {
	Name          string
	SecondaryName string
	Hash          uint32
	Size          int32
	Pointer       bool
	Ref           bool
	List          uint64
}

// Type allocates a type descriptor.
func (b *Builder) Type(spec TypeSpec) uint64 {
	b.t.Helper()
	addr := b.Alloc(typeSize)
	b.PutString(addr+0x38, spec.Name, 16)
	b.PutU32(addr+0x58, spec.Hash)
	b.PutI32(addr+0x60, spec.Size)
	b.PutString(addr+0x68, spec.SecondaryName, 16)
	b.PutBool(addr+0x88, spec.Pointer)
	b.PutBool(addr+0x89, spec.Ref)
	b.PutU64(addr+0x90, spec.List)
	return addr
}

// ListSpec describes a property list.
type ListSpec struct {
	Name       string
	Singleton  bool
	Offset     int32
	Base       uint64
	Type       uint64
	Pointer    uint64
	Properties []uint64
	Functions  []uint64
}

// List allocates a property list.
func (b *Builder) List(spec ListSpec) uint64 {
	b.t.Helper()
	addr := b.Alloc(listSize)
	b.PutBool(addr+0x09, spec.Singleton)
	b.PutI32(addr+0x10, spec.Offset)
	b.PutU64(addr+0x18, spec.Base)
	b.PutU64(addr+0x20, spec.Type)
	b.PutU64(addr+0x30, spec.Pointer)
	b.PutVector(addr+0x58, spec.Properties)
	b.PutVector(addr+0x70, spec.Functions)
	b.PutString(addr+0xB8, spec.Name, 10)
	return addr
}

// SetListType points the list at its owning type, for lists built before
// the type.
func (b *Builder) SetListType(list, typ uint64) {
	b.t.Helper()
	b.PutU64(list+0x20, typ)
}

// EnumEntry is one option of a property option table. A non-empty Str takes
// the string slot; Int is always written.
type EnumEntry struct {
	Name string
	Str  string
	Int  uint32
}

// PropertySpec describes a property.
type PropertySpec struct {
	Name      string
	List      uint64
	Container uint64
	Type      uint64
	Index     int32
	Offset    int32
	Flags     int32
	NameHash  uint32
	FullHash  uint32
	Enum      []EnumEntry
}

// Property allocates a property. A nil Enum leaves the option table null.
func (b *Builder) Property(spec PropertySpec) uint64 {
	b.t.Helper()
	addr := b.Alloc(propertySize)
	b.PutU64(addr+0x38, spec.List)
	b.PutU64(addr+0x40, spec.Container)
	b.PutI32(addr+0x50, spec.Index)
	if spec.Name != "" {
		b.PutU64(addr+0x58, b.CString(spec.Name))
	}
	b.PutU32(addr+0x60, spec.NameHash)
	b.PutU32(addr+0x64, spec.FullHash)
	b.PutI32(addr+0x68, spec.Offset)
	b.PutU64(addr+0x70, spec.Type)
	b.PutI32(addr+0x80, spec.Flags)
	if spec.Enum != nil {
		start, end := b.EnumTable(spec.Enum)
		b.PutU64(addr+0x98, start)
		b.PutU64(addr+0xA0, end)
	}
	return addr
}

// EnumTable allocates option entries and returns their begin and end.
func (b *Builder) EnumTable(entries []EnumEntry) (uint64, uint64) {
	b.t.Helper()
	start := b.Alloc(len(entries)*enumEntrySize + 16)
	for i, e := range entries {
		entry := start + uint64(i)*enumEntrySize
		b.PutString(entry+0x00, e.Str, 16)
		b.PutU32(entry+0x20, e.Int)
		b.PutString(entry+0x28, e.Name, 16)
	}
	return start, start + uint64(len(entries))*enumEntrySize
}

// Encodings of the dynamic flag accessor.
var (
	StaticCode  = []byte{0x32, 0xC0, 0xC3} // xor al, al ; ret
	DynamicCode = []byte{0xB0, 0x01, 0xC3} // mov al, 1 ; ret
)

// Container allocates a container whose name accessor returns name and whose
// dynamic accessor returns dynamic.
func (b *Builder) Container(name string, dynamic bool) uint64 {
	b.t.Helper()
	code := StaticCode
	if dynamic {
		code = DynamicCode
	}
	return b.ContainerCode(b.NameAccessor([]byte(name+"\x00")), b.Code(code))
}

// ContainerCode allocates a container whose accessors are at nameFn and
// dynamicFn.
func (b *Builder) ContainerCode(nameFn, dynamicFn uint64) uint64 {
	b.t.Helper()
	vtable := b.Alloc(vtableSize)
	b.PutU64(vtable+0x08, nameFn)
	b.PutU64(vtable+0x20, dynamicFn)

	addr := b.Alloc(16)
	b.PutU64(addr, vtable)
	return addr
}

// NameAccessor allocates a name buffer holding raw and a function that loads
// it with a rip-relative lea, and returns the function.
func (b *Builder) NameAccessor(raw []byte) uint64 {
	b.t.Helper()
	fn := b.Alloc(16)
	buf := b.Alloc(len(raw))
	b.Write(buf, raw)

	code := []byte{0x48, 0x8D, 0x05} // lea rax, [rip+disp32]
	code = binary.LittleEndian.AppendUint32(code, uint32(int32(int64(buf)-int64(fn+7))))
	code = append(code, 0xC3)
	b.Write(fn, code)
	return fn
}

// Code allocates a function holding code.
func (b *Builder) Code(code []byte) uint64 {
	b.t.Helper()
	fn := b.Alloc(len(code))
	b.Write(fn, code)
	return fn
}

// Function allocates a method record.
func (b *Builder) Function(name string, list, called uint64) uint64 {
	b.t.Helper()
	details := b.Alloc(detailsSize)
	b.PutU64(details+0x30, called)
	b.PutU32(details+0x3C, 0x2A)

	addr := b.Alloc(functionSize)
	b.PutU64(addr+0x30, list)
	b.PutString(addr+0x38, name, 16)
	b.PutU64(addr+0x58, details)
	return addr
}

// Registry holds the addresses that make up a located registry.
type Registry struct {
	Match    uint64
	Accessor uint64
	Slot     uint64
	Tree     uint64
	Head     uint64
}

// CallSite writes the signature call site, the accessor it calls, the static
// slot the accessor loads and a head node whose parent is entry.
func (b *Builder) CallSite(entry uint64) Registry {
	b.t.Helper()
	var r Registry

	r.Head = b.Node(0, true, 0)
	b.Link(r.Head, 0, entry, 0)

	r.Tree = b.Alloc(8)
	b.PutU64(r.Tree, r.Head)
	r.Slot = b.Alloc(8)
	b.PutU64(r.Slot, r.Tree)

	r.Accessor = b.Alloc(64)
	lea := r.Accessor + 50
	load := []byte{0x48, 0x8B, 0x05} // mov rax, [rip+disp32]
	load = binary.LittleEndian.AppendUint32(load, uint32(int32(int64(r.Slot)-int64(lea+7))))
	b.Write(lea, load)

	r.Match = b.Alloc(16)
	call := []byte{0xE8}
	call = binary.LittleEndian.AppendUint32(call, uint32(int32(int64(r.Accessor)-int64(r.Match+5))))
	call = append(call, 0x48, 0x3B, 0x18, 0x74, 0x12)
	b.Write(r.Match, call)
	return r
}

// Class describes a class with a type descriptor, a property list and a
// payload node.
type Class struct {
	Name  string
	Hash  uint32
	Base  uint64 // property list of the base class
	Props []uint64
	Funcs []uint64
}

// ClassNodes are the structures allocated for one class.
type ClassNodes struct {
	Node uint64
	Type uint64
	List uint64
}

// Class allocates a class and returns a payload node carrying it.
func (b *Builder) Class(c Class) ClassNodes {
	b.t.Helper()
	list := b.List(ListSpec{Name: c.Name, Base: c.Base, Properties: c.Props, Functions: c.Funcs})
	typ := b.Type(TypeSpec{Name: c.Name, Hash: c.Hash, List: list})
	b.SetListType(list, typ)
	return ClassNodes{Node: b.Node(c.Hash, true, typ), Type: typ, List: list}
}
