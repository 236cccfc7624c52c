package rtti

import (
	"fmt"

	"golang.org/x/arch/x86/x86asm"

	"github.com/skdltmxn/wiztype/memview"
	"github.com/skdltmxn/wiztype/remote"
)

// Option table layout. The end pointer lives beside the begin pointer in the
// owning property, not in the table itself.
const (
	enumEndOffset   = 0xA0
	enumEntrySize   = 0x48
	enumEntryInt    = 0x20
	enumEntryName   = 0x28
	enumEntryString = 0x00
)

// Container name accessor: vtable slot, lea length and name buffer size.
const (
	containerNameFn  = 0x08
	leaMaxLength     = 7
	containerNameMax = 20
)

// EnumValue is the value of one enum option: either an integer or a string.
type EnumValue struct {
	Int      uint32
	Str      string
	IsString bool
}

// Value returns the option value as a uint32 or a string.
func (v EnumValue) Value() any {
	if v.IsString {
		return v.Str
	}
	return v.Int
}

func (v EnumValue) String() string {
	if v.IsString {
		return v.Str
	}
	return fmt.Sprint(v.Int)
}

// EnumOption is one named entry of a property option table.
type EnumOption struct {
	Name  string
	Value EnumValue
}

// decodeEnumOptions reads the option table whose begin pointer is at
// v.Addr+offset. A null begin pointer means the property has no table.
//
// Each entry holds a string value and an integer value. The string wins when
// it is non-empty, so an option whose intended string value is empty reads
// back as its integer.
func decodeEnumOptions(v memview.View, offset uint64) ([]EnumOption, error) {
	mem := v.Mem()

	start, err := remote.ReadPointer(mem, v.Addr+offset)
	if err != nil || start == 0 {
		return nil, err
	}
	end, err := remote.ReadPointer(mem, v.Addr+enumEndOffset)
	if err != nil {
		return nil, err
	}

	opts := []EnumOption{}
	if end <= start {
		return opts, nil
	}

	count := (end - start) / enumEntrySize
	for entry := start; count > 0; count-- {
		name, err := memview.DecodeString(v.Ctx, entry+enumEntryName, memview.DefaultSSOSize)
		if err != nil {
			return nil, err
		}

		var value EnumValue
		s, err := memview.DecodeString(v.Ctx, entry+enumEntryString, memview.DefaultSSOSize)
		if err != nil {
			return nil, err
		}
		if s != "" {
			value = EnumValue{Str: s, IsString: true}
		} else if value.Int, err = remote.ReadU32(mem, entry+enumEntryInt); err != nil {
			return nil, err
		}

		opts = append(opts, EnumOption{Name: name, Value: value})
		entry += enumEntrySize
	}
	return opts, nil
}

// ContainerName reads the display name of a container type. The name
// accessor in the vtable is a single rip-relative lea of a static string
// followed by a return; the string is found by decoding that lea.
func ContainerName(ctx *memview.Context, vtable uint64) (string, error) {
	fn, err := remote.ReadPointer(ctx.Mem, vtable+containerNameFn)
	if err != nil {
		return "", err
	}

	code, err := ctx.Mem.ReadMemory(fn, leaMaxLength)
	if err != nil {
		return "", err
	}

	inst, err := x86asm.Decode(code, 64)
	if err != nil {
		return "", fmt.Errorf("%w: % x at 0x%x: %v", ErrUnknownInstruction, code, fn, err)
	}
	mem, ok := inst.Args[1].(x86asm.Mem)
	if inst.Op != x86asm.LEA || !ok || mem.Base != x86asm.RIP {
		return "", fmt.Errorf("%w: %s at 0x%x, want rip-relative lea", ErrUnknownInstruction,
			x86asm.IntelSyntax(inst, fn, nil), fn)
	}

	addr := uint64(int64(fn) + int64(inst.Len) + mem.Disp)
	return memview.DecodeCString(ctx, addr, containerNameMax)
}
