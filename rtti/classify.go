package rtti

import (
	"fmt"

	"golang.org/x/arch/x86/x86asm"

	"github.com/skdltmxn/wiztype/remote"
)

// Slot of the container vtable that reports whether the container is dynamic.
const (
	isDynamicFn      = 0x20
	isDynamicCodeLen = 3
)

// ClassifyDynamic resolves the dynamic flag of a container by reading the
// code of its accessor instead of calling it. The accessor is either
//
//	xor al, al ; ret
//
// or
//
//	mov al, 1 ; ret
//
// Anything else means the target is not a build this package understands.
func ClassifyDynamic(mem remote.Reader, vtable uint64) (bool, error) {
	fn, err := remote.ReadPointer(mem, vtable+isDynamicFn)
	if err != nil {
		return false, err
	}

	code, err := mem.ReadMemory(fn, isDynamicCodeLen)
	if err != nil {
		return false, err
	}

	return classifyAccessor(code)
}

func classifyAccessor(code []byte) (bool, error) {
	inst, err := x86asm.Decode(code, 64)
	if err != nil {
		return false, fmt.Errorf("%w: % x: %v", ErrUnknownInstruction, code, err)
	}

	switch {
	case inst.Op == x86asm.XOR && inst.Args[0] == x86asm.AL && inst.Args[1] == x86asm.AL:
		return false, nil
	case inst.Op == x86asm.MOV && inst.Args[0] == x86asm.AL && inst.Args[1] == x86asm.Imm(1):
		return true, nil
	}
	return false, fmt.Errorf("%w: %s (% x)", ErrUnknownInstruction, x86asm.IntelSyntax(inst, 0, nil), code)
}
