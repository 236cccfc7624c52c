package memview

import (
	"errors"
	"fmt"

	"github.com/skdltmxn/wiztype/internal/stream"
	"github.com/skdltmxn/wiztype/remote"
)

// Layout constants of the target's standard library types.
const (
	// stringLengthOffset is where a string object stores its length.
	stringLengthOffset = 16

	// DefaultSSOSize is the length at which string data moves to the heap.
	DefaultSSOSize = 16

	// vectorRecordSize is the size of one shared pointer record
	// (element pointer followed by control block pointer).
	vectorRecordSize = 16
)

// DecodeString reads a short-string-optimized string object at addr.
// Strings shorter than sso are stored inline at addr; longer ones are behind
// the pointer stored at addr. Bytes that do not decode in the configured
// encoding produce an empty string, not an error.
func DecodeString(ctx *Context, addr uint64, sso int) (string, error) {
	length, err := remote.ReadI32(ctx.Mem, addr+stringLengthOffset)
	if err != nil {
		return "", err
	}
	if length < 0 {
		return "", fmt.Errorf("%w: %d at 0x%x", ErrNegativeLength, length, addr)
	}

	data := addr
	if int(length) >= sso {
		data, err = remote.ReadPointer(ctx.Mem, addr)
		if err != nil {
			return "", err
		}
	}

	buf, err := ctx.Mem.ReadMemory(data, int(length))
	if err != nil {
		return "", err
	}

	s, ok := ctx.Text.Decode(buf)
	if !ok {
		return "", nil
	}
	return s, nil
}

// DecodeVector reads a dynamic array of shared pointers at addr and returns
// the element pointers in address order. The begin and end pointers form a
// half-open range of 16-byte records.
func DecodeVector(ctx *Context, addr uint64) ([]uint64, error) {
	start, err := remote.ReadPointer(ctx.Mem, addr)
	if err != nil {
		return nil, err
	}
	end, err := remote.ReadPointer(ctx.Mem, addr+8)
	if err != nil {
		return nil, err
	}

	// begin is past end while the array is being torn down
	if end <= start {
		return nil, nil
	}

	count := (end - start) / vectorRecordSize
	if count > uint64(ctx.maxVector()) {
		return nil, fmt.Errorf("%w: %d elements, ceiling is %d", ErrVectorTooLarge, count, ctx.maxVector())
	}
	if count == 0 {
		return nil, nil
	}

	data, err := ctx.Mem.ReadMemory(start, int(count*vectorRecordSize))
	if err != nil {
		return nil, err
	}

	r := stream.NewReader(start, data)
	ptrs := make([]uint64, 0, count)
	for i := uint64(0); i < count; i++ {
		p, err := r.ReadU64()
		if err != nil {
			return nil, err
		}
		if err := r.Skip(8); err != nil {
			return nil, err
		}
		ptrs = append(ptrs, p)
	}
	return ptrs, nil
}

// DecodeCString reads a NUL-terminated string at addr, looking no further
// than window bytes. A string that is not terminated within the window is an
// error.
func DecodeCString(ctx *Context, addr uint64, window int) (string, error) {
	data, err := ctx.Mem.ReadMemory(addr, window)
	if err != nil {
		return "", err
	}

	raw, err := stream.NewReader(addr, data).ReadCString()
	if err != nil {
		if errors.Is(err, stream.ErrNoTerminator) {
			return "", fmt.Errorf("%w: %d bytes at 0x%x", ErrNoTerminator, window, addr)
		}
		return "", err
	}

	s, ok := ctx.Text.Decode(raw)
	if !ok {
		return "", nil
	}
	return s, nil
}
