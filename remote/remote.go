// Package remote provides read-only access to the address space of a foreign
// process.
//
// The Reader and Process interfaces are all the extraction code depends on.
// LiveProcess implements them against a running program; Image implements them
// over an in-memory snapshot.
package remote

import (
	"encoding/binary"
	"fmt"
)

// Reader reads the memory of a foreign address space.
// All multi-byte values are little-endian.
type Reader interface {
	// ReadMemory returns exactly size bytes starting at addr.
	ReadMemory(addr uint64, size int) ([]byte, error)

	// Is64Bit reports whether pointers in the address space are 8 bytes wide.
	Is64Bit() bool
}

// Process is a Reader that can also be searched for byte patterns.
type Process interface {
	Reader

	// Scan returns the address of every match of p in readable memory,
	// in ascending order.
	Scan(p *Pattern) ([]uint64, error)

	// Close releases the process handle.
	Close() error
}

// Region is a contiguous range of readable foreign memory.
type Region struct {
	Base uint64
	Size uint64
}

// End returns the first address past the region.
func (r Region) End() uint64 { return r.Base + r.Size }

func (r Region) String() string {
	return fmt.Sprintf("[0x%x, 0x%x)", r.Base, r.End())
}

// PointerSize returns the pointer width of r in bytes.
func PointerSize(r Reader) int {
	if r.Is64Bit() {
		return 8
	}
	return 4
}

func readN(r Reader, addr uint64, n int) ([]byte, error) {
	buf, err := r.ReadMemory(addr, n)
	if err != nil {
		return nil, err
	}
	if len(buf) < n {
		return nil, &ReadError{Addr: addr, Size: n, Err: ErrShortRead}
	}
	return buf, nil
}

// ReadU8 reads an unsigned 8-bit integer.
func ReadU8(r Reader, addr uint64) (uint8, error) {
	buf, err := readN(r, addr, 1)
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadBool reads a one-byte boolean. Any non-zero byte is true.
func ReadBool(r Reader, addr uint64) (bool, error) {
	v, err := ReadU8(r, addr)
	return v != 0, err
}

// ReadU32 reads an unsigned 32-bit integer.
func ReadU32(r Reader, addr uint64) (uint32, error) {
	buf, err := readN(r, addr, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf), nil
}

// ReadI32 reads a signed 32-bit integer.
func ReadI32(r Reader, addr uint64) (int32, error) {
	v, err := ReadU32(r, addr)
	return int32(v), err
}

// ReadU64 reads an unsigned 64-bit integer.
func ReadU64(r Reader, addr uint64) (uint64, error) {
	buf, err := readN(r, addr, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf), nil
}

// ReadPointer reads a pointer using the width reported by r.
func ReadPointer(r Reader, addr uint64) (uint64, error) {
	if r.Is64Bit() {
		return ReadU64(r, addr)
	}
	v, err := ReadU32(r, addr)
	return uint64(v), err
}
