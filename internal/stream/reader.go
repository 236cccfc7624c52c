// Package stream decodes little-endian values from windows of foreign memory.
package stream

import (
	"bytes"
	"encoding/binary"
	"errors"
)

// Errors returned by Reader
var (
	ErrUnexpectedEOF = errors.New("stream: unexpected end of data")
	ErrNoTerminator  = errors.New("stream: no string terminator in window")
	ErrPointerSize   = errors.New("stream: unsupported pointer size")
)

// Reader walks a byte window that was copied out of a foreign process.
// It remembers the foreign address of the first byte so callers can report
// where a value came from.
type Reader struct {
	data   []byte
	offset int
	base   uint64
}

// NewReader creates a Reader over data, which was read from address base.
func NewReader(base uint64, data []byte) *Reader {
	return &Reader{data: data, base: base}
}

// Offset returns the current read position.
func (r *Reader) Offset() int {
	return r.offset
}

// Addr returns the foreign address of the current read position.
func (r *Reader) Addr() uint64 {
	return r.base + uint64(r.offset)
}

// Remaining returns the number of bytes remaining.
func (r *Reader) Remaining() int {
	if r.offset >= len(r.data) {
		return 0
	}
	return len(r.data) - r.offset
}

// Skip advances the read position by n bytes.
func (r *Reader) Skip(n int) error {
	if r.offset+n > len(r.data) {
		return ErrUnexpectedEOF
	}
	r.offset += n
	return nil
}

// ReadU8 reads an unsigned 8-bit integer.
func (r *Reader) ReadU8() (uint8, error) {
	if r.offset >= len(r.data) {
		return 0, ErrUnexpectedEOF
	}
	v := r.data[r.offset]
	r.offset++
	return v, nil
}

// ReadU32 reads an unsigned 32-bit integer.
func (r *Reader) ReadU32() (uint32, error) {
	if r.offset+4 > len(r.data) {
		return 0, ErrUnexpectedEOF
	}
	v := binary.LittleEndian.Uint32(r.data[r.offset:])
	r.offset += 4
	return v, nil
}

// ReadI32 reads a signed 32-bit integer.
func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

// ReadU64 reads an unsigned 64-bit integer.
func (r *Reader) ReadU64() (uint64, error) {
	if r.offset+8 > len(r.data) {
		return 0, ErrUnexpectedEOF
	}
	v := binary.LittleEndian.Uint64(r.data[r.offset:])
	r.offset += 8
	return v, nil
}

// ReadPointer reads a pointer that is size bytes wide (4 or 8).
func (r *Reader) ReadPointer(size int) (uint64, error) {
	switch size {
	case 8:
		return r.ReadU64()
	case 4:
		v, err := r.ReadU32()
		return uint64(v), err
	default:
		return 0, ErrPointerSize
	}
}

// ReadCString reads bytes up to the next NUL and skips the terminator.
// Unlike a file stream, a foreign window has no natural end, so a missing
// terminator is ErrNoTerminator rather than EOF.
func (r *Reader) ReadCString() ([]byte, error) {
	rest := r.data[min(r.offset, len(r.data)):]
	end := bytes.IndexByte(rest, 0)
	if end < 0 {
		return nil, ErrNoTerminator
	}
	s := rest[:end:end]
	r.offset += end + 1
	return s, nil
}
