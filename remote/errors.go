package remote

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrUnmapped indicates an address range is not backed by readable memory.
	ErrUnmapped = errors.New("remote: address not mapped")

	// ErrShortRead indicates the target returned fewer bytes than requested.
	ErrShortRead = errors.New("remote: short read")

	// ErrProcessNotFound indicates no running process matched the requested name.
	ErrProcessNotFound = errors.New("remote: process not found")

	// ErrUnsupportedPlatform indicates live process access is not implemented
	// for the host operating system.
	ErrUnsupportedPlatform = errors.New("remote: live process access not supported on this platform")

	// ErrInvalidPattern indicates a byte pattern could not be parsed.
	ErrInvalidPattern = errors.New("remote: invalid byte pattern")

	// ErrClosed indicates the process handle has been released.
	ErrClosed = errors.New("remote: process is closed")
)

// ReadError describes a failed read of foreign memory.
type ReadError struct {
	Addr uint64 // First address of the requested range
	Size int    // Number of bytes requested
	Err  error  // Underlying error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("remote: read of %d bytes at 0x%x: %v", e.Size, e.Addr, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }
