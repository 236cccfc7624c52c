package memview

import (
	"errors"
	"fmt"

	"github.com/skdltmxn/wiztype/internal/stream"
)

// Sentinel errors for common conditions.
var (
	// ErrUnknownType indicates a structure name has no registered factory.
	ErrUnknownType = errors.New("memview: unknown structure type")

	// ErrTypeMismatch indicates a factory produced a value of an unexpected type.
	ErrTypeMismatch = errors.New("memview: structure type mismatch")

	// ErrVectorTooLarge indicates a dynamic array claims more elements than
	// the configured ceiling, which usually means the header is garbage.
	ErrVectorTooLarge = errors.New("memview: dynamic array exceeds size ceiling")

	// ErrNegativeLength indicates a string header holds a negative length.
	ErrNegativeLength = errors.New("memview: negative string length")

	// ErrNoTerminator indicates no NUL byte was found within the search window.
	ErrNoTerminator = stream.ErrNoTerminator
)

// FieldError records which structure member failed to decode.
type FieldError struct {
	Field string // Member name
	Addr  uint64 // Foreign address of the member
	Err   error  // Underlying error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("memview: field %s at 0x%x: %v", e.Field, e.Addr, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }
