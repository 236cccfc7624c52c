package memview

import (
	"github.com/skdltmxn/wiztype/remote"
)

// Decoder reads a value located offset bytes into the structure at v.
type Decoder[T any] func(v View, offset uint64) (T, error)

// Field describes one member of a foreign structure.
type Field[T any] struct {
	Name   string
	Offset uint64
	Decode Decoder[T]
}

// Get decodes the field from the structure at v.
func (f Field[T]) Get(v View) (T, error) {
	val, err := f.Decode(v, f.Offset)
	if err != nil {
		var zero T
		return zero, &FieldError{Field: f.Name, Addr: v.Addr + f.Offset, Err: err}
	}
	return val, nil
}

// Bool declares a one-byte boolean member.
func Bool(name string, offset uint64) Field[bool] {
	return Field[bool]{Name: name, Offset: offset, Decode: func(v View, off uint64) (bool, error) {
		return remote.ReadBool(v.Ctx.Mem, v.Addr+off)
	}}
}

// Int32 declares a signed 32-bit member.
func Int32(name string, offset uint64) Field[int32] {
	return Field[int32]{Name: name, Offset: offset, Decode: func(v View, off uint64) (int32, error) {
		return remote.ReadI32(v.Ctx.Mem, v.Addr+off)
	}}
}

// Uint32 declares an unsigned 32-bit member.
func Uint32(name string, offset uint64) Field[uint32] {
	return Field[uint32]{Name: name, Offset: offset, Decode: func(v View, off uint64) (uint32, error) {
		return remote.ReadU32(v.Ctx.Mem, v.Addr+off)
	}}
}

// Uint64 declares an unsigned 64-bit member.
func Uint64(name string, offset uint64) Field[uint64] {
	return Field[uint64]{Name: name, Offset: offset, Decode: func(v View, off uint64) (uint64, error) {
		return remote.ReadU64(v.Ctx.Mem, v.Addr+off)
	}}
}

// Pointer declares a pointer-width member holding a raw address.
func Pointer(name string, offset uint64) Field[uint64] {
	return Field[uint64]{Name: name, Offset: offset, Decode: func(v View, off uint64) (uint64, error) {
		return remote.ReadPointer(v.Ctx.Mem, v.Addr+off)
	}}
}

// String declares an embedded short-string-optimized string with the given
// inline threshold.
func String(name string, offset uint64, sso int) Field[string] {
	return Field[string]{Name: name, Offset: offset, Decode: func(v View, off uint64) (string, error) {
		return DecodeString(v.Ctx, v.Addr+off, sso)
	}}
}

// CString declares a pointer to a NUL-terminated string searched within
// window bytes. A null pointer decodes as the empty string.
func CString(name string, offset uint64, window int) Field[string] {
	return Field[string]{Name: name, Offset: offset, Decode: func(v View, off uint64) (string, error) {
		p, err := remote.ReadPointer(v.Ctx.Mem, v.Addr+off)
		if err != nil || p == 0 {
			return "", err
		}
		return DecodeCString(v.Ctx, p, window)
	}}
}

// Ref declares a pointer to a structure registered as typeName.
// A null pointer decodes as the zero T.
func Ref[T any](name string, offset uint64, typeName string) Field[T] {
	return Field[T]{Name: name, Offset: offset, Decode: func(v View, off uint64) (T, error) {
		var zero T
		p, err := remote.ReadPointer(v.Ctx.Mem, v.Addr+off)
		if err != nil || p == 0 {
			return zero, err
		}
		return build[T](v.At(p), typeName)
	}}
}

// Pointers declares an embedded dynamic array whose elements are returned as
// raw addresses.
func Pointers(name string, offset uint64) Field[[]uint64] {
	return Field[[]uint64]{Name: name, Offset: offset, Decode: func(v View, off uint64) ([]uint64, error) {
		return DecodeVector(v.Ctx, v.Addr+off)
	}}
}

// Vector declares an embedded dynamic array whose elements are structures
// registered as typeName.
func Vector[T any](name string, offset uint64, typeName string) Field[[]T] {
	return Field[[]T]{Name: name, Offset: offset, Decode: func(v View, off uint64) ([]T, error) {
		ptrs, err := DecodeVector(v.Ctx, v.Addr+off)
		if err != nil {
			return nil, err
		}
		elems := make([]T, 0, len(ptrs))
		for _, p := range ptrs {
			elem, err := build[T](v.At(p), typeName)
			if err != nil {
				return nil, err
			}
			elems = append(elems, elem)
		}
		return elems, nil
	}}
}
