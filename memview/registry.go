package memview

import (
	"fmt"
	"sort"
)

// Factory builds the typed wrapper for a structure at v.
type Factory func(v View) any

// Registry maps structure names to factories. Pointer and array fields name
// their element type instead of referring to it directly, which lets
// structures point at each other (or themselves) without an initialization
// cycle between the field tables.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register associates name with f. It panics if name is already registered
// or f is nil.
func (r *Registry) Register(name string, f Factory) {
	if f == nil {
		panic("memview: Register factory is nil")
	}
	if _, dup := r.factories[name]; dup {
		panic("memview: Register called twice for " + name)
	}
	r.factories[name] = f
}

// New builds the structure registered as name at v.
func (r *Registry) New(name string, v View) (any, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, name)
	}
	return f(v), nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// build resolves name through the view's registry and asserts the result to T.
func build[T any](v View, name string) (T, error) {
	var zero T
	if v.Ctx.Types == nil {
		return zero, fmt.Errorf("%w: %s (no registry)", ErrUnknownType, name)
	}
	obj, err := v.Ctx.Types.New(name, v)
	if err != nil {
		return zero, err
	}
	typed, ok := obj.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s built %T, want %T", ErrTypeMismatch, name, obj, zero)
	}
	return typed, nil
}
