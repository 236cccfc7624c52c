// Package memview describes structures that live in foreign memory as sets of
// typed field descriptors, evaluated lazily against a View.
//
// Nothing is cached: every Get reads the target again, so a View reflects
// whatever the foreign process holds at that moment.
package memview

import (
	"github.com/skdltmxn/wiztype/remote"
)

// DefaultMaxVector is the default element ceiling for dynamic arrays.
const DefaultMaxVector = 500

// Context is the memory-access handle and decoder configuration shared by
// every View of one extraction session.
type Context struct {
	// Mem is the foreign address space.
	Mem remote.Reader

	// Types resolves structure names for pointer and array fields.
	Types *Registry

	// Text decodes string bytes. A nil Text decodes strict UTF-8.
	Text *TextDecoder

	// MaxVector is the dynamic array element ceiling. Zero means DefaultMaxVector.
	MaxVector int
}

// NewContext returns a Context with default decoder settings.
func NewContext(mem remote.Reader, types *Registry) *Context {
	return &Context{Mem: mem, Types: types, MaxVector: DefaultMaxVector}
}

func (c *Context) maxVector() int {
	if c.MaxVector <= 0 {
		return DefaultMaxVector
	}
	return c.MaxVector
}

// View is a structure located at Addr in foreign memory.
type View struct {
	Addr uint64
	Ctx  *Context
}

// At returns a View of another structure in the same address space.
func (v View) At(addr uint64) View {
	return View{Addr: addr, Ctx: v.Ctx}
}

// Mem returns the foreign address space the view reads from.
func (v View) Mem() remote.Reader {
	return v.Ctx.Mem
}
