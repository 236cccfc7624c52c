package remote

import (
	"fmt"
	"sort"
)

// Image is an in-memory address space made of non-overlapping segments.
// It serves offline snapshots and synthetic fixtures.
type Image struct {
	segments []segment // sorted by base
	is64     bool
}

type segment struct {
	base uint64
	data []byte
}

func (s *segment) end() uint64 { return s.base + uint64(len(s.data)) }

// NewImage returns an empty address space with the given pointer width.
func NewImage(is64Bit bool) *Image {
	return &Image{is64: is64Bit}
}

// Map adds a segment holding a copy of data at base.
// It fails if the new segment overlaps an existing one.
func (m *Image) Map(base uint64, data []byte) error {
	seg := segment{base: base, data: append([]byte(nil), data...)}

	i := sort.Search(len(m.segments), func(i int) bool {
		return m.segments[i].base >= base
	})
	if i > 0 && m.segments[i-1].end() > base {
		return fmt.Errorf("remote: segment at 0x%x overlaps %s", base, m.segments[i-1].region())
	}
	if i < len(m.segments) && seg.end() > m.segments[i].base {
		return fmt.Errorf("remote: segment at 0x%x overlaps %s", base, m.segments[i].region())
	}

	m.segments = append(m.segments, segment{})
	copy(m.segments[i+1:], m.segments[i:])
	m.segments[i] = seg
	return nil
}

// Write copies data into already mapped memory at addr.
func (m *Image) Write(addr uint64, data []byte) error {
	seg := m.find(addr, len(data))
	if seg == nil {
		return &ReadError{Addr: addr, Size: len(data), Err: ErrUnmapped}
	}
	copy(seg.data[addr-seg.base:], data)
	return nil
}

// ReadMemory implements Reader.
func (m *Image) ReadMemory(addr uint64, size int) ([]byte, error) {
	if size < 0 {
		return nil, &ReadError{Addr: addr, Size: size, Err: ErrShortRead}
	}
	seg := m.find(addr, size)
	if seg == nil {
		return nil, &ReadError{Addr: addr, Size: size, Err: ErrUnmapped}
	}
	off := addr - seg.base
	return append([]byte(nil), seg.data[off:off+uint64(size)]...), nil
}

// Is64Bit implements Reader.
func (m *Image) Is64Bit() bool { return m.is64 }

// Regions returns every mapped segment in ascending address order.
func (m *Image) Regions() []Region {
	regions := make([]Region, len(m.segments))
	for i := range m.segments {
		regions[i] = m.segments[i].region()
	}
	return regions
}

// Scan implements Process.
func (m *Image) Scan(p *Pattern) ([]uint64, error) {
	return scanRegions(m, m.Regions(), p)
}

// Close implements Process. It is a no-op.
func (m *Image) Close() error { return nil }

func (m *Image) find(addr uint64, size int) *segment {
	i := sort.Search(len(m.segments), func(i int) bool {
		return m.segments[i].end() > addr
	})
	if i == len(m.segments) {
		return nil
	}
	seg := &m.segments[i]
	if addr < seg.base || addr+uint64(size) > seg.end() {
		return nil
	}
	return seg
}

func (s *segment) region() Region {
	return Region{Base: s.base, Size: uint64(len(s.data))}
}
