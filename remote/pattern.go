package remote

import (
	"fmt"
	"strconv"
	"strings"
)

// Pattern is a byte signature in which some positions match any byte.
type Pattern struct {
	text  string
	bytes []byte
	mask  []bool // true where the byte must match exactly
}

// ParsePattern parses a space separated hex signature such as
// "E8 ?? ?? ?? ?? 48 3B 18". A token of "?" or "??" is a wildcard.
func ParsePattern(s string) (*Pattern, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty pattern", ErrInvalidPattern)
	}

	p := &Pattern{
		text:  strings.Join(fields, " "),
		bytes: make([]byte, len(fields)),
		mask:  make([]bool, len(fields)),
	}

	for i, tok := range fields {
		if tok == "?" || tok == "??" {
			continue
		}
		v, err := strconv.ParseUint(tok, 16, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: token %d %q", ErrInvalidPattern, i, tok)
		}
		p.bytes[i] = byte(v)
		p.mask[i] = true
	}

	if !p.mask[0] {
		return nil, fmt.Errorf("%w: leading wildcard", ErrInvalidPattern)
	}

	return p, nil
}

// MustParsePattern is like ParsePattern but panics on error.
func MustParsePattern(s string) *Pattern {
	p, err := ParsePattern(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Len returns the number of bytes the pattern spans.
func (p *Pattern) Len() int { return len(p.bytes) }

func (p *Pattern) String() string { return p.text }

// Match returns the offset of every match of p within buf.
func (p *Pattern) Match(buf []byte) []int {
	var offsets []int
	first := p.bytes[0]

	for i := 0; i+len(p.bytes) <= len(buf); i++ {
		if buf[i] != first {
			continue
		}
		if p.matchAt(buf, i) {
			offsets = append(offsets, i)
		}
	}
	return offsets
}

func (p *Pattern) matchAt(buf []byte, i int) bool {
	for j, b := range p.bytes {
		if p.mask[j] && buf[i+j] != b {
			return false
		}
	}
	return true
}
