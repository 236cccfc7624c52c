package memview

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// TextDecoder turns raw string bytes into Go strings using a named encoding.
type TextDecoder struct {
	name string
	enc  encoding.Encoding
}

// NewTextDecoder looks up an encoding by its WHATWG name or label,
// for example "utf-8", "windows-1252" or "shift_jis".
func NewTextDecoder(name string) (*TextDecoder, error) {
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("memview: unknown text encoding %q: %w", name, err)
	}
	canonical, err := htmlindex.Name(enc)
	if err != nil {
		canonical = name
	}
	return &TextDecoder{name: canonical, enc: enc}, nil
}

// Name returns the canonical encoding name.
func (d *TextDecoder) Name() string {
	if d == nil {
		return "utf-8"
	}
	return d.name
}

// Decode converts b. It reports false if b is not valid in the encoding.
// UTF-8 is checked strictly instead of substituting U+FFFD.
func (d *TextDecoder) Decode(b []byte) (string, bool) {
	if d == nil || d.enc == unicode.UTF8 {
		if !utf8.Valid(b) {
			return "", false
		}
		return string(b), true
	}

	out, err := d.enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", false
	}
	return string(out), true
}
