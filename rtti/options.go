package rtti

import (
	"fmt"
	"strings"

	"github.com/skdltmxn/wiztype/memview"
	"github.com/skdltmxn/wiztype/remote"
)

// DefaultSignature precedes the call into the registry accessor:
//
//	call  <accessor>
//	cmp   rbx, [rax]
//	je    +0x12
const DefaultSignature = "E8 ?? ?? ?? ?? 48 3B 18 74 12"

// Options controls how the registry is located and decoded.
type Options struct {
	// Signature is the byte pattern of the call site, see remote.ParsePattern.
	Signature string

	// CallDispOffset is the offset of the call displacement within the match.
	CallDispOffset int64
	// CallLength is the encoded length of the call instruction.
	CallLength int64
	// LeaOffset is the offset of the lea instruction within the accessor.
	LeaOffset int64
	// LeaDispOffset is the offset of the displacement within the lea.
	LeaDispOffset int64
	// LeaLength is the encoded length of the lea instruction.
	LeaLength int64

	// Payload selects which nodes of the tree carry type descriptors.
	Payload PayloadNodes

	// Encoding names the text encoding of registry strings.
	Encoding string
	// MaxVector is the element ceiling for dynamic arrays.
	MaxVector int
}

// DefaultOptions returns the settings for the current client build.
func DefaultOptions() Options {
	return Options{
		Signature:      DefaultSignature,
		CallDispOffset: 1,
		CallLength:     5,
		LeaOffset:      50,
		LeaDispOffset:  3,
		LeaLength:      7,
		Encoding:       "utf-8",
		MaxVector:      memview.DefaultMaxVector,
	}
}

// NewContext builds the decoding context for mem.
func (o Options) NewContext(mem remote.Reader) (*memview.Context, error) {
	ctx := memview.NewContext(mem, Types)
	ctx.MaxVector = o.MaxVector

	if o.Encoding != "" {
		text, err := memview.NewTextDecoder(o.Encoding)
		if err != nil {
			return nil, fmt.Errorf("rtti: %w", err)
		}
		ctx.Text = text
	}
	return ctx, nil
}

// PayloadNodes selects which registry nodes carry type descriptors.
type PayloadNodes int

const (
	// LeafPayload takes the nodes with the leaf flag set.
	LeafPayload PayloadNodes = iota
	// InternalPayload takes the nodes with the leaf flag clear, for trees
	// where the flag marks the sentinel head instead.
	InternalPayload
)

// ParsePayloadNodes parses "leaf" or "internal".
func ParsePayloadNodes(s string) (PayloadNodes, error) {
	switch strings.ToLower(s) {
	case "", "leaf":
		return LeafPayload, nil
	case "internal":
		return InternalPayload, nil
	}
	return 0, fmt.Errorf("rtti: unknown payload node kind %q", s)
}

func (p PayloadNodes) String() string {
	if p == InternalPayload {
		return "internal"
	}
	return "leaf"
}

func (p PayloadNodes) carries(n *HashNode) (bool, error) {
	leaf, err := n.IsLeaf()
	if err != nil {
		return false, err
	}
	return leaf == (p == LeafPayload), nil
}
