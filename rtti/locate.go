package rtti

import (
	"fmt"

	"github.com/skdltmxn/wiztype/internal/logflags"
	"github.com/skdltmxn/wiztype/memview"
	"github.com/skdltmxn/wiztype/remote"
)

// Location records each address resolved on the way to the registry root.
type Location struct {
	Match uint64 // First signature match
	Call  uint64 // Registry accessor called from the match
	Slot  uint64 // Static variable loaded by the accessor's lea
	Tree  uint64 // Pointer stored in Slot
	Root  uint64 // Root hash node
}

// Locate finds the registry root in p.
//
// The first signature match is taken as-is; nothing checks that the address
// it leads to is really a tree node.
func Locate(p remote.Process, opts Options) (*Location, error) {
	log := logflags.LocatorLogger()

	sig, err := remote.ParsePattern(opts.Signature)
	if err != nil {
		return nil, err
	}

	matches, err := p.Scan(sig)
	if err != nil {
		return nil, fmt.Errorf("rtti: signature scan failed: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSignatureNotFound, sig)
	}
	if len(matches) > 1 {
		log.Debugf("%d signature matches, using the first", len(matches))
	}

	loc := &Location{Match: matches[0]}

	// call rel32
	callDisp, err := remote.ReadI32(p, loc.Match+uint64(opts.CallDispOffset))
	if err != nil {
		return nil, fmt.Errorf("rtti: failed to read call displacement: %w", err)
	}
	loc.Call = relative(loc.Match, int64(callDisp), opts.CallLength)

	// rip-relative load of the registry variable inside the accessor
	lea := relative(loc.Call, opts.LeaOffset, 0)
	leaDisp, err := remote.ReadI32(p, lea+uint64(opts.LeaDispOffset))
	if err != nil {
		return nil, fmt.Errorf("rtti: failed to read lea displacement: %w", err)
	}
	loc.Slot = relative(lea, int64(leaDisp), opts.LeaLength)

	if loc.Tree, err = remote.ReadPointer(p, loc.Slot); err != nil {
		return nil, fmt.Errorf("rtti: failed to read tree pointer: %w", err)
	}
	if loc.Root, err = remote.ReadPointer(p, loc.Tree); err != nil {
		return nil, fmt.Errorf("rtti: failed to read root node: %w", err)
	}

	log.Debugf("match=0x%x call=0x%x slot=0x%x root=0x%x", loc.Match, loc.Call, loc.Slot, loc.Root)
	return loc, nil
}

// RootNode returns the root hash node at loc.
func (loc *Location) RootNode(ctx *memview.Context) *HashNode {
	return NewHashNode(ctx, loc.Root)
}

// relative resolves a rip-relative target: the displacement is relative to
// the end of the instruction at addr.
func relative(addr uint64, disp, length int64) uint64 {
	return uint64(int64(addr) + disp + length)
}
